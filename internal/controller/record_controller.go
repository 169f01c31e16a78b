package controller

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type RecordController struct {
	Records *service.RecordService
}

func NewRecordController(records *service.RecordService) *RecordController {
	return &RecordController{Records: records}
}

// @Summary 录入点名记录
// @Description 每名学生每次课一条，日期格式 YYYY-MM-DD
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AttendanceRequest true "点名记录"
// @Success 201 {object} util.Response{data=model.AttendanceRecord}
// @Router /api/records/attendance [post]
func (c *RecordController) RecordAttendance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Records.RecordAttendance(req, user.UserID)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, record)
}

// @Summary 学生点名明细
// @Tags 记录采集
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=[]model.AttendanceRecord}
// @Router /api/records/attendance/{studentId}/courses/{courseId}/semesters/{semesterId} [get]
func (c *RecordController) ListStudentAttendance(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	records, err := c.Records.ListStudentAttendance(studentID, courseID, semesterID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// @Summary 排线上课
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.VirtualClassRequest true "线上课信息"
// @Success 201 {object} util.Response{data=model.VirtualClass}
// @Router /api/records/virtual-classes [post]
func (c *RecordController) ScheduleVirtualClass(ctx *gin.Context) {
	var req service.VirtualClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	vc, err := c.Records.ScheduleVirtualClass(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, vc)
}

type virtualStatusRequest struct {
	Status model.VirtualClassStatus `json:"status" binding:"required"`
}

// @Summary 更新线上课状态
// @Description 只有 completed/in_progress 的课计入出勤分母
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "线上课ID"
// @Param body body virtualStatusRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/records/virtual-classes/{id}/status [put]
func (c *RecordController) UpdateVirtualClassStatus(ctx *gin.Context) {
	var req virtualStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Records.UpdateVirtualClassStatus(util.MustParseUint(ctx.Param("id")), req.Status); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"message": "Virtual class status updated"})
}

// @Summary 录入线上课出勤
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.VirtualAttendanceRequest true "线上出勤记录"
// @Success 201 {object} util.Response{data=model.VirtualAttendanceRecord}
// @Router /api/records/virtual-attendance [post]
func (c *RecordController) RecordVirtualAttendance(ctx *gin.Context) {
	var req service.VirtualAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Records.RecordVirtualAttendance(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, record)
}

// @Summary 提交作业
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmissionRequest true "提交信息"
// @Success 201 {object} util.Response{data=model.AssessmentSubmission}
// @Router /api/records/submissions [post]
func (c *RecordController) SubmitAssessment(ctx *gin.Context) {
	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Records.SubmitAssessment(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, submission)
}

// @Summary 批改作业
// @Description 批改后该提交才计入作业聚合
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "提交ID"
// @Param body body service.GradeRequest true "分数与评语"
// @Success 200 {object} util.Response
// @Router /api/records/submissions/{id}/grade [put]
func (c *RecordController) GradeSubmission(ctx *gin.Context) {
	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Records.GradeSubmission(util.MustParseUint(ctx.Param("id")), req); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Submission graded"})
}

// @Summary 开始测验作答
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AttemptRequest true "作答信息"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Router /api/records/quiz-attempts [post]
func (c *RecordController) StartQuizAttempt(ctx *gin.Context) {
	var req service.AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Records.StartQuizAttempt(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, attempt)
}

// @Summary 完成测验作答
// @Description 计分后该作答才计入测验聚合
// @Tags 记录采集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "作答ID"
// @Param body body service.CompleteAttemptRequest true "得分"
// @Success 200 {object} util.Response
// @Router /api/records/quiz-attempts/{id}/complete [put]
func (c *RecordController) CompleteQuizAttempt(ctx *gin.Context) {
	var req service.CompleteAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Records.CompleteQuizAttempt(util.MustParseUint(ctx.Param("id")), req); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz attempt completed"})
}
