package controller

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type AcademicController struct {
	Academic *service.AcademicService
}

func NewAcademicController(academic *service.AcademicService) *AcademicController {
	return &AcademicController{Academic: academic}
}

// @Summary 创建课程
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (c *AcademicController) CreateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Academic.CreateCourse(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 课程列表
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param programId query int false "专业ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *AcademicController) ListCourses(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	programID := util.MustParseUint(ctx.Query("programId"))

	courses, total, err := c.Academic.ListCourses(programID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary 查询课程
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [get]
func (c *AcademicController) GetCourse(ctx *gin.Context) {
	course, err := c.Academic.GetCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 更新课程
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *AcademicController) UpdateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Academic.UpdateCourse(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 删除课程
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *AcademicController) DeleteCourse(ctx *gin.Context) {
	if err := c.Academic.DeleteCourse(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Course deleted"})
}

// @Summary 创建学期
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SemesterRequest true "学期信息"
// @Success 201 {object} util.Response{data=model.Semester}
// @Router /api/semesters [post]
func (c *AcademicController) CreateSemester(ctx *gin.Context) {
	var req service.SemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	semester, err := c.Academic.CreateSemester(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, semester)
}

// @Summary 学期列表
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Semester}
// @Router /api/semesters [get]
func (c *AcademicController) ListSemesters(ctx *gin.Context) {
	semesters, err := c.Academic.ListSemesters()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, semesters)
}

// @Summary 当前学期
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Semester}
// @Router /api/semesters/active [get]
func (c *AcademicController) GetActiveSemester(ctx *gin.Context) {
	semester, err := c.Academic.GetActiveSemester()
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, semester)
}

// @Summary 更新学期
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学期ID"
// @Param body body service.SemesterRequest true "学期信息"
// @Success 200 {object} util.Response{data=model.Semester}
// @Router /api/semesters/{id} [put]
func (c *AcademicController) UpdateSemester(ctx *gin.Context) {
	var req service.SemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	semester, err := c.Academic.UpdateSemester(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, semester)
}

// @Summary 删除学期
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param id path int true "学期ID"
// @Success 200 {object} util.Response
// @Router /api/semesters/{id} [delete]
func (c *AcademicController) DeleteSemester(ctx *gin.Context) {
	if err := c.Academic.DeleteSemester(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Semester deleted"})
}

// @Summary 学生选课
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EnrollRequest true "选课信息"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments [post]
func (c *AcademicController) Enroll(ctx *gin.Context) {
	var req service.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.Academic.EnrollStudent(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary 班级在读名单
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/courses/{courseId}/semesters/{semesterId} [get]
func (c *AcademicController) ListEnrollments(ctx *gin.Context) {
	courseID, semesterID, ok := classKey(ctx)
	if !ok {
		return
	}

	enrollments, err := c.Academic.ListEnrollments(courseID, semesterID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

// @Summary 我的选课
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param semesterId query int false "学期ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/mine [get]
func (c *AcademicController) MyEnrollments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	semesterID := util.MustParseUint(ctx.Query("semesterId"))
	enrollments, err := c.Academic.ListStudentEnrollments(user.UserID, semesterID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

type enrollmentStatusRequest struct {
	Status model.EnrollmentStatus `json:"status" binding:"required"`
}

// @Summary 更新选课状态
// @Tags 教务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "选课ID"
// @Param body body enrollmentStatusRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/enrollments/{id}/status [put]
func (c *AcademicController) UpdateEnrollmentStatus(ctx *gin.Context) {
	var req enrollmentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Academic.UpdateEnrollmentStatus(util.MustParseUint(ctx.Param("id")), req.Status); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Enrollment status updated"})
}

// @Summary 删除选课
// @Tags 教务
// @Produce json
// @Security BearerAuth
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response
// @Router /api/enrollments/{id} [delete]
func (c *AcademicController) DeleteEnrollment(ctx *gin.Context) {
	if err := c.Academic.DeleteEnrollment(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Enrollment deleted"})
}
