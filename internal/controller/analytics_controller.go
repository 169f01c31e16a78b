package controller

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Performance *service.PerformanceService
	Class       *service.ClassAnalyticsService
	Attendance  *service.AttendanceService
	Grades      *service.GradeService
}

func NewAnalyticsController(
	performance *service.PerformanceService,
	class *service.ClassAnalyticsService,
	attendance *service.AttendanceService,
	grades *service.GradeService,
) *AnalyticsController {
	return &AnalyticsController{
		Performance: performance,
		Class:       class,
		Attendance:  attendance,
		Grades:      grades,
	}
}

// @Summary 重算学生综合表现
// @Description 聚合出勤/作业/测验并重算综合得分，同键记录原地更新
// @Tags 分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.PerformanceRecord}
// @Router /api/analytics/performance/{studentId}/courses/{courseId}/semesters/{semesterId} [post]
func (c *AnalyticsController) ScoreStudent(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	record, err := c.Performance.ScoreStudent(studentID, courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 查询学生综合表现
// @Description 读取已计算的综合表现记录，不触发重算
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.PerformanceRecord}
// @Router /api/analytics/performance/{studentId}/courses/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetStudentPerformance(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	// 学生只能看自己的
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if user.Role == model.Student && user.UserID != studentID {
		util.Forbidden(ctx)
		return
	}

	record, err := c.Performance.GetByStudent(studentID, courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 班级整体分析
// @Description 逐个学生打分并汇总班级分布，结果短时缓存
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.ClassAnalysis}
// @Router /api/analytics/classes/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetClassAnalysis(ctx *gin.Context) {
	courseID, semesterID, ok := classKey(ctx)
	if !ok {
		return
	}

	analysis, err := c.Class.AnalyzeClass(courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, analysis)
}

// @Summary 学生出勤统计
// @Description 线下按去重日期计课次，线上按已开课次数计
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.AttendanceStats}
// @Router /api/analytics/attendance/{studentId}/courses/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetStudentAttendance(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	stats, err := c.Attendance.StudentStats(studentID, courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 课程出勤统计
// @Description 全班出勤率，分母为在读人数乘以课次
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.AttendanceStats}
// @Router /api/analytics/attendance/courses/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetCourseAttendance(ctx *gin.Context) {
	courseID, semesterID, ok := classKey(ctx)
	if !ok {
		return
	}

	stats, err := c.Attendance.CourseStats(courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 学生作业表现
// @Description 只统计已批改的提交，逐项明细加汇总均分
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.AssignmentPerformance}
// @Router /api/analytics/assignments/{studentId}/courses/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetAssignmentPerformance(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	performance, err := c.Grades.AssignmentPerformance(studentID, courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, performance)
}

// @Summary 学生测验表现
// @Description 只统计已计分的作答，逐项明细加汇总均分
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Success 200 {object} util.Response{data=model.QuizPerformance}
// @Router /api/analytics/quizzes/{studentId}/courses/{courseId}/semesters/{semesterId} [get]
func (c *AnalyticsController) GetQuizPerformance(ctx *gin.Context) {
	studentID, courseID, semesterID, ok := analyticsKey(ctx)
	if !ok {
		return
	}

	performance, err := c.Grades.QuizPerformance(studentID, courseID, semesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, performance)
}
