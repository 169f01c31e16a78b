package controller

import (
	"errors"

	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

// respondError 领域哨兵错误映射为404，其余一律500并记日志
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrSemesterNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound),
		errors.Is(err, util.ErrPerformanceNotFound),
		errors.Is(err, util.ErrRiskRecordNotFound),
		errors.Is(err, util.ErrNotificationNotFound):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// analyticsKey 解析 学生/课程/学期 三元组路径参数
func analyticsKey(ctx *gin.Context) (studentID, courseID, semesterID uint, ok bool) {
	studentID = util.MustParseUint(ctx.Param("studentId"))
	courseID = util.MustParseUint(ctx.Param("courseId"))
	semesterID = util.MustParseUint(ctx.Param("semesterId"))
	if studentID == 0 || courseID == 0 || semesterID == 0 {
		util.BadRequest(ctx, "studentId, courseId and semesterId are required")
		return 0, 0, 0, false
	}
	return studentID, courseID, semesterID, true
}

// classKey 解析 课程/学期 二元组路径参数
func classKey(ctx *gin.Context) (courseID, semesterID uint, ok bool) {
	courseID = util.MustParseUint(ctx.Param("courseId"))
	semesterID = util.MustParseUint(ctx.Param("semesterId"))
	if courseID == 0 || semesterID == 0 {
		util.BadRequest(ctx, "courseId and semesterId are required")
		return 0, 0, false
	}
	return courseID, semesterID, true
}
