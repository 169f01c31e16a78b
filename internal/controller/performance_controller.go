package controller

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type PerformanceController struct {
	Performance *service.PerformanceService
}

func NewPerformanceController(performance *service.PerformanceService) *PerformanceController {
	return &PerformanceController{Performance: performance}
}

// @Summary 综合表现记录列表
// @Description 按学生/课程/学期/档次过滤，分页返回
// @Tags 综合表现
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "学生ID"
// @Param courseId query int false "课程ID"
// @Param semesterId query int false "学期ID"
// @Param category query string false "表现档次" Enums(excellent, good, average, below_average, poor)
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/performance [get]
func (c *PerformanceController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))

	filters := repository.PerformanceFilters{
		StudentID:  util.MustParseUint(ctx.Query("studentId")),
		CourseID:   util.MustParseUint(ctx.Query("courseId")),
		SemesterID: util.MustParseUint(ctx.Query("semesterId")),
		Category:   model.PerformanceCategory(ctx.Query("category")),
	}

	records, total, err := c.Performance.ListRecords(filters, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: page, Limit: limit})
}

// @Summary 查询单条综合表现记录
// @Tags 综合表现
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response{data=model.PerformanceRecord}
// @Router /api/performance/{id} [get]
func (c *PerformanceController) Get(ctx *gin.Context) {
	record, err := c.Performance.GetRecord(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 修正叙述字段
// @Description 只允许改强项/弱项/建议，数值字段必须走重算接口
// @Tags 综合表现
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Param body body service.UpdateNarrativeRequest true "叙述字段"
// @Success 200 {object} util.Response{data=model.PerformanceRecord}
// @Router /api/performance/{id} [put]
func (c *PerformanceController) Update(ctx *gin.Context) {
	var req service.UpdateNarrativeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Performance.UpdateRecord(ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 删除综合表现记录
// @Tags 综合表现
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Router /api/performance/{id} [delete]
func (c *PerformanceController) Delete(ctx *gin.Context) {
	if err := c.Performance.DeleteRecord(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Performance record deleted"})
}
