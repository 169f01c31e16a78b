package controller

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type RiskController struct {
	Risk *service.RiskService
}

func NewRiskController(risk *service.RiskService) *RiskController {
	return &RiskController{Risk: risk}
}

// @Summary 识别班级风险学生
// @Description 扫描全班并维护风险记录，单个学生失败跳过不中断
// @Tags 风险
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Param semesterId path int true "学期ID"
// @Param body body service.RiskThresholds false "阈值覆盖，缺省用配置默认"
// @Success 200 {object} util.Response{data=[]model.AtRiskRecord}
// @Router /api/risk/identify/{courseId}/semesters/{semesterId} [post]
func (c *RiskController) Identify(ctx *gin.Context) {
	courseID, semesterID, ok := classKey(ctx)
	if !ok {
		return
	}

	var thresholds service.RiskThresholds
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&thresholds); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	records, err := c.Risk.IdentifyAtRiskStudents(courseID, semesterID, thresholds)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// @Summary 风险记录列表
// @Description 按学生/课程/学期/等级/解除状态过滤，分页返回
// @Tags 风险
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "学生ID"
// @Param courseId query int false "课程ID"
// @Param semesterId query int false "学期ID"
// @Param riskLevel query string false "风险等级" Enums(low, medium, high, critical)
// @Param resolved query bool false "是否已解除"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/risk [get]
func (c *RiskController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))

	filters := repository.RiskFilters{
		StudentID:  util.MustParseUint(ctx.Query("studentId")),
		CourseID:   util.MustParseUint(ctx.Query("courseId")),
		SemesterID: util.MustParseUint(ctx.Query("semesterId")),
		RiskLevel:  model.RiskLevel(ctx.Query("riskLevel")),
	}
	if resolvedStr := ctx.Query("resolved"); resolvedStr != "" {
		resolved := resolvedStr == "true"
		filters.Resolved = &resolved
	}

	records, total, err := c.Risk.ListRecords(filters, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: page, Limit: limit})
}

// @Summary 查询单条风险记录
// @Tags 风险
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response{data=model.AtRiskRecord}
// @Router /api/risk/{id} [get]
func (c *RiskController) Get(ctx *gin.Context) {
	record, err := c.Risk.GetRecord(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

// @Summary 解除风险标记
// @Description 单向操作，重复解除按无操作处理
// @Tags 风险
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Param body body resolveRequest false "解除备注"
// @Success 200 {object} util.Response{data=model.AtRiskRecord}
// @Router /api/risk/{id}/resolve [post]
func (c *RiskController) Resolve(ctx *gin.Context) {
	var req resolveRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	record, err := c.Risk.ResolveRiskRecord(ctx.Param("id"), req.Notes)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 修正风险记录
// @Description 只允许改建议动作和备注，分数等级必须走重新识别
// @Tags 风险
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Param body body service.UpdateRiskRequest true "可改字段"
// @Success 200 {object} util.Response{data=model.AtRiskRecord}
// @Router /api/risk/{id} [put]
func (c *RiskController) Update(ctx *gin.Context) {
	var req service.UpdateRiskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Risk.UpdateRecord(ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 删除风险记录
// @Tags 风险
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Router /api/risk/{id} [delete]
func (c *RiskController) Delete(ctx *gin.Context) {
	if err := c.Risk.DeleteRecord(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Risk record deleted"})
}
