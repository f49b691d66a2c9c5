package controller

import (
	"lxp_backend/internal/model"
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary 进度列表
// @Tags 学习进度
// @Produce json
// @Param studentId query int false "学生ID"
// @Param learningPathId query int false "路径ID"
// @Param status query string false "状态" Enums(not_started, in_progress, completed, needs_review)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	studentID := util.MustParseUint(ctx.Query("studentId"))
	learningPathID := util.MustParseUint(ctx.Query("learningPathId"))
	status := model.ProgressStatus(ctx.Query("status"))

	rows, total, err := c.Service.List(studentID, learningPathID, status, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, rows, total, page, limit)
}

// @Summary 进度详情
// @Tags 学习进度
// @Produce json
// @Param id path int true "进度ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /progress/{id} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	p, err := c.Service.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 手动更新进度
// @Description 只修改请求中出现的字段，状态变更需符合状态机
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param id path int true "进度ID"
// @Param body body service.ProgressUpdate true "要修改的字段"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /progress/{id} [put]
func (c *ProgressController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ProgressUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.Service.ApplyManualUpdate(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, p)
}
