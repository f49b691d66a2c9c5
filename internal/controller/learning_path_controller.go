package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// @Summary 创建学习路径
// @Description 生成个性化目标，按顺序分配内容并为每个内容建立未开始的进度记录
// @Tags 学习路径
// @Accept json
// @Produce json
// @Param body body service.CreateLearningPathRequest true "路径信息"
// @Success 201 {object} util.Response{data=service.LearningPathResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /learning-paths [post]
func (c *LearningPathController) Create(ctx *gin.Context) {
	var req service.CreateLearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

// @Summary 学习路径详情
// @Tags 学习路径
// @Produce json
// @Param id path int true "路径ID"
// @Success 200 {object} util.Response{data=service.LearningPathResponse}
// @Failure 404 {object} util.Response
// @Router /learning-paths/{id} [get]
func (c *LearningPathController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	path, err := c.Service.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// @Summary 学习路径列表
// @Tags 学习路径
// @Produce json
// @Param studentId query int false "学生ID"
// @Param subjectId query int false "学科ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /learning-paths [get]
func (c *LearningPathController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	studentID := util.MustParseUint(ctx.Query("studentId"))
	subjectID := util.MustParseUint(ctx.Query("subjectId"))

	paths, total, err := c.Service.List(studentID, subjectID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, paths, total, page, limit)
}
