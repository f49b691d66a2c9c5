package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary 创建测验
// @Tags 测验评估
// @Accept json
// @Produce json
// @Param body body service.CreateAssessmentRequest true "测验信息（含答案）"
// @Success 201 {object} util.Response{data=service.AssessmentView}
// @Failure 400 {object} util.Response
// @Router /assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	var req service.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, service.NewAssessmentView(a))
}

// @Summary 测验列表
// @Tags 测验评估
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	subjectID := util.MustParseUint(ctx.Query("subjectId"))

	list, total, err := c.Service.List(subjectID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 测验详情
// @Description 不返回答案
// @Tags 测验评估
// @Produce json
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.AssessmentView}
// @Failure 404 {object} util.Response
// @Router /assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.Service.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 提交测验
// @Description 评分、生成 AI 反馈、保存结果，并在关联路径时更新对应进度
// @Tags 测验评估
// @Accept json
// @Produce json
// @Param id path int true "测验ID"
// @Param body body service.SubmitAssessmentRequest true "作答"
// @Success 201 {object} util.Response{data=service.SubmissionResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /assessments/{id}/submit [post]
func (c *AssessmentController) Submit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.Submit(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// @Summary 学生测验结果
// @Tags 测验评估
// @Produce json
// @Param id path int true "学生ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /students/{id}/results [get]
func (c *AssessmentController) ListResults(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, limit := pagination(ctx)

	results, total, err := c.Service.ListResults(studentID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, results, total, page, limit)
}
