package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorController struct {
	Service *service.MentorService
}

func NewMentorController(svc *service.MentorService) *MentorController {
	return &MentorController{Service: svc}
}

// @Summary 向 AI 导师提问
// @Description 模型不可用时返回兜底回复，仍然记录会话
// @Tags AI导师
// @Accept json
// @Produce json
// @Param body body service.ChatRequest true "问题"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /mentor/chat [post]
func (c *MentorController) Chat(ctx *gin.Context) {
	var req service.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Chat(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 导师会话记录
// @Tags AI导师
// @Produce json
// @Param id path int true "学生ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /students/{id}/mentor-sessions [get]
func (c *MentorController) ListSessions(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, limit := pagination(ctx)

	sessions, total, err := c.Service.ListSessions(studentID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, sessions, total, page, limit)
}

// @Summary 评价导师回复
// @Tags AI导师
// @Accept json
// @Produce json
// @Param id path int true "会话ID"
// @Param body body service.RateSessionRequest true "评价"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /mentor/sessions/{id}/rating [put]
func (c *MentorController) RateSession(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.RateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.RateSession(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}
