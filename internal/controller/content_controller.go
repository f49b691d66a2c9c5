package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 学科列表
// @Tags 学科与内容
// @Produce json
// @Success 200 {object} util.Response
// @Router /subjects [get]
func (c *ContentController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.ContentService.ListSubjects()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 学科详情
// @Tags 学科与内容
// @Produce json
// @Param id path int true "学科ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /subjects/{id} [get]
func (c *ContentController) GetSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	subject, err := c.ContentService.GetSubject(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 创建学习内容
// @Tags 学科与内容
// @Accept json
// @Produce json
// @Param body body service.CreateContentRequest true "内容信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /contents [post]
func (c *ContentController) Create(ctx *gin.Context) {
	var req service.CreateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.ContentService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// @Summary 内容详情
// @Tags 学科与内容
// @Produce json
// @Param id path int true "内容ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /contents/{id} [get]
func (c *ContentController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	content, err := c.ContentService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// @Summary 内容列表
// @Tags 学科与内容
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Param contentType query string false "内容类型"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /contents [get]
func (c *ContentController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	subjectID := util.MustParseUint(ctx.Query("subjectId"))

	contents, total, err := c.ContentService.List(subjectID, ctx.Query("difficulty"), ctx.Query("contentType"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, contents, total, page, limit)
}

// @Summary 上传内容附件
// @Description 支持 PDF、图片、文本和视频，视频会自动读取时长
// @Tags 学科与内容
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "内容ID"
// @Param file formData file true "附件"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /contents/{id}/attachments [post]
func (c *ContentController) UploadAttachment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if file.Size > util.MaxAttachmentSize {
		util.BadRequest(ctx, "File too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	content, err := c.ContentService.UploadAttachment(ctx.Request.Context(), id, file.Filename, src)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}
