package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	Service *service.StudentService
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Service: svc}
}

// @Summary 创建学生
// @Tags 学生
// @Accept json
// @Produce json
// @Param body body service.CreateStudentRequest true "学生信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req service.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.Service.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// @Summary 学生详情
// @Tags 学生
// @Produce json
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	student, err := c.Service.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// @Summary 学生列表
// @Tags 学生
// @Produce json
// @Param gradeLevel query int false "年级"
// @Param active query bool false "只看在读学生"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	grade, _ := strconv.Atoi(ctx.Query("gradeLevel"))
	activeOnly := ctx.Query("active") == "true"

	students, total, err := c.Service.List(grade, activeOnly, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, students, total, page, limit)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// @Summary 启用/停用学生
// @Tags 学生
// @Accept json
// @Produce json
// @Param id path int true "学生ID"
// @Param body body setActiveRequest true "状态"
// @Success 200 {object} util.Response
// @Router /students/{id}/active [put]
func (c *StudentController) SetActive(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	student, err := c.Service.SetActive(id, *req.IsActive)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, student)
}
