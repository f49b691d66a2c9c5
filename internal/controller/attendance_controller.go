package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	Service *service.AttendanceService
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{Service: svc}
}

// @Summary 出勤记录列表
// @Tags 出勤
// @Produce json
// @Param studentId query int false "学生ID"
// @Param dateFrom query string false "起始日期 YYYY-MM-DD"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 400 {object} util.Response
// @Router /attendance [get]
func (c *AttendanceController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	studentID := util.MustParseUint(ctx.Query("studentId"))

	rows, total, err := c.Service.List(studentID, ctx.Query("dateFrom"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, rows, total, page, limit)
}

// @Summary 登记出勤
// @Description 同一学生同一天重复登记会覆盖原记录
// @Tags 出勤
// @Accept json
// @Produce json
// @Param body body service.RecordAttendanceRequest true "出勤信息"
// @Success 200 {object} util.Response{data=model.Attendance}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /attendance [post]
func (c *AttendanceController) Record(ctx *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.Service.Record(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, a)
}
