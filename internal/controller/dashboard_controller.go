package controller

import (
	"lxp_backend/internal/service"
	"lxp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 学生仪表盘
// @Description 在学路径及完成度、最近进度、最近测验和汇总统计
// @Tags 仪表盘
// @Produce json
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDashboard}
// @Failure 404 {object} util.Response
// @Router /dashboard/students/{id} [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	dashboard, err := c.DashboardService.Student(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// @Summary 教师仪表盘
// @Description 全部路径、待复习的进度和最近测验结果
// @Tags 仪表盘
// @Produce json
// @Param subjectId query int false "学科ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=service.EducatorDashboard}
// @Router /dashboard/educator [get]
func (c *DashboardController) Educator(ctx *gin.Context) {
	page, limit := pagination(ctx)
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	dashboard, err := c.DashboardService.Educator(subjectID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
