package app

import (
	"lxp_backend/docs"
	"lxp_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api/v1")
	api.GET("/health", c.health.HealthCheck)

	a.registerCatalogRoutes(api, c)
	a.registerStudentRoutes(api, c)
	a.registerLearningRoutes(api, c)
	a.registerMentorRoutes(api, c)
	a.registerDashboardRoutes(api, c)
}

// 学科、内容、测验
func (a *App) registerCatalogRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/subjects", c.content.ListSubjects)
	rg.GET("/subjects/:id", c.content.GetSubject)

	contents := rg.Group("/contents")
	{
		contents.GET("", c.content.List)
		contents.POST("", c.content.Create)
		contents.GET("/:id", c.content.Get)
		contents.POST("/:id/attachments", c.content.UploadAttachment)
	}

	assessments := rg.Group("/assessments")
	{
		assessments.GET("", c.assessment.List)
		assessments.POST("", c.assessment.Create)
		assessments.GET("/:id", c.assessment.Get)
		assessments.POST("/:id/submit", c.assessment.Submit)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	students := rg.Group("/students")
	{
		students.GET("", c.student.List)
		students.POST("", c.student.Create)
		students.GET("/:id", c.student.Get)
		students.PUT("/:id/active", c.student.SetActive)
		students.GET("/:id/results", c.assessment.ListResults)
		students.GET("/:id/mentor-sessions", c.mentor.ListSessions)
	}

	attendance := rg.Group("/attendance")
	{
		attendance.GET("", c.attendance.List)
		attendance.POST("", c.attendance.Record)
	}
}

// 学习路径与进度
func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	paths := rg.Group("/learning-paths")
	{
		paths.GET("", c.learningPath.List)
		paths.POST("", c.learningPath.Create)
		paths.GET("/:id", c.learningPath.Get)
	}

	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.List)
		progress.GET("/:id", c.progress.Get)
		progress.PUT("/:id", c.progress.Update)
	}
}

func (a *App) registerMentorRoutes(rg *gin.RouterGroup, c *controllers) {
	mentor := rg.Group("/mentor")
	{
		mentor.POST("/chat", c.mentor.Chat)
		mentor.PUT("/sessions/:id/rating", c.mentor.RateSession)
	}
}

func (a *App) registerDashboardRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/dashboard/students/:id", c.dashboard.Student)
	rg.GET("/dashboard/educator", c.dashboard.Educator)
}
