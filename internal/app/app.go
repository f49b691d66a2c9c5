package app

import (
	"context"
	"errors"
	"lxp_backend/internal/config"
	"lxp_backend/internal/controller"
	"lxp_backend/internal/middleware"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/service"
	"lxp_backend/pkg/database"
	"lxp_backend/pkg/logger"
	"lxp_backend/pkg/monitoring"
	"lxp_backend/pkg/security"
	"lxp_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	limiter         *security.Limiter
	done            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	student      *repository.StudentRepository
	content      *repository.ContentRepository
	learningPath *repository.LearningPathRepository
	progress     *repository.ProgressRepository
	assessment   *repository.AssessmentRepository
	session      *repository.MentorSessionRepository
	attendance   *repository.AttendanceRepository
}

type services struct {
	ai           *service.AIService
	student      *service.StudentService
	content      *service.ContentService
	completion   *service.PathCompletion
	progress     *service.ProgressService
	mentor       *service.MentorService
	learningPath *service.LearningPathService
	assessment   *service.AssessmentService
	dashboard    *service.DashboardService
	attendance   *service.AttendanceService
}

type controllers struct {
	student      *controller.StudentController
	content      *controller.ContentController
	learningPath *controller.LearningPathController
	progress     *controller.ProgressController
	assessment   *controller.AssessmentController
	mentor       *controller.MentorController
	dashboard    *controller.DashboardController
	attendance   *controller.AttendanceController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件变更后调用，只有 AI 配置会热更新
func (a *App) ReloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:      repository.NewStudentRepository(db),
		content:      repository.NewContentRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		progress:     repository.NewProgressRepository(db),
		assessment:   repository.NewAssessmentRepository(db),
		session:      repository.NewMentorSessionRepository(db),
		attendance:   repository.NewAttendanceRepository(db),
	}
}

// progressLocker Redis 可用时用分布式锁，否则退化为进程内锁
func progressLocker(cfg *config.Config, rdb *redis.Client) service.ProgressLocker {
	if rdb != nil {
		return service.NewRedisLocker(rdb, cfg.Progress.LockTTL(), cfg.Progress.LockWait())
	}
	return service.NewLocalLocker(cfg.Progress.LockWait())
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.student = service.NewStudentService(repos.student)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.student)
	s.content = service.NewContentService(repos.content, service.NewAttachmentStore(&cfg.Storage))
	s.completion = service.NewPathCompletion(repos.learningPath, repos.progress)
	s.progress = service.NewProgressService(db, repos.progress, progressLocker(cfg, rdb))

	s.mentor = service.NewMentorService(
		s.ai,
		cfg.AI,
		repos.session,
		repos.student,
		repos.learningPath,
		repos.content,
		service.NewContextBuilder(repos.progress, s.completion),
	)

	s.learningPath = service.NewLearningPathService(
		db,
		repos.learningPath,
		repos.progress,
		repos.student,
		repos.content,
		s.completion,
		s.mentor,
	)

	s.assessment = service.NewAssessmentService(
		repos.assessment,
		repos.student,
		repos.learningPath,
		repos.content,
		s.progress,
		s.mentor,
	)

	s.dashboard = service.NewDashboardService(s.student, s.learningPath, repos.progress, repos.assessment)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		s.mentor.UpdateConfig(newCfg.AI)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		student:      controller.NewStudentController(s.student),
		content:      controller.NewContentController(s.content),
		learningPath: controller.NewLearningPathController(s.learningPath),
		progress:     controller.NewProgressController(s.progress),
		assessment:   controller.NewAssessmentController(s.assessment),
		mentor:       controller.NewMentorController(s.mentor),
		dashboard:    controller.NewDashboardController(s.dashboard),
		attendance:   controller.NewAttendanceController(s.attendance),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, window)
	go a.limiter.Run(a.done)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.AccessLog())
}

// New 用已建立的连接组装应用，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		done:   make(chan struct{}),
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式下默认跳过迁移，除非显式指定
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			logger.Log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, progress locks fall back to in-process", zap.Error(err))
			rdb = nil
		}
	}

	// 监控初始化
	monitoring.Init()

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lxp-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close 释放后台任务和外部连接
func (a *App) Close(ctx context.Context) {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
