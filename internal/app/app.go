package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/config"
	"github.com/KumaloWilson/learnsmart-sub000/internal/controller"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/service"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/database"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/logger"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/monitoring"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/security"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	semester     *repository.SemesterRepository
	enrollment   *repository.EnrollmentRepository
	attendance   *repository.AttendanceRepository
	virtualClass *repository.VirtualClassRepository
	assessment   *repository.AssessmentRepository
	quiz         *repository.QuizRepository
	mastery      *repository.MasteryRepository
	performance  *repository.PerformanceRepository
	risk         *repository.RiskRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth          *service.AuthService
	academic      *service.AcademicService
	records       *service.RecordService
	attendance    *service.AttendanceService
	grades        *service.GradeService
	narrative     *service.NarrativeService
	performance   *service.PerformanceService
	class         *service.ClassAnalyticsService
	risk          *service.RiskService
	notifications *service.NotificationService
}

type controllers struct {
	auth         *controller.AuthController
	academic     *controller.AcademicController
	record       *controller.RecordController
	analytics    *controller.AnalyticsController
	performance  *controller.PerformanceController
	risk         *controller.RiskController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由文件监听器调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		semester:     repository.NewSemesterRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		attendance:   repository.NewAttendanceRepository(db),
		virtualClass: repository.NewVirtualClassRepository(db),
		assessment:   repository.NewAssessmentRepository(db),
		quiz:         repository.NewQuizRepository(db),
		mastery:      repository.NewMasteryRepository(db),
		performance:  repository.NewPerformanceRepository(db),
		risk:         repository.NewRiskRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.academic = service.NewAcademicService(repos.course, repos.semester, repos.enrollment, repos.user)
	s.records = service.NewRecordService(repos.attendance, repos.virtualClass, repos.assessment, repos.quiz)
	s.notifications = service.NewNotificationService(repos.notification)

	// 分析引擎链：出勤/成绩聚合 → 打分 → 班级汇总 → 风险识别
	s.attendance = service.NewAttendanceService(repos.attendance, repos.virtualClass, repos.enrollment)
	s.grades = service.NewGradeService(repos.assessment, repos.quiz)
	s.narrative = service.NewNarrativeService(service.NewAIService(cfg.AI))
	s.performance = service.NewPerformanceService(
		s.attendance,
		s.grades,
		s.narrative,
		repos.performance,
		repos.user,
		repos.course,
		repos.semester,
		cfg.Analytics,
	)
	s.class = service.NewClassAnalyticsService(
		s.performance,
		s.narrative,
		repos.enrollment,
		repos.course,
		rdb,
		time.Duration(cfg.Analytics.ClassCacheTTLMinutes)*time.Minute,
	)
	s.risk = service.NewRiskService(
		s.attendance,
		s.grades,
		repos.mastery,
		repos.risk,
		repos.enrollment,
		s.notifications,
		cfg.Analytics,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		academic:     controller.NewAcademicController(s.academic),
		record:       controller.NewRecordController(s.records),
		analytics:    controller.NewAnalyticsController(s.performance, s.class, s.attendance, s.grades),
		performance:  controller.NewPerformanceController(s.performance),
		risk:         controller.NewRiskController(s.risk),
		notification: controller.NewNotificationController(s.notifications),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis只做班级分析缓存，连不上时降级为无缓存运行
		logger.Log.Warn("Redis unavailable, class analysis caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 权重和阈值支持热更新，改配置文件无需重启
	app.RegisterConfigCallback(func(c *config.Config) {
		services.performance.Weights = c.Analytics
		services.risk.Config = c.Analytics
		logger.Log.Info("analytics config reloaded",
			zap.Float64("attendanceThreshold", c.Analytics.AttendanceThreshold),
			zap.Float64("performanceThreshold", c.Analytics.PerformanceThreshold))
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("learnsmart-analytics", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
