package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wmz5616/XIAORUI/internal/config"
	"github.com/wmz5616/XIAORUI/internal/controller"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/service"
	"github.com/wmz5616/XIAORUI/pkg/database"
	"github.com/wmz5616/XIAORUI/pkg/logger"
	"github.com/wmz5616/XIAORUI/pkg/monitoring"
	"github.com/wmz5616/XIAORUI/pkg/security"
	"github.com/wmz5616/XIAORUI/pkg/tracing"

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
	question     *repository.QuestionRepository
	answer       *repository.AnswerRepository
	graph        *repository.KnowledgeGraphRepository
	mastery      *repository.MasteryRepository
	notification *repository.NotificationRepository
	diagnostic   *repository.DiagnosticRepository
	systemConfig *repository.SystemConfigRepository
}

type services struct {
	ai           *service.AIService
	course       *service.CourseService
	grading      *service.GradingService
	diagnostic   *service.DiagnosticService
	learningPath *service.LearningPathService
	graph        *service.KnowledgeGraphService
	analytics    *service.AnalyticsService
	notification *service.NotificationService
}

type controllers struct {
	quiz         *controller.QuizController
	aiEngine     *controller.AIEngineController
	teacher      *controller.TeacherController
	notification *controller.NotificationController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热重载入口。数据库等连接类配置不在重载范围内。
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		question:     repository.NewQuestionRepository(db),
		answer:       repository.NewAnswerRepository(db),
		graph:        repository.NewKnowledgeGraphRepository(db),
		mastery:      repository.NewMasteryRepository(db),
		notification: repository.NewNotificationRepository(db),
		diagnostic:   repository.NewDiagnosticRepository(db),
		systemConfig: repository.NewSystemConfigRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.course = service.NewCourseService(repos.course, repos.question)
	s.grading = service.NewGradingService(repos.question, repos.answer, repos.mastery, repos.graph, repos.user, repos.systemConfig, db)
	s.diagnostic = service.NewDiagnosticService(repos.diagnostic, repos.mastery, s.ai)
	s.learningPath = service.NewLearningPathService(s.ai, s.diagnostic)
	s.graph = service.NewKnowledgeGraphService(repos.graph, repos.mastery, repos.course)
	s.analytics = service.NewAnalyticsService(repos.mastery, repos.user, repos.course, repos.graph, rdb)
	s.notification = service.NewNotificationService(repos.notification, repos.user)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		quiz:         controller.NewQuizController(s.course, s.grading),
		aiEngine:     controller.NewAIEngineController(s.diagnostic, s.learningPath, s.graph),
		teacher:      controller.NewTeacherController(s.analytics, s.grading, s.notification, s.course, s.graph),
		notification: controller.NewNotificationController(s.notification),
		admin:        controller.NewAdminController(s.analytics, repos.user, repos.systemConfig),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
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

	if cfg.MigrateOnly {
		logger.Log.Info("Migration completed, exiting (migrate-only mode)")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 不可用只影响缓存，服务仍然可以启动
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	app.RegisterConfigCallback(func(c *config.Config) {
		services.ai.UpdateConfig(c.AI)
	})

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("xiaorui-mastery-engine", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

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
