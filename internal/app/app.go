package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizclash_backend/internal/config"
	"quizclash_backend/internal/controller"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/service"
	"quizclash_backend/pkg/database"
	"quizclash_backend/pkg/logger"
	"quizclash_backend/pkg/monitoring"
	"quizclash_backend/pkg/security"
	"quizclash_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerProvider *sdktrace.TracerProvider
}

type repositories struct {
	user     *repository.UserRepository
	category *repository.CategoryRepository
	question *repository.QuestionRepository
	session  *repository.GameSessionRepository
	round    *repository.RoundRepository
	admin    *repository.AdminRepository
	stats    *repository.StatsRepository
}

type services struct {
	auth     *service.AuthService
	game     *service.GameService
	result   *service.ResultService
	question *service.QuestionService
	category *service.CategoryService
	stats    *service.StatsService
	admin    *service.AdminService
}

type controllers struct {
	user     *controller.UserController
	game     *controller.GameSessionController
	round    *controller.RoundController
	question *controller.QuestionController
	category *controller.CategoryController
	stats    *controller.StatsController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		category: repository.NewCategoryRepository(db),
		question: repository.NewQuestionRepository(db),
		session:  repository.NewGameSessionRepository(db),
		round:    repository.NewRoundRepository(db),
		admin:    repository.NewAdminRepository(db),
		stats:    repository.NewStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	stats := service.NewStatsService(repos.stats, repos.session, repos.round, repos.user, rdb)
	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		game:     service.NewGameService(repos.session, repos.round, repos.user, repos.question, repos.stats, stats, db),
		result:   service.NewResultService(repos.session, repos.round, repos.user),
		question: service.NewQuestionService(repos.question, repos.category, repos.user),
		category: service.NewCategoryService(repos.category, repos.question),
		stats:    stats,
		admin:    service.NewAdminService(repos.admin, repos.user, repos.question, repos.session),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		user:     controller.NewUserController(s.auth),
		game:     controller.NewGameSessionController(s.game, s.result),
		round:    controller.NewRoundController(s.game),
		question: controller.NewQuestionController(s.question),
		category: controller.NewCategoryController(s.category),
		stats:    controller.NewStatsController(s.stats),
		admin:    controller.NewAdminController(s.admin, s.question),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 可选：未配置时排行榜直接查库
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	} else {
		logger.Log.Warn("Redis not configured, leaderboard caching disabled")
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quizclash", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, services, cfg)

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis client", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
