package app

import (
	"quizclash_backend/docs"
	"quizclash_backend/internal/config"
	"quizclash_backend/internal/middleware"

	"quizclash_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerGameRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, s, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/users/register", c.user.Register)
		public.POST("/users/login", c.user.Login)

		public.GET("/categories", c.category.GetCategories)
		public.GET("/categories/popular", c.category.GetPopularCategories)
		public.GET("/categories/:category_id", c.category.GetCategory)

		public.GET("/leaderboard", c.stats.GetLeaderboard)
		public.GET("/leaderboard/weekly", c.stats.GetWeeklyLeaderboard)
		public.GET("/leaderboard/monthly", c.stats.GetMonthlyLeaderboard)
	}
}

func (a *App) registerGameRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/users", c.user.GetUsers)
	rg.GET("/users/:user_id", c.user.GetUser)
	rg.GET("/users/:user_id/admin-status", c.user.GetAdminStatus)
	rg.GET("/stats/:user_id", c.stats.GetUserStats)

	// 对局
	rg.POST("/games", c.game.CreateSession)
	rg.GET("/games/active/:user_id", c.game.GetActiveSessions)
	rg.GET("/games/:session_id", c.game.GetSession)
	rg.GET("/games/:session_id/result", c.game.GetResult)

	// 回合
	rg.POST("/games/:session_id/rounds", c.round.StartRound)
	rg.GET("/games/:session_id/rounds", c.round.GetRounds)
	rg.GET("/games/:session_id/rounds/current", c.round.GetCurrentRound)
	rg.GET("/games/:session_id/rounds/:round_number/status", c.round.GetRoundStatus)
	rg.POST("/games/:session_id/answers", c.round.SubmitAnswers)
	rg.GET("/rounds/:round_id", c.round.GetRound)
	rg.GET("/rounds/:round_id/questions", c.round.GetRoundQuestions)

	// 题目
	rg.POST("/questions", c.question.SubmitQuestion)
	rg.GET("/questions/category/:category_id", c.question.GetByCategory)
	rg.GET("/questions/category/:category_id/count", c.question.CountByCategory)
	rg.GET("/questions/category/:category_id/random/:count", c.question.GetRandomByCategory)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(s.admin))
	{
		admin.POST("/ban", c.admin.BanUser)
		admin.POST("/unban", c.admin.UnbanUser)
		admin.GET("/banned", c.admin.GetBannedUsers)
		admin.GET("/questions/pending", c.admin.GetPendingQuestions)
		admin.POST("/questions/:question_id/review", c.admin.ReviewQuestion)
		admin.POST("/categories", c.category.CreateCategory)
		admin.GET("/dashboard", c.admin.GetDashboard)
	}
}
