package app

import (
	"prompt_party_backend/docs"
	"prompt_party_backend/internal/config"
	"prompt_party_backend/internal/middleware"
	"prompt_party_backend/internal/model"

	"prompt_party_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerMemberRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}

	// 3. API密钥认证的外部接口
	a.registerAPIKeyRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/leaderboard", c.leaderboard.Get)
		public.GET("/badges/catalog", c.gamification.GetBadgeCatalog)
		public.GET("/users/:id", c.user.GetProfile)

		// 列表和详情：可选认证，登录用户可看到自己的非公开提示词
		public.GET("/prompts", middleware.TryAuthMiddleware(a.Config), c.prompt.List)
		public.GET("/prompts/:id", middleware.TryAuthMiddleware(a.Config), c.prompt.Get)
		public.GET("/collections/:id", middleware.TryAuthMiddleware(a.Config), c.collection.Get)
	}
}

func (a *App) registerMemberRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.Me)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 进度与激励
	rg.GET("/progress", c.gamification.GetProgress)
	rg.GET("/badges", c.gamification.GetBadges)
	rg.GET("/challenges/active", c.gamification.GetActiveChallenges)
	rg.POST("/activities/lesson", c.gamification.CompleteLesson)
	rg.POST("/activities/share", c.gamification.SharePrompt)
	rg.POST("/activities/help", c.gamification.HelpPerson)
	rg.POST("/activities/streak", c.gamification.UpdateStreak)

	// 提示词
	rg.GET("/prompts/mine", c.prompt.ListMine)
	rg.POST("/prompts", c.prompt.Create)
	rg.PUT("/prompts/:id", c.prompt.Update)
	rg.DELETE("/prompts/:id", c.prompt.Delete)
	rg.POST("/prompts/:id/publish", c.prompt.Publish)
	rg.POST("/prompts/:id/remix", c.prompt.Remix)
	rg.POST("/prompts/:id/rate", c.prompt.Rate)
	rg.POST("/prompts/:id/usage", c.prompt.TrackUsage)

	// 收藏夹
	rg.GET("/collections", c.collection.List)
	rg.POST("/collections", c.collection.Create)
	rg.DELETE("/collections/:id", c.collection.Delete)
	rg.POST("/collections/:id/prompts/:promptId", c.collection.AddPrompt)
	rg.DELETE("/collections/:id/prompts/:promptId", c.collection.RemovePrompt)

	// API密钥
	rg.GET("/apikeys", c.apiKey.List)
	rg.POST("/apikeys", c.apiKey.Create)
	rg.DELETE("/apikeys/:id", c.apiKey.Revoke)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/challenges", c.challenge.List)
		admin.POST("/challenges", c.challenge.Create)
		admin.PUT("/challenges/:challengeId", c.challenge.Update)
	}
}

func (a *App) registerAPIKeyRoutes(router *gin.Engine, c *controllers) {
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyMiddleware(a.services.apiKey))
	{
		v1.GET("/prompts", c.prompt.V1List)
		v1.GET("/prompts/:id", c.prompt.V1Get)
	}
}
