package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"prompt_party_backend/internal/config"
	"prompt_party_backend/internal/controller"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/service"
	"prompt_party_backend/pkg/configwatcher"
	"prompt_party_backend/pkg/database"
	"prompt_party_backend/pkg/logger"
	"prompt_party_backend/pkg/monitoring"
	"prompt_party_backend/pkg/security"
	"prompt_party_backend/pkg/tracing"
	"syscall"
	"time"

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
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	progress   *repository.ProgressRepository
	badge      *repository.BadgeRepository
	challenge  *repository.ChallengeRepository
	prompt     *repository.PromptRepository
	collection *repository.CollectionRepository
	apiKey     *repository.APIKeyRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	badge        *service.BadgeService
	challenge    *service.ChallengeService
	gamification *service.GamificationService
	user         *service.UserService
	prompt       *service.PromptService
	collection   *service.CollectionService
	leaderboard  *service.LeaderboardService
	apiKey       *service.APIKeyService
}

type controllers struct {
	auth         *controller.AuthController
	gamification *controller.GamificationController
	challenge    *controller.ChallengeController
	prompt       *controller.PromptController
	collection   *controller.CollectionController
	leaderboard  *controller.LeaderboardController
	apiKey       *controller.APIKeyController
	user         *controller.UserController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		progress:   repository.NewProgressRepository(db),
		badge:      repository.NewBadgeRepository(db),
		challenge:  repository.NewChallengeRepository(db),
		prompt:     repository.NewPromptRepository(db),
		collection: repository.NewCollectionRepository(db),
		apiKey:     repository.NewAPIKeyRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.badge = service.NewBadgeService(repos.badge, repos.progress)
	s.challenge = service.NewChallengeService(repos.challenge, repos.progress, s.badge, db)
	s.gamification = service.NewGamificationService(repos.progress, s.badge, s.challenge, db)
	s.auth = service.NewAuthService(repos.user, s.gamification, cfg)
	s.user = service.NewUserService(repos.user, s.gamification, s.badge, s.storage, db)
	s.prompt = service.NewPromptService(repos.prompt, s.gamification)
	s.collection = service.NewCollectionService(repos.collection, repos.prompt)
	s.leaderboard = service.NewLeaderboardService(repos.progress, repos.user, rdb)
	s.apiKey = service.NewAPIKeyService(repos.apiKey)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		gamification: controller.NewGamificationController(s.gamification, s.badge, s.challenge),
		challenge:    controller.NewChallengeController(s.challenge),
		prompt:       controller.NewPromptController(s.prompt),
		collection:   controller.NewCollectionController(s.collection),
		leaderboard:  controller.NewLeaderboardController(s.leaderboard),
		apiKey:       controller.NewAPIKeyController(s.apiKey),
		user:         controller.NewUserController(s.user),
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
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 到期挑战下线
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			n, err := s.challenge.DeactivateExpired()
			if err != nil {
				logger.Log.Error("deactivate expired challenges error", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("deactivated expired challenges", zap.Int64("count", n))
			}
		}
	}()

	// 配置热加载
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(cfg interface{}) {
		newCfg, ok := cfg.(*config.Config)
		if !ok {
			return
		}
		a.Config = newCfg
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
		logger.Log.Info("Config reloaded")
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("prompt-party", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	logger.Log.Sync()
	log.Println("Server exiting")
}
