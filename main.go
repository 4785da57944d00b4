package main

import (
	"log"
	"net/http"
	"time"

	"threatlens/config"
	"threatlens/handlers"
	"threatlens/llm"
	"threatlens/middleware"
	"threatlens/repositories"
	"threatlens/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Repositories
	orgRepo := repositories.NewOrganizationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	clsRepo := repositories.NewClassificationRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	summaryRepo := repositories.NewSummaryRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	// External LLM collaborator
	classifier := llm.NewClient(cfg.LLMEndpoint, cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMTimeout())

	// Services
	authService := services.NewAuthService(userRepo, logger)
	clsService := services.NewClassificationService(clsRepo, articleRepo, orgRepo, classifier, logger)
	articleService := services.NewArticleService(articleRepo, clsRepo, orgRepo, clsService, logger)
	importerService := services.NewImporterService(articleRepo, clsService, logger)
	ratingService := services.NewRatingService(ratingRepo, articleRepo, orgRepo)
	summaryService := services.NewSummaryService(summaryRepo, articleRepo, clsRepo, orgRepo, classifier, logger)
	statsService := services.NewStatsService(statsRepo, orgRepo)
	adminService := services.NewAdminService(orgRepo, userRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService, clsService, importerService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	statsHandler := handlers.NewStatsHandler(statsService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			articles := protected.Group("/articles")
			{
				articles.GET("", articleHandler.GetArticles)
				articles.POST("/upload", articleHandler.UploadArticle)
				articles.POST("/import", articleHandler.ImportArticle)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.DELETE("/:id", articleHandler.DeleteArticle)
				articles.POST("/:id/star", articleHandler.StarArticle)
				articles.POST("/:id/classify", articleHandler.ClassifyArticle)
				articles.GET("/:id/rating", ratingHandler.GetRating)
				articles.PUT("/:id/rating", ratingHandler.UpsertRating)
			}

			stats := protected.Group("/stats")
			{
				stats.GET("/overview", statsHandler.GetOverview)
				stats.GET("/backlog", statsHandler.GetBacklog)
				stats.GET("/service-level", statsHandler.GetServiceLevel)
				stats.GET("/criticality", statsHandler.GetCriticality)
				stats.GET("/timeline", statsHandler.GetTimeline)
			}

			summaries := protected.Group("/summaries")
			{
				summaries.GET("", summaryHandler.GetSummaries)
				summaries.GET("/latest", summaryHandler.GetLatestSummary)
				summaries.POST("/generate", summaryHandler.GenerateSummary)
				summaries.DELETE("/:id", summaryHandler.DeleteSummary)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin(cfg.AdminUsername))
			{
				admin.POST("/organizations", adminHandler.CreateOrganization)
				admin.GET("/organizations", adminHandler.GetOrganizations)
				admin.GET("/organizations/:id", adminHandler.GetOrganization)
				admin.PUT("/organizations/:id", adminHandler.UpdateOrganization)
				admin.DELETE("/organizations/:id", adminHandler.DeleteOrganization)

				admin.POST("/users", adminHandler.CreateUser)
				admin.GET("/users", adminHandler.GetUsers)
				admin.PUT("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)
			}
		}
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
