package main

import (
	"context"
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/api"
	"github.com/Umair-Ahm3d/Club-Lit/internal/assistant"
	"github.com/Umair-Ahm3d/Club-Lit/internal/cache"
	"github.com/Umair-Ahm3d/Club-Lit/internal/chat"
	"github.com/Umair-Ahm3d/Club-Lit/internal/config"
	"github.com/Umair-Ahm3d/Club-Lit/internal/db"
	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/observ"
	"github.com/Umair-Ahm3d/Club-Lit/internal/presence"
	"github.com/Umair-Ahm3d/Club-Lit/internal/realtime"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository/postgres"
	"github.com/Umair-Ahm3d/Club-Lit/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Config and logger
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 2. Postgres and Redis
	//
	// Startup has no deadline; connect however long it takes.
	// ---------------------------------------------------------------
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	rdb, err := db.NewRedis(context.Background(), cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// ---------------------------------------------------------------
	// 3. Repositories
	// ---------------------------------------------------------------
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	bookRepo := postgres.NewBookStore(pool)
	clubRepo := postgres.NewClubStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	messageRepo := postgres.NewMessageStore(pool)
	commentRepo := postgres.NewCommentStore(pool)
	ratingRepo := postgres.NewRatingStore(pool)
	bookmarkRepo := postgres.NewBookmarkStore(pool)
	requestRepo := postgres.NewRequestStore(pool)

	// ---------------------------------------------------------------
	// 4. Services
	// ---------------------------------------------------------------
	registry := presence.NewRegistry()
	hub := realtime.NewHub(logger)
	chatSvc := chat.NewService(messageRepo, membershipRepo, clubRepo, userRepo, registry, hub, logger)

	completer := assistant.NewOpenAIClient(cfg.AssistantURL, cfg.AssistantKey, cfg.AssistantModel)
	assistantSvc := assistant.NewService(completer, bookRepo, cache.NewRedis(rdb), logger)

	fileStore, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("create upload store: %w", err)
	}

	// ---------------------------------------------------------------
	// 5. Handlers
	// ---------------------------------------------------------------
	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	userHandler := api.NewUserHandler(userRepo, logger)
	bookHandler := api.NewBookHandler(bookRepo, ratingRepo, fileStore, logger)
	commentHandler := api.NewCommentHandler(commentRepo, userRepo, logger)
	readingHandler := api.NewReadingHandler(ratingRepo, bookmarkRepo, logger)
	clubHandler := api.NewClubHandler(clubRepo, bookRepo, membershipRepo, chatSvc, logger)
	chatHandler := api.NewChatHandler(chatSvc, logger)
	socketHandler := api.NewSocketHandler(chatSvc, logger)
	assistantHandler := api.NewAssistantHandler(assistantSvc, logger)
	requestHandler := api.NewRequestHandler(requestRepo, logger)
	adminHandler := api.NewAdminHandler(userRepo, logger)

	// ---------------------------------------------------------------
	// 6. HTTP server
	// ---------------------------------------------------------------
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := ratelimit.RateLimiter(
		ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: rdb,
			Rate:        time.Second,
			Limit:       uint(cfg.RateLimitPerSec),
		}),
		&ratelimit.Options{
			ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
				c.JSON(429, gin.H{"error": "too many requests, retry in " + time.Until(info.ResetTime).String()})
			},
			KeyFunc: func(c *gin.Context) string { return c.ClientIP() },
		},
	)
	router.Use(limiter)

	// Health check is public; load balancers hit it without a token.
	router.GET("/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Covers and book files, served as plain static content.
	router.Static("/uploads", cfg.UploadDir)

	v1 := router.Group("/v1")
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	authed.GET("/me", userHandler.GetMe)
	authed.PUT("/me", userHandler.UpdateMe)
	authed.GET("/users/:id", userHandler.GetByID)

	authed.POST("/books", bookHandler.Create)
	authed.GET("/books", bookHandler.List)
	authed.GET("/books/:id", bookHandler.GetByID)
	authed.PUT("/books/:id", bookHandler.Update)
	authed.DELETE("/books/:id", bookHandler.Delete)
	authed.POST("/books/:id/cover", bookHandler.UploadCover)
	authed.POST("/books/:id/file", bookHandler.UploadPDF)

	authed.POST("/books/:id/comments", commentHandler.Create)
	authed.GET("/books/:id/comments", commentHandler.ListByBook)
	authed.DELETE("/comments/:id", commentHandler.Delete)

	authed.PUT("/books/:id/rating", readingHandler.Rate)
	authed.GET("/books/:id/rating", readingHandler.GetRating)
	authed.PUT("/books/:id/bookmark", readingHandler.SetBookmark)
	authed.GET("/books/:id/bookmark", readingHandler.GetBookmark)
	authed.GET("/bookmarks", readingHandler.ListBookmarks)

	authed.POST("/clubs", clubHandler.Create)
	authed.GET("/clubs", clubHandler.List)
	authed.GET("/clubs/:id", clubHandler.GetByID)
	authed.PUT("/clubs/:id", clubHandler.Update)
	authed.DELETE("/clubs/:id", clubHandler.Delete)
	authed.POST("/clubs/:id/join", clubHandler.Join)
	authed.POST("/clubs/:id/leave", clubHandler.Leave)
	authed.GET("/clubs/:id/members", clubHandler.Members)
	authed.DELETE("/clubs/:id/members/:userId", clubHandler.RemoveMember)
	authed.GET("/clubs/:id/online", clubHandler.Online)

	authed.GET("/clubs/:id/messages", chatHandler.List)
	authed.POST("/clubs/:id/messages", chatHandler.Send)
	authed.PUT("/messages/:id", chatHandler.Edit)
	authed.DELETE("/messages/:id", chatHandler.Delete)

	authed.GET("/ws", socketHandler.Handle)

	authed.POST("/assistant", assistantHandler.Ask)

	authed.POST("/requests", requestHandler.Create)
	authed.GET("/requests", requestHandler.Mine)

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/admin", adminHandler.SetAdmin)
	admin.GET("/requests", requestHandler.List)
	admin.POST("/requests/:id/resolve", requestHandler.Resolve)
	admin.DELETE("/messages/:id", chatHandler.Purge)

	logger.Info("starting Club Lit",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return router.Run(":" + cfg.Port)
}
