package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/cache"
	"github.com/halcyonlabs/portfolio-api/internal/config"
	"github.com/halcyonlabs/portfolio-api/internal/database"
	"github.com/halcyonlabs/portfolio-api/internal/handler"
	"github.com/halcyonlabs/portfolio-api/internal/middleware"
	"github.com/halcyonlabs/portfolio-api/internal/repository"
	"github.com/halcyonlabs/portfolio-api/internal/service"
)

// main is the application entrypoint for the portfolio API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting portfolio api")

	// 3. Connect database (shared process-wide handle)
	db, err := database.Handle(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer database.Shutdown()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis when configured; the content cache degrades to
	// a no-op without it.
	var contentCache *cache.ContentCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		contentCache = cache.NewContentCache(redisClient, cfg.Cache.ContentTTL)
		log.Info().Msg("redis connected successfully")
	} else {
		log.Info().Msg("redis not configured - content cache disabled")
	}

	// 4. Initialize repositories
	adminRepo := repository.NewAdminUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	certRepo := repository.NewCertificationRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// 5. Initialize services
	secret := []byte(cfg.JWTSecret)
	authSvc := service.NewAdminAuthService(adminRepo, secret)
	accountSvc := service.NewAdminAccountService(adminRepo)
	contentSvc := service.NewContentService(projectRepo, skillRepo, certRepo, contactRepo, contentCache)
	assetSvc, err := service.NewAssetService(&cfg.Assets)
	if err != nil {
		log.Warn().Err(err).Msg("asset service initialization failed - image uploads will be disabled")
	}

	// 6. Initialize handlers
	loginLimiter := middleware.NewFailedLoginRateLimiter()
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db),
		Auth:    handler.NewAuthHandler(authSvc, accountSvc, loginLimiter, cfg.Env == "production"),
		Account: handler.NewAdminAccountHandler(accountSvc),
		Project: handler.NewProjectHandler(contentSvc, projectRepo, assetSvc),
		Content: handler.NewContentHandler(contentSvc, skillRepo, certRepo, contactRepo),
	}

	// 7. Initialize middleware
	routeGuard := middleware.NewRouteGuard(secret)
	jwtMw := middleware.NewJWTMiddleware(secret)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	// The route guard runs before any handler; it is the single
	// enforcement point for the admin surface.
	router.Use(routeGuard.Handle())
	setupRoutes(router, handlers, jwtMw)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Account *handler.AdminAccountHandler
	Project *handler.ProjectHandler
	Content *handler.ContentHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/api/health", handlers.Health.GetHealth)

	// Public portfolio content
	public := router.Group("/api/portfolio")
	{
		public.GET("/projects", handlers.Project.ListPublic)
		public.GET("/projects/:slug", handlers.Project.GetPublic)
		public.GET("/skills", handlers.Content.ListSkills)
		public.GET("/certifications", handlers.Content.ListCertifications)
		public.GET("/contact", handlers.Content.GetContact)
	}

	// Admin auth surface (reachable without a session; the route guard
	// whitelists exactly these paths)
	router.POST("/api/admin/auth/login", handlers.Auth.Login)
	router.POST("/api/admin/auth/logout", handlers.Auth.Logout)
	router.GET("/api/admin/setup-status", handlers.Auth.SetupStatus)
	router.POST("/api/admin/setup", handlers.Auth.Setup)

	// Admin routes: the route guard already rejected non-admins; the JWT
	// middleware re-checks as defense in depth.
	admin := router.Group("/api/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.GET("/auth/me", handlers.Auth.Me)

		// Account management
		admin.GET("/accounts", handlers.Account.List)
		admin.POST("/accounts", handlers.Account.Create)
		admin.PUT("/accounts/:id", handlers.Account.Update)
		admin.DELETE("/accounts/:id", handlers.Account.Delete)

		// Content management
		admin.POST("/projects", handlers.Project.Create)
		admin.PUT("/projects/:id", handlers.Project.Update)
		admin.DELETE("/projects/:id", handlers.Project.Delete)
		admin.POST("/projects/:id/image", handlers.Project.UploadImage)

		admin.POST("/skills", handlers.Content.CreateSkill)
		admin.PUT("/skills/:id", handlers.Content.UpdateSkill)
		admin.DELETE("/skills/:id", handlers.Content.DeleteSkill)

		admin.POST("/certifications", handlers.Content.CreateCertification)
		admin.PUT("/certifications/:id", handlers.Content.UpdateCertification)
		admin.DELETE("/certifications/:id", handlers.Content.DeleteCertification)

		admin.PUT("/contact", handlers.Content.UpdateContact)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
