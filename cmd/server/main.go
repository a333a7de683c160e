package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/config"
	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/handler"
	"github.com/policyhub/policy-server-go/internal/jobs"
	"github.com/policyhub/policy-server-go/internal/middleware"
	"github.com/policyhub/policy-server-go/internal/redis"
	"github.com/policyhub/policy-server-go/internal/repository"
	"github.com/policyhub/policy-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("ENVIRONMENT") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	orgRepo := repository.NewOrganizationRepository(db.DB)
	portalRepo := repository.NewPortalRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	orgService := service.NewOrganizationService(db, orgRepo, portalRepo, settingRepo, userRepo)
	migrationService := service.NewMigrationService(db, orgRepo, settingRepo)
	sessionService := service.NewSessionService(db, sessionRepo, userRepo, cfg.SessionSecret, cfg.TempTokenTTL(), cfg.SessionTTL())
	settingService := service.NewSettingService(settingRepo)
	portalService := service.NewPortalService(portalRepo)
	driveService := service.NewDriveService(cfg.DriveAPIBaseURL)

	sessionMiddleware := middleware.NewSessionMiddleware(sessionRepo, userRepo, cfg.SessionSecret)
	rateLimiter := service.NewRateLimiter(redisClient.Client, cfg.AuthRateLimitPerMin, time.Minute)
	authRateLimit := middleware.NewIPRateLimitMiddleware(rateLimiter, "auth")
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(sessionService, sessionMiddleware.Handler, cfg.SessionTTL(), cfg.CookieSecure)
	orgHandler := handler.NewOrganizationHandler(orgService, migrationService, sessionMiddleware.Handler)
	settingHandler := handler.NewSettingHandler(settingService, sessionMiddleware.Handler)
	portalHandler := handler.NewPortalHandler(portalService, sessionMiddleware.Handler)
	driveHandler := handler.NewDriveHandler(driveService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(authRateLimit.Handler)
		r.Mount("/", authHandler.Routes())
	})

	r.Route("/organizations", func(r chi.Router) {
		r.Use(authRateLimit.Handler)
		r.Mount("/", orgHandler.Routes())
	})

	r.Route("/settings", func(r chi.Router) {
		r.Mount("/", settingHandler.Routes())
	})

	r.Route("/portals", func(r chi.Router) {
		r.Mount("/", portalHandler.Routes())
	})

	r.Route("/google-drive", func(r chi.Router) {
		r.Mount("/", driveHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
