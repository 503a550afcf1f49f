package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/centralake/site-server-go/internal/config"
	"github.com/centralake/site-server-go/internal/database"
	"github.com/centralake/site-server-go/internal/handler"
	"github.com/centralake/site-server-go/internal/jobs"
	"github.com/centralake/site-server-go/internal/middleware"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/redis"
	"github.com/centralake/site-server-go/internal/service"
	"github.com/centralake/site-server-go/internal/store"
)

func main() {
	godotenv.Load()

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

	local := store.NewLocalStore(cfg.LocalStatePath)

	var remote store.RemoteState
	if cfg.Sandbox() {
		log.Warn().Msg("DATABASE_URL not set, running in sandbox mode against the local slot")
	} else {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		if err := db.Ping(pingCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to ping database")
		}
		cancel()
		log.Info().Msg("database connected")

		remoteStore := store.NewRemoteStore(db)
		initCtx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		if err := remoteStore.Init(initCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to provision state schema")
		}
		cancel()
		remote = remoteStore
	}

	adapter := store.NewAdapter(remote, local)

	var loginLimiter middleware.LoginLimiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
		loginLimiter = middleware.NewRedisLoginLimiter(redisClient)
	} else {
		loginLimiter = middleware.NewMemoryLoginLimiter()
	}

	authService, err := service.NewAuthService(cfg, isProduction)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth service")
	}
	sessions := service.NewSessionManager(cfg.SessionSecret, config.SessionMaxAge)
	uploader, err := service.NewUploader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build uploader")
	}
	copywriter := service.NewCopywriterService(cfg.CopywriterURL, cfg.CopywriterAPIKey)

	iconState := handler.NewIconState()
	enforcer := jobs.NewFaviconEnforcer(iconState, config.FaviconReassertInterval, config.FaviconMaxReassertions)
	enforcer.Start()
	defer enforcer.Stop()

	container := service.NewStateContainer(adapter, adapter.SeedState(), func(doc model.ContentDocument) {
		enforcer.SetDesired(doc.FaviconURL)
	})
	go container.Refresh(context.Background())

	sessionMiddleware := middleware.NewSessionMiddleware(sessions)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, sessions, isProduction)
	siteHandler := handler.NewSiteHandler(container, adapter)
	adminHandler := handler.NewAdminHandler(container, adapter, uploader, copywriter)
	portalHandler := handler.NewPortalHandler(container)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeaders.Handler)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginLimiter)).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.Attach)
			r.Get("/me", authHandler.Me)
			r.Get("/state", siteHandler.GetState)
		})

		r.Get("/health", siteHandler.Health)
		r.Post("/contact", siteHandler.Contact)
		r.With(sessionMiddleware.RequireRole(model.RoleAdmin, middleware.AdminSessionCookie)).
			Post("/init", adminHandler.InitStore)

		r.Route("/admin", func(r chi.Router) {
			r.Use(sessionMiddleware.RequireRole(model.RoleAdmin, middleware.AdminSessionCookie))
			r.Mount("/", adminHandler.Routes())
		})

		r.Route("/portal", func(r chi.Router) {
			r.Use(sessionMiddleware.RequireRole(model.RoleClient, middleware.PortalSessionCookie))
			r.Get("/report", portalHandler.Report)
		})
	})

	r.Get("/favicon.ico", iconState.ServeHTTP)
	r.Handle("/*", handler.StaticFileServer(cfg.StaticDir))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("sandbox", cfg.Sandbox()).Msg("starting server")
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
