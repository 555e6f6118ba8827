package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloglist/internal/config"
	"bloglist/internal/handlers"
	"bloglist/internal/logger"
	"bloglist/internal/repository"
	"bloglist/internal/repository/db"
	"bloglist/internal/server"
	"bloglist/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Bloglist API
// @version      1.0
// @description  Blog listing service with token authentication.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services, err := service.NewService(repos, service.Options{
		Secret:     cfg.Auth.Secret,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		log.Fatalw("failed to build services", "err", err)
	}

	apiHandler := handlers.NewHandler(services, log.Named("http"), handlerOptions(cfg, log)...)

	srv := server.New(cfg.Server)
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

func handlerOptions(cfg *config.Config, log *logger.Logger) []handlers.Option {
	opts := []handlers.Option{handlers.WithTrustedProxies(cfg.Server.TrustedProxies)}
	if cfg.IsTest() {
		log.Warnw("test environment: exposing /api/testing/reset")
		opts = append(opts, handlers.WithTestingRoutes())
	}
	if cfg.Auth.LoginRate > 0 {
		opts = append(opts, handlers.WithLoginRateLimit(cfg.Auth.LoginRate, cfg.Auth.LoginBurst))
	}
	return opts
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server started", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
