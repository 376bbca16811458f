package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/incident-lens/internal/bootstrap"
	"github.com/bryanwahyu/incident-lens/internal/config"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/infra/httpserver"
	"github.com/bryanwahyu/incident-lens/internal/logger"
	"github.com/bryanwahyu/incident-lens/internal/middleware"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("env load error", map[string]interface{}{"error": err.Error()})
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("config load error", map[string]interface{}{"error": err.Error()})
	}

	if err := logger.Initialize(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		logger.Fatal("logger init error", map[string]interface{}{"error": err.Error()})
	}

	ctx := context.Background()

	app, err := bootstrap.New(ctx, cfg, func(domain.LogID) { middleware.IncrementOrphanedLogs() })
	if err != nil {
		logger.Fatal("bootstrap error", map[string]interface{}{"error": err.Error()})
	}
	defer app.Close()

	// JSON escaping can double the raw size; 0 keeps the router default
	var maxBody int64
	if cfg.MaxLogBytes > 0 {
		maxBody = int64(cfg.MaxLogBytes)*2 + 1024
	}

	stop := make(chan struct{})
	handler := httpserver.NewRouter(app.Service, httpserver.Options{
		APIKeys:      cfg.Security.APIKeys,
		CORSOrigins:  cfg.Security.CORSOrigins,
		RateLimit:    cfg.Security.RateLimit,
		RateBurst:    cfg.Security.RateBurst,
		MaxBodyBytes: maxBody,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: app.DB},
			"ai": middleware.CheckerFunc(func(context.Context) error {
				return app.AI.CheckConfigured()
			}),
		},
		Stop: stop,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down server...", nil)
	close(stop)

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", map[string]interface{}{"error": err.Error()})
	}
}
