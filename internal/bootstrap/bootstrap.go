// Package bootstrap builds the incident service from configuration. Both the
// HTTP server and the operator CLI start from here.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/incident-lens/internal/application"
	appincidents "github.com/bryanwahyu/incident-lens/internal/application/incidents"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/config"
	"github.com/bryanwahyu/incident-lens/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/incident-lens/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/incident-lens/internal/infra/db/postgres"
	"github.com/bryanwahyu/incident-lens/internal/infra/db/sqlite"
	minioStore "github.com/bryanwahyu/incident-lens/internal/infra/storage"
	"github.com/bryanwahyu/incident-lens/internal/logger"
)

// App holds the wired service and what must be closed on exit.
type App struct {
	Service *appincidents.Service
	DB      *sql.DB
	AI      *openai.Client
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Repositories opens the configured database and returns its repositories.
func Repositories(ctx context.Context, cfg *config.Config) (*sql.DB, domain.LogRepository, domain.IncidentRepository, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite open: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := sqlite.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("sqlite migrate: %w", err)
			}
		}
		return db, sqlite.NewLogRepository(db), sqlite.NewIncidentRepository(db), nil

	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := mysqlp.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("mysql migrate: %w", err)
			}
		}
		return db, mysqlp.NewLogRepository(db), mysqlp.NewIncidentRepository(db), nil

	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresp.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("postgres migrate: %w", err)
			}
		}
		return db, postgresp.NewLogRepository(db), postgresp.NewIncidentRepository(db), nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// NewAIClient builds the completion client. A missing key is not an error here;
// analyze requests fail with ai.ErrConfiguration instead.
func NewAIClient(cfg *config.Config) *openai.Client {
	return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model,
		openai.WithBaseURL(cfg.AI.BaseURL),
		openai.WithTemperature(cfg.AI.Temperature),
		openai.WithMaxTokens(cfg.AI.MaxTokens),
		openai.WithTimeout(cfg.AI.Timeout),
	)
}

// New wires database, completion client, optional archive and the service.
// onOrphan may be nil.
func New(ctx context.Context, cfg *config.Config, onOrphan func(domain.LogID)) (*App, error) {
	db, logs, incs, err := Repositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := NewAIClient(cfg)
	if client.CheckConfigured() != nil {
		logger.Warn("completion provider key is not set; analyze requests will fail", nil)
	}

	svc := &appincidents.Service{
		Logs:        logs,
		Incidents:   incs,
		AI:          client,
		Clock:       application.SystemClock{},
		MaxLogBytes: cfg.MaxLogBytes,
		OnOrphan:    onOrphan,
	}

	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		svc.Archive = store
	}

	logger.Info("incident service ready", map[string]interface{}{
		"db_driver": cfg.Database.Driver,
		"model":     client.Model,
		"archive":   cfg.Minio.Enabled,
	})
	return &App{Service: svc, DB: db, AI: client}, nil
}
