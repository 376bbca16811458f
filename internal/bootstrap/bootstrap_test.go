package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bryanwahyu/incident-lens/internal/config"
	"github.com/bryanwahyu/incident-lens/internal/domain/ai"
)

func TestNew_SQLiteWithoutKey(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer app.Close()

	// the service starts, analyze fails at request time
	_, err = app.Service.Analyze(context.Background(), "some log")
	if !errors.Is(err, ai.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}

	list, err := app.Service.List(context.Background(), 0)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list from migrated db, got %v (%v)", list, err)
	}
}

func TestRepositories_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "oracle"
	if _, _, _, err := Repositories(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewAIClient_UsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.AI.APIKey = "k"
	cfg.AI.Model = "llama-3.3-70b-versatile"
	cfg.AI.MaxTokens = 2048

	c := NewAIClient(cfg)
	if c.Model != "llama-3.3-70b-versatile" || c.MaxTokens != 2048 || c.CheckConfigured() != nil {
		t.Fatalf("config not applied: %+v", c)
	}
}
