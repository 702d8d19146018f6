package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okarim/dayledger/internal/config"
	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/registry"
	"github.com/okarim/dayledger/internal/retention"
	"github.com/okarim/dayledger/internal/store"
	"github.com/okarim/dayledger/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := store.RunMigrations(cfg.Storage.Path, cfg.Storage.MigrationsPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	s, err := store.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer s.Close()

	reg := registry.New(s)
	engine := ledger.NewEngine(s, reg)
	policy := &retention.Policy{
		Store:  s,
		Window: retention.Window(cfg.Retention.Days),
	}

	app := tui.New(ctx, cfg, s, reg, engine, policy)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}
