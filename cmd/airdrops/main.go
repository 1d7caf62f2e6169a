package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/nhle/airdrop-tracker/internal/app"
	"github.com/nhle/airdrop-tracker/internal/cli"
	"github.com/nhle/airdrop-tracker/internal/invoke"
	"github.com/nhle/airdrop-tracker/internal/logging"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/store"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("AIRDROPS_CONFIG")
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	bus := invoke.NewBus(logger.Named("invoke"))
	invoke.Register(bus, s, nil)

	notices := app.NewNoticeBoard()
	ctrl := tracker.New(invoke.NewClient(bus), tracker.Options{
		Logger:   logger.Named("tracker"),
		Notifier: notices,
		Timeout:  cfg.DispatchTimeout(),
	})

	a := &cli.App{
		Tracker:    ctrl,
		ConfigPath: configPath,
		Config:     cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		RunTUI: func() error {
			m := app.New(ctrl, app.Options{
				Notices:         notices,
				RefreshInterval: cfg.RefreshInterval(),
				Logger:          logger.Named("tui"),
			})
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("starting", zap.String("config", configPath), zap.String("db", cfg.Database.Path))
	return cli.NewRootCmd(a).ExecuteContext(ctx)
}
