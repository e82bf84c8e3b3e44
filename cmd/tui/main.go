package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/config"
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
	"github.com/rovshanmuradov/solana-sandbox/internal/telemetry"
	"github.com/rovshanmuradov/solana-sandbox/internal/ui"
	"github.com/rovshanmuradov/solana-sandbox/internal/utils/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Консоль занята интерфейсом, логи пишутся только в файл.
	appLogger, err := logger.NewWithWriter(cfg.LoggerConfig(), io.Discard)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	shutdown, err := telemetry.Setup(rootCtx, cfg.Telemetry, appLogger.Logger)
	if err != nil {
		appLogger.Warn("Tracing disabled", zap.Error(err))
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	app, err := sandbox.New(rootCtx, cfg, appLogger.Logger)
	if err != nil {
		appLogger.Error("Failed to initialize sandbox", zap.Error(err))
		log.Fatalf("Failed to initialize sandbox: %v", err)
	}
	appLogger.Info("Starting sandbox TUI")

	sender := ui.NewUpdateSender(make(chan tea.Msg, 16), appLogger.Logger)
	defer sender.Close()

	dashboard := ui.NewDashboard(rootCtx, ui.Services{
		Run: func(ctx context.Context, onDone func(sandbox.Outcome)) ([]sandbox.Outcome, error) {
			return app.Runner.Run(ctx, nil, onDone)
		},
		Stakes: func(ctx context.Context) (*stake.Listing, error) {
			return app.Stakes.List(ctx, app.Wallet)
		},
		Addresses: app.LogAddresses(),
	}, sender)

	program := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithContext(rootCtx))
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}
	appLogger.Info("Shutting down TUI")
}
