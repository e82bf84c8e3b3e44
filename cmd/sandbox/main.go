// ====================================
// File: cmd/sandbox/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/config"
	"github.com/rovshanmuradov/solana-sandbox/internal/output"
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
	"github.com/rovshanmuradov/solana-sandbox/internal/telemetry"
	"github.com/rovshanmuradov/solana-sandbox/internal/utils/logger"
)

// cli хранит состояние, общее для всех подкоманд.
type cli struct {
	configPath string
	format     string
	noStyle    bool
	wide       bool

	cfg      *config.Config
	log      *logger.Logger
	shutdown telemetry.ShutdownFunc
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, root := newCLI()
	if err := c.execute(ctx, root); err != nil {
		os.Exit(1)
	}
}

// shutdownTimeout ограничивает сброс трасс и логов после завершения команды.
const shutdownTimeout = 5 * time.Second

func newCLI() (*cli, *cobra.Command) {
	c := &cli{}
	root := &cobra.Command{
		Use:           "sandbox",
		Short:         "Measure compute units of Solana transactions by simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to config file (yaml or json)")
	root.PersistentFlags().StringVarP(&c.format, "output", "o", string(output.TableFormat), "output format: table, csv, json, yaml")
	root.PersistentFlags().BoolVar(&c.noStyle, "no-style", false, "disable table colors")
	root.PersistentFlags().BoolVar(&c.wide, "wide", false, "do not truncate long values")

	root.AddCommand(
		newSimulateCmd(c),
		newStakesCmd(c),
		newInspectCmd(c),
		newAddressesCmd(c),
	)
	return c, root
}

// execute запускает команду и при любом исходе сбрасывает трассы и логи.
// PersistentPostRun cobra пропускает при ошибке RunE, поэтому закрытие здесь.
func (c *cli) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)

	// Контекст мог быть отменен сигналом, экспортеру нужен свой срок.
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if closeErr := c.close(closeCtx); closeErr != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	return err
}

// setup загружает конфигурацию, логгер и трассировку.
func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Консольный лог уходит в stderr, stdout занят отчетом.
	log, err := logger.NewWithWriter(cfg.LoggerConfig(), os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.log = log

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, log.Logger)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
		shutdown = func(context.Context) error { return nil }
	}
	c.shutdown = shutdown
	return nil
}

// app собирает зависимости песочницы поверх загруженной конфигурации.
func (c *cli) app(ctx context.Context) (*sandbox.App, error) {
	if err := c.setup(ctx); err != nil {
		return nil, err
	}
	return sandbox.New(ctx, c.cfg, c.log.Logger)
}

func (c *cli) outputOptions() (output.Options, error) {
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{Format: format, Pretty: true, NoStyle: c.noStyle, Wide: c.wide}, nil
}

func (c *cli) close(ctx context.Context) error {
	if c.shutdown != nil {
		if err := c.shutdown(ctx); err != nil && c.log != nil {
			c.log.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	if c.log != nil {
		return c.log.Sync()
	}
	return nil
}
