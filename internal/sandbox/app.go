// =============================
// File: internal/sandbox/app.go
// =============================
package sandbox

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-sandbox/internal/config"
	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/simulation"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
)

// App: собранные зависимости песочницы. Создается один раз в main.
type App struct {
	Config   *config.Config
	Wallet   solana.PublicKey
	Client   blockchain.Client
	Engine   *simulation.Engine
	Registry *operations.Registry
	Stakes   *stake.Service
	Runner   *Runner
	Tables   []simulation.LookupTable

	logger *zap.Logger
}

// New создает RPC-клиент по конфигурации и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := solbc.NewClient(cfg.RPCURL, cfg.RPCRateLimit, logger)
	return NewWithClient(ctx, cfg, client, logger)
}

// NewWithClient собирает приложение поверх готового клиента и загружает lookup tables.
func NewWithClient(ctx context.Context, cfg *config.Config, client blockchain.Client, logger *zap.Logger) (*App, error) {
	descriptors, err := operations.DescriptorsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid operations: %w", err)
	}

	tableAddresses := make([]solana.PublicKey, 0, len(cfg.LookupTables))
	for _, table := range cfg.LookupTables {
		address, err := solana.PublicKeyFromBase58(table)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table %q: %w", table, err)
		}
		tableAddresses = append(tableAddresses, address)
	}
	tables, err := simulation.ResolveLookupTables(ctx, client, tableAddresses)
	if err != nil {
		return nil, err
	}

	engine := simulation.NewEngine(client, computebudget.Config{
		Units:     cfg.ComputeUnitLimit,
		UnitPrice: cfg.ComputeUnitPrice,
	}, logger)
	registry := operations.NewRegistry(descriptors)

	return &App{
		Config:   cfg,
		Wallet:   descriptors.Wallet,
		Client:   client,
		Engine:   engine,
		Registry: registry,
		Stakes:   stake.NewService(client, cfg.MaxStakeAccounts, logger),
		Runner: NewRunner(registry, engine, tables, RunnerOptions{
			Timeout: cfg.RequestTimeout,
			Retries: cfg.Retries,
		}, logger),
		Tables: tables,
		logger: logger,
	}, nil
}

// LogAddresses пишет в лог ключевые адреса песочницы.
func (a *App) LogAddresses() []operations.AddressEntry {
	entries := a.Registry.KeyAddresses()
	for _, entry := range entries {
		a.logger.Info("Address",
			zap.String("label", entry.Label),
			zap.String("address", entry.Address.String()))
	}
	return entries
}
