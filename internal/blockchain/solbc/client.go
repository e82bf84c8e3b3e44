// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
)

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
// Один экземпляр создается при старте процесса и разделяется всеми запросами.
type Client struct {
	rpc     *rpc.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient создаёт новый клиент, принимая RPC URL, лимит запросов в секунду
// (0: без ограничений) и логгер через dependency injection.
func NewClient(rpcURL string, requestsPerSecond float64, logger *zap.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(math.Max(1, math.Ceil(requestsPerSecond)))
	}
	return &Client{
		rpc:     rpc.New(rpcURL),
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("solbc-client"),
	}
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// SimulateTransaction симулирует транзакцию и возвращает результат симуляции.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction, opts blockchain.SimulateOptions) (*blockchain.SimulationResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	commitment := opts.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	result, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              opts.SigVerify,
		ReplaceRecentBlockhash: opts.ReplaceRecentBlockhash,
		Commitment:             commitment,
	})
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("empty simulateTransaction response")
	}

	return &blockchain.SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: result.Value.UnitsConsumed,
	}, nil
}

// GetProgramAccountsWithOpts получает все аккаунты программы с опциями фильтрации
func (c *Client) GetProgramAccountsWithOpts(
	ctx context.Context,
	programID solana.PublicKey,
	opts *rpc.GetProgramAccountsOpts,
) (rpc.GetProgramAccountsResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, opts)
	if err != nil {
		c.logger.Debug("GetProgramAccountsWithOpts error",
			zap.String("program_id", programID.String()),
			zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

// GetAddressLookupTable загружает содержимое address lookup table.
func (c *Client) GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (solana.PublicKeySlice, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	state, err := addresslookuptable.GetAddressLookupTable(ctx, c.rpc, address)
	if err != nil {
		c.logger.Debug("GetAddressLookupTable error",
			zap.String("table", address.String()),
			zap.Error(err))
		return nil, err
	}
	return state.Addresses, nil
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
