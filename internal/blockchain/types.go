// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SimulateOptions определяет флаги вызова simulateTransaction.
type SimulateOptions struct {
	// ReplaceRecentBlockhash подменяет blockhash транзакции актуальным.
	ReplaceRecentBlockhash bool
	// SigVerify включает проверку подписей.
	SigVerify  bool
	Commitment rpc.CommitmentType
}

// SimulationResult представляет результат симуляции транзакции.
type SimulationResult struct {
	// Err: сырое значение value.err из ответа RPC (nil при успехе).
	Err           interface{}
	Logs          []string
	UnitsConsumed *uint64
}

// Client определяет интерфейс узла Solana, который нужен песочнице.
type Client interface {
	// Симулировать транзакцию.
	SimulateTransaction(ctx context.Context, tx *solana.Transaction, opts SimulateOptions) (*SimulationResult, error)
	// Получить аккаунты программы с фильтрами.
	GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	// Получить адреса из address lookup table.
	GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (solana.PublicKeySlice, error)
}
