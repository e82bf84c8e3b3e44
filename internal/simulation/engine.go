// internal/simulation/engine.go
package simulation

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/solana-sandbox/internal/utils/logger"
)

const tracerName = "github.com/rovshanmuradov/solana-sandbox/internal/simulation"

// LookupTable is an address lookup table the message may be compiled against.
type LookupTable struct {
	Address   solana.PublicKey
	Addresses solana.PublicKeySlice
}

// Result of one simulated operation. ComputeUnits is nil when the cluster did not
// report usage.
type Result struct {
	Name               string   `json:"name" yaml:"name"`
	ComputeUnits       *uint64  `json:"computeUnits" yaml:"computeUnits"`
	EncodedTransaction string   `json:"encodedTransaction" yaml:"encodedTransaction"`
	Logs               []string `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// Engine simulates candidate instruction lists. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	client blockchain.Client
	budget computebudget.Config
	logger *zap.Logger
	tracer trace.Tracer
}

// NewEngine creates an engine. budget.Units of zero means the maximum ceiling.
func NewEngine(client blockchain.Client, budget computebudget.Config, logger *zap.Logger) *Engine {
	return &Engine{
		client: client,
		budget: budget,
		logger: logger.Named("simulation"),
		tracer: otel.Tracer(tracerName),
	}
}

// Assemble builds the v0 transaction that Simulate would submit and returns it together
// with its base64 encoding. The compute-unit ceiling is always instruction 0, an empty
// list yields the ceiling alone. Errors wrap ErrAssemble.
func (e *Engine) Assemble(instructions []solana.Instruction, payer solana.PublicKey, tables []LookupTable) (*solana.Transaction, string, error) {
	tx, encoded, err := e.assemble(instructions, payer, tables)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	return tx, encoded, nil
}

func (e *Engine) assemble(instructions []solana.Instruction, payer solana.PublicKey, tables []LookupTable) (*solana.Transaction, string, error) {
	budget, err := computebudget.BuildInstructions(e.budget)
	if err != nil {
		return nil, "", err
	}

	all := make([]solana.Instruction, 0, len(budget)+len(instructions))
	all = append(all, budget...)
	for i, ix := range instructions {
		clone, err := cloneInstruction(ix)
		if err != nil {
			return nil, "", fmt.Errorf("instruction %d: %w", i, err)
		}
		all = append(all, clone)
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(payer)}
	if len(tables) > 0 {
		addressTables := make(map[solana.PublicKey]solana.PublicKeySlice, len(tables))
		for _, table := range tables {
			addressTables[table.Address] = table.Addresses
		}
		opts = append(opts, solana.TransactionAddressTables(addressTables))
	}

	// Любой корректный hash подходит: replaceRecentBlockhash подменит его при симуляции.
	tx, err := solana.NewTransaction(all, solana.Hash{}, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build transaction: %w", err)
	}
	tx.Message.SetVersion(solana.MessageVersionV0)
	// Подписи нулевые: при sigVerify=false узел их не проверяет, но их число должно совпадать с заголовком.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return tx, base64.StdEncoding.EncodeToString(raw), nil
}

// Simulate prepends the compute-unit ceiling, compiles a v0 transaction, and asks the
// cluster to simulate it with block hash replacement and without signature verification.
// Exactly one RPC call is made; failures are not retried.
func (e *Engine) Simulate(
	ctx context.Context,
	name string,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	tables []LookupTable,
) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "simulation.Simulate", trace.WithAttributes(
		attribute.String("operation", name),
		attribute.Int("instructions", len(instructions)),
		attribute.Int("lookup_tables", len(tables)),
	))
	defer span.End()

	log := logger.WithOperation(e.logger, name)
	defer logger.TrackPerformance(log, name)()

	tx, encoded, err := e.Assemble(instructions, payer, tables)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	log.Info("Simulating transaction",
		zap.String("payer", payer.String()),
		zap.String("transaction", encoded))

	response, err := e.client.SimulateTransaction(ctx, tx, blockchain.SimulateOptions{
		ReplaceRecentBlockhash: true,
		SigVerify:              false,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("simulate %s: %w", name, err)
	}

	if simErr := NormalizeError(response.Err); simErr != nil {
		fields := append([]zap.Field{zap.Error(simErr), zap.Strings("logs", response.Logs)},
			AnalyzeLogs(response.Logs).Fields()...)
		log.Warn("Simulation reported an error", fields...)
		span.RecordError(simErr)
		span.SetStatus(codes.Error, simErr.Error())
		return nil, simErr
	}

	result := &Result{
		Name:               name,
		EncodedTransaction: encoded,
		Logs:               response.Logs,
	}
	if response.UnitsConsumed != nil {
		units := *response.UnitsConsumed
		result.ComputeUnits = &units
		span.SetAttributes(attribute.Int64("compute_units", int64(units)))
		log.Info("Compute units", zap.Uint64("units", units))
	} else {
		log.Info("Compute units not reported")
	}
	return result, nil
}

// cloneInstruction copies program, account metas and data so that compiling the message
// never writes through to the caller's instructions.
func cloneInstruction(ix solana.Instruction) (solana.Instruction, error) {
	data, err := ix.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction data: %w", err)
	}
	accounts := ix.Accounts()
	metas := make([]*solana.AccountMeta, len(accounts))
	for i, meta := range accounts {
		copied := *meta
		metas[i] = &copied
	}
	return solana.NewInstruction(ix.ProgramID(), metas, append([]byte(nil), data...)), nil
}
