// =============================
// File: internal/sandbox/runner.go
// =============================
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/simulation"
)

// Simulator: то, что нужно раннеру от движка симуляции.
type Simulator interface {
	Simulate(ctx context.Context, name string, instructions []solana.Instruction, payer solana.PublicKey, tables []simulation.LookupTable) (*simulation.Result, error)
}

// Outcome: результат одной операции. Ровно одно из Result и Err не nil.
type Outcome struct {
	Name        string
	Description string
	Result      *simulation.Result
	Err         error
	Attempts    int
	Duration    time.Duration
}

// RunnerOptions задает таймаут одного вызова и политику повторов.
type RunnerOptions struct {
	// Timeout ограничивает одну попытку симуляции (0: без ограничения).
	Timeout time.Duration
	// Retries: число повторов при транспортных ошибках (0: одна попытка).
	Retries int
	// RetryInterval: начальная задержка экспоненциального backoff.
	RetryInterval time.Duration
	// Concurrency ограничивает число одновременных симуляций (0: без ограничения).
	Concurrency int
}

// Runner строит планы и симулирует их параллельно. Ошибка одной операции
// попадает в ее Outcome и не отменяет остальные.
type Runner struct {
	registry  *operations.Registry
	simulator Simulator
	tables    []simulation.LookupTable
	opts      RunnerOptions
	logger    *zap.Logger
}

func NewRunner(registry *operations.Registry, simulator Simulator, tables []simulation.LookupTable, opts RunnerOptions, logger *zap.Logger) *Runner {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}
	return &Runner{
		registry:  registry,
		simulator: simulator,
		tables:    tables,
		opts:      opts,
		logger:    logger.Named("runner"),
	}
}

// Run симулирует выбранные операции (все, если names пуст). Результаты возвращаются в
// порядке имен. onDone, если задан, вызывается по завершении каждой операции.
func (r *Runner) Run(ctx context.Context, names []string, onDone func(Outcome)) ([]Outcome, error) {
	selected, err := r.registry.Select(names)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(selected))
	g, gCtx := errgroup.WithContext(ctx)
	if r.opts.Concurrency > 0 {
		g.SetLimit(r.opts.Concurrency)
	}

	for i, name := range selected {
		g.Go(func() error {
			outcomes[i] = r.runOne(gCtx, name)
			if onDone != nil {
				onDone(outcomes[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, name string) Outcome {
	start := time.Now()
	outcome := Outcome{Name: name}

	plan, err := r.registry.Build(name)
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		r.logger.Warn("Failed to build operation", zap.String("operation", name), zap.Error(err))
		return outcome
	}
	outcome.Description = plan.Description

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.opts.RetryInterval
	policy.MaxInterval = r.opts.RetryInterval * 10

	notify := func(err error, delay time.Duration) {
		r.logger.Info("Retrying simulation after transport error",
			zap.String("operation", name),
			zap.Error(err),
			zap.Duration("backoff", delay))
	}

	operation := func() (*simulation.Result, error) {
		outcome.Attempts++
		callCtx := ctx
		if r.opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
			defer cancel()
		}
		result, err := r.simulator.Simulate(callCtx, plan.Name, plan.Instructions, plan.Payer, r.tables)
		if err != nil && !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return result, err
	}

	outcome.Result, outcome.Err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(r.opts.Retries+1)),
		backoff.WithNotify(notify))
	outcome.Duration = time.Since(start)

	if outcome.Err != nil {
		r.logger.Warn("Operation failed",
			zap.String("operation", name),
			zap.Int("attempts", outcome.Attempts),
			zap.Error(outcome.Err))
	}
	return outcome
}

// Retryable сообщает, имеет ли смысл повторять вызов. Ошибки, нормализованные из ответа
// симуляции, ошибки построения адресов и сборки транзакции, а также отклоненные узлом
// запросы не повторяются.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var addrErr *simulation.AddressValidityError
	switch {
	case errors.Is(err, simulation.ErrSimulationFailed),
		errors.Is(err, simulation.ErrAssemble),
		errors.As(err, &addrErr),
		errors.Is(err, context.Canceled),
		solbc.IsPermanentRPCError(err):
		return false
	}
	return true
}

// Errors объединяет ошибки всех неуспешных операций.
func Errors(outcomes []Outcome) error {
	var errs error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", outcome.Name, outcome.Err))
		}
	}
	return errs
}
