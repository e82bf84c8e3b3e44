// internal/stake/service.go
package stake

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
	stakeprogram "github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
)

// Summary: stake-аккаунт кошелька.
type Summary struct {
	Address  solana.PublicKey `json:"account" yaml:"account"`
	Lamports uint64           `json:"lamports" yaml:"lamports"`
	Owner    solana.PublicKey `json:"owner" yaml:"owner"`
	State    *State           `json:"state,omitempty" yaml:"state,omitempty"`
}

// Listing: результат запроса stake-аккаунтов.
type Listing struct {
	Wallet   solana.PublicKey `json:"wallet" yaml:"wallet"`
	Accounts []Summary        `json:"accounts" yaml:"accounts"`
	// Truncated выставляется, если узел вернул больше аккаунтов, чем разрешено лимитом.
	Truncated bool `json:"truncated" yaml:"truncated"`
}

// Service ищет stake-аккаунты, где кошелек указан как staker.
type Service struct {
	client      blockchain.Client
	maxAccounts int
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewService создает сервис. maxAccounts == 0 отключает ограничение.
func NewService(client blockchain.Client, maxAccounts int, logger *zap.Logger) *Service {
	return &Service{
		client:      client,
		maxAccounts: maxAccounts,
		logger:      logger.Named("stake"),
		tracer:      otel.Tracer("github.com/rovshanmuradov/solana-sandbox/internal/stake"),
	}
}

// ListStakeAccounts возвращает stake-аккаунты кошелька в порядке ответа узла.
// Отсутствие аккаунтов: пустой срез, а не ошибка.
func (s *Service) ListStakeAccounts(ctx context.Context, wallet solana.PublicKey) ([]Summary, error) {
	listing, err := s.List(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return listing.Accounts, nil
}

// List выполняет один getProgramAccounts с memcmp-фильтром по staker (смещение 12).
func (s *Service) List(ctx context.Context, wallet solana.PublicKey) (*Listing, error) {
	ctx, span := s.tracer.Start(ctx, "stake.List", trace.WithAttributes(
		attribute.String("wallet", wallet.String()),
	))
	defer span.End()

	accounts, err := s.client.GetProgramAccountsWithOpts(ctx, stakeprogram.ProgramID, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: stakerOffset,
					Bytes:  solana.Base58(wallet.Bytes()),
				},
			},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get stake accounts: %w", err)
	}

	listing := &Listing{Wallet: wallet, Accounts: make([]Summary, 0, len(accounts))}
	for _, keyed := range accounts {
		if s.maxAccounts > 0 && len(listing.Accounts) >= s.maxAccounts {
			listing.Truncated = true
			break
		}
		if keyed == nil || keyed.Account == nil {
			continue
		}
		listing.Accounts = append(listing.Accounts, s.summarize(keyed))
	}

	span.SetAttributes(
		attribute.Int("accounts", len(listing.Accounts)),
		attribute.Bool("truncated", listing.Truncated),
	)
	s.logger.Info("Stake accounts",
		zap.String("wallet", wallet.String()),
		zap.Int("count", len(listing.Accounts)),
		zap.Int("returned", len(accounts)),
		zap.Bool("truncated", listing.Truncated))
	return listing, nil
}

func (s *Service) summarize(keyed *rpc.KeyedAccount) Summary {
	summary := Summary{
		Address:  keyed.Pubkey,
		Lamports: keyed.Account.Lamports,
		Owner:    keyed.Account.Owner,
	}
	if keyed.Account.Data == nil {
		return summary
	}
	state, err := DecodeState(keyed.Account.Data.GetBinary())
	if err != nil {
		s.logger.Debug("Failed to decode stake state",
			zap.String("account", keyed.Pubkey.String()),
			zap.Error(err))
		return summary
	}
	summary.State = state
	return summary
}
