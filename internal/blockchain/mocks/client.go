// internal/blockchain/mocks/client.go
package mocks

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
)

// Client реализует blockchain.Client для тестов.
type Client struct {
	mock.Mock
}

var _ blockchain.Client = (*Client)(nil)

func (m *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction, opts blockchain.SimulateOptions) (*blockchain.SimulationResult, error) {
	args := m.Called(ctx, tx, opts)
	result, _ := args.Get(0).(*blockchain.SimulationResult)
	return result, args.Error(1)
}

func (m *Client) GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	args := m.Called(ctx, programID, opts)
	result, _ := args.Get(0).(rpc.GetProgramAccountsResult)
	return result, args.Error(1)
}

func (m *Client) GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (solana.PublicKeySlice, error) {
	args := m.Called(ctx, address)
	result, _ := args.Get(0).(solana.PublicKeySlice)
	return result, args.Error(1)
}
