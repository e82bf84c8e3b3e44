package stake

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/mocks"
	stakeprogram "github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
)

// stakerFilter проверяет, что запрос фильтрует по staker кошелька.
func stakerFilter(wallet solana.PublicKey) interface{} {
	return mock.MatchedBy(func(opts *rpc.GetProgramAccountsOpts) bool {
		if opts == nil || len(opts.Filters) != 1 || opts.Filters[0].Memcmp == nil {
			return false
		}
		memcmp := opts.Filters[0].Memcmp
		return memcmp.Offset == 12 &&
			string(memcmp.Bytes) == string(wallet[:]) &&
			opts.Encoding == solana.EncodingBase64
	})
}

func keyedAccount(data []byte, lamports uint64) *rpc.KeyedAccount {
	account := &rpc.Account{Lamports: lamports, Owner: stakeprogram.ProgramID}
	if data != nil {
		account.Data = rpc.DataBytesOrJSONFromBytes(data)
	}
	return &rpc.KeyedAccount{Pubkey: solana.NewWallet().PublicKey(), Account: account}
}

func TestListStakeAccountsEmpty(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()

	client := new(mocks.Client)
	client.On("GetProgramAccountsWithOpts", mock.Anything, stakeprogram.ProgramID, stakerFilter(wallet)).
		Return(rpc.GetProgramAccountsResult{}, nil).
		Once()

	accounts, err := NewService(client, 0, zap.NewNop()).ListStakeAccounts(context.Background(), wallet)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
	client.AssertExpectations(t)
}

func TestListStakeAccountsDecodesState(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	voter := solana.NewWallet().PublicKey()

	delegated := keyedAccount(encodeState(2, wallet, wallet, voter, 1_000_000_000, ^uint64(0)), 1_002_282_880)
	garbage := keyedAccount([]byte{7, 7}, 10)
	noData := keyedAccount(nil, 20)

	client := new(mocks.Client)
	client.On("GetProgramAccountsWithOpts", mock.Anything, stakeprogram.ProgramID, stakerFilter(wallet)).
		Return(rpc.GetProgramAccountsResult{delegated, garbage, nil, noData}, nil)

	accounts, err := NewService(client, 0, zap.NewNop()).ListStakeAccounts(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	assert.Equal(t, delegated.Pubkey, accounts[0].Address)
	assert.Equal(t, uint64(1_002_282_880), accounts[0].Lamports)
	assert.Equal(t, stakeprogram.ProgramID, accounts[0].Owner)
	require.NotNil(t, accounts[0].State)
	assert.Equal(t, KindDelegated, accounts[0].State.Kind)
	assert.Equal(t, voter, accounts[0].State.Delegation.Voter)

	assert.Equal(t, garbage.Pubkey, accounts[1].Address)
	assert.Nil(t, accounts[1].State)
	assert.Equal(t, noData.Pubkey, accounts[2].Address)
	assert.Nil(t, accounts[2].State)
}

func TestListTruncates(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	result := rpc.GetProgramAccountsResult{keyedAccount(nil, 1), keyedAccount(nil, 2), keyedAccount(nil, 3)}

	client := new(mocks.Client)
	client.On("GetProgramAccountsWithOpts", mock.Anything, stakeprogram.ProgramID, mock.Anything).Return(result, nil)

	listing, err := NewService(client, 2, zap.NewNop()).List(context.Background(), wallet)
	require.NoError(t, err)
	assert.True(t, listing.Truncated)
	assert.Len(t, listing.Accounts, 2)
	assert.Equal(t, wallet, listing.Wallet)

	listing, err = NewService(client, 3, zap.NewNop()).List(context.Background(), wallet)
	require.NoError(t, err)
	assert.False(t, listing.Truncated)
	assert.Len(t, listing.Accounts, 3)
}

func TestListStakeAccountsPropagatesErrors(t *testing.T) {
	rpcErr := errors.New("429 Too Many Requests")

	client := new(mocks.Client)
	client.On("GetProgramAccountsWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(nil, rpcErr)

	_, err := NewService(client, 0, zap.NewNop()).ListStakeAccounts(context.Background(), solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.ErrorIs(t, err, rpcErr)
}
