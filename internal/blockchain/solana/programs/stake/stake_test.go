package stake

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountWithSeedLayout(t *testing.T) {
	funder := solana.NewWallet().PublicKey()
	created := solana.NewWallet().PublicKey()
	seed := "stake:0"

	ix, err := CreateAccountWithSeed(funder, created, funder, seed, 1_000_000_000, AccountSize, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, SystemProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, created, accounts[1].PublicKey)
	assert.False(t, accounts[1].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 4+32+8+len(seed)+8+8+32)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, funder[:], data[4:36])
	assert.Equal(t, uint64(len(seed)), binary.LittleEndian.Uint64(data[36:44]))
	offset := 44 + len(seed)
	assert.Equal(t, seed, string(data[44:offset]))
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[offset:offset+8]))
	assert.Equal(t, AccountSize, binary.LittleEndian.Uint64(data[offset+8:offset+16]))
	assert.Equal(t, ProgramID[:], data[offset+16:])
}

func TestCreateAccountWithSeedSeparateBase(t *testing.T) {
	funder := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()

	ix, err := CreateAccountWithSeed(funder, solana.NewWallet().PublicKey(), base, "s", 1, AccountSize, ProgramID)
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, base, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsSigner)
	assert.False(t, accounts[2].IsWritable)
}

func TestInitializeLayout(t *testing.T) {
	stakeAccount := solana.NewWallet().PublicKey()
	staker := solana.NewWallet().PublicKey()
	withdrawer := solana.NewWallet().PublicKey()

	ix, err := Initialize(stakeAccount, Authorized{Staker: staker, Withdrawer: withdrawer}, Lockup{})
	require.NoError(t, err)
	assert.Equal(t, ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 116)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, staker[:], data[4:36])
	assert.Equal(t, withdrawer[:], data[36:68])
	assert.Equal(t, make([]byte, 48), data[68:])

	accounts := ix.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, stakeAccount, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, solana.SysVarRentPubkey, accounts[1].PublicKey)
}

func TestDelegateStakeAndDeactivate(t *testing.T) {
	stakeAccount := solana.NewWallet().PublicKey()
	vote := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	delegate := DelegateStake(stakeAccount, vote, authority)
	data, err := delegate.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0}, data)
	accounts := delegate.Accounts()
	require.Len(t, accounts, 6)
	assert.Equal(t, vote, accounts[1].PublicKey)
	assert.Equal(t, ConfigID, accounts[4].PublicKey)
	assert.Equal(t, authority, accounts[5].PublicKey)
	assert.True(t, accounts[5].IsSigner)

	deactivate := Deactivate(stakeAccount, authority)
	data, err = deactivate.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 0, 0}, data)
	accounts = deactivate.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, stakeAccount, accounts[0].PublicKey)
	assert.Equal(t, solana.SysVarClockPubkey, accounts[1].PublicKey)
	assert.True(t, accounts[2].IsSigner)
}
