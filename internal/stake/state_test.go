package stake

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeState собирает данные StakeStateV2 размером 200 байт.
func encodeState(tag uint32, staker, withdrawer, voter solana.PublicKey, delegated uint64, deactivation uint64) []byte {
	data := make([]byte, 200)
	binary.LittleEndian.PutUint32(data[0:], tag)
	binary.LittleEndian.PutUint64(data[4:], 2_282_880)
	copy(data[12:44], staker[:])
	copy(data[44:76], withdrawer[:])
	if tag == 2 {
		copy(data[124:156], voter[:])
		binary.LittleEndian.PutUint64(data[156:], delegated)
		binary.LittleEndian.PutUint64(data[164:], 512)
		binary.LittleEndian.PutUint64(data[172:], deactivation)
	}
	return data
}

func TestDecodeStateDelegated(t *testing.T) {
	staker, withdrawer, voter := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()

	state, err := DecodeState(encodeState(2, staker, withdrawer, voter, 4_997_717_120, ^uint64(0)))
	require.NoError(t, err)
	assert.Equal(t, KindDelegated, state.Kind)
	assert.Equal(t, uint64(2_282_880), state.RentExemptReserve)
	assert.Equal(t, staker, state.Staker)
	assert.Equal(t, withdrawer, state.Withdrawer)
	assert.True(t, state.Custodian.IsZero())

	require.NotNil(t, state.Delegation)
	assert.Equal(t, voter, state.Delegation.Voter)
	assert.Equal(t, uint64(4_997_717_120), state.Delegation.Stake)
	assert.Equal(t, uint64(512), state.Delegation.ActivationEpoch)
	assert.False(t, state.Delegation.Deactivating())
}

func TestDecodeStateDeactivating(t *testing.T) {
	state, err := DecodeState(encodeState(2, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 1, 600))
	require.NoError(t, err)
	require.NotNil(t, state.Delegation)
	assert.True(t, state.Delegation.Deactivating())
	assert.Equal(t, uint64(600), state.Delegation.DeactivationEpoch)
}

func TestDecodeStateInitialized(t *testing.T) {
	staker := solana.NewWallet().PublicKey()

	state, err := DecodeState(encodeState(1, staker, staker, solana.PublicKey{}, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, KindInitialized, state.Kind)
	assert.Equal(t, staker, state.Staker)
	assert.Nil(t, state.Delegation)
}

func TestDecodeStateOtherKinds(t *testing.T) {
	state, err := DecodeState([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, KindUninitialized, state.Kind)

	state, err = DecodeState([]byte{3, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, KindRewardsPool, state.Kind)
}

func TestDecodeStateErrors(t *testing.T) {
	_, err := DecodeState(nil)
	assert.Error(t, err)

	_, err = DecodeState([]byte{9, 0, 0, 0})
	assert.Error(t, err)

	_, err = DecodeState([]byte{2, 0, 0, 0, 1, 2, 3})
	assert.Error(t, err)
}
