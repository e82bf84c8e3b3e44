package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

// offCurveKey возвращает PDA: такие адреса по построению лежат вне кривой.
func offCurveKey(t *testing.T) solana.PublicKey {
	t.Helper()
	pda, _, err := solana.FindAssociatedTokenAddress(solana.NewWallet().PublicKey(), usdcMint)
	require.NoError(t, err)
	return pda
}

func TestIsOnCurve(t *testing.T) {
	assert.True(t, IsOnCurve(solana.NewWallet().PublicKey()))
	assert.False(t, IsOnCurve(offCurveKey(t)))
}

func TestAssociatedTokenAddress(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	ata, err := AssociatedTokenAddress(owner, usdcMint, false)
	require.NoError(t, err)
	expected, _, err := solana.FindAssociatedTokenAddress(owner, usdcMint)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)
}

func TestAssociatedTokenAddressOffCurveOwner(t *testing.T) {
	owner := offCurveKey(t)

	_, err := AssociatedTokenAddress(owner, usdcMint, false)
	require.Error(t, err)
	var offCurve *OffCurveError
	require.True(t, errors.As(err, &offCurve))
	assert.Equal(t, owner, offCurve.Owner)

	ata, err := AssociatedTokenAddress(owner, usdcMint, true)
	require.NoError(t, err)
	assert.False(t, ata.IsZero())
}

func TestGetATACaches(t *testing.T) {
	w := New(solana.NewWallet().PublicKey())

	first, err := w.GetATA(usdcMint)
	require.NoError(t, err)
	second, err := w.GetATA(usdcMint)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, w.ataCache, 1)
}

func TestFromBase58(t *testing.T) {
	key := solana.NewWallet().PublicKey()
	w, err := FromBase58(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, w.PublicKey)
	assert.Equal(t, key.String(), w.String())

	_, err = FromBase58("not-a-key")
	assert.Error(t, err)
}

func TestDeriveWithSeed(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	w := New(base)
	owner := solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")

	derived, err := w.DeriveWithSeed("stake:0", owner)
	require.NoError(t, err)
	expected, err := solana.CreateWithSeed(base, "stake:0", owner)
	require.NoError(t, err)
	assert.Equal(t, expected, derived)

	_, err = w.DeriveWithSeed(strings.Repeat("x", maxSeedLength+1), owner)
	assert.Error(t, err)
}
