package inspect

import (
	"encoding/base64"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
)

func encode(t *testing.T, instructions []solana.Instruction, payer solana.PublicKey) (string, *solana.Transaction) {
	t.Helper()
	tx, err := solana.NewTransaction(instructions, solana.Hash{}, solana.TransactionPayer(payer))
	require.NoError(t, err)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw), tx
}

func TestDecode(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()
	budget, err := computebudget.BuildInstructions(computebudget.CeilingConfig())
	require.NoError(t, err)

	encoded, _ := encode(t, append(budget,
		system.NewTransferInstruction(5_000_000, payer, recipient).Build(),
		stake.Deactivate(solana.NewWallet().PublicKey(), payer),
	), payer)

	tx, err := Decode("  " + encoded + "\n")
	require.NoError(t, err)
	assert.Equal(t, "legacy", tx.Version)
	assert.Equal(t, 1, tx.Signatures)
	assert.Equal(t, payer, tx.Payer)
	assert.Equal(t, payer.String(), tx.AccountKeys[0])
	assert.Empty(t, tx.Lookups)
	assert.Positive(t, tx.Size)

	require.NotNil(t, tx.ComputeUnitLimit)
	assert.Equal(t, computebudget.MaxUnits, *tx.ComputeUnitLimit)

	require.Len(t, tx.Instructions, 3)
	assert.Equal(t, "compute-budget", tx.Instructions[0].Program)
	assert.Empty(t, tx.Instructions[0].Accounts)

	transfer := tx.Instructions[1]
	assert.Equal(t, 1, transfer.Index)
	assert.Equal(t, "system", transfer.Program)
	assert.Equal(t, []string{payer.String(), recipient.String()}, transfer.Accounts)
	assert.Equal(t, base58.Encode(transfer.RawData), transfer.Data)

	assert.Equal(t, "stake", tx.Instructions[2].Program)
	assert.Len(t, tx.Instructions[2].Accounts, 3)
}

func TestDecodeVersioned(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build()},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	tx.Message.SetVersion(solana.MessageVersionV0)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	decoded, err := Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "v0", decoded.Version)
	assert.Equal(t, len(raw), decoded.Size)
	assert.Nil(t, decoded.ComputeUnitLimit)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("%%%")
	assert.ErrorContains(t, err, "invalid base64")

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte{1}))
	assert.Error(t, err)
}

func TestDescribeUnknownProgram(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	program := solana.NewWallet().PublicKey()
	_, tx := encode(t, []solana.Instruction{
		solana.NewInstruction(program, []*solana.AccountMeta{{PublicKey: payer, IsSigner: true, IsWritable: true}}, []byte{1, 2}),
	}, payer)

	described, err := Describe(tx, 0)
	require.NoError(t, err)
	require.Len(t, described.Instructions, 1)
	assert.Equal(t, program.String(), described.Instructions[0].ProgramID)
	assert.Empty(t, described.Instructions[0].Program)
	assert.Equal(t, base58.Encode([]byte{1, 2}), described.Instructions[0].Data)
}

func TestDescribeEmptyTransaction(t *testing.T) {
	_, err := Describe(&solana.Transaction{}, 0)
	assert.Error(t, err)
}
