// internal/blockchain/solana/programs/stake/stake.go
package stake

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var (
	ProgramID       = solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	ConfigID        = solana.MustPublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
	SystemProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
)

// AccountSize: размер StakeStateV2 в байтах.
const AccountSize uint64 = 200

// Индексы инструкций stake-программы.
const (
	instructionInitialize    uint32 = 0
	instructionDelegateStake uint32 = 2
	instructionDeactivate    uint32 = 5
)

// Индекс CreateAccountWithSeed в system-программе.
const systemCreateAccountWithSeed uint32 = 3

// Authorized задает ключи staker и withdrawer.
type Authorized struct {
	Staker     solana.PublicKey
	Withdrawer solana.PublicKey
}

// Lockup задает ограничения на вывод средств. Нулевое значение: без ограничений.
type Lockup struct {
	UnixTimestamp int64
	Epoch         uint64
	Custodian     solana.PublicKey
}

type initializeData struct {
	Instruction uint32
	Staker      [32]byte
	Withdrawer  [32]byte
	Timestamp   int64
	Epoch       uint64
	Custodian   [32]byte
}

// Reference: https://github.com/solana-labs/solana/blob/v1.18.0/sdk/program/src/system_instruction.rs
//
// CreateAccountWithSeed {
//   base: Pubkey,
//   seed: String,   // u64 length prefix (bincode)
//   lamports: u64,
//   space: u64,
//   owner: Pubkey,
// }
//
// # Account references
//   0. [WRITE, SIGNER] Funding account
//   1. [WRITE] Created account
//   2. [SIGNER] (optional) Base account, if different from the funding account
func CreateAccountWithSeed(funder, created, base solana.PublicKey, seed string, lamports, space uint64, owner solana.PublicKey) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint32(systemCreateAccountWithSeed, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(base[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(uint64(len(seed)), binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes([]byte(seed), false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(lamports, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(space, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(owner[:], false); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: funder, IsWritable: true, IsSigner: true},
		{PublicKey: created, IsWritable: true, IsSigner: false},
	}
	if !base.Equals(funder) {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: base, IsWritable: false, IsSigner: true})
	}

	return solana.NewInstruction(SystemProgramID, accounts, buf.Bytes()), nil
}

// Initialize создает инструкцию инициализации stake-аккаунта.
//
// # Account references
//   0. [WRITE] Uninitialized stake account
//   1. [] Rent sysvar
func Initialize(stakeAccount solana.PublicKey, authorized Authorized, lockup Lockup) (solana.Instruction, error) {
	data, err := borsh.Serialize(initializeData{
		Instruction: instructionInitialize,
		Staker:      authorized.Staker,
		Withdrawer:  authorized.Withdrawer,
		Timestamp:   lockup.UnixTimestamp,
		Epoch:       lockup.Epoch,
		Custodian:   lockup.Custodian,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize data: %w", err)
	}

	return solana.NewInstruction(
		ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	), nil
}

// DelegateStake создает инструкцию делегирования на vote-аккаунт валидатора.
//
// # Account references
//   0. [WRITE] Initialized stake account to be delegated
//   1. [] Vote account to which this stake will be delegated
//   2. [] Clock sysvar
//   3. [] Stake history sysvar
//   4. [] Stake config account
//   5. [SIGNER] Stake authority
func DelegateStake(stakeAccount, voteAccount, authority solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: voteAccount, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarStakeHistoryPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: ConfigID, IsWritable: false, IsSigner: false},
			{PublicKey: authority, IsWritable: false, IsSigner: true},
		},
		instructionTag(instructionDelegateStake),
	)
}

// Deactivate создает инструкцию деактивации делегированного stake-аккаунта.
//
// # Account references
//   0. [WRITE] Delegated stake account
//   1. [] Clock sysvar
//   2. [SIGNER] Stake authority
func Deactivate(stakeAccount, authority solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: authority, IsWritable: false, IsSigner: true},
		},
		instructionTag(instructionDeactivate),
	)
}

func instructionTag(tag uint32) []byte {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, tag)
	return data
}
