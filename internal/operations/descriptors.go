// =============================
// File: internal/operations/descriptors.go
// =============================
package operations

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/multierr"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
	"github.com/rovshanmuradov/solana-sandbox/internal/config"
	"github.com/rovshanmuradov/solana-sandbox/internal/wallet"
)

// SendSOL описывает перевод lamports.
type SendSOL struct {
	From     solana.PublicKey
	To       solana.PublicKey
	Lamports uint64
}

// SendToken описывает TransferChecked между существующими токен-аккаунтами.
// Нулевой Source означает ATA владельца, нулевой Destination: перевод на Source.
type SendToken struct {
	Owner       solana.PublicKey
	Source      solana.PublicKey
	Destination solana.PublicKey
	Mint        solana.PublicKey
	Amount      uint64
	Decimals    uint8
}

// CreateATAAndSend описывает создание ATA получателя и перевод на него.
type CreateATAAndSend struct {
	Owner              solana.PublicKey
	Source             solana.PublicKey
	Recipient          solana.PublicKey
	Mint               solana.PublicKey
	Amount             uint64
	Decimals           uint8
	AllowOwnerOffCurve bool
}

// Stake описывает создание stake-аккаунта по seed и делегирование.
type Stake struct {
	Staker      solana.PublicKey
	Withdrawer  solana.PublicKey
	VoteAccount solana.PublicKey
	Seed        string
	Lamports    uint64
}

// Unstake описывает деактивацию stake-аккаунта.
type Unstake struct {
	StakeAccount solana.PublicKey
	Authority    solana.PublicKey
}

// Descriptors: параметры всех операций, разобранные из конфигурации.
type Descriptors struct {
	Wallet           solana.PublicKey
	SendSOL          SendSOL
	SendToken        SendToken
	CreateATAAndSend CreateATAAndSend
	Stake            Stake
	Unstake          Unstake
}

// DescriptorsFromConfig разбирает адреса конфигурации. Пустые адреса остаются нулевыми:
// их проверяет соответствующий построитель, чтобы одна неполная операция не мешала остальным.
// Если адрес stake-аккаунта для unstake не задан, он выводится из staker и seed операции stake.
func DescriptorsFromConfig(cfg *config.Config) (*Descriptors, error) {
	var errs error
	parse := func(field, value string) solana.PublicKey {
		if value == "" {
			return solana.PublicKey{}
		}
		key, err := solana.PublicKeyFromBase58(value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", field, err))
			return solana.PublicKey{}
		}
		return key
	}

	ops := cfg.Operations
	d := &Descriptors{
		Wallet: parse("wallet", cfg.Wallet),
		SendSOL: SendSOL{
			From:     parse("send_sol.from", ops.SendSOL.From),
			To:       parse("send_sol.to", ops.SendSOL.To),
			Lamports: ops.SendSOL.Lamports,
		},
		SendToken: SendToken{
			Owner:       parse("send_token.owner", ops.SendToken.Owner),
			Source:      parse("send_token.source", ops.SendToken.Source),
			Destination: parse("send_token.destination", ops.SendToken.Destination),
			Mint:        parse("send_token.mint", ops.SendToken.Mint),
			Amount:      ops.SendToken.Amount,
			Decimals:    ops.SendToken.Decimals,
		},
		CreateATAAndSend: CreateATAAndSend{
			Owner:              parse("create_ata_and_send.owner", ops.CreateATAAndSend.Owner),
			Source:             parse("create_ata_and_send.source", ops.CreateATAAndSend.Source),
			Recipient:          parse("create_ata_and_send.recipient", ops.CreateATAAndSend.Recipient),
			Mint:               parse("create_ata_and_send.mint", ops.CreateATAAndSend.Mint),
			Amount:             ops.CreateATAAndSend.Amount,
			Decimals:           ops.CreateATAAndSend.Decimals,
			AllowOwnerOffCurve: ops.CreateATAAndSend.AllowOwnerOffCurve,
		},
		Stake: Stake{
			Staker:      parse("stake.staker", ops.Stake.Staker),
			Withdrawer:  parse("stake.withdrawer", ops.Stake.Withdrawer),
			VoteAccount: parse("stake.vote_account", ops.Stake.VoteAccount),
			Seed:        ops.Stake.Seed,
			Lamports:    ops.Stake.Lamports,
		},
		Unstake: Unstake{
			StakeAccount: parse("unstake.stake_account", ops.Unstake.StakeAccount),
			Authority:    parse("unstake.authority", ops.Unstake.Authority),
		},
	}
	if errs != nil {
		return nil, errs
	}

	if d.Unstake.StakeAccount.IsZero() && !d.Stake.Staker.IsZero() {
		derived, err := StakeAccountAddress(d.Stake.Staker, d.Stake.Seed)
		if err != nil {
			return nil, fmt.Errorf("unstake.stake_account: %w", err)
		}
		d.Unstake.StakeAccount = derived
	}
	return d, nil
}

// StakeAccountAddress выводит адрес stake-аккаунта createWithSeed(base, seed, stake program).
func StakeAccountAddress(base solana.PublicKey, seed string) (solana.PublicKey, error) {
	derived, err := wallet.New(base).DeriveWithSeed(seed, stake.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive stake account: %w", err)
	}
	return derived, nil
}
