// =============================
// File: internal/operations/builders.go
// =============================
package operations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
	"github.com/rovshanmuradov/solana-sandbox/internal/simulation"
	"github.com/rovshanmuradov/solana-sandbox/internal/wallet"
)

const solDecimals = 9

// BuildSendSOL строит системный перевод From -> To. Плательщик: From.
func BuildSendSOL(d SendSOL) (*Plan, error) {
	if err := errors.Join(requireAddress("from", d.From), requireAddress("to", d.To)); err != nil {
		return nil, err
	}
	if d.Lamports == 0 {
		return nil, fmt.Errorf("lamports: %w", ErrZeroAmount)
	}

	return &Plan{
		Name:        NameSendSOL,
		Description: fmt.Sprintf("Transfer %s SOL from %s to %s", formatUnits(d.Lamports, solDecimals), d.From, d.To),
		Instructions: []solana.Instruction{
			system.NewTransferInstruction(d.Lamports, d.From, d.To).Build(),
		},
		Payer: d.From,
	}, nil
}

// BuildSendToken строит TransferChecked. Сумма передается в минимальных единицах без пересчета.
func BuildSendToken(d SendToken) (*Plan, error) {
	if err := errors.Join(requireAddress("owner", d.Owner), requireAddress("mint", d.Mint)); err != nil {
		return nil, err
	}
	if d.Amount == 0 {
		return nil, fmt.Errorf("amount: %w", ErrZeroAmount)
	}

	source := d.Source
	if source.IsZero() {
		ata, err := associatedTokenAccount(d.Owner, d.Mint, false)
		if err != nil {
			return nil, err
		}
		source = ata
	}
	destination := d.Destination
	if destination.IsZero() {
		destination = source
	}

	return &Plan{
		Name: NameSendToken,
		Description: fmt.Sprintf("Transfer %s tokens with %d decimal precision",
			formatUnits(d.Amount, d.Decimals), d.Decimals),
		Instructions: []solana.Instruction{
			transferChecked(d.Amount, d.Decimals, source, d.Mint, destination, d.Owner),
		},
		Payer: d.Owner,
	}, nil
}

// BuildCreateATAAndSend создает ATA получателя и переводит на него токены в одной транзакции.
// Для получателя вне кривой Ed25519 возвращается AddressValidityError, если это не разрешено явно.
func BuildCreateATAAndSend(d CreateATAAndSend) (*Plan, error) {
	if err := errors.Join(
		requireAddress("owner", d.Owner),
		requireAddress("recipient", d.Recipient),
		requireAddress("mint", d.Mint),
	); err != nil {
		return nil, err
	}
	if d.Amount == 0 {
		return nil, fmt.Errorf("amount: %w", ErrZeroAmount)
	}

	recipientATA, err := associatedTokenAccount(d.Recipient, d.Mint, d.AllowOwnerOffCurve)
	if err != nil {
		return nil, err
	}
	source := d.Source
	if source.IsZero() {
		if source, err = associatedTokenAccount(d.Owner, d.Mint, false); err != nil {
			return nil, err
		}
	}

	return &Plan{
		Name: NameCreateATAAndSend,
		Description: fmt.Sprintf("Create associated token account and transfer %s tokens in one transaction",
			formatUnits(d.Amount, d.Decimals)),
		Instructions: []solana.Instruction{
			associatedtokenaccount.NewCreateInstruction(d.Owner, d.Recipient, d.Mint).Build(),
			transferChecked(d.Amount, d.Decimals, source, d.Mint, recipientATA, d.Owner),
		},
		Payer: d.Owner,
	}, nil
}

// BuildStake создает stake-аккаунт по seed, инициализирует его и делегирует на vote-аккаунт.
//
// Instructions:
//  0. system CreateAccountWithSeed (base = staker)
//  1. stake Initialize (staker, withdrawer, без lockup)
//  2. stake DelegateStake
func BuildStake(d Stake) (*Plan, error) {
	if err := errors.Join(
		requireAddress("staker", d.Staker),
		requireAddress("vote_account", d.VoteAccount),
	); err != nil {
		return nil, err
	}
	if d.Lamports == 0 {
		return nil, fmt.Errorf("lamports: %w", ErrZeroAmount)
	}
	withdrawer := d.Withdrawer
	if withdrawer.IsZero() {
		withdrawer = d.Staker
	}

	stakeAccount, err := StakeAccountAddress(d.Staker, d.Seed)
	if err != nil {
		return nil, err
	}

	create, err := stake.CreateAccountWithSeed(d.Staker, stakeAccount, d.Staker, d.Seed, d.Lamports, stake.AccountSize, stake.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to build create account instruction: %w", err)
	}
	initialize, err := stake.Initialize(stakeAccount, stake.Authorized{Staker: d.Staker, Withdrawer: withdrawer}, stake.Lockup{})
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize instruction: %w", err)
	}

	return &Plan{
		Name: NameStake,
		Description: fmt.Sprintf("Create new stake account with %s SOL and delegate to validator %s",
			formatUnits(d.Lamports, solDecimals), d.VoteAccount),
		Instructions: []solana.Instruction{
			create,
			initialize,
			stake.DelegateStake(stakeAccount, d.VoteAccount, d.Staker),
		},
		Payer: d.Staker,
	}, nil
}

// BuildUnstake деактивирует stake-аккаунт. Плательщик: authority.
func BuildUnstake(d Unstake) (*Plan, error) {
	if err := errors.Join(
		requireAddress("stake_account", d.StakeAccount),
		requireAddress("authority", d.Authority),
	); err != nil {
		return nil, err
	}

	return &Plan{
		Name:        NameUnstake,
		Description: "Deactivate existing stake account to prepare for withdrawal",
		Instructions: []solana.Instruction{
			stake.Deactivate(d.StakeAccount, d.Authority),
		},
		Payer: d.Authority,
	}, nil
}

func transferChecked(amount uint64, decimals uint8, source, mint, destination, owner solana.PublicKey) solana.Instruction {
	return token.NewTransferCheckedInstruction(
		amount,
		decimals,
		source,
		mint,
		destination,
		owner,
		[]solana.PublicKey{},
	).Build()
}

// associatedTokenAccount выводит ATA и превращает ошибку кривой в AddressValidityError.
func associatedTokenAccount(owner, mint solana.PublicKey, allowOffCurve bool) (solana.PublicKey, error) {
	ata, err := wallet.AssociatedTokenAddress(owner, mint, allowOffCurve)
	var offCurve *wallet.OffCurveError
	if errors.As(err, &offCurve) {
		return solana.PublicKey{}, &simulation.AddressValidityError{
			Owner:  offCurve.Owner,
			Reason: "TokenOwnerOffCurveError: owner is not on the Ed25519 curve",
		}
	}
	return ata, err
}

// formatUnits переводит минимальные единицы в десятичную запись для описаний.
func formatUnits(amount uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(amount, 10)
	}
	digits := fmt.Sprintf("%0*d", int(decimals)+1, amount)
	split := len(digits) - int(decimals)
	whole, fraction := digits[:split], strings.TrimRight(digits[split:], "0")
	if fraction == "" {
		return whole
	}
	return whole + "." + fraction
}
