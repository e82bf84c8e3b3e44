// =============================
// File: internal/operations/registry.go
// =============================
package operations

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-sandbox/internal/wallet"
)

// Builder строит план одной операции.
type Builder func() (*Plan, error)

// Registry связывает имена операций с построителями для заданных дескрипторов.
type Registry struct {
	descriptors *Descriptors
	wallet      *wallet.Wallet // ATA кошелька кешируются между запусками
	builders    map[string]Builder
}

// NewRegistry создает реестр всех пяти операций.
func NewRegistry(d *Descriptors) *Registry {
	r := &Registry{
		descriptors: d,
		wallet:      wallet.New(d.Wallet),
	}
	r.builders = map[string]Builder{
		NameSendSOL: func() (*Plan, error) { return BuildSendSOL(d.SendSOL) },
		NameSendToken: func() (*Plan, error) {
			op := d.SendToken
			op.Source = r.sourceAccount(op.Owner, op.Source, op.Mint)
			return BuildSendToken(op)
		},
		NameCreateATAAndSend: func() (*Plan, error) {
			op := d.CreateATAAndSend
			op.Source = r.sourceAccount(op.Owner, op.Source, op.Mint)
			return BuildCreateATAAndSend(op)
		},
		NameStake:   func() (*Plan, error) { return BuildStake(d.Stake) },
		NameUnstake: func() (*Plan, error) { return BuildUnstake(d.Unstake) },
	}
	return r
}

// sourceAccount подставляет кешированный ATA кошелька, если источник не задан явно.
// Для чужого владельца или при ошибке источник остается пустым и его выводит построитель.
func (r *Registry) sourceAccount(owner, source, mint solana.PublicKey) solana.PublicKey {
	if !source.IsZero() || owner.IsZero() || mint.IsZero() || owner != r.wallet.PublicKey {
		return source
	}
	ata, err := r.wallet.GetATA(mint)
	if err != nil {
		return source
	}
	return ata
}

// Build строит план операции по имени.
func (r *Registry) Build(name string) (*Plan, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	plan, err := builder()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return plan, nil
}

// Select проверяет список имен. Пустой список означает все операции.
func (r *Registry) Select(names []string) ([]string, error) {
	if len(names) == 0 {
		return Names(), nil
	}
	selected := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.builders[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// AddressEntry: подписанный адрес для стартового лога.
type AddressEntry struct {
	Label   string           `json:"label" yaml:"label"`
	Address solana.PublicKey `json:"address" yaml:"address"`
}

// KeyAddresses возвращает ключевые адреса песочницы: кошелек, его токен-аккаунт,
// отправителя SOL, vote- и stake-аккаунты. Адреса, которые нельзя вывести, пропускаются.
func (r *Registry) KeyAddresses() []AddressEntry {
	d := r.descriptors
	var entries []AddressEntry
	add := func(label string, address solana.PublicKey) {
		if !address.IsZero() {
			entries = append(entries, AddressEntry{Label: label, Address: address})
		}
	}

	add("Wallet Public Key", d.Wallet)
	if !d.Wallet.IsZero() && !d.SendToken.Mint.IsZero() {
		if ata, err := r.wallet.GetATA(d.SendToken.Mint); err == nil {
			add("Wallet Token Account", ata)
		}
	}
	add("Monitor Wallet", d.SendSOL.From)
	add("Vote Account", d.Stake.VoteAccount)
	add("Stake Account", d.Unstake.StakeAccount)
	return entries
}
