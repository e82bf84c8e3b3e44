// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"fmt"
	"sync"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const maxSeedLength = 32

// OffCurveError возвращается, когда владелец ATA не является точкой на кривой ed25519.
type OffCurveError struct {
	Owner solana.PublicKey
}

func (e *OffCurveError) Error() string {
	return fmt.Sprintf("owner %s is not on the Ed25519 curve", e.Owner)
}

// Wallet представляет публичный адрес кошелька. Приватные ключи здесь не хранятся.
type Wallet struct {
	PublicKey solana.PublicKey

	mu       sync.Mutex
	ataCache map[solana.PublicKey]solana.PublicKey // кеш ATA по mint
}

// New создаёт кошелёк по публичному ключу.
func New(publicKey solana.PublicKey) *Wallet {
	return &Wallet{
		PublicKey: publicKey,
		ataCache:  make(map[solana.PublicKey]solana.PublicKey),
	}
}

// FromBase58 создаёт кошелёк из base58-строки адреса.
func FromBase58(address string) (*Wallet, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wallet address: %w", err)
	}
	return New(pk), nil
}

// IsOnCurve сообщает, является ли адрес валидной точкой ed25519.
func IsOnCurve(address solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(address[:])
	return err == nil
}

// AssociatedTokenAddress вычисляет ATA для пары owner+mint.
// Если allowOffCurve == false, владелец вне кривой отклоняется с OffCurveError.
func AssociatedTokenAddress(owner, mint solana.PublicKey, allowOffCurve bool) (solana.PublicKey, error) {
	if !allowOffCurve && !IsOnCurve(owner) {
		return solana.PublicKey{}, &OffCurveError{Owner: owner}
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	return ata, nil
}

// GetATA возвращает ATA кошелька для заданного mint.
// Если адрес уже был вычислен ранее, возвращается значение из кеша.
func (w *Wallet) GetATA(mint solana.PublicKey) (solana.PublicKey, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ata, ok := w.ataCache[mint]; ok {
		return ata, nil
	}
	ata, err := AssociatedTokenAddress(w.PublicKey, mint, false)
	if err != nil {
		return solana.PublicKey{}, err
	}
	w.ataCache[mint] = ata
	return ata, nil
}

// DeriveWithSeed вычисляет адрес base+seed+owner (аналог createWithSeed).
func (w *Wallet) DeriveWithSeed(seed string, owner solana.PublicKey) (solana.PublicKey, error) {
	if len(seed) > maxSeedLength {
		return solana.PublicKey{}, fmt.Errorf("seed %q exceeds %d bytes", seed, maxSeedLength)
	}
	derived, err := solana.CreateWithSeed(w.PublicKey, seed, owner)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive address with seed: %w", err)
	}
	return derived, nil
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
