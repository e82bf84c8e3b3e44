// =============================
// File: internal/operations/plan.go
// =============================
package operations

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Имена операций, под которыми они симулируются и выводятся в отчетах.
const (
	NameSendSOL          = "send-sol"
	NameSendToken        = "send-token"
	NameCreateATAAndSend = "create-ata-and-send"
	NameStake            = "stake"
	NameUnstake          = "unstake"
)

// Names возвращает имена всех операций в порядке отчета.
func Names() []string {
	return []string{NameSendSOL, NameSendToken, NameCreateATAAndSend, NameStake, NameUnstake}
}

var (
	// ErrMissingAddress возвращается, если обязательный адрес операции не задан.
	ErrMissingAddress = errors.New("required address is not set")
	// ErrZeroAmount возвращается для переводов на ноль единиц.
	ErrZeroAmount = errors.New("amount must be greater than zero")
	// ErrUnknownOperation возвращается реестром для неизвестного имени.
	ErrUnknownOperation = errors.New("unknown operation")
)

// Plan: готовый к симуляции список инструкций одной операции.
type Plan struct {
	Name         string
	Description  string
	Instructions []solana.Instruction
	Payer        solana.PublicKey
}

func requireAddress(field string, address solana.PublicKey) error {
	if address.IsZero() {
		return fmt.Errorf("%s: %w", field, ErrMissingAddress)
	}
	return nil
}
