package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// ErrSimulationFailed matches every error reported by the cluster for a simulated
// transaction (InstructionError and UnrecognizedError).
var ErrSimulationFailed = errors.New("simulation failed")

// ErrAssemble wraps local failures to build or serialize the transaction. They are
// deterministic and never reach the cluster.
var ErrAssemble = errors.New("failed to assemble transaction")

// Hints for custom program error codes returned by the system and token programs.
var customErrorHints = map[uint32]string{
	0: "account already exists",
	1: "invalid instruction data",
	2: "invalid account data",
	3: "insufficient USDC balance or invalid token account",
	6: "insufficient funds for required minimum balance",
}

// InstructionError is a structural failure: instruction Index failed with custom program
// error Code.
type InstructionError struct {
	Index int
	Code  uint32
}

func (e *InstructionError) Hint() string {
	return customErrorHints[e.Code]
}

func (e *InstructionError) Error() string {
	msg := fmt.Sprintf("Error in transaction: instruction index %d, custom program error %d", e.Index, e.Code)
	if hint := e.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

func (e *InstructionError) Is(target error) bool {
	return target == ErrSimulationFailed
}

// UnrecognizedError carries any error shape the normalizer does not interpret.
type UnrecognizedError struct {
	Raw interface{}
}

func (e *UnrecognizedError) Error() string {
	return stringify(e.Raw)
}

func (e *UnrecognizedError) Is(target error) bool {
	return target == ErrSimulationFailed
}

// AddressValidityError is raised by instruction builders before any network call when a
// derived token account cannot be computed for Owner.
type AddressValidityError struct {
	Owner  solana.PublicKey
	Reason string
}

func (e *AddressValidityError) Error() string {
	return fmt.Sprintf("invalid owner address %s: %s", e.Owner, e.Reason)
}

// NormalizeError converts the raw value.err of a simulateTransaction response into one of
// the error kinds above. A nil raw value means success and yields nil.
func NormalizeError(raw interface{}) error {
	if raw == nil {
		return nil
	}

	obj, ok := raw.(map[string]interface{})
	if !ok || len(obj) != 1 {
		return &UnrecognizedError{Raw: raw}
	}
	pair, ok := obj["InstructionError"].([]interface{})
	if !ok || len(pair) != 2 {
		return &UnrecognizedError{Raw: raw}
	}
	index, ok := toUint(pair[0])
	if !ok || index > math.MaxInt32 {
		return &UnrecognizedError{Raw: raw}
	}
	detail, ok := pair[1].(map[string]interface{})
	if !ok || len(detail) != 1 {
		return &UnrecognizedError{Raw: raw}
	}
	code, ok := toUint(detail["Custom"])
	if !ok || code > math.MaxUint32 {
		return &UnrecognizedError{Raw: raw}
	}

	return &InstructionError{Index: int(index), Code: uint32(code)}
}

func toUint(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return uint64(n), true
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return u, err == nil
	case int:
		return uint64(n), n >= 0
	case int64:
		return uint64(n), n >= 0
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
