// internal/inspect/inspect.go
package inspect

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain/solana/programs/stake"
)

// Известные программы для подписей в выводе.
var programNames = map[solana.PublicKey]string{
	solana.SystemProgramID:                    "system",
	solana.TokenProgramID:                     "token",
	solana.SPLAssociatedTokenAccountProgramID: "associated-token-account",
	computebudget.ProgramID:                   "compute-budget",
	stake.ProgramID:                           "stake",
}

// Lookup: ссылка сообщения на address lookup table.
type Lookup struct {
	Table    solana.PublicKey `json:"table" yaml:"table"`
	Writable []uint8          `json:"writable" yaml:"writable"`
	Readonly []uint8          `json:"readonly" yaml:"readonly"`
}

// Instruction: скомпилированная инструкция в читаемом виде.
type Instruction struct {
	Index     int      `json:"index" yaml:"index"`
	ProgramID string   `json:"programId" yaml:"programId"`
	Program   string   `json:"program,omitempty" yaml:"program,omitempty"`
	Accounts  []string `json:"accounts" yaml:"accounts"`
	Data      string   `json:"data" yaml:"data"`

	RawData []byte `json:"-" yaml:"-"`
}

// Transaction: разобранная транзакция.
type Transaction struct {
	Version          string           `json:"version" yaml:"version"`
	Signatures       int              `json:"signatures" yaml:"signatures"`
	Payer            solana.PublicKey `json:"payer" yaml:"payer"`
	Blockhash        solana.Hash      `json:"blockhash" yaml:"blockhash"`
	AccountKeys      []string         `json:"accountKeys" yaml:"accountKeys"`
	Lookups          []Lookup         `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	Instructions     []Instruction    `json:"instructions" yaml:"instructions"`
	ComputeUnitLimit *uint32          `json:"computeUnitLimit,omitempty" yaml:"computeUnitLimit,omitempty"`
	Size             int              `json:"size" yaml:"size"`
}

// Decode разбирает транзакцию из base64 (формат EncodedTransaction результата симуляции).
func Decode(encoded string) (*Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return Describe(tx, len(raw))
}

// Describe строит читаемое описание транзакции. size: длина сериализованной формы.
func Describe(tx *solana.Transaction, size int) (*Transaction, error) {
	msg := tx.Message
	if len(msg.AccountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	out := &Transaction{
		Version:     "legacy",
		Signatures:  len(tx.Signatures),
		Payer:       msg.AccountKeys[0],
		Blockhash:   msg.RecentBlockhash,
		AccountKeys: make([]string, len(msg.AccountKeys)),
		Size:        size,
	}
	if msg.IsVersioned() {
		out.Version = "v0"
	}
	for i, key := range msg.AccountKeys {
		out.AccountKeys[i] = key.String()
	}

	// Адреса из lookup tables идут после статических: сначала все writable, затем readonly.
	var loaded []string
	for _, lookup := range msg.AddressTableLookups {
		out.Lookups = append(out.Lookups, Lookup{
			Table:    lookup.AccountKey,
			Writable: []uint8(lookup.WritableIndexes),
			Readonly: []uint8(lookup.ReadonlyIndexes),
		})
		for _, idx := range lookup.WritableIndexes {
			loaded = append(loaded, fmt.Sprintf("%s[%d]", lookup.AccountKey, idx))
		}
	}
	for _, lookup := range msg.AddressTableLookups {
		for _, idx := range lookup.ReadonlyIndexes {
			loaded = append(loaded, fmt.Sprintf("%s[%d]", lookup.AccountKey, idx))
		}
	}
	resolve := func(index uint16) (string, error) {
		i := int(index)
		if i < len(out.AccountKeys) {
			return out.AccountKeys[i], nil
		}
		if i-len(out.AccountKeys) < len(loaded) {
			return loaded[i-len(out.AccountKeys)], nil
		}
		return "", fmt.Errorf("account index %d out of range", index)
	}

	for i, compiled := range msg.Instructions {
		programID, err := resolve(compiled.ProgramIDIndex)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		ix := Instruction{
			Index:     i,
			ProgramID: programID,
			Accounts:  make([]string, 0, len(compiled.Accounts)),
			Data:      base58.Encode(compiled.Data),
			RawData:   []byte(compiled.Data),
		}
		if key, err := solana.PublicKeyFromBase58(programID); err == nil {
			ix.Program = programNames[key]
			if key.Equals(computebudget.ProgramID) && out.ComputeUnitLimit == nil {
				if units, ok := computebudget.DecodeUnitLimit(compiled.Data); ok {
					out.ComputeUnitLimit = &units
				}
			}
		}
		for _, accountIndex := range compiled.Accounts {
			account, err := resolve(accountIndex)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			ix.Accounts = append(ix.Accounts, account)
		}
		out.Instructions = append(out.Instructions, ix)
	}
	return out, nil
}
