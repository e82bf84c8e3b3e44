// internal/simulation/lookup.go
package simulation

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-sandbox/internal/blockchain"
)

// ResolveLookupTables загружает содержимое address lookup tables по их адресам.
// Пустой список адресов дает пустой результат без обращения к сети.
func ResolveLookupTables(ctx context.Context, client blockchain.Client, addresses []solana.PublicKey) ([]LookupTable, error) {
	tables := make([]LookupTable, 0, len(addresses))
	for _, address := range addresses {
		entries, err := client.GetAddressLookupTable(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve lookup table %s: %w", address, err)
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("lookup table %s is empty", address)
		}
		tables = append(tables, LookupTable{Address: address, Addresses: entries})
	}
	return tables, nil
}
