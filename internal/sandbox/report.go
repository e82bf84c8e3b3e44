// =============================
// File: internal/sandbox/report.go
// =============================
package sandbox

import (
	"errors"

	"github.com/rovshanmuradov/solana-sandbox/internal/simulation"
)

// ReportEntry: сериализуемое представление Outcome для json/yaml вывода.
type ReportEntry struct {
	Name               string   `json:"name" yaml:"name"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	ComputeUnits       *uint64  `json:"computeUnits" yaml:"computeUnits"`
	EncodedTransaction string   `json:"encodedTransaction,omitempty" yaml:"encodedTransaction,omitempty"`
	Error              string   `json:"error,omitempty" yaml:"error,omitempty"`
	InstructionIndex   *int     `json:"instructionIndex,omitempty" yaml:"instructionIndex,omitempty"`
	CustomCode         *uint32  `json:"customCode,omitempty" yaml:"customCode,omitempty"`
	Logs               []string `json:"logs,omitempty" yaml:"logs,omitempty"`
	Attempts           int      `json:"attempts" yaml:"attempts"`
}

// Report превращает результаты в записи отчета, сохраняя порядок.
func Report(outcomes []Outcome) []ReportEntry {
	entries := make([]ReportEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := ReportEntry{
			Name:        outcome.Name,
			Description: outcome.Description,
			Attempts:    outcome.Attempts,
		}
		if outcome.Result != nil {
			entry.ComputeUnits = outcome.Result.ComputeUnits
			entry.EncodedTransaction = outcome.Result.EncodedTransaction
			entry.Logs = outcome.Result.Logs
		}
		if outcome.Err != nil {
			entry.Error = outcome.Err.Error()
			var instructionErr *simulation.InstructionError
			if errors.As(outcome.Err, &instructionErr) {
				index, code := instructionErr.Index, instructionErr.Code
				entry.InstructionIndex = &index
				entry.CustomCode = &code
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
