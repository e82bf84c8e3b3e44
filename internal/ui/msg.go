package ui

import (
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
)

// SimulationsDoneMsg приходит, когда все операции просимулированы.
type SimulationsDoneMsg struct {
	Outcomes []sandbox.Outcome
	Err      error
}

// StakesLoadedMsg приходит с результатом запроса stake-аккаунтов.
type StakesLoadedMsg struct {
	Listing *stake.Listing
	Err     error
}

// OperationDoneMsg приходит по завершении каждой операции, пока остальные выполняются.
type OperationDoneMsg struct {
	Outcome sandbox.Outcome
}
