package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
	"github.com/rovshanmuradov/solana-sandbox/internal/simulation"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
)

func testServices(listing *stake.Listing, stakesErr error) Services {
	units := uint64(450)
	return Services{
		Run: func(_ context.Context, onDone func(sandbox.Outcome)) ([]sandbox.Outcome, error) {
			outcomes := []sandbox.Outcome{
				{Name: operations.NameSendSOL, Result: &simulation.Result{Name: operations.NameSendSOL, ComputeUnits: &units}},
				{Name: operations.NameStake, Err: &simulation.InstructionError{Index: 1, Code: 0}},
			}
			for _, outcome := range outcomes {
				onDone(outcome)
			}
			return outcomes, nil
		},
		Stakes: func(context.Context) (*stake.Listing, error) {
			return listing, stakesErr
		},
		Addresses: []operations.AddressEntry{
			{Label: "Wallet Public Key", Address: solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")},
		},
	}
}

func TestDashboardShowsOutcomes(t *testing.T) {
	sender := NewUpdateSender(make(chan tea.Msg, 16), zap.NewNop())
	defer sender.Close()
	d := NewDashboard(context.Background(), testServices(&stake.Listing{Accounts: []stake.Summary{}}, nil), sender)

	view := d.View()
	assert.Contains(t, view, "Solana compute unit sandbox")
	assert.Contains(t, view, "Wallet Public Key")
	assert.Contains(t, view, "running")

	done := d.runSimulations()()
	require.IsType(t, SimulationsDoneMsg{}, done)

	// промежуточное обновление приходит через канал отправителя
	update := d.listen()()
	require.IsType(t, OperationDoneMsg{}, update)
	_, cmd := d.Update(update)
	assert.NotNil(t, cmd)

	_, _ = d.Update(done)
	assert.False(t, d.running)

	view = d.View()
	assert.Contains(t, view, "450")
	assert.Contains(t, view, "instruction index 1")
	assert.Contains(t, view, "skipped")

	_, _ = d.Update(d.loadStakes()())
	assert.False(t, d.loading)
	assert.Contains(t, d.View(), "No stake accounts found.")
}

func TestDashboardStakeRowsAndErrors(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	listing := &stake.Listing{
		Accounts: []stake.Summary{
			{Address: account, Lamports: 5_000_000_000, State: &stake.State{Kind: stake.KindDelegated}},
		},
		Truncated: true,
	}

	d := NewDashboard(context.Background(), testServices(listing, nil), nil)
	_, _ = d.Update(d.loadStakes()())
	view := d.View()
	assert.Contains(t, view, "delegated")
	assert.Contains(t, view, "Result truncated.")

	d = NewDashboard(context.Background(), testServices(nil, errors.New("429 Too Many Requests")), nil)
	_, _ = d.Update(d.loadStakes()())
	assert.Contains(t, d.View(), "Failed to load stake accounts: 429 Too Many Requests")
}

func TestDashboardKeys(t *testing.T) {
	d := NewDashboard(context.Background(), testServices(&stake.Listing{}, nil), nil)

	// пока идет симуляция, повторный запуск игнорируется
	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)

	_, _ = d.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusStakes, d.focus)
	_, _ = d.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusOperations, d.focus)

	_, _ = d.Update(SimulationsDoneMsg{})
	_, _ = d.Update(StakesLoadedMsg{Listing: &stake.Listing{}})
	_, cmd = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.NotNil(t, cmd)
	assert.True(t, d.running)
	assert.True(t, d.loading)

	_, cmd = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
