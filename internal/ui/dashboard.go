package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
	"github.com/rovshanmuradov/solana-sandbox/internal/ui/style"
)

// Services: то, что дашборду нужно от песочницы.
type Services struct {
	Run       func(ctx context.Context, onDone func(sandbox.Outcome)) ([]sandbox.Outcome, error)
	Stakes    func(ctx context.Context) (*stake.Listing, error)
	Addresses []operations.AddressEntry
}

type focusedTable int

const (
	focusOperations focusedTable = iota
	focusStakes
)

// Dashboard показывает compute units операций и stake-аккаунты кошелька.
type Dashboard struct {
	ctx      context.Context
	services Services
	sender   *UpdateSender

	keys    KeyMap
	help    help.Model
	styles  style.Styles
	spinner spinner.Model

	operations table.Model
	stakes     table.Model
	focus      focusedTable

	running   bool
	loading   bool
	outcomes  map[string]sandbox.Outcome
	runErr    error
	listing   *stake.Listing
	stakesErr error
}

func NewDashboard(ctx context.Context, services Services, sender *UpdateSender) *Dashboard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Cyan)

	ops := table.New(
		table.WithColumns([]table.Column{
			{Title: "Operation", Width: 22},
			{Title: "Compute Units", Width: 14},
			{Title: "Status", Width: 60},
		}),
		table.WithFocused(true),
		table.WithHeight(len(operations.Names())+1),
	)
	stakes := table.New(
		table.WithColumns([]table.Column{
			{Title: "Account", Width: 46},
			{Title: "Lamports", Width: 16},
			{Title: "State", Width: 14},
		}),
		table.WithHeight(8),
	)

	d := &Dashboard{
		ctx:        ctx,
		services:   services,
		sender:     sender,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		styles:     style.DefaultStyles(),
		spinner:    s,
		operations: ops,
		stakes:     stakes,
		outcomes:   make(map[string]sandbox.Outcome),
		running:    true,
		loading:    true,
	}
	d.refreshOperations()
	return d
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.runSimulations(), d.loadStakes(), d.listen())
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Quit):
			return d, tea.Quit
		case key.Matches(msg, d.keys.Switch):
			d.toggleFocus()
			return d, nil
		case key.Matches(msg, d.keys.Refresh):
			if d.running || d.loading {
				return d, nil
			}
			d.running, d.loading = true, true
			d.outcomes = make(map[string]sandbox.Outcome)
			d.runErr, d.stakesErr = nil, nil
			d.refreshOperations()
			return d, tea.Batch(d.spinner.Tick, d.runSimulations(), d.loadStakes(), d.listen())
		}

	case OperationDoneMsg:
		d.outcomes[msg.Outcome.Name] = msg.Outcome
		d.refreshOperations()
		if d.running {
			cmds = append(cmds, d.listen())
		}
		return d, tea.Batch(cmds...)

	case SimulationsDoneMsg:
		d.running = false
		d.runErr = msg.Err
		for _, outcome := range msg.Outcomes {
			d.outcomes[outcome.Name] = outcome
		}
		d.refreshOperations()
		return d, nil

	case StakesLoadedMsg:
		d.loading = false
		d.listing, d.stakesErr = msg.Listing, msg.Err
		d.refreshStakes()
		return d, nil

	case spinner.TickMsg:
		if !d.running && !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	var cmd tea.Cmd
	if d.focus == focusOperations {
		d.operations, cmd = d.operations.Update(msg)
	} else {
		d.stakes, cmd = d.stakes.Update(msg)
	}
	return d, cmd
}

func (d *Dashboard) View() string {
	var b strings.Builder
	b.WriteString(d.styles.Title.Render("Solana compute unit sandbox"))
	b.WriteString("\n")

	for _, entry := range d.services.Addresses {
		b.WriteString(d.styles.Label.Render(fmt.Sprintf("%-22s", entry.Label)))
		b.WriteString(d.styles.Value.Render(entry.Address.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	header := "Compute units"
	if d.running {
		header += " " + d.spinner.View()
	}
	b.WriteString(d.styles.Section.Render(header) + "\n")
	b.WriteString(d.styles.Box.Render(d.operations.View()) + "\n")
	if d.runErr != nil {
		b.WriteString(d.styles.Error.Render(d.runErr.Error()) + "\n")
	}

	header = "Stake accounts"
	if d.loading {
		header += " " + d.spinner.View()
	}
	b.WriteString(d.styles.Section.Render(header) + "\n")
	switch {
	case d.stakesErr != nil:
		b.WriteString(d.styles.Error.Render("Failed to load stake accounts: "+d.stakesErr.Error()) + "\n")
	case !d.loading && d.listing != nil && len(d.listing.Accounts) == 0:
		b.WriteString(d.styles.Muted.Render("No stake accounts found.") + "\n")
	default:
		b.WriteString(d.styles.Box.Render(d.stakes.View()) + "\n")
		if d.listing != nil && d.listing.Truncated {
			b.WriteString(d.styles.Muted.Render("Result truncated.") + "\n")
		}
	}

	b.WriteString("\n" + d.help.View(d.keys))
	return b.String()
}

func (d *Dashboard) toggleFocus() {
	if d.focus == focusOperations {
		d.focus = focusStakes
		d.operations.Blur()
		d.stakes.Focus()
		return
	}
	d.focus = focusOperations
	d.stakes.Blur()
	d.operations.Focus()
}

func (d *Dashboard) refreshOperations() {
	rows := make([]table.Row, 0, len(operations.Names()))
	for _, name := range operations.Names() {
		outcome, done := d.outcomes[name]
		units, status := "…", "running"
		if !done && !d.running {
			status = "skipped"
		}
		if done {
			units, status = "-", "ok"
			if outcome.Result != nil && outcome.Result.ComputeUnits != nil {
				units = strconv.FormatUint(*outcome.Result.ComputeUnits, 10)
			}
			if outcome.Err != nil {
				status = outcome.Err.Error()
			}
		}
		rows = append(rows, table.Row{name, units, status})
	}
	d.operations.SetRows(rows)
}

func (d *Dashboard) refreshStakes() {
	if d.listing == nil {
		d.stakes.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(d.listing.Accounts))
	for _, account := range d.listing.Accounts {
		state := "-"
		if account.State != nil {
			state = string(account.State.Kind)
		}
		rows = append(rows, table.Row{
			account.Address.String(),
			strconv.FormatUint(account.Lamports, 10),
			state,
		})
	}
	d.stakes.SetRows(rows)
}

func (d *Dashboard) runSimulations() tea.Cmd {
	return func() tea.Msg {
		outcomes, err := d.services.Run(d.ctx, func(outcome sandbox.Outcome) {
			if d.sender != nil {
				d.sender.SendUpdate(OperationDoneMsg{Outcome: outcome})
			}
		})
		return SimulationsDoneMsg{Outcomes: outcomes, Err: err}
	}
}

func (d *Dashboard) loadStakes() tea.Cmd {
	return func() tea.Msg {
		listing, err := d.services.Stakes(d.ctx)
		return StakesLoadedMsg{Listing: listing, Err: err}
	}
}

// listen ждет следующее промежуточное обновление от раннера.
func (d *Dashboard) listen() tea.Cmd {
	if d.sender == nil {
		return nil
	}
	updates := d.sender.Updates()
	return func() tea.Msg {
		select {
		case msg := <-updates:
			return msg
		case <-d.ctx.Done():
			return nil
		}
	}
}
