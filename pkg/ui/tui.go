package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const visibleOpportunities = 10

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctrl Controller
	keys KeyMap
	help help.Model
	now  func() time.Time

	prices        *components.PricesComponent
	opportunities *components.OpportunitiesComponent
	stats         *components.StatsComponent
	settings      *components.SettingsBar

	phase        Phase
	welcomeStart time.Time

	width    int
	height   int
	quitting bool
	paused   bool
	hasCycle bool
	pending  *domain.CycleResult // newest result received while paused
	errors   []ErrorEntry
}

// New creates the dashboard model.
func New(ctrl Controller) Model {
	s := ctrl.Settings()
	bar := components.NewSettingsBar(s)
	bar.Update(s, ctrl.FeeModel().For(s.TradeAmount))

	return Model{
		ctrl:          ctrl,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		now:           time.Now,
		prices:        components.NewPricesComponent(),
		opportunities: components.NewOpportunitiesComponent(visibleOpportunities),
		stats:         components.NewStatsComponent(),
		settings:      bar,
		phase:         PhaseWelcome,
		welcomeStart:  time.Now(),
	}
}

// NewProgram wraps the model in a full-screen program.
func NewProgram(ctrl Controller, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(New(ctrl), opts...)
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && m.now().Sub(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		m.settings.SetRefreshing(m.ctrl.Fetching())
		return m, tickCmd()

	case WelcomeCompleteMsg:
		m.phase = PhaseDashboard

	case CycleMsg:
		if m.paused {
			res := msg.Result
			m.pending = &res
			return m, nil
		}
		m.apply(msg.Result)

	case SettingsMsg:
		if msg.Err != nil {
			m.settings.SetError(msg.Err.Error())
			return m, nil
		}
		m.settings.Update(msg.Settings, m.ctrl.FeeModel().For(msg.Settings.TradeAmount))

	case RefreshMsg:
		if msg.Accepted {
			m.settings.SetRefreshing(true)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.phase == PhaseWelcome {
		m.phase = PhaseDashboard
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.TradeUp):
		return m, m.settingsCmd(m.ctrl.StepTradeAmount, 1)
	case key.Matches(msg, m.keys.TradeDown):
		return m, m.settingsCmd(m.ctrl.StepTradeAmount, -1)
	case key.Matches(msg, m.keys.ThresholdUp):
		return m, m.settingsCmd(m.ctrl.StepMinProfit, 1)
	case key.Matches(msg, m.keys.ThresholdDown):
		return m, m.settingsCmd(m.ctrl.StepMinProfit, -1)
	case key.Matches(msg, m.keys.Refresh):
		ctrl := m.ctrl
		return m, func() tea.Msg { return RefreshMsg{Accepted: ctrl.Refresh()} }
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.settings.SetPaused(m.paused)
		if !m.paused && m.pending != nil {
			m.apply(*m.pending)
			m.pending = nil
		}
	case key.Matches(msg, m.keys.Clear):
		m.errors = nil
		m.prices.SetShowErrors(false)
	case key.Matches(msg, m.keys.Up):
		m.opportunities.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.opportunities.ScrollDown()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) settingsCmd(step func(context.Context, int) (domain.Settings, error), steps int) tea.Cmd {
	return func() tea.Msg {
		s, err := step(context.Background(), steps)
		return SettingsMsg{Settings: s, Err: err}
	}
}

// apply shows res. Models are copied by value, so slices are rebuilt rather than mutated.
func (m *Model) apply(res domain.CycleResult) {
	m.hasCycle = true
	m.prices.Update(res.Table.Observations())
	m.prices.SetShowErrors(true)
	m.opportunities.Update(res.Opportunities)
	m.stats.Update(res)
	m.settings.Update(res.Settings, m.ctrl.FeeModel().For(res.Settings.TradeAmount))

	if res.Trigger == domain.TriggerSettings {
		return
	}
	errs := append([]ErrorEntry(nil), m.errors...)
	for _, o := range res.Table.Failed() {
		errs = append(errs, ErrorEntry{CycleID: res.CycleID, Source: string(o.SourceID), Detail: o.ErrorDetail})
	}
	if len(errs) > maxErrors {
		errs = errs[len(errs)-maxErrors:]
	}
	m.errors = errs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	now := m.now()
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Multichain Arbitrage Monitor "))
	b.WriteString("\n\n")
	b.WriteString(m.settings.View(m.spinner(now)))
	b.WriteString("\n")
	b.WriteString(m.stats.View(now))
	b.WriteString("\n\n")

	if !m.hasCycle {
		b.WriteString(MutedValue.Render("  Waiting for the first price cycle..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	width := m.width - 4
	if width < 40 {
		width = 100
	}
	b.WriteString(BoxStyle.Width(width).Render(m.prices.View()))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Width(width).Render(m.opportunities.View(now)))
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(m.renderErrors())
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderErrors() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	line := lipgloss.NewStyle().Foreground(ColorDanger)

	var b strings.Builder
	b.WriteString(header.Render("ERRORS"))
	b.WriteString(MutedValue.Render(" (c: clear)"))
	b.WriteString("\n")
	for _, e := range m.errors {
		b.WriteString(line.Render(fmt.Sprintf("  • %s: %s", e.Source, e.Detail)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) spinner(now time.Time) string {
	spinners := []string{"◐", "◓", "◑", "◒"}
	return spinners[int(now.UnixMilli()/150)%len(spinners)]
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	dots := strings.Repeat(".", int(m.now().Sub(m.welcomeStart).Milliseconds()/300)%4)

	logo := `
   ███╗   ███╗██╗   ██╗██╗  ████████╗██╗ ██████╗██╗  ██╗ █████╗ ██╗███╗   ██╗
   ████╗ ████║██║   ██║██║  ╚══██╔══╝██║██╔════╝██║  ██║██╔══██╗██║████╗  ██║
   ██╔████╔██║██║   ██║██║     ██║   ██║██║     ███████║███████║██║██╔██╗ ██║
   ██║╚██╔╝██║██║   ██║██║     ██║   ██║██║     ██╔══██║██╔══██║██║██║╚██╗██║
   ██║ ╚═╝ ██║╚██████╔╝███████╗██║   ██║╚██████╗██║  ██║██║  ██║██║██║ ╚████║
   ╚═╝     ╚═╝ ╚═════╝ ╚══════╝╚═╝   ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚═╝  ╚═══╝
`
	var sb strings.Builder
	sb.WriteString("\n\n\n")
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("                     A R B I T R A G E   M O N I T O R"))
	sb.WriteString("\n\n")
	sb.WriteString(goldStyle.Render("              CEX APIs · Chainlink feeds · DEX routers"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("                         Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("                  Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}
