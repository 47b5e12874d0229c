// Package tui is the terminal front end: a Bubble Tea model that renders the
// human's view of the match and turns typed commands into backend calls.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/internal/protocol"
)

const requestTimeout = 5 * time.Second

// Model represents the Bubble Tea model for a match
type Model struct {
	backend Backend
	logger  *log.Logger
	ctx     context.Context

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	state       *protocol.GameState
	gameLog     []string
	lastErr     string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// What has already been written to the log
	matchID      string
	round        int
	seenHistory  int
	resolvedIn   int
	announcedEnd bool

	// Dimensions
	width       int
	height      int
	initialized bool
}

type stateMsg struct{ state protocol.GameState }

type errMsg struct{ err error }

// updateMsg signals that the backend pushed a change made elsewhere
type updateMsg struct{}

// NewModel creates a model playing against backend
func NewModel(ctx context.Context, backend Backend, logger *log.Logger) *Model {
	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bid <count> <face>, challenge, next, new, quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		backend:     backend,
		logger:      logger.WithPrefix("tui"),
		ctx:         ctx,
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
	}
}

// Init fetches the current state and starts listening for pushed updates
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.call(m.backend.GameState), m.waitForUpdate())
}

func (m *Model) call(fn func(context.Context) (protocol.GameState, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()

		gs, err := fn(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return stateMsg{state: gs}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	n, ok := m.backend.(Notifier)
	if !ok {
		return nil
	}
	updates := n.Updates()
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return updateMsg{}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case stateMsg:
		m.lastErr = ""
		m.applyState(msg.state)
		return m, nil

	case errMsg:
		m.showError(msg.err)
		return m, nil

	case updateMsg:
		// Pushed states can arrive out of order with replies, so refetch
		return m, tea.Batch(m.call(m.backend.GameState), m.waitForUpdate())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				return m, m.processAction(input)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processAction turns a line of input into a backend call
func (m *Model) processAction(input string) tea.Cmd {
	command, err := ParseCommand(input)
	if err != nil {
		m.lastErr = err.Error()
		return nil
	}
	m.lastErr = ""

	switch command.Kind {
	case CommandContinue:
		if m.state != nil && m.state.Phase.Kind == protocol.PhaseRoundOver {
			return m.call(m.backend.NextRound)
		}
		return nil
	case CommandBid:
		return m.call(func(ctx context.Context) (protocol.GameState, error) {
			return m.backend.Bid(ctx, command.Count, command.Face)
		})
	case CommandChallenge:
		return m.call(m.backend.Challenge)
	case CommandNext:
		return m.call(m.backend.NextRound)
	case CommandNew:
		return m.call(m.backend.StartGame)
	case CommandQuit:
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case CommandHelp:
		m.AddLogEntry(helpText)
	}
	return nil
}

func (m *Model) showError(err error) {
	var perr protocol.Error
	if errors.As(err, &perr) {
		m.lastErr = perr.Message
	} else {
		m.lastErr = err.Error()
	}
	m.logger.Debug("Request failed", "error", err)
}

// applyState stores gs and writes whatever happened since the last state to
// the log
func (m *Model) applyState(gs protocol.GameState) {
	m.state = &gs

	if gs.MatchID != m.matchID {
		m.matchID = gs.MatchID
		m.round = 0
		m.resolvedIn = 0
		m.announcedEnd = false
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" New match %s ", shortID(gs.MatchID))))
	}

	if gs.CurrentRound != m.round {
		m.round = gs.CurrentRound
		m.seenHistory = 0
		m.AddLogEntry(fmt.Sprintf("--- Round %d of %d ---", gs.CurrentRound, gs.MaxRounds))
	}

	if m.seenHistory > len(gs.BidHistory) {
		m.seenHistory = 0
	}
	for _, entry := range gs.BidHistory[m.seenHistory:] {
		m.AddLogEntry(formatAction(entry))
	}
	m.seenHistory = len(gs.BidHistory)

	result := gs.Phase.Result
	if gs.Phase.Kind == protocol.PhaseGameOver {
		result = gs.LastRoundResult
	}
	if result != nil && m.resolvedIn != result.Round {
		m.resolvedIn = result.Round
		for _, line := range formatResult(*result) {
			m.AddLogEntry(line)
		}
	}

	if gs.Phase.Kind == protocol.PhaseGameOver && !m.announcedEnd {
		m.announcedEnd = true
		m.AddLogEntry(WarningStyle.Render(formatGameOver(gs)))
	}
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// State returns the last state received, or nil before the first
func (m *Model) State() *protocol.GameState {
	return m.state
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(1)).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(0)).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return lipgloss.Color("#04B575")
	}
	return lipgloss.Color("#626262")
}

// renderSidebarPane shows the score and dice counts
func (m *Model) renderSidebarPane() string {
	if m.state == nil {
		return InfoStyle.Render("No match yet")
	}
	gs := m.state

	var content strings.Builder
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Round %d/%d", gs.CurrentRound, gs.MaxRounds)))
	content.WriteString("\n\n")
	fmt.Fprintf(&content, "You:       %d\n", gs.HumanWins)
	fmt.Fprintf(&content, "Opponent:  %d\n\n", gs.OpponentWins)
	fmt.Fprintf(&content, "Your dice:     %d\n", gs.HumanDiceCount)
	fmt.Fprintf(&content, "Opponent dice: %d\n\n", gs.OpponentDiceCount)

	if gs.CurrentBid != nil {
		content.WriteString(ActionsStyle.Render("Current bid: " + formatBid(*gs.CurrentBid)))
	} else {
		content.WriteString(InfoStyle.Render("No bid yet"))
	}
	content.WriteString("\n\n")
	content.WriteString(InfoStyle.Render("Match " + shortID(gs.MatchID)))
	return content.String()
}

// renderActionPane shows the hand, what can be done next and the input
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if m.state == nil {
		content.WriteString(InfoStyle.Render("Waiting for game state..."))
		content.WriteString("\n")
	} else {
		gs := m.state
		face := 0
		if gs.CurrentBid != nil {
			face = gs.CurrentBid.Face
		}
		content.WriteString(DiceStyle.Render("Your dice: ") + formatDice(gs.HumanDice, face))
		content.WriteString("\n")
		content.WriteString(m.renderPrompt())
		content.WriteString("\n")
	}

	if m.lastErr != "" {
		content.WriteString(ErrorStyle.Render(m.lastErr))
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(helpStyle.Render("Log focused: ↑↓ scroll, Home/End, Tab to input"))
	} else {
		content.WriteString(helpStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

func (m *Model) renderPrompt() string {
	gs := m.state
	switch gs.Phase.Kind {
	case protocol.PhasePlayerTurn:
		actions := []string{SuccessStyle.Render("[bid <count> <face>]")}
		if gs.CurrentBid != nil {
			actions = append(actions, ErrorStyle.Render("[challenge]"))
		}
		return ActionsStyle.Render("Your turn: ") + strings.Join(actions, " ")
	case protocol.PhaseOpponentTurn:
		return InfoStyle.Render("Opponent is thinking...")
	case protocol.PhaseRoundOver:
		return ActionsStyle.Render("Round over. Enter or 'next' to continue")
	case protocol.PhaseGameOver:
		return ActionsStyle.Render("Game over. 'new' to play again, 'quit' to exit")
	default:
		return ""
	}
}
