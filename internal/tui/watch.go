// Package tui provides the Bubble Tea integration for watching a game:
// a read-only view of the authoritative state, the local shot logs, and
// the turn countdown. All inputs besides quitting are ignored; actions go
// through the CLI commands.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Gabrululu/zk-battleship/internal/board"
	"github.com/Gabrululu/zk-battleship/internal/engine"
	"github.com/Gabrululu/zk-battleship/internal/game"
)

// TickMsg drives the 1s refresh of the countdown and the rendered state.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Faint(true)
	hitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	shipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the Bubble Tea model for the watch view.
type Model struct {
	eng      *engine.Engine
	syncer   *engine.Synchronizer
	timer    *game.TurnTimer
	quitting bool
}

// NewModel creates the watch model. The synchronizer should already be
// started; the model stops it when the user quits.
func NewModel(eng *engine.Engine, syncer *engine.Synchronizer, timer *game.TurnTimer) Model {
	return Model{eng: eng, syncer: syncer, timer: timer}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.syncer != nil {
				m.syncer.Stop()
			}
			return m, tea.Quit
		case "r":
			if m.syncer != nil {
				m.syncer.RefreshNow()
			}
		}
		return m, nil

	case TickMsg:
		if s, ok := m.eng.Snapshot(); ok {
			m.timer.Observe(s, time.Time(msg))
		}
		return m, tickCmd()
	}

	return m, nil
}

// View renders the whole watch screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s, ok := m.eng.Snapshot()
	if !ok {
		return titleStyle.Render("zk-battleship") + "\n\n" +
			labelStyle.Render("no game yet — waiting for the first snapshot ('q' to quit)") + "\n" +
			renderError(m.eng.LastError())
	}

	var secret *board.Board
	if sec, ok := m.eng.Secret(); ok {
		b := sec.Board
		secret = &b
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("zk-battleship") + "  " + labelStyle.Render(s.Phase.String()) + "\n\n")
	sb.WriteString(renderSeats(s, m.eng.Identity()) + "\n")
	sb.WriteString(renderBoards(s, m.eng.Identity(), secret, m.eng.ShotsFired(), m.eng.ShotsReceived()))
	sb.WriteString(renderCounters(s) + "\n")
	sb.WriteString(renderTimer(m.timer, time.Now()) + "\n")
	sb.WriteString(renderError(m.eng.LastError()))
	sb.WriteString(labelStyle.Render("'r' refresh · 'q' quit") + "\n")
	return sb.String()
}

func renderSeats(s game.State, me string) string {
	line := func(label, addr string) string {
		if addr == "" {
			return fmt.Sprintf("%s %s", labelStyle.Render(label), labelStyle.Render("(open seat)"))
		}
		marker := ""
		if addr == me {
			marker = " (you)"
		}
		turn := ""
		if s.TurnIs(addr) && s.Phase == game.PhasePlaying {
			turn = "  ← turn"
		}
		return fmt.Sprintf("%s %s%s%s", labelStyle.Render(label), shorten(addr), marker, turn)
	}
	out := line("P1:", s.Player1) + "\n" + line("P2:", s.Player2)
	if s.HasWinner {
		out += "\n" + titleStyle.Render("winner: "+shorten(s.Winner))
	}
	return out + "\n"
}

// renderBoards shows the player's own board (ships plus shots received)
// next to the opponent's as known from the fired log.
func renderBoards(s game.State, me string, secret *board.Board, fired, received []engine.ShotRecord) string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render("your board          their board") + "\n")
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			sb.WriteString(ownCell(x, y, secret, received, s, me))
			sb.WriteString(" ")
		}
		sb.WriteString("      ")
		for x := 0; x < board.Size; x++ {
			sb.WriteString(theirCell(uint32(x), uint32(y), fired, s, me))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func ownCell(x, y int, secret *board.Board, received []engine.ShotRecord, s game.State, me string) string {
	for _, r := range received {
		if int(r.X) == x && int(r.Y) == y {
			if r.Outcome == engine.OutcomeHit {
				return hitStyle.Render("X")
			}
			return "o"
		}
	}
	if s.HasPendingShot() && s.PendingShooter != me && int(s.PendingShotX) == x && int(s.PendingShotY) == y {
		return warningStyle.Render("?")
	}
	if secret != nil && secret.Cell(x, y) {
		return shipStyle.Render("#")
	}
	return "."
}

func theirCell(x, y uint32, fired []engine.ShotRecord, s game.State, me string) string {
	for _, r := range fired {
		if r.X == x && r.Y == y {
			switch r.Outcome {
			case engine.OutcomeHit:
				return hitStyle.Render("X")
			case engine.OutcomeMiss:
				return "o"
			default:
				return warningStyle.Render("?")
			}
		}
	}
	return "."
}

func renderCounters(s game.State) string {
	return fmt.Sprintf("shots %d/%d   hits taken %d/%d vs %d/%d",
		s.ShotsFiredP1, s.ShotsFiredP2,
		s.HitsOnP1, board.TotalShips, s.HitsOnP2, board.TotalShips)
}

func renderTimer(t *game.TurnTimer, now time.Time) string {
	remaining := t.Remaining(now)
	line := fmt.Sprintf("turn clock %s", remaining.Round(time.Second))
	switch t.Urgency(now) {
	case game.UrgencyCritical:
		return criticalStyle.Render(line)
	case game.UrgencyWarning:
		return warningStyle.Render(line)
	default:
		return line
	}
}

func renderError(err error) string {
	if err == nil {
		return ""
	}
	return errorStyle.Render("! "+err.Error()) + "\n"
}

func shorten(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
