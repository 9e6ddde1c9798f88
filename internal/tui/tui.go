// Package tui renders a blackjack game in the terminal with Bubble Tea.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// DealerStepMsg asks the model to advance the dealer by one card
type DealerStepMsg struct{}

// Model is the Bubble Tea model for a single blackjack table
type Model struct {
	game   *game.Game
	logger *log.Logger
	delay  time.Duration

	keys keyMap
	help help.Model

	dealerPending bool
	quitting      bool
	width         int
}

// New creates a model driving g. The dealer draws one card per delay.
func New(g *game.Game, delay time.Duration, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		game:   g,
		logger: logger.WithPrefix("tui"),
		delay:  delay,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case DealerStepMsg:
		m.dealerPending = false
		if m.game.AdvanceDealer() {
			return m, m.scheduleDealer()
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Chip10, m.keys.Chip25, m.keys.Chip50, m.keys.Chip100):
		m.logRefusal("bet", m.game.PlaceBet(chipValues[msg.String()]))

	case key.Matches(msg, m.keys.Deal):
		m.logRefusal("deal", m.game.StartRound())

	case key.Matches(msg, m.keys.Hit):
		m.logRefusal("hit", m.game.Hit())

	case key.Matches(msg, m.keys.Stand):
		m.logRefusal("stand", m.game.Stand())

	case key.Matches(msg, m.keys.NewGame):
		m.logRefusal("reset", m.game.ResetGame())
	}

	if m.game.State() == game.DealerTurn {
		return m.scheduleDealer()
	}
	return nil
}

func (m *Model) scheduleDealer() tea.Cmd {
	if m.dealerPending {
		return nil
	}
	m.dealerPending = true
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return DealerStepMsg{} })
}

func (m *Model) logRefusal(action string, err error) {
	if err != nil {
		m.logger.Debug("Action refused", "action", action, "error", err)
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.game.Snapshot()

	header := HeaderStyle.Render("♠ BLACKJACK ♥")
	stats := StatsStyle.Render(fmt.Sprintf("Balance: $%d   Wins: %d   Games: %d",
		s.Balance, s.Wins, s.GamesPlayed))
	bet := BetStyle.Render(fmt.Sprintf("Bet: $%d", s.Bet))

	dealer := renderHand("Dealer", s.DealerHand, s.DealerValue, s.DealerHoleHidden)
	player := renderHand("Player", s.PlayerHand, s.PlayerValue, false)
	table := TableStyle.Render(lipgloss.JoinVertical(lipgloss.Left, dealer, "", player))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		stats,
		bet,
		table,
		messageStyle(s.MessageCategory).Render(s.Message),
		renderActions(s),
		m.help.View(m.keys),
	)
}

func renderHand(label string, cards game.Hand, value int, holeHidden bool) string {
	title := HandLabelStyle.Render(label)
	if len(cards) == 0 {
		return title + InfoStyle.Render("  (no cards)")
	}

	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		if holeHidden && i == 1 {
			parts = append(parts, HiddenCardStyle.Render("??"))
			continue
		}
		parts = append(parts, formatCard(c))
	}
	score := fmt.Sprintf("(%d)", value)
	if holeHidden {
		score = fmt.Sprintf("(%d+?)", value)
	}
	return fmt.Sprintf("%s  [%s] %s", title, strings.Join(parts, " "), score)
}

func formatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

func messageStyle(category game.Category) lipgloss.Style {
	switch category {
	case game.CategoryWin:
		return SuccessStyle
	case game.CategoryLose:
		return ErrorStyle
	case game.CategoryPush:
		return WarningStyle
	default:
		return InfoStyle
	}
}

func renderActions(s game.Snapshot) string {
	var actions []string
	if s.CanBet() {
		actions = append(actions, "[1-4] chips")
	}
	if s.CanDeal() {
		actions = append(actions, "[d]eal")
	}
	if s.CanAct() {
		actions = append(actions, "[h]it", "[s]tand")
	}
	if s.CanReset() {
		actions = append(actions, "[n]ew game")
	}
	if len(actions) == 0 {
		return InfoStyle.Render("Waiting for dealer...")
	}
	return BetStyle.Render("Actions: " + strings.Join(actions, " "))
}
