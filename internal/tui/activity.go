package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/sequence"
)

type pane int

const (
	paneTray pane = iota
	paneSlots
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	paneStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activePaneStyle = paneStyle.BorderForeground(lipgloss.Color("#C89A3A"))
)

// ActivityModel lets the user place shuffled steps into ordered slots and
// check the result.
type ActivityModel struct {
	activity model.Activity
	shuffler generator.Shuffler
	logger   *zap.Logger

	width  int
	height int

	tray   []string
	slots  []string
	focus  pane
	cursor int
	report *sequence.Report
}

// NewActivityModel builds the activity UI with a freshly shuffled tray.
func NewActivityModel(activity model.Activity, shuffler generator.Shuffler, logger *zap.Logger) *ActivityModel {
	if shuffler == nil {
		shuffler = generator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ActivityModel{activity: activity, shuffler: shuffler, logger: logger}
	m.reset()
	return m
}

func (m *ActivityModel) reset() {
	m.tray = sequence.Present(m.activity, m.shuffler)
	m.slots = make([]string, len(m.activity.Steps))
	m.focus = paneTray
	m.cursor = 0
	m.report = nil
}

// Report returns the last check, nil before the first one.
func (m *ActivityModel) Report() *sequence.Report {
	return m.report
}

// Init implements tea.Model.
func (m *ActivityModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ActivityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "tab", "left", "right", "h", "l":
			m.switchPane()
		case "enter", " ":
			m.moveItem()
		case "c":
			m.check()
		case "r":
			m.reset()
		}
	}
	return m, nil
}

func (m *ActivityModel) paneLen() int {
	if m.focus == paneTray {
		return len(m.tray)
	}
	return len(m.slots)
}

func (m *ActivityModel) moveCursor(delta int) {
	n := m.paneLen()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *ActivityModel) switchPane() {
	if m.focus == paneTray {
		m.focus = paneSlots
	} else {
		m.focus = paneTray
	}
	m.cursor = min(m.cursor, max(0, m.paneLen()-1))
}

// moveItem places the selected tray item into the first empty slot, or sends a
// filled slot back to the tray.
func (m *ActivityModel) moveItem() {
	m.report = nil
	if m.focus == paneTray {
		if m.cursor >= len(m.tray) {
			return
		}
		for i, slot := range m.slots {
			if slot != "" {
				continue
			}
			m.slots[i] = m.tray[m.cursor]
			m.tray = append(m.tray[:m.cursor], m.tray[m.cursor+1:]...)
			m.cursor = min(m.cursor, max(0, len(m.tray)-1))
			return
		}
		return
	}
	if m.cursor >= len(m.slots) || m.slots[m.cursor] == "" {
		return
	}
	m.tray = append(m.tray, m.slots[m.cursor])
	m.slots[m.cursor] = ""
}

func (m *ActivityModel) check() {
	report := sequence.Check(m.activity, m.slots)
	m.report = &report
	m.logger.Debug("activity checked",
		zap.String("activity", m.activity.ID),
		zap.Int("correct", report.CorrectCount),
		zap.Int("total", report.Total),
	)
}

// View implements tea.Model.
func (m *ActivityModel) View() string {
	header := promptStyle.Render(m.activity.Title)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTray(), " ", m.renderSlots())
	lines := []string{header, "", panes}
	if m.report != nil {
		msg := m.report.Message(m.activity.Perfect)
		if m.report.IsPerfect {
			lines = append(lines, "", correctStyle.Bold(true).Render(msg))
		} else {
			lines = append(lines, "", incorrectStyle.Bold(true).Render(msg))
		}
	}
	lines = append(lines, "", footerStyle.Render("up/down: select  tab: switch  enter: move  c: check  r: reshuffle  q: quit"))
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *ActivityModel) renderTray() string {
	lines := []string{footerStyle.Render("Steps")}
	if len(m.tray) == 0 {
		lines = append(lines, pendingStyle.Render("(all placed)"))
	}
	for i, item := range m.tray {
		lines = append(lines, m.itemLine(paneTray, i, item))
	}
	return m.paneBox(paneTray).Render(strings.Join(lines, "\n"))
}

func (m *ActivityModel) renderSlots() string {
	lines := []string{footerStyle.Render("Order")}
	for i, item := range m.slots {
		label := fmt.Sprintf("%d. ", i+1)
		text := item
		if text == "" {
			text = "____"
		}
		line := m.itemLine(paneSlots, i, label+text)
		if m.report != nil {
			if m.report.PerPositionCorrect[i] {
				line = correctStyle.Render("✓ ") + line
			} else {
				line = incorrectStyle.Render("✗ ") + line
			}
		}
		lines = append(lines, line)
	}
	return m.paneBox(paneSlots).Render(strings.Join(lines, "\n"))
}

func (m *ActivityModel) itemLine(p pane, idx int, text string) string {
	width := max(20, m.width/2-6)
	if m.focus == p && m.cursor == idx {
		return wrapText("> "+text, width, selectedStyle)
	}
	return wrapText("  "+text, width, lipgloss.NewStyle())
}

func (m *ActivityModel) paneBox(p pane) lipgloss.Style {
	if m.focus == p {
		return activePaneStyle
	}
	return paneStyle
}
