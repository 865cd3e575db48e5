// Package scoreui provides the Bubble Tea scoreboard interface.
package scoreui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/scoreboard"
	"github.com/verte-zerg/asake/internal/stats"
)

type formMode int

const (
	formNone formMode = iota
	formAdd
	formEdit
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Board is the scoreboard the UI reads and edits.
type Board interface {
	Records() []model.ScoreRecord
	Add(ctx context.Context, name string, score int) error
	Edit(ctx context.Context, index, score int) error
}

// Model implements the Bubble Tea scoreboard UI.
type Model struct {
	board  Board
	logger *zap.Logger

	table  table.Model
	errMsg string

	width  int
	height int

	mode      formMode
	inputs    []textinput.Model
	formIndex int
	editIndex int
	formError string
}

// NewModel constructs a scoreboard UI model.
func NewModel(board Board, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		board:  board,
		logger: logger,
		inputs: []textinput.Model{
			newFormInput("Name: "),
			newFormInput("Score (0-100): "),
		},
	}
	m.table = table.New(
		table.WithColumns(columnsFor(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 60
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != formNone {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "a":
			return m, m.startForm(formAdd)
		case "e", "enter":
			if len(m.board.Records()) == 0 {
				return m, nil
			}
			return m, m.startForm(formEdit)
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startForm(mode formMode) tea.Cmd {
	m.mode = mode
	m.formError = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	if mode == formEdit {
		m.editIndex = m.table.Cursor()
		records := m.board.Records()
		if m.editIndex >= 0 && m.editIndex < len(records) {
			m.inputs[1].SetValue(strconv.Itoa(records[m.editIndex].Score))
		}
		return m.setFormIndex(1)
	}
	return m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = formNone
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.mode = formNone
		m.formError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.mode == formAdd {
			return m, m.setFormIndex(1 - m.formIndex)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.formIndex], cmd = m.inputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == idx {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	score, err := scoreboard.ParseScore(m.inputs[1].Value())
	if err != nil {
		return err
	}
	ctx := context.Background()
	if m.mode == formAdd {
		err = m.board.Add(ctx, m.inputs[0].Value(), score)
	} else {
		err = m.board.Edit(ctx, m.editIndex, score)
	}
	if errors.Is(err, scoreboard.ErrEmptyName) || errors.Is(err, scoreboard.ErrInvalidScore) || errors.Is(err, scoreboard.ErrRecordNotFound) {
		return err
	}
	if err != nil {
		// The row is on the board; only persistence failed.
		m.errMsg = err.Error()
		m.logger.Warn("save scoreboard", zap.Error(err))
		return nil
	}
	m.errMsg = ""
	return nil
}

func (m *Model) refresh() {
	records := m.board.Records()
	rows := make([]table.Row, 0, len(records))
	nameWidth := 0
	for i, r := range records {
		rows = append(rows, table.Row{strconv.Itoa(i), r.Name, fmt.Sprintf("%d%%", r.Score), r.Date})
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}
	m.table.SetColumns(columnsFor(nameWidth))
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func columnsFor(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: max(12, min(nameWidth, 32))},
		{Title: "Score", Width: 6},
		{Title: "Date", Width: 10},
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A4A4A")).
		Bold(true)
	return styles
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetHeight(max(3, bodyHeight))
	m.table.SetWidth(max(20, m.width))
	for i := range m.inputs {
		m.inputs[i].Width = max(10, modalWidth(m.width)-6-lipgloss.Width(m.inputs[i].Prompt))
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(m.renderHeader())
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode != formNone {
		return m.renderForm()
	}
	parts := []string{m.renderHeader()}
	if len(m.board.Records()) == 0 {
		parts = append(parts, headerStyle.Render("No scores yet. Press a to add one."))
	} else {
		parts = append(parts, m.table.View())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m *Model) renderHeader() string {
	records := m.board.Records()
	s := stats.Summarize(records)
	best := "-"
	last := "-"
	avg := "-"
	if s.Count > 0 {
		best = fmt.Sprintf("%d%% %s", s.Best, s.BestName)
		last = fmt.Sprintf("%d%%", s.Last)
		avg = fmt.Sprintf("%.1f%%", s.Average)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Entries", strconv.Itoa(s.Count)),
		metricCard("Average", avg),
		metricCard("Best", best),
		metricCard("Last", last),
	)
	trend := stats.Sparkline(stats.Scores(records))
	if w := m.width - 8; w > 0 && len(trend) > w {
		trend = trend[len(trend)-w:]
	}
	return cards + "\n" + headerStyle.Render("Trend ") + trend
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Scroll: up/down  Add: a  Edit score: e  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderForm() string {
	title := "Add Score"
	body := []string{}
	if m.mode == formEdit {
		title = "Edit Score"
		if records := m.board.Records(); m.editIndex < len(records) {
			body = append(body, headerStyle.Render(fmt.Sprintf("#%d %s", m.editIndex, records[m.editIndex].Name)))
		}
		body = append(body, m.inputs[1].View())
	} else {
		body = append(body, m.inputs[0].View(), m.inputs[1].View())
	}
	body = append([]string{cardValueStyle.Render(title)}, body...)
	body = append(body, headerStyle.Render("Enter to save / Esc to cancel"))
	if m.formError != "" {
		body = append(body, errorStyle.Render(m.formError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}
