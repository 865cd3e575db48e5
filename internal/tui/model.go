// Package tui provides the Bubble Tea quiz and activity interfaces.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/asake/internal/evaluator"
	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/session"
)

type phase int

const (
	phaseName phase = iota
	phaseQuestion
	phaseFeedback
	phaseResult
)

// advanceMsg ends the feedback pause. seq guards against stale ticks after a
// key press already advanced.
type advanceMsg struct {
	seq int
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	config    model.Config
	session   *session.Session
	questions []model.Question
	logger    *zap.Logger

	width  int
	height int

	phase       phase
	nameInput   textinput.Model
	answerInput textinput.Model

	current    *model.Question
	outcome    session.Outcome
	lastAnswer string
	seq        int

	errMsg  string
	saveErr string
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	topicStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle      = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a quiz TUI model. When cfg.Username is set the name
// prompt is skipped.
func NewModel(cfg model.Config, sess *session.Session, questions []model.Question, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config:      cfg,
		session:     sess,
		questions:   questions,
		logger:      logger,
		nameInput:   newInput("Your name: "),
		answerInput: newInput("Answer: "),
	}
	m.nameInput.Placeholder = "e.g. Ada"
	m.nameInput.Focus()
	if strings.TrimSpace(cfg.Username) != "" {
		m.start(cfg.Username)
	}
	return m
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 120
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the finished session result, nil until the quiz completes.
func (m *Model) Result() *model.SessionResult {
	return m.session.Result()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case advanceMsg:
		if m.phase == phaseFeedback && msg.seq == m.seq {
			m.advance()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseName:
			return m.updateName(msg)
		case phaseQuestion:
			return m.updateQuestion(msg)
		case phaseFeedback:
			m.advance()
			return m, nil
		case phaseResult:
			switch msg.String() {
			case "q", "enter", "esc":
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.start(m.nameInput.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) start(name string) {
	first, err := m.session.Start(context.Background(), name, m.questions)
	if err != nil {
		if errors.Is(err, session.ErrEmptyUsername) {
			m.errMsg = "Please enter your name."
		} else {
			m.errMsg = err.Error()
		}
		m.phase = phaseName
		return
	}
	m.errMsg = ""
	m.nameInput.Blur()
	m.logger.Debug("quiz started",
		zap.String("session", m.session.ID()),
		zap.String("user", m.session.Username()),
		zap.Int("questions", m.session.Total()),
	)
	m.show(&first)
}

func (m *Model) show(q *model.Question) {
	m.current = q
	m.phase = phaseQuestion
	m.answerInput.Reset()
	if q.Variant == model.FillIn {
		m.answerInput.Focus()
	} else {
		m.answerInput.Blur()
	}
}

func (m *Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return m, tea.Quit
	}
	q := m.current
	switch q.Variant {
	case model.MultipleChoice:
		key := msg.String()
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(q.Options) {
				return m, m.submit(evaluator.Choice(idx))
			}
		}
	case model.TrueFalse:
		switch strings.ToLower(msg.String()) {
		case "t", "y":
			return m, m.submit(evaluator.Truth(true))
		case "f", "n":
			return m, m.submit(evaluator.Truth(false))
		}
	case model.FillIn:
		if msg.Type == tea.KeyEnter {
			if strings.TrimSpace(m.answerInput.Value()) == "" {
				return m, nil
			}
			return m, m.submit(evaluator.Text(m.answerInput.Value()))
		}
		var cmd tea.Cmd
		m.answerInput, cmd = m.answerInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) submit(answer evaluator.Answer) tea.Cmd {
	out, err := m.session.Submit(context.Background(), m.current.ID, answer)
	if err != nil && out.Result == nil {
		m.errMsg = err.Error()
		m.logger.Error("submit answer", zap.Int("question", m.current.ID), zap.Stringer("answer", answer), zap.Error(err))
		return nil
	}
	if err != nil {
		m.saveErr = "Score could not be saved: " + err.Error()
		m.logger.Warn("record session result", zap.String("session", m.session.ID()), zap.Error(err))
	}
	m.errMsg = ""
	m.outcome = out
	m.lastAnswer = m.answerInput.Value()
	m.phase = phaseFeedback
	m.answerInput.Blur()
	m.seq++
	seq := m.seq
	m.logger.Debug("answer judged",
		zap.Int("question", m.current.ID),
		zap.Bool("correct", out.Correct),
		zap.Int("answered", m.session.Answered()),
	)
	if m.config.FeedbackDelay <= 0 {
		return func() tea.Msg { return advanceMsg{seq: seq} }
	}
	return tea.Tick(m.config.FeedbackDelay, func(time.Time) tea.Msg {
		return advanceMsg{seq: seq}
	})
}

func (m *Model) advance() {
	if m.outcome.Result != nil {
		m.phase = phaseResult
		m.current = nil
		return
	}
	if m.outcome.Next != nil {
		m.show(m.outcome.Next)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseName:
		content = m.renderName()
	case phaseQuestion:
		content = m.renderQuestion()
	case phaseFeedback:
		content = m.renderFeedback()
	case phaseResult:
		content = m.renderResult()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(20, int(float64(m.width)*0.70))
}

func (m *Model) renderName() string {
	lines := []string{promptStyle.Render("Welcome to the hygiene quiz"), "", m.nameInput.View()}
	if m.errMsg != "" {
		lines = append(lines, incorrectStyle.Render(m.errMsg))
	}
	lines = append(lines, "", footerStyle.Render("enter: start  esc: quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderQuestion() string {
	q := m.current
	width := m.contentWidth()
	lines := []string{}
	if q.Topic != "" {
		lines = append(lines, topicStyle.Render(q.Topic))
	}
	lines = append(lines, wrapText(q.Prompt, width, promptStyle), "")
	switch q.Variant {
	case model.MultipleChoice:
		for i, opt := range q.Options {
			lines = append(lines, wrapText(fmt.Sprintf("%d) %s", i+1, opt), width, lipgloss.NewStyle()))
		}
		lines = append(lines, "", footerStyle.Render(fmt.Sprintf("press 1-%d", len(q.Options))))
	case model.TrueFalse:
		lines = append(lines, "t) True", "f) False", "", footerStyle.Render("press t or f"))
	case model.FillIn:
		lines = append(lines, m.answerInput.View(), "", footerStyle.Render("enter: submit"))
	}
	if m.errMsg != "" {
		lines = append(lines, incorrectStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFeedback() string {
	width := m.contentWidth()
	var lines []string
	if m.outcome.Correct {
		lines = append(lines, correctStyle.Bold(true).Render("Correct!"))
	} else {
		lines = append(lines, incorrectStyle.Bold(true).Render("Incorrect"))
		if m.current != nil && m.current.Variant == model.FillIn && len(m.current.AcceptedAnswers) > 0 {
			expected := m.current.AcceptedAnswers[0]
			given := strings.TrimSpace(m.lastAnswer)
			lines = append(lines,
				"Your answer: "+wrapStyledRunes(buildAnswerRunes([]rune(expected), []rune(given)), width),
				"Expected:    "+expected,
			)
		}
	}
	if m.outcome.Explanation != "" {
		lines = append(lines, "", wrapText(m.outcome.Explanation, width, pendingStyle))
	}
	if m.saveErr != "" {
		lines = append(lines, "", incorrectStyle.Render(m.saveErr))
	}
	lines = append(lines, "", footerStyle.Render("any key: continue"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResult() string {
	res := m.session.Result()
	if res == nil {
		return ""
	}
	lines := []string{
		promptStyle.Render(fmt.Sprintf("Well done, %s!", res.Username)),
		"",
		fmt.Sprintf("Score: %d%%", res.ScorePercent),
		fmt.Sprintf("Correct: %d of %d", res.CorrectCount, res.TotalQuestions),
		fmt.Sprintf("Answers given: %d", res.Answered),
	}
	if m.saveErr != "" {
		lines = append(lines, "", incorrectStyle.Render(m.saveErr))
	}
	lines = append(lines, "", footerStyle.Render("q: quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	if m.phase == phaseName || m.session.State() == session.NotStarted {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Answered %d", m.session.Answered()),
		fmt.Sprintf("Remaining %d", m.session.Remaining()),
		fmt.Sprintf("Correct %d/%d", m.session.Correct(), m.session.Total()),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
