package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/asake/internal/model"
)

func testActivity() model.Activity {
	return model.Activity{
		ID:      "wash",
		Title:   "Washing",
		Perfect: "Perfect handwashing order!",
		Steps:   []string{"wet", "soap", "rinse"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestActivityPerfectOrder(t *testing.T) {
	m := NewActivityModel(testActivity(), keepOrder{}, nil)
	for i := 0; i < 3; i++ {
		m.Update(key("enter"))
	}
	if len(m.tray) != 0 {
		t.Fatalf("expected empty tray, got %v", m.tray)
	}
	m.Update(key("c"))
	if m.Report() == nil || !m.Report().IsPerfect {
		t.Fatalf("expected perfect report, got %+v", m.Report())
	}
	if !strings.Contains(m.View(), "Perfect handwashing order!") {
		t.Fatalf("view missing perfect message")
	}
}

func TestActivityPartialOrder(t *testing.T) {
	m := NewActivityModel(testActivity(), keepOrder{}, nil)
	m.Update(key("down"))
	m.Update(key("enter")) // soap -> slot 1
	m.Update(key("enter")) // rinse -> slot 2
	m.Update(key("c"))
	report := m.Report()
	if report.CorrectCount != 0 || report.IsPerfect {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(m.View(), "You got 0/3 steps correct.") {
		t.Fatalf("view missing partial message")
	}

	// send slot 1 back and fill in order
	m.Update(key("tab"))
	m.Update(key("enter"))
	m.Update(key("down"))
	m.Update(key("enter"))
	if m.slots[0] != "" || m.slots[1] != "" || m.slots[2] != "" {
		t.Fatalf("expected empty slots, got %v", m.slots)
	}
	if m.Report() != nil {
		t.Fatalf("moving an item must clear the report")
	}
}

func TestActivityResetReshuffles(t *testing.T) {
	m := NewActivityModel(testActivity(), keepOrder{}, nil)
	m.Update(key("enter"))
	m.Update(key("r"))
	if len(m.tray) != 3 || m.slots[0] != "" {
		t.Fatalf("reset must restore the tray, got tray %v slots %v", m.tray, m.slots)
	}
}
