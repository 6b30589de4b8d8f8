package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressModelUpdates(t *testing.T) {
	updates := make(chan int, 3)
	updates <- 50
	updates <- 100
	close(updates)

	m := NewProgressModel("Compositing frames", 24, updates, nil)
	cmd := m.Init()

	var model tea.Model = m
	for i := 0; i < 3; i++ {
		model, cmd = model.Update(cmd())
	}
	pm := model.(ProgressModel)
	if pm.Percent != 100 {
		t.Errorf("percent = %d, want 100", pm.Percent)
	}
	if cmd == nil {
		t.Fatal("closing the channel should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit after the last update")
	}
	if pm.View() != "" {
		t.Error("finished model should render nothing")
	}
}

func TestProgressModelView(t *testing.T) {
	m := NewProgressModel("Compositing frames", 24, nil, nil)
	m.Percent = 50
	view := m.View()
	for _, want := range []string{"Compositing frames", "50%", "12/24 frames"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelCancel(t *testing.T) {
	canceled := 0
	m := NewProgressModel("Compositing frames", 24, nil, func() { canceled++ })

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if canceled != 1 {
		t.Errorf("cancel called %d times, want 1", canceled)
	}
	if view := model.View(); !strings.Contains(view, "canceling") {
		t.Errorf("view should show cancellation:\n%s", view)
	}
}
