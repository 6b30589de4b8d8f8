package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	barLabelStyle  = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

const (
	barWidth = 40
	barFull  = "█"
	barEmpty = "░"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// =============================================================================
// ProgressModel - compositing progress bar
// =============================================================================

type progressMsg int

type progressDoneMsg struct{}

// ProgressModel is the bubbletea model that renders a build's progress.
// It reads percentages from a channel until the channel is closed.
type ProgressModel struct {
	Title    string
	Frames   int
	Percent  int
	Canceled bool

	updates <-chan int
	cancel  func()
	done    bool
}

// NewProgressModel creates a progress model fed by updates. cancel is
// called when the user interrupts with ctrl+c.
func NewProgressModel(title string, frames int, updates <-chan int, cancel func()) ProgressModel {
	return ProgressModel{
		Title:   title,
		Frames:  frames,
		updates: updates,
		cancel:  cancel,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return waitForProgress(m.updates)
}

func waitForProgress(updates <-chan int) tea.Cmd {
	return func() tea.Msg {
		pct, ok := <-updates
		if !ok {
			return progressDoneMsg{}
		}
		return progressMsg(pct)
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.Canceled {
			m.Canceled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case progressMsg:
		m.Percent = int(msg)
		return m, waitForProgress(m.updates)
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}
	filled := barWidth * m.Percent / 100
	bar := barFilledStyle.Render(strings.Repeat(barFull, filled)) +
		barEmptyStyle.Render(strings.Repeat(barEmpty, barWidth-filled))

	status := fmt.Sprintf("%d/%d frames", m.Frames*m.Percent/100, m.Frames)
	if m.Canceled {
		status = StyleWarning.Render("canceling...")
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title) + "\n")
	b.WriteString(bar + " " + barLabelStyle.Render(fmt.Sprintf("%3d%%", m.Percent)) + "  " + StyleDim.Render(status) + "\n")
	return b.String()
}

// runProgress shows the progress bar on stderr until updates is closed.
func runProgress(title string, frames int, updates <-chan int, cancel func()) error {
	p := tea.NewProgram(NewProgressModel(title, frames, updates, cancel), tea.WithOutput(os.Stderr))
	_, err := p.Run()
	return err
}
