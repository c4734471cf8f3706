package components

import (
	"colfm/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar is the bottom line: a message on the left, worker progress on
// the right.
type StatusBar struct {
	text    string
	isError bool
	right   string
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{spinner: s}
}

// SetLoading turns the spinner on or off. It returns the command that starts
// the spinner when loading begins.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	start := loading && !s.loading
	s.loading = loading
	if start {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool { return s.loading }

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) SetRight(text string) {
	s.right = text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View(width int) string {
	right := ""
	if s.right != "" {
		right = styles.Theme.Status.Render(s.right)
	}
	if s.loading {
		right = s.spinner.View() + " " + right
	}
	rightWidth := lipgloss.Width(right)
	leftWidth := width - rightWidth - 1
	if leftWidth < 0 {
		leftWidth = 0
	}

	style := styles.Theme.Status
	if s.isError {
		style = styles.Theme.Error
	}
	left := style.Render(fit(s.text, leftWidth))
	if right == "" {
		return left
	}
	return left + " " + right
}
