package tui

import (
	"os/exec"

	"colfm/internal/commands"
	"colfm/internal/log"
	"colfm/internal/tui/messages"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var _ commands.Backend = (*Model)(nil)

func (m *Model) Notify(msg string) {
	m.ctx.PushMessage(msg)
	m.status.SetText(msg)
	m.notice = true
}

func (m *Model) Redraw() {
	m.queue(tea.ClearScreen)
}

func (m *Model) OpenCommandLine(text string, cursor int) {
	m.mode = modeCommand
	m.pending = nil
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	m.queue(m.input.Focus())
	m.queue(textinput.Blink)
}

// Exec suspends the program while argv runs in dir. done is applied from
// Update once the process exits.
func (m *Model) Exec(argv []string, dir string, done commands.ExecDone) {
	if len(argv) == 0 {
		return
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = dir
	log.LogWithFields(log.F("argv", argv), log.F("dir", dir)).Debug("exec")
	m.queue(tea.ExecProcess(c, func(err error) tea.Msg {
		return messages.ExecDoneMsg{Err: err, Done: done}
	}))
}

// VisibleRows is the height of the column area.
func (m *Model) VisibleRows() int {
	return m.rows()
}
