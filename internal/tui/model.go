// Package tui is the interactive front end: a bubbletea program that owns the
// application state, renders the three-column view and serves as the command
// Backend.
package tui

import (
	"strconv"
	"strings"

	"colfm/internal/commands"
	"colfm/internal/keymap"
	"colfm/internal/log"
	"colfm/internal/state"
	"colfm/internal/tui/components"
	"colfm/internal/tui/messages"
	"colfm/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeNormal mode = iota
	modeCommand
)

type Model struct {
	ctx     *state.Context
	keys    *keymap.Keymap
	watcher *watch.Watcher

	mode     mode
	pending  []string
	input    textinput.Model
	help     help.Model
	showHelp bool
	status   *components.StatusBar

	parent  *components.FileList
	current *components.FileList
	preview *components.FileList

	width  int
	height int
	// notice is set while the status line shows a message rather than
	// entry details.
	notice bool

	// cmds collects what Backend calls ask for during one Update.
	cmds []tea.Cmd
}

// New builds the model around ctx. watcher may be nil.
func New(ctx *state.Context, keys *keymap.Keymap, watcher *watch.Watcher) *Model {
	in := textinput.New()
	in.Prompt = ":"
	h := help.New()
	h.ShowAll = true

	return &Model{
		ctx:     ctx,
		keys:    keys,
		watcher: watcher,
		mode:    modeNormal,
		input:   in,
		help:    h,
		status:  components.NewStatusBar(),
		parent:  components.NewFileList(false),
		current: components.NewFileList(true),
		preview: components.NewFileList(false),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.watchVisible()
	return tea.Batch(m.waitForWorker(), m.waitForWatcher())
}

// waitForWorker blocks on the next job event.
func (m *Model) waitForWorker() tea.Cmd {
	events := m.ctx.Events
	return func() tea.Msg {
		return messages.WorkerEventMsg{Event: <-events}
	}
}

func (m *Model) waitForWatcher() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		dir, ok := <-changes
		if !ok {
			return nil
		}
		return messages.DirChangedMsg{Path: dir}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.cmds = nil

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 2
	case tea.KeyMsg:
		m.notice = false
		if m.mode == modeCommand {
			m.handleCommandMode(msg)
		} else {
			m.handleNormalKeys(msg)
		}
	case messages.WorkerEventMsg:
		m.ctx.HandleEvent(msg.Event)
		if msg.Event.Done {
			if msg.Event.Err != nil {
				m.status.SetError(msg.Event.Message)
			} else {
				m.status.SetText(msg.Event.Message)
			}
			m.notice = true
		}
		m.queue(m.waitForWorker())
	case messages.DirChangedMsg:
		m.ctx.MarkStale(msg.Path)
		m.queue(m.waitForWatcher())
	case messages.ExecDoneMsg:
		if msg.Done != nil {
			m.report(msg.Done(m.ctx, msg.Err))
		} else {
			m.report(msg.Err)
		}
	case spinner.TickMsg:
		m.queue(m.status.Update(msg))
	default:
		if m.mode == modeCommand {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.queue(cmd)
		}
	}

	if m.ctx.Exit {
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit
	}

	m.ctx.Refresh()
	m.layout()
	m.watchVisible()
	m.queue(m.status.SetLoading(m.ctx.Busy))
	m.refreshStatus()

	return m, tea.Batch(m.cmds...)
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.cmds = append(m.cmds, cmd)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) {
	key := msg.String()
	if len(m.pending) == 0 {
		switch {
		case key == "?" && m.keys.Lookup([]string{"?"}) == nil:
			m.showHelp = !m.showHelp
			return
		case key == "esc":
			return
		}
	} else if key == "esc" {
		m.pending = nil
		return
	}

	m.pending = append(m.pending, key)
	node := m.keys.Lookup(m.pending)
	switch {
	case node == nil:
		log.LogWithFields(log.F("keys", strings.Join(m.pending, " "))).Debug("unbound key sequence")
		m.pending = nil
	case node.IsCommand():
		m.pending = nil
		m.run(node.Command)
	}
}

func (m *Model) handleCommandMode(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		m.closeCommandLine()
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.closeCommandLine()
		if line == "" {
			return
		}
		cmd, err := commands.Parse(line)
		if err != nil {
			m.report(err)
			return
		}
		m.run(cmd)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.queue(cmd)
	}
}

func (m *Model) closeCommandLine() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) run(cmd commands.Command) {
	log.LogWithFields(log.F("command", cmd.String())).Debug("execute")
	m.report(cmd.Execute(m.ctx, m))
}

// report shows err on the status line and keeps it in the message history.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Debug("command failed")
	m.ctx.PushMessage(err.Error())
	m.status.SetError(err.Error())
	m.notice = true
}

// progress is the right side of the status bar.
func (m *Model) progress() string {
	var parts []string
	if len(m.pending) > 0 {
		parts = append(parts, strings.Join(m.pending, " "))
	}
	if m.ctx.Busy {
		msg := m.ctx.WorkerMsg
		if n := m.ctx.Queue.Len(); n > 0 {
			msg += " (+" + strconv.Itoa(n) + " queued)"
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "  ")
}

// watchVisible points the watcher at the columns on screen.
func (m *Model) watchVisible() {
	if m.watcher == nil || len(m.ctx.Tabs) == 0 {
		return
	}
	tab := m.ctx.CurrentTab()
	m.watcher.Watch(tab.ParentPath(), tab.Path, tab.PreviewPath())
}
