package state

import (
	"colfm/internal/config"
	"colfm/internal/log"
	"colfm/internal/worker"

	"github.com/spf13/afero"
)

// maxMessages bounds the status history.
const maxMessages = 100

// Context is the whole application state. Only the interactive goroutine
// touches it; worker goroutines talk to it through Events.
type Context struct {
	Tabs    []*Tab
	CurrTab int

	Queue   *worker.Queue
	Running *worker.Job
	Busy    bool
	// WorkerMsg is the latest progress line of the running job.
	WorkerMsg string
	Events    chan worker.Event

	Messages  []string
	Exit      bool
	Clipboard Clipboard
	Search    string

	Config *config.Config
	Fs     afero.Fs
}

// NewContext creates a context without tabs.
func NewContext(cfg *config.Config, fs afero.Fs) *Context {
	if cfg == nil {
		cfg = config.New()
	}
	return &Context{
		Queue:  worker.NewQueue(),
		Events: make(chan worker.Event, 64),
		Config: cfg,
		Fs:     fs,
	}
}

// CurrentTab returns the active tab.
func (c *Context) CurrentTab() *Tab {
	return c.Tabs[c.CurrTab]
}

// PushTab appends a tab and makes it current.
func (c *Context) PushTab(t *Tab) {
	c.Tabs = append(c.Tabs, t)
	c.CurrTab = len(c.Tabs) - 1
}

// RemoveTab drops the tab at i. The index of the current tab moves back by
// one when it is past the start. The last tab is never removed.
func (c *Context) RemoveTab(i int) bool {
	if len(c.Tabs) <= 1 || i < 0 || i >= len(c.Tabs) {
		return false
	}
	c.Tabs = append(c.Tabs[:i], c.Tabs[i+1:]...)
	if c.CurrTab > 0 && c.CurrTab >= i {
		c.CurrTab--
	}
	return true
}

// PushMessage appends a status line.
func (c *Context) PushMessage(msg string) {
	c.Messages = append(c.Messages, msg)
	if len(c.Messages) > maxMessages {
		c.Messages = c.Messages[len(c.Messages)-maxMessages:]
	}
}

// LastMessage returns the most recent status line.
func (c *Context) LastMessage() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[len(c.Messages)-1]
}

// HasPendingWork reports whether a job is running or queued.
func (c *Context) HasPendingWork() bool {
	return c.Busy || c.Queue.Len() > 0
}

// AddJob queues job and starts it if the worker is idle.
func (c *Context) AddJob(job *worker.Job) {
	c.Queue.Push(job)
	c.StartNextJob()
}

// StartNextJob starts the oldest queued job unless one is running.
func (c *Context) StartNextJob() bool {
	if c.Busy {
		return false
	}
	job, ok := c.Queue.Pop()
	if !ok {
		return false
	}
	job.Start()
	c.Busy = true
	c.Running = job
	c.WorkerMsg = job.String()
	go worker.Run(c.Fs, job, c.Events)
	return true
}

// HandleEvent applies one worker event. A final event records the outcome,
// marks the touched directories stale in every tab and starts the next job.
func (c *Context) HandleEvent(ev worker.Event) {
	if !ev.Done {
		c.WorkerMsg = ev.Message
		return
	}
	if c.Running != nil && c.Running.ID == ev.JobID {
		c.Running.Finish(ev.Err)
	} else {
		log.LogWithFields(log.F("job", ev.JobID)).Warn("final event for a job that is not running")
	}
	c.PushMessage(ev.Message)
	c.Busy = false
	c.Running = nil
	c.WorkerMsg = ""
	c.MarkStale(ev.Touched...)
	c.StartNextJob()
}

// MarkStale flags the columns of paths in every tab.
func (c *Context) MarkStale(paths ...string) {
	for _, t := range c.Tabs {
		for _, p := range paths {
			t.MarkStale(p)
		}
	}
}

// Refresh re-lists stale visible columns of the current tab.
func (c *Context) Refresh() {
	if len(c.Tabs) == 0 {
		return
	}
	c.CurrentTab().Refresh(c.Fs)
}
