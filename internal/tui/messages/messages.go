// Package messages defines the tea messages exchanged with background work.
package messages

import (
	"colfm/internal/commands"
	"colfm/internal/worker"
)

// WorkerEventMsg carries one event from the running job.
type WorkerEventMsg struct {
	Event worker.Event
}

// DirChangedMsg reports a watched directory that changed on disk.
type DirChangedMsg struct {
	Path string
}

// ExecDoneMsg is sent when an external program started by a command exits.
type ExecDoneMsg struct {
	Err  error
	Done commands.ExecDone
}
