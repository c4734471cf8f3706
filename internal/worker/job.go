// Package worker runs copy, move and delete jobs off the interactive
// goroutine and reports their progress as a stream of events.
package worker

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Kind is the file operation a job performs.
type Kind int

const (
	KindCopy Kind = iota
	KindMove
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Options control what happens when a destination already exists.
// Overwrite wins when both are set; with neither the job fails.
type Options struct {
	Overwrite bool
	SkipExist bool
}

// State is the lifecycle position of a job.
type State int

const (
	StateQueued State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is one unit of background work.
type Job struct {
	ID      string
	Kind    Kind
	Sources []string
	Dest    string
	Options Options

	State State
	Err   error
}

// NewJob creates a queued job. Dest is ignored for deletes.
func NewJob(kind Kind, sources []string, dest string, opts Options) *Job {
	return &Job{
		ID:      uuid.NewString(),
		Kind:    kind,
		Sources: append([]string(nil), sources...),
		Dest:    dest,
		Options: opts,
		State:   StateQueued,
	}
}

// Touched lists the directories whose contents the job may change: the
// parents of every source and, for copy and move, the destination.
func (j *Job) Touched() []string {
	dirs := lo.Map(j.Sources, func(s string, _ int) string {
		return filepath.Dir(s)
	})
	if j.Kind != KindDelete && j.Dest != "" {
		dirs = append(dirs, j.Dest)
	}
	return lo.Uniq(dirs)
}

// Start marks the job running.
func (j *Job) Start() {
	j.State = StateRunning
}

// Finish records the outcome reported by the job's final event.
func (j *Job) Finish(err error) {
	j.Err = err
	if err != nil {
		j.State = StateFailed
		return
	}
	j.State = StateCompleted
}

func (j *Job) String() string {
	noun := "items"
	if len(j.Sources) == 1 {
		noun = filepath.Base(j.Sources[0])
	} else {
		noun = fmt.Sprintf("%d %s", len(j.Sources), noun)
	}
	if j.Kind == KindDelete {
		return fmt.Sprintf("delete %s", noun)
	}
	return fmt.Sprintf("%s %s to %s", j.Kind, noun, j.Dest)
}
