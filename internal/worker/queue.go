package worker

import (
	"sync"

	"colfm/internal/log"
)

// Queue holds pending jobs in submission order.
type Queue struct {
	mu   sync.Mutex
	jobs []*Job
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a job.
func (q *Queue) Push(job *Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	n := len(q.jobs)
	q.mu.Unlock()

	log.LogWithFields(log.F("job", job.ID), log.F("kind", job.Kind.String()), log.F("queueLen", n)).Debug("push")
}

// Pop removes and returns the oldest job.
func (q *Queue) Pop() (*Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, false
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, true
}

// Len returns the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
