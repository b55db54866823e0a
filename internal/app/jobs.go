package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/folio-a11y/internal/logging"
)

var ErrNoTargets = errors.New("batch has no targets")

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventProgress JobEventType = "progress"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For progress
	Processed int        `json:"processed,omitempty"`
	Total     int        `json:"total,omitempty"`
	Item      *BatchItem `json:"item,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Job is a batch audit running in the background. Values returned by the
// Application are snapshots; Events is shared and closed when the job ends.
type Job struct {
	ID        string        `json:"id"`
	Backend   string        `json:"backend,omitempty"`
	Targets   []string      `json:"targets"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	Processed int           `json:"processed"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Items     []BatchItem   `json:"items,omitempty"`
	Events    chan JobEvent `json:"-"`
}

func (j *Job) snapshot() *Job {
	cp := *j
	cp.Targets = append([]string(nil), j.Targets...)
	cp.Items = append([]BatchItem(nil), j.Items...)
	return &cp
}

func (a *Application) emitJobEvent(jobID string, ev JobEvent) {
	a.jobsMu.Lock()
	job, ok := a.jobs[jobID]
	a.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (a *Application) updateJob(jobID string, fn func(j *Job)) {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	if j, ok := a.jobs[jobID]; ok {
		fn(j)
	}
}

// StartBatchJob audits targets in the background. The job stops early when
// ctx is canceled or CancelJob is called.
func (a *Application) StartBatchJob(ctx context.Context, targets []string, backend string, concurrency int) (*Job, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		Backend:   backend,
		Targets:   append([]string(nil), targets...),
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16+len(targets)),
	}

	jobCtx, cancel := context.WithCancel(ctx)
	a.jobsMu.Lock()
	if a.jobs == nil {
		a.jobs = make(map[string]*Job)
	}
	if a.jobCancels == nil {
		a.jobCancels = make(map[string]context.CancelFunc)
	}
	a.jobs[jobID] = job
	a.jobCancels[jobID] = cancel
	snap := job.snapshot()
	a.jobsWG.Add(1)
	a.jobsMu.Unlock()

	a.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	go func() {
		defer a.jobsWG.Done()
		defer func() {
			a.jobsMu.Lock()
			delete(a.jobCancels, jobID)
			a.jobsMu.Unlock()
			cancel()
			// Close events channel so websocket loops can terminate cleanly
			close(job.Events)
		}()

		a.updateJob(jobID, func(j *Job) { j.Status = JobRunning })
		a.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

		items, err := a.auditBatch(jobCtx, targets, backend, concurrency, func(done int, item BatchItem) {
			a.updateJob(jobID, func(j *Job) { j.Processed = max(j.Processed, done) })
			a.emitJobEvent(jobID, JobEvent{
				JobID:     jobID,
				Type:      JobEventProgress,
				Processed: done,
				Total:     len(targets),
				Item:      &item,
			})
		})

		status, msg := JobDone, ""
		switch {
		case jobCtx.Err() != nil:
			status, msg = JobCanceled, jobCtx.Err().Error()
		case err != nil:
			status, msg = JobFailed, err.Error()
		}
		a.updateJob(jobID, func(j *Job) {
			j.Status = status
			j.Error = msg
			j.Items = items
			j.EndedAt = time.Now().UTC()
		})

		evType := JobEventResult
		if status != JobDone {
			evType = JobEventStatus
		}
		a.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: evType, Status: status, Error: msg, Total: len(targets)})
		a.logger.Info("batch job finished",
			logging.Field{Key: "job_id", Value: jobID},
			logging.Field{Key: "status", Value: string(status)})
	}()

	return snap, nil
}

// CancelJob stops a running job. It reports whether the job was running.
func (a *Application) CancelJob(jobID string) bool {
	a.jobsMu.Lock()
	cancel := a.jobCancels[jobID]
	a.jobsMu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// GetJob returns a snapshot of the job, or nil when it is unknown.
func (a *Application) GetJob(jobID string) *Job {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	j, ok := a.jobs[jobID]
	if !ok {
		return nil
	}
	return j.snapshot()
}

// ListJobs returns snapshots of all jobs, oldest first.
func (a *Application) ListJobs() []Job {
	a.jobsMu.Lock()
	out := make([]Job, 0, len(a.jobs))
	for _, j := range a.jobs {
		out = append(out, *j.snapshot())
	}
	a.jobsMu.Unlock()
	sort.Slice(out, func(i, k int) bool { return out[i].StartedAt.Before(out[k].StartedAt) })
	return out
}
