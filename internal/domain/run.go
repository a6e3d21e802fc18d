package domain

import (
	"time"
)

// RunStatus represents the overall status of a release run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// StepStatus represents the status of an individual workflow step.
type StepStatus string

const (
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// ReleaseRun is the audit record of a single release run. It is written as
// history only and never read back to resume a run: a failed or cancelled
// run is re-run from the beginning.
type ReleaseRun struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Version   string       `json:"version,omitempty"`
	Branch    string       `json:"branch,omitempty"`
	Steps     []StepRecord `json:"steps"`
	Status    RunStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
}

// StepRecord represents a single step of the workflow.
type StepRecord struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewReleaseRun creates a pending run record.
func NewReleaseRun(sessionID string) *ReleaseRun {
	now := time.Now()
	return &ReleaseRun{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		Steps:     []StepRecord{},
		Status:    RunStatusPending,
	}
}

// StepStarted appends a running step record.
func (r *ReleaseRun) StepStarted(name string) {
	now := time.Now()
	r.Steps = append(r.Steps, StepRecord{
		Name:      name,
		Status:    StepStatusRunning,
		StartedAt: now,
	})
	r.Status = RunStatusRunning
	r.UpdatedAt = now
}

// StepCompleted marks the most recent step as completed.
func (r *ReleaseRun) StepCompleted(name string) {
	r.finishStep(name, StepStatusCompleted, "")
}

// StepFailed marks the most recent step as failed and records the error.
func (r *ReleaseRun) StepFailed(name string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.finishStep(name, StepStatusFailed, msg)
}

func (r *ReleaseRun) finishStep(name string, status StepStatus, errMsg string) {
	now := time.Now()
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Name == name {
			r.Steps[i].Status = status
			r.Steps[i].CompletedAt = &now
			r.Steps[i].Error = errMsg
			break
		}
	}
	r.UpdatedAt = now
}

// Finish records the terminal status of the run.
func (r *ReleaseRun) Finish(err error) {
	switch {
	case err == nil:
		r.Status = RunStatusCompleted
	case IsCancelled(err):
		r.Status = RunStatusCancelled
		r.Error = err.Error()
	default:
		r.Status = RunStatusFailed
		r.Error = err.Error()
	}
	r.UpdatedAt = time.Now()
}
