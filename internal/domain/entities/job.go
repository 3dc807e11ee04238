package entities

import (
	"errors"
	"time"
)

// JobStage is the pipeline phase a job is in.
//
// Stages only move forward in the fixed order below. Re-entering the current
// stage is allowed (explicit retry of that stage), going back is not.
type JobStage string

const (
	JobStageSourcing JobStage = "sourcing"
	JobStageMatching JobStage = "matching"
	JobStagePricing  JobStage = "pricing"
	JobStageDrafting JobStage = "drafting"
	JobStagePackaged JobStage = "packaged"
)

var stageOrder = map[JobStage]int{
	JobStageSourcing: 1,
	JobStageMatching: 2,
	JobStagePricing:  3,
	JobStageDrafting: 4,
	JobStagePackaged: 5,
}

// Order returns the position of the stage in the pipeline, 0 when unknown.
func (s JobStage) Order() int {
	return stageOrder[s]
}

func (s JobStage) Valid() bool {
	return s.Order() > 0
}

// JobStatus is the outcome layered on top of the stage.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

var (
	ErrInvalidJobTransition = errors.New("invalid job transition")
	ErrStageRegression      = errors.New("job stage cannot move backwards")
	ErrApprovalNotAllowed   = errors.New("approval only allowed on completed jobs")
	ErrAlreadyApproved      = errors.New("job already has an approval decision")
	ErrJobExists            = errors.New("job id already exists")
)

// JobOverrides are optional caller parameters applied on top of the configured defaults.
type JobOverrides struct {
	TopK            int      `json:"topK,omitempty"`
	MaxRequirements int      `json:"maxRequirements,omitempty"`
	DefaultQuantity *float64 `json:"defaultQuantity,omitempty"`
	TestNames       []string `json:"testNames,omitempty"`
}

// JobOptions is what the caller supplied at submission.
type JobOptions struct {
	SourceHints []string     `json:"sourceHints,omitempty"`
	Overrides   JobOverrides `json:"overrides"`
}

// Approval is the caller decision recorded once on a completed job.
type Approval struct {
	Approved        bool      `json:"approved"`
	Comments        string    `json:"comments"`
	DecidedAt       time.Time `json:"decidedAt"`
	PackageLocation string    `json:"packageLocation,omitempty"`
}

// Job is the unit of orchestration.
//
// Invariants (enforced by the transition methods below):
//   - Result and Error are mutually exclusive, and both nil while Pending/Running.
//   - Approval can only be set when Completed, and only once.
//   - Stage never moves backwards.
type Job struct {
	ID              string     `json:"id"`
	Stage           JobStage   `json:"stage"`
	Status          JobStatus  `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Options         JobOptions `json:"options"`
	CancelRequested bool       `json:"cancelRequested"`
	Result          *JobResult `json:"result,omitempty"`
	Error           *JobError  `json:"error,omitempty"`
	Approval        *Approval  `json:"approval,omitempty"`
}

// NewJob returns a Pending job positioned at the first stage.
func NewJob(id string, opts JobOptions, now time.Time) Job {
	return Job{
		ID:        id,
		Stage:     JobStageSourcing,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Options:   opts,
	}
}

// Start moves a Pending job to Running.
func (j Job) Start(now time.Time) (Job, error) {
	if j.Status != JobStatusPending {
		return j, ErrInvalidJobTransition
	}
	j.Status = JobStatusRunning
	j.UpdatedAt = now
	return j, nil
}

// AdvanceTo sets the stage of a Running job. The same stage is accepted as a retry.
func (j Job) AdvanceTo(stage JobStage, now time.Time) (Job, error) {
	if !stage.Valid() {
		return j, ErrInvalidJobTransition
	}
	if j.Status != JobStatusRunning {
		return j, ErrInvalidJobTransition
	}
	if stage.Order() < j.Stage.Order() {
		return j, ErrStageRegression
	}
	j.Stage = stage
	j.UpdatedAt = now
	return j, nil
}

// Complete records the result and marks the job Completed.
func (j Job) Complete(result JobResult, now time.Time) (Job, error) {
	if j.Status != JobStatusRunning {
		return j, ErrInvalidJobTransition
	}
	j.Status = JobStatusCompleted
	j.Result = &result
	j.Error = nil
	j.UpdatedAt = now
	return j, nil
}

// Fail records the failure and marks the job Failed.
func (j Job) Fail(jobErr JobError, now time.Time) (Job, error) {
	if j.Status != JobStatusRunning && j.Status != JobStatusPending {
		return j, ErrInvalidJobTransition
	}
	j.Status = JobStatusFailed
	j.Error = &jobErr
	j.Result = nil
	j.UpdatedAt = now
	return j, nil
}

// RequestCancel flags a Running job for cancellation at the next stage boundary.
// A Pending job has no stage in flight and is cancelled right away.
func (j Job) RequestCancel(now time.Time) (Job, error) {
	switch j.Status {
	case JobStatusPending:
		j.CancelRequested = true
		j.Status = JobStatusCancelled
	case JobStatusRunning:
		j.CancelRequested = true
	default:
		return j, ErrInvalidJobTransition
	}
	j.UpdatedAt = now
	return j, nil
}

// Cancel marks a job Cancelled. Result is never populated on a cancelled job.
func (j Job) Cancel(now time.Time) (Job, error) {
	if j.Status != JobStatusRunning && j.Status != JobStatusPending {
		return j, ErrInvalidJobTransition
	}
	j.Status = JobStatusCancelled
	j.CancelRequested = true
	j.Result = nil
	j.UpdatedAt = now
	return j, nil
}

// Approve sets the approval decision exactly once on a Completed job.
func (j Job) Approve(approval Approval, now time.Time) (Job, error) {
	if j.Status != JobStatusCompleted {
		return j, ErrApprovalNotAllowed
	}
	if j.Approval != nil {
		return j, ErrAlreadyApproved
	}
	if approval.DecidedAt.IsZero() {
		approval.DecidedAt = now
	}
	j.Approval = &approval
	j.UpdatedAt = now
	return j, nil
}
