package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=job_repository_interface.go -destination=mocks/job_repository_interface.go -package=mock_interfaces

// IJobRepository is the JobStore: the only owner of Job records.
//
// Every mutation is serialized per job and goes through the entities.Job
// transition methods, so the store rejects out-of-order updates with the
// entities transition errors. Lookups of unknown ids return a zero Job and a
// nil error.
type IJobRepository interface {
	Create(ctx context.Context, job entities.Job) (entities.Job, error)
	Get(ctx context.Context, id string) (entities.Job, error)
	Start(ctx context.Context, id string) (entities.Job, error)
	UpdateStage(ctx context.Context, id string, stage entities.JobStage) (entities.Job, error)
	SetResult(ctx context.Context, id string, result entities.JobResult) (entities.Job, error)
	SetError(ctx context.Context, id string, jobErr entities.JobError) (entities.Job, error)
	SetApproval(ctx context.Context, id string, approval entities.Approval) (entities.Job, error)
	RequestCancel(ctx context.Context, id string) (entities.Job, error)
	Cancel(ctx context.Context, id string) (entities.Job, error)
}
