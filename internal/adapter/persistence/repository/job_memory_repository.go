package repository

import (
	"context"
	"sync"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

// JobMemoryRepository keeps jobs in process memory.
//
// The map lock only guards membership; each record has its own lock so
// updates of one job never wait on another.
type JobMemoryRepository struct {
	mu   sync.RWMutex
	jobs map[string]*jobRecord
	now  func() time.Time
}

type jobRecord struct {
	mu  sync.Mutex
	job entities.Job
}

var _ interfaces.IJobRepository = (*JobMemoryRepository)(nil)

func NewJobMemoryRepository() *JobMemoryRepository {
	return &JobMemoryRepository{
		jobs: make(map[string]*jobRecord),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *JobMemoryRepository) Create(_ context.Context, job entities.Job) (entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return entities.Job{}, entities.ErrJobExists
	}
	r.jobs[job.ID] = &jobRecord{job: job}
	return cloneJob(job), nil
}

func (r *JobMemoryRepository) Get(_ context.Context, id string) (entities.Job, error) {
	rec := r.record(id)
	if rec == nil {
		return entities.Job{}, nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return cloneJob(rec.job), nil
}

func (r *JobMemoryRepository) Start(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Start(now)
	})
}

func (r *JobMemoryRepository) UpdateStage(ctx context.Context, id string, stage entities.JobStage) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.AdvanceTo(stage, now)
	})
}

func (r *JobMemoryRepository) SetResult(ctx context.Context, id string, result entities.JobResult) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Complete(result, now)
	})
}

func (r *JobMemoryRepository) SetError(ctx context.Context, id string, jobErr entities.JobError) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Fail(jobErr, now)
	})
}

func (r *JobMemoryRepository) SetApproval(ctx context.Context, id string, approval entities.Approval) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Approve(approval, now)
	})
}

func (r *JobMemoryRepository) RequestCancel(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.RequestCancel(now)
	})
}

func (r *JobMemoryRepository) Cancel(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Cancel(now)
	})
}

func (r *JobMemoryRepository) record(id string) *jobRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

func (r *JobMemoryRepository) update(
	_ context.Context,
	id string,
	transition func(j entities.Job, now time.Time) (entities.Job, error),
) (entities.Job, error) {
	rec := r.record(id)
	if rec == nil {
		return entities.Job{}, nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	next, err := transition(rec.job, r.now())
	if err != nil {
		return entities.Job{}, err
	}
	rec.job = next
	return cloneJob(next), nil
}

// cloneJob detaches the pointer fields so callers cannot reach stored state.
func cloneJob(j entities.Job) entities.Job {
	if j.Result != nil {
		res := *j.Result
		j.Result = &res
	}
	if j.Error != nil {
		e := *j.Error
		j.Error = &e
	}
	if j.Approval != nil {
		a := *j.Approval
		j.Approval = &a
	}
	j.Options.SourceHints = append([]string(nil), j.Options.SourceHints...)
	return j
}
