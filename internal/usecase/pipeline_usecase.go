package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/platform/logger"
	"rfp_automation/internal/usecase/interfaces"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=pipeline_usecase.go -destination=../adapter/http/handlers/mocks/pipeline_usecase.go -package=mocks

// IPipelineUseCase exposes the asynchronous RFP job lifecycle.
//
//   - Submit creates a Pending job and schedules it.
//   - Status and Result read the job; Job.Result is only set once Completed.
//   - Approve records the caller decision once on a Completed job.
//   - Cancel stops a job at its next stage boundary.
type IPipelineUseCase interface {
	Submit(ctx context.Context, opts entities.JobOptions) (entities.Job, error)
	Status(ctx context.Context, jobID string) (entities.Job, error)
	Result(ctx context.Context, jobID string) (entities.Job, error)
	Approve(ctx context.Context, jobID string, approved bool, comments string) (entities.Job, error)
	Cancel(ctx context.Context, jobID string) (entities.Job, error)
}

// RetryPolicy controls the per-line retries of the Matching stage.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0.2
	return b
}

// PipelineDefaults are applied when neither the RFP nor the job overrides say otherwise.
type PipelineDefaults struct {
	TopK            int
	MaxRequirements int
	DefaultQuantity float64
	TestNames       []string
}

type PipelineOption func(*PipelineUseCase)

func WithWorkers(n int) PipelineOption {
	return func(p *PipelineUseCase) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) PipelineOption {
	return func(p *PipelineUseCase) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithCallTimeout bounds every collaborator call made by a job.
func WithCallTimeout(d time.Duration) PipelineOption {
	return func(p *PipelineUseCase) {
		if d > 0 {
			p.callTimeout = d
		}
	}
}

func WithRetryPolicy(rp RetryPolicy) PipelineOption {
	return func(p *PipelineUseCase) {
		if rp.MaxRetries >= 0 {
			p.retry.MaxRetries = rp.MaxRetries
		}
		if rp.InitialInterval > 0 {
			p.retry.InitialInterval = rp.InitialInterval
		}
		if rp.MaxInterval > 0 {
			p.retry.MaxInterval = rp.MaxInterval
		}
	}
}

func WithDefaults(d PipelineDefaults) PipelineOption {
	return func(p *PipelineUseCase) {
		if d.TopK > 0 {
			p.defaults.TopK = d.TopK
		}
		if d.MaxRequirements > 0 {
			p.defaults.MaxRequirements = d.MaxRequirements
		}
		if d.DefaultQuantity > 0 {
			p.defaults.DefaultQuantity = d.DefaultQuantity
		}
		if len(d.TestNames) > 0 {
			p.defaults.TestNames = append([]string(nil), d.TestNames...)
		}
	}
}

func WithClock(now func() time.Time) PipelineOption {
	return func(p *PipelineUseCase) {
		if now != nil {
			p.now = now
		}
	}
}

type PipelineUseCase struct {
	repo     interfaces.IJobRepository
	sources  interfaces.IRfpSourceProvider
	matcher  ISpecMatchUseCase
	pricing  IPricingUseCase
	drafter  interfaces.IResponseDrafter
	packager interfaces.IDocumentPackager
	log      *logger.Logger
	tracer   trace.Tracer
	now      func() time.Time

	workers     int
	queueSize   int
	callTimeout time.Duration
	retry       RetryPolicy
	defaults    PipelineDefaults

	ch      chan string
	wg      sync.WaitGroup
	baseCtx context.Context
	stop    context.CancelFunc

	mu        sync.Mutex
	closed    bool
	approving map[string]struct{}
}

var _ IPipelineUseCase = (*PipelineUseCase)(nil)

// NewPipelineUseCase builds the orchestrator and starts its workers. drafter
// and packager may be nil: drafting then degrades and approval skips packaging.
func NewPipelineUseCase(
	repo interfaces.IJobRepository,
	sources interfaces.IRfpSourceProvider,
	matcher ISpecMatchUseCase,
	pricing IPricingUseCase,
	drafter interfaces.IResponseDrafter,
	packager interfaces.IDocumentPackager,
	log *logger.Logger,
	opts ...PipelineOption,
) *PipelineUseCase {
	if log == nil {
		log = logger.Nop()
	}
	p := &PipelineUseCase{
		repo:        repo,
		sources:     sources,
		matcher:     matcher,
		pricing:     pricing,
		drafter:     drafter,
		packager:    packager,
		log:         log,
		tracer:      otel.Tracer("rfp_automation/usecase/pipeline"),
		now:         func() time.Time { return time.Now().UTC() },
		workers:     4,
		queueSize:   64,
		callTimeout: 30 * time.Second,
		retry: RetryPolicy{
			MaxRetries:      2,
			InitialInterval: 250 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		},
		defaults: PipelineDefaults{
			TopK:            DefaultTopK,
			MaxRequirements: 5,
			DefaultQuantity: 1000,
			TestNames:       []string{"Quality Test", "Performance Test", "Safety Test"},
		},
	}
	for _, o := range opts {
		o(p)
	}
	p.approving = make(map[string]struct{})
	p.ch = make(chan string, p.queueSize)
	p.baseCtx, p.stop = context.WithCancel(context.Background())
	p.start()
	return p
}

func (p *PipelineUseCase) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			p.log.Debug("pipeline worker started", "worker_id", workerID)
			for jobID := range p.ch {
				p.process(p.baseCtx, jobID)
			}
			p.log.Debug("pipeline worker stopped", "worker_id", workerID)
		}(i + 1)
	}
}

// Shutdown stops accepting jobs and waits for queued jobs to drain. When ctx
// expires first, in-flight collaborator calls are cancelled.
func (p *PipelineUseCase) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); p.wg.Wait() }()

	select {
	case <-done:
		p.log.Info("pipeline drained, shutdown complete")
	case <-ctx.Done():
		p.log.Warn("pipeline shutdown interrupted, cancelling in-flight jobs")
		p.stop()
		<-done
	}
	p.stop()
}

func (p *PipelineUseCase) Submit(ctx context.Context, opts entities.JobOptions) (entities.Job, error) {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return entities.Job{}, err
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return entities.Job{}, ErrPipelineClosed
	}

	job, err := p.repo.Create(ctx, entities.NewJob(uuid.NewString(), opts, p.now()))
	if err != nil {
		return entities.Job{}, err
	}

	if err := p.enqueue(job.ID); err != nil {
		// The job exists but will never run: record why.
		if _, ferr := p.repo.SetError(ctx, job.ID, entities.JobError{Kind: entities.ErrorKindInternal, Message: err.Error()}); ferr != nil {
			p.log.Error("failed to record rejected job", "job_id", job.ID, "error", ferr)
		}
		return entities.Job{}, err
	}
	p.log.Info("job submitted", "job_id", job.ID, "source_hints", len(opts.SourceHints))
	return job, nil
}

func (p *PipelineUseCase) enqueue(jobID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPipelineClosed
	}
	select {
	case p.ch <- jobID:
		return nil
	default:
		p.log.Warn("pipeline queue full", "job_id", jobID, "queue_size", p.queueSize)
		return ErrQueueFull
	}
}

func (p *PipelineUseCase) Status(ctx context.Context, jobID string) (entities.Job, error) {
	return p.get(ctx, jobID)
}

func (p *PipelineUseCase) Result(ctx context.Context, jobID string) (entities.Job, error) {
	return p.get(ctx, jobID)
}

// Approve records the approval decision once per job. Concurrent calls for the
// same job are rejected with ErrDoubleApproval while one is in flight, so the
// package is written at most once.
func (p *PipelineUseCase) Approve(ctx context.Context, jobID string, approved bool, comments string) (entities.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Job{}, ErrInvalidJobID
	}
	if !p.claimApproval(jobID) {
		return entities.Job{}, ErrDoubleApproval
	}
	defer p.releaseApproval(jobID)

	job, err := p.get(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}
	if job.Approval != nil {
		return entities.Job{}, ErrDoubleApproval
	}
	if job.Status != entities.JobStatusCompleted {
		return entities.Job{}, ErrJobNotCompleted
	}

	approval := entities.Approval{
		Approved:  approved,
		Comments:  strings.TrimSpace(comments),
		DecidedAt: p.now(),
	}
	if approved && p.packager != nil {
		loc, err := callWithTimeout(ctx, p.callTimeout, func(c context.Context) (string, error) {
			return p.packager.Package(c, job, approval)
		})
		if err != nil {
			p.log.Error("packaging failed", "job_id", job.ID, "error", err)
			return entities.Job{}, fmt.Errorf("%w: %s", ErrPackagingFailed, err.Error())
		}
		approval.PackageLocation = loc
	}

	updated, err := p.repo.SetApproval(ctx, job.ID, approval)
	switch {
	case errors.Is(err, entities.ErrAlreadyApproved):
		return entities.Job{}, ErrDoubleApproval
	case errors.Is(err, entities.ErrApprovalNotAllowed):
		return entities.Job{}, ErrJobNotCompleted
	case err != nil:
		return entities.Job{}, err
	case updated.ID == "":
		return entities.Job{}, ErrJobNotFound
	}
	p.log.Info("job approval recorded", "job_id", job.ID, "approved", approved, "package", approval.PackageLocation)
	return updated, nil
}

func (p *PipelineUseCase) claimApproval(jobID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.approving[jobID]; busy {
		return false
	}
	p.approving[jobID] = struct{}{}
	return true
}

func (p *PipelineUseCase) releaseApproval(jobID string) {
	p.mu.Lock()
	delete(p.approving, jobID)
	p.mu.Unlock()
}

func (p *PipelineUseCase) Cancel(ctx context.Context, jobID string) (entities.Job, error) {
	job, err := p.get(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}
	updated, err := p.repo.RequestCancel(ctx, job.ID)
	switch {
	case errors.Is(err, entities.ErrInvalidJobTransition):
		return entities.Job{}, ErrJobNotCancellable
	case err != nil:
		return entities.Job{}, err
	case updated.ID == "":
		return entities.Job{}, ErrJobNotFound
	}
	p.log.Info("job cancellation requested", "job_id", job.ID, "status", updated.Status, "stage", updated.Stage)
	return updated, nil
}

func (p *PipelineUseCase) get(ctx context.Context, jobID string) (entities.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Job{}, ErrInvalidJobID
	}
	job, err := p.repo.Get(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}
	if job.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return job, nil
}

func normalizeOptions(opts entities.JobOptions) (entities.JobOptions, error) {
	hints := make([]string, 0, len(opts.SourceHints))
	for _, h := range opts.SourceHints {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
	}
	opts.SourceHints = hints

	o := opts.Overrides
	if o.TopK < 0 {
		return entities.JobOptions{}, ErrInvalidTopK
	}
	if o.MaxRequirements < 0 {
		return entities.JobOptions{}, fmt.Errorf("%w: maxRequirements must be >= 0", ErrInvalidOverrides)
	}
	if o.DefaultQuantity != nil && *o.DefaultQuantity < 0 {
		return entities.JobOptions{}, fmt.Errorf("%w: defaultQuantity must be >= 0", ErrInvalidOverrides)
	}
	tests := make([]string, 0, len(o.TestNames))
	for _, t := range o.TestNames {
		if t = strings.TrimSpace(t); t != "" {
			tests = append(tests, t)
		}
	}
	opts.Overrides.TestNames = tests
	return opts, nil
}
