package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rfp_automation/internal/adapter/persistence/repository"
	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
	mock_interfaces "rfp_automation/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type sourceFunc func(ctx context.Context, hints []string) (entities.RfpDocument, bool, error)

func (f sourceFunc) SelectBest(ctx context.Context, hints []string) (entities.RfpDocument, bool, error) {
	return f(ctx, hints)
}

type matcherFunc func(ctx context.Context, query string, topK int) (entities.MatchResult, error)

func (f matcherFunc) Match(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
	return f(ctx, query, topK)
}

func (f matcherFunc) ListCatalog(context.Context, int, int) ([]entities.CatalogEntry, int, error) {
	return nil, 0, nil
}

type drafterFunc func(ctx context.Context, facts entities.DraftFacts) (string, error)

func (f drafterFunc) Draft(ctx context.Context, facts entities.DraftFacts) (string, error) {
	return f(ctx, facts)
}

type staticLedger struct{}

func (staticLedger) Snapshot(context.Context) (*entities.LedgerSnapshot, error) {
	return testSnapshot(), nil
}

// stageRecorder records every stage transition requested by the pipeline.
type stageRecorder struct {
	interfaces.IJobRepository
	mu     sync.Mutex
	stages []entities.JobStage
}

func (s *stageRecorder) UpdateStage(ctx context.Context, id string, stage entities.JobStage) (entities.Job, error) {
	s.mu.Lock()
	s.stages = append(s.stages, stage)
	s.mu.Unlock()
	return s.IJobRepository.UpdateStage(ctx, id, stage)
}

func (s *stageRecorder) recorded() []entities.JobStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.JobStage(nil), s.stages...)
}

func cableRfp() entities.RfpDocument {
	qty := 100.0
	return entities.RfpDocument{
		ID:              "rfp-1",
		Title:           "Cable supply",
		Link:            "https://tenders.example/1",
		Requirements:    []entities.RequirementLine{{Text: "Product A cable", Quantity: &qty}},
		Tests:           []string{"Basic Test"},
		TotalScraped:    4,
		CandidatesFound: 2,
	}
}

func okSource() interfaces.IRfpSourceProvider {
	return sourceFunc(func(context.Context, []string) (entities.RfpDocument, bool, error) {
		return cableRfp(), true, nil
	})
}

func okMatcher() ISpecMatchUseCase {
	return matcherFunc(func(_ context.Context, query string, _ int) (entities.MatchResult, error) {
		return entities.MatchResult{Query: query, Matches: []entities.Match{
			{Entry: entities.CatalogEntry{ID: "SKU-A", Name: "Product A"}, Score: 0.9, Rationale: "ok"},
		}}, nil
	})
}

func okDrafter() interfaces.IResponseDrafter {
	return drafterFunc(func(context.Context, entities.DraftFacts) (string, error) {
		return "  Dear buyer  ", nil
	})
}

type pipelineDeps struct {
	source   interfaces.IRfpSourceProvider
	matcher  ISpecMatchUseCase
	drafter  interfaces.IResponseDrafter
	packager interfaces.IDocumentPackager
	opts     []PipelineOption
}

func newTestPipeline(t *testing.T, d pipelineDeps) (*PipelineUseCase, *stageRecorder) {
	t.Helper()
	if d.source == nil {
		d.source = okSource()
	}
	if d.matcher == nil {
		d.matcher = okMatcher()
	}
	repo := &stageRecorder{IJobRepository: repository.NewJobMemoryRepository()}
	opts := append([]PipelineOption{
		WithWorkers(2),
		WithCallTimeout(time.Second),
		WithRetryPolicy(RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}),
	}, d.opts...)
	p := NewPipelineUseCase(repo, d.source, d.matcher, NewPricingUseCase(staticLedger{}, nil, 0.8), d.drafter, d.packager, nil, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		p.Shutdown(ctx)
	})
	return p, repo
}

func waitForTerminal(t *testing.T, p *PipelineUseCase, id string) entities.Job {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := p.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if job.Status.IsTerminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return entities.Job{}
}

func TestPipelineUseCase_HappyPath(t *testing.T) {
	p, repo := newTestPipeline(t, pipelineDeps{drafter: okDrafter()})

	submitted, err := p.Submit(context.Background(), entities.JobOptions{SourceHints: []string{" https://tenders.example ", ""}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != entities.JobStatusPending {
		t.Fatalf("expected pending job, got %s", submitted.Status)
	}

	job := waitForTerminal(t, p, submitted.ID)
	if job.Status != entities.JobStatusCompleted || job.Stage != entities.JobStagePackaged {
		t.Fatalf("unexpected terminal job %+v", job)
	}
	res := job.Result
	if res == nil || job.Error != nil {
		t.Fatalf("expected result only, got %+v", job)
	}
	if res.DraftResponse == nil || *res.DraftResponse != "Dear buyer" {
		t.Fatalf("unexpected draft %v", res.DraftResponse)
	}
	if !res.Pricing.GrandTotal.Equal(decimal.NewFromInt(7000)) {
		t.Fatalf("unexpected grand total %s", res.Pricing.GrandTotal)
	}
	if res.RfpDetails.ID != "rfp-1" || res.ProcessingSummary.TotalRfpsScraped != 4 || res.ProcessingSummary.CandidatesFound != 2 {
		t.Fatalf("unexpected summary %+v / %+v", res.RfpDetails, res.ProcessingSummary)
	}
	if res.ProcessingSummary.RequirementsMatched != 1 || res.ProcessingSummary.ProductsMatched != 1 {
		t.Fatalf("unexpected counts %+v", res.ProcessingSummary)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings %+v", res.Warnings)
	}
	if len(job.Options.SourceHints) != 1 || job.Options.SourceHints[0] != "https://tenders.example" {
		t.Fatalf("hints not normalized: %v", job.Options.SourceHints)
	}

	stages := repo.recorded()
	want := []entities.JobStage{entities.JobStageSourcing, entities.JobStageMatching, entities.JobStagePricing, entities.JobStageDrafting, entities.JobStagePackaged}
	if len(stages) != len(want) {
		t.Fatalf("unexpected stages %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage %d: expected %s, got %s", i, want[i], stages[i])
		}
	}
}

func TestPipelineUseCase_NoCandidate(t *testing.T) {
	tests := []struct {
		name   string
		source sourceFunc
	}{
		{name: "nothing due", source: func(context.Context, []string) (entities.RfpDocument, bool, error) {
			return entities.RfpDocument{}, false, nil
		}},
		{name: "source error", source: func(context.Context, []string) (entities.RfpDocument, bool, error) {
			return entities.RfpDocument{}, false, errors.New("feed unreadable")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPipeline(t, pipelineDeps{source: tt.source})
			submitted, err := p.Submit(context.Background(), entities.JobOptions{})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			job := waitForTerminal(t, p, submitted.ID)
			if job.Status != entities.JobStatusFailed || job.Error == nil || job.Error.Kind != entities.ErrorKindNoCandidateRfp {
				t.Fatalf("expected NoCandidateRfp failure, got %+v", job)
			}
			if job.Result != nil {
				t.Fatalf("failed job must not carry a result")
			}
		})
	}
}

func TestPipelineUseCase_MatchingRetries(t *testing.T) {
	var calls atomic.Int32
	flaky := matcherFunc(func(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
		if calls.Add(1) == 1 {
			return entities.MatchResult{}, ErrEmbeddingUnavailable
		}
		return okMatcher().Match(ctx, query, topK)
	})
	p, _ := newTestPipeline(t, pipelineDeps{matcher: flaky, drafter: okDrafter()})

	submitted, err := p.Submit(context.Background(), entities.JobOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	job := waitForTerminal(t, p, submitted.ID)
	if job.Status != entities.JobStatusCompleted {
		t.Fatalf("expected completion after retry, got %+v", job.Error)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 match calls, got %d", calls.Load())
	}
}

func TestPipelineUseCase_MatchingFailed(t *testing.T) {
	source := sourceFunc(func(context.Context, []string) (entities.RfpDocument, bool, error) {
		doc := cableRfp()
		doc.Requirements = append(doc.Requirements, entities.RequirementLine{Text: "unobtainium conduit"})
		return doc, true, nil
	})

	t.Run("permanent error", func(t *testing.T) {
		var calls atomic.Int32
		matcher := matcherFunc(func(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
			if query == "unobtainium conduit" {
				calls.Add(1)
				return entities.MatchResult{}, ErrCatalogUnavailable
			}
			return okMatcher().Match(ctx, query, topK)
		})
		p, _ := newTestPipeline(t, pipelineDeps{source: source, matcher: matcher})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		job := waitForTerminal(t, p, submitted.ID)
		if job.Status != entities.JobStatusFailed || job.Error.Kind != entities.ErrorKindMatchingFailed {
			t.Fatalf("expected MatchingFailed, got %+v", job)
		}
		if len(job.Error.Details) != 1 {
			t.Fatalf("expected one failing line, got %v", job.Error.Details)
		}
		if calls.Load() != 1 {
			t.Fatalf("permanent errors must not be retried, got %d calls", calls.Load())
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		var calls atomic.Int32
		matcher := matcherFunc(func(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
			if query == "unobtainium conduit" {
				calls.Add(1)
				return entities.MatchResult{}, ErrEmbeddingUnavailable
			}
			return okMatcher().Match(ctx, query, topK)
		})
		p, _ := newTestPipeline(t, pipelineDeps{source: source, matcher: matcher})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		job := waitForTerminal(t, p, submitted.ID)
		if job.Status != entities.JobStatusFailed || job.Error.Kind != entities.ErrorKindMatchingFailed {
			t.Fatalf("expected MatchingFailed, got %+v", job)
		}
		if calls.Load() != 3 {
			t.Fatalf("expected 1 attempt + 2 retries, got %d", calls.Load())
		}
	})
}

func TestPipelineUseCase_DraftingDegraded(t *testing.T) {
	tests := []struct {
		name    string
		drafter interfaces.IResponseDrafter
	}{
		{name: "no drafter"},
		{name: "drafter error", drafter: drafterFunc(func(context.Context, entities.DraftFacts) (string, error) {
			return "", errors.New("llm down")
		})},
		{name: "empty draft", drafter: drafterFunc(func(context.Context, entities.DraftFacts) (string, error) {
			return "   ", nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPipeline(t, pipelineDeps{drafter: tt.drafter})
			submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
			job := waitForTerminal(t, p, submitted.ID)
			if job.Status != entities.JobStatusCompleted {
				t.Fatalf("drafting must not fail the job: %+v", job.Error)
			}
			if job.Result.DraftResponse != nil {
				t.Fatalf("expected no draft")
			}
			ws := job.Result.Warnings
			if len(ws) != 1 || ws[0].Kind != entities.WarningDraftingDegraded {
				t.Fatalf("expected one DraftingDegraded warning, got %+v", ws)
			}
			if len(job.Result.ProcessingSummary.Warnings) != 1 {
				t.Fatalf("summary warnings not populated: %+v", job.Result.ProcessingSummary)
			}
		})
	}
}

func TestPipelineUseCase_Cancel(t *testing.T) {
	tests := []struct {
		name  string
		stage entities.JobStage
		deps  func(block func()) pipelineDeps
	}{
		{
			name:  "mid sourcing",
			stage: entities.JobStageSourcing,
			deps: func(block func()) pipelineDeps {
				return pipelineDeps{source: sourceFunc(func(context.Context, []string) (entities.RfpDocument, bool, error) {
					block()
					return cableRfp(), true, nil
				})}
			},
		},
		{
			name:  "mid matching",
			stage: entities.JobStageMatching,
			deps: func(block func()) pipelineDeps {
				return pipelineDeps{matcher: matcherFunc(func(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
					block()
					return okMatcher().Match(ctx, query, topK)
				})}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entered := make(chan struct{})
			release := make(chan struct{})
			var once sync.Once
			block := func() {
				once.Do(func() { close(entered) })
				<-release
			}
			p, repo := newTestPipeline(t, tt.deps(block))

			submitted, err := p.Submit(context.Background(), entities.JobOptions{})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			<-entered

			flagged, err := p.Cancel(context.Background(), submitted.ID)
			if err != nil {
				t.Fatalf("cancel: %v", err)
			}
			if flagged.Status != entities.JobStatusRunning || !flagged.CancelRequested || flagged.Stage != tt.stage {
				t.Fatalf("expected running job in %s with cancel flag, got %+v", tt.stage, flagged)
			}
			close(release)

			job := waitForTerminal(t, p, submitted.ID)
			if job.Status != entities.JobStatusCancelled || job.Result != nil {
				t.Fatalf("expected cancelled job without result, got %+v", job)
			}
			for _, s := range repo.recorded() {
				if s.Order() > tt.stage.Order() {
					t.Fatalf("cancelled job advanced to %s", s)
				}
			}

			if _, err := p.Cancel(context.Background(), submitted.ID); !errors.Is(err, ErrJobNotCancellable) {
				t.Fatalf("expected ErrJobNotCancellable, got %v", err)
			}
		})
	}
}

func TestPipelineUseCase_Approve(t *testing.T) {
	t.Run("packages once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		packager := mock_interfaces.NewMockIDocumentPackager(ctrl)
		p, _ := newTestPipeline(t, pipelineDeps{drafter: okDrafter(), packager: packager})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		waitForTerminal(t, p, submitted.ID)

		packager.EXPECT().Package(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, job entities.Job, a entities.Approval) (string, error) {
				if job.Result == nil || !a.Approved || a.Comments != "ship it" {
					t.Errorf("unexpected packaging input %+v %+v", job, a)
				}
				return "/tmp/packages/" + job.ID, nil
			})

		job, err := p.Approve(context.Background(), submitted.ID, true, "  ship it ")
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if job.Approval == nil || job.Approval.PackageLocation != "/tmp/packages/"+submitted.ID {
			t.Fatalf("unexpected approval %+v", job.Approval)
		}

		if _, err := p.Approve(context.Background(), submitted.ID, false, "changed my mind"); !errors.Is(err, ErrDoubleApproval) {
			t.Fatalf("expected ErrDoubleApproval, got %v", err)
		}
		again, _ := p.Status(context.Background(), submitted.ID)
		if !again.Approval.Approved || again.Approval.Comments != "ship it" {
			t.Fatalf("approval changed: %+v", again.Approval)
		}
	})

	t.Run("concurrent approvals package once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		packager := mock_interfaces.NewMockIDocumentPackager(ctrl)
		p, _ := newTestPipeline(t, pipelineDeps{packager: packager})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		waitForTerminal(t, p, submitted.ID)

		entered := make(chan struct{})
		release := make(chan struct{})
		packager.EXPECT().Package(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, entities.Job, entities.Approval) (string, error) {
				close(entered)
				<-release
				return "/tmp/packages/" + submitted.ID, nil
			}).Times(1)

		first := make(chan error, 1)
		go func() {
			_, err := p.Approve(context.Background(), submitted.ID, true, "first")
			first <- err
		}()
		<-entered

		if _, err := p.Approve(context.Background(), submitted.ID, false, "second"); !errors.Is(err, ErrDoubleApproval) {
			t.Fatalf("expected ErrDoubleApproval while packaging, got %v", err)
		}
		close(release)
		if err := <-first; err != nil {
			t.Fatalf("first approval: %v", err)
		}

		var wg sync.WaitGroup
		var rejected atomic.Int32
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.Approve(context.Background(), submitted.ID, true, "late"); errors.Is(err, ErrDoubleApproval) {
					rejected.Add(1)
				}
			}()
		}
		wg.Wait()
		if rejected.Load() != 8 {
			t.Fatalf("expected every late approval rejected, got %d", rejected.Load())
		}

		job, _ := p.Status(context.Background(), submitted.ID)
		if !job.Approval.Approved || job.Approval.Comments != "first" {
			t.Fatalf("unexpected approval %+v", job.Approval)
		}
	})

	t.Run("rejection skips packaging", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		packager := mock_interfaces.NewMockIDocumentPackager(ctrl)
		p, _ := newTestPipeline(t, pipelineDeps{packager: packager})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		waitForTerminal(t, p, submitted.ID)

		job, err := p.Approve(context.Background(), submitted.ID, false, "too expensive")
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if job.Approval.Approved || job.Approval.PackageLocation != "" {
			t.Fatalf("unexpected approval %+v", job.Approval)
		}
	})

	t.Run("packaging failure leaves job unapproved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		packager := mock_interfaces.NewMockIDocumentPackager(ctrl)
		p, _ := newTestPipeline(t, pipelineDeps{packager: packager})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		waitForTerminal(t, p, submitted.ID)

		packager.EXPECT().Package(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

		if _, err := p.Approve(context.Background(), submitted.ID, true, ""); !errors.Is(err, ErrPackagingFailed) {
			t.Fatalf("expected ErrPackagingFailed, got %v", err)
		}
		job, _ := p.Status(context.Background(), submitted.ID)
		if job.Approval != nil {
			t.Fatalf("approval must not be recorded, got %+v", job.Approval)
		}
	})

	t.Run("not completed", func(t *testing.T) {
		none := sourceFunc(func(context.Context, []string) (entities.RfpDocument, bool, error) {
			return entities.RfpDocument{}, false, nil
		})
		p, _ := newTestPipeline(t, pipelineDeps{source: none})

		submitted, _ := p.Submit(context.Background(), entities.JobOptions{})
		waitForTerminal(t, p, submitted.ID)

		if _, err := p.Approve(context.Background(), submitted.ID, true, ""); !errors.Is(err, ErrJobNotCompleted) {
			t.Fatalf("expected ErrJobNotCompleted, got %v", err)
		}
	})
}

func TestPipelineUseCase_Lookups(t *testing.T) {
	p, _ := newTestPipeline(t, pipelineDeps{})

	if _, err := p.Status(context.Background(), " "); !errors.Is(err, ErrInvalidJobID) {
		t.Fatalf("expected ErrInvalidJobID, got %v", err)
	}
	if _, err := p.Result(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := p.Approve(context.Background(), "missing", true, ""); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := p.Submit(context.Background(), entities.JobOptions{Overrides: entities.JobOverrides{TopK: -1}}); !errors.Is(err, ErrInvalidTopK) {
		t.Fatalf("expected ErrInvalidTopK, got %v", err)
	}
	neg := -5.0
	if _, err := p.Submit(context.Background(), entities.JobOptions{Overrides: entities.JobOverrides{DefaultQuantity: &neg}}); !errors.Is(err, ErrInvalidOverrides) {
		t.Fatalf("expected ErrInvalidOverrides, got %v", err)
	}
}

func TestPipelineUseCase_Backpressure(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	source := sourceFunc(func(context.Context, []string) (entities.RfpDocument, bool, error) {
		entered <- struct{}{}
		<-release
		return entities.RfpDocument{}, false, nil
	})
	p, _ := newTestPipeline(t, pipelineDeps{source: source, opts: []PipelineOption{WithWorkers(1), WithQueueSize(1)}})

	first, err := p.Submit(context.Background(), entities.JobOptions{})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	<-entered
	if _, err := p.Submit(context.Background(), entities.JobOptions{}); err != nil {
		t.Fatalf("second submit should be queued: %v", err)
	}
	if _, err := p.Submit(context.Background(), entities.JobOptions{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(release)
	waitForTerminal(t, p, first.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.Shutdown(ctx)
	if _, err := p.Submit(context.Background(), entities.JobOptions{}); !errors.Is(err, ErrPipelineClosed) {
		t.Fatalf("expected ErrPipelineClosed, got %v", err)
	}
}

func TestPipelineUseCase_Collaborators(t *testing.T) {
	t.Run("store failure on submit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIJobRepository(ctrl)
		p := NewPipelineUseCase(repo, okSource(), okMatcher(), NewPricingUseCase(staticLedger{}, nil, 0.8), nil, nil, nil, WithWorkers(1))
		defer p.Shutdown(context.Background())

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Job{}, errors.New("table missing"))

		if _, err := p.Submit(context.Background(), entities.JobOptions{}); err == nil || err.Error() != "table missing" {
			t.Fatalf("expected store error, got %v", err)
		}
	})

	t.Run("hints and facts reach collaborators", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		source := mock_interfaces.NewMockIRfpSourceProvider(ctrl)
		drafter := mock_interfaces.NewMockIResponseDrafter(ctrl)

		source.EXPECT().SelectBest(gomock.Any(), []string{"https://tenders.example"}).Return(cableRfp(), true, nil)
		drafter.EXPECT().Draft(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, facts entities.DraftFacts) (string, error) {
				if facts.Rfp.ID != "rfp-1" || len(facts.Matches) != 1 || facts.Pricing.RfpID != "rfp-1" {
					t.Errorf("unexpected facts %+v", facts)
				}
				return "Proposal", nil
			})

		p, _ := newTestPipeline(t, pipelineDeps{source: source, drafter: drafter})
		submitted, err := p.Submit(context.Background(), entities.JobOptions{SourceHints: []string{"https://tenders.example"}})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		job := waitForTerminal(t, p, submitted.ID)
		if job.Status != entities.JobStatusCompleted || *job.Result.DraftResponse != "Proposal" {
			t.Fatalf("unexpected job %+v", job)
		}
	})
}
