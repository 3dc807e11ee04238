package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/platform/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// jobRun carries what the stages of one job produce. It is owned by the
// goroutine running the job and never shared.
type jobRun struct {
	job      entities.Job
	log      *logger.Logger
	rfp      entities.RfpDocument
	lines    []entities.RequirementLine
	matches  []entities.MatchResult
	pricing  entities.PriceBreakdown
	draft    *string
	warnings []entities.Warning
}

// stageFailure ends a job with a recorded error.
type stageFailure struct {
	jobErr entities.JobError
}

func (f *stageFailure) Error() string {
	return string(f.jobErr.Kind) + ": " + f.jobErr.Message
}

func fail(kind entities.ErrorKind, msg string, details ...string) error {
	return &stageFailure{jobErr: entities.JobError{Kind: kind, Message: msg, Details: details}}
}

type stage struct {
	name entities.JobStage
	run  func(ctx context.Context, r *jobRun) error
}

func (p *PipelineUseCase) stages() []stage {
	return []stage{
		{entities.JobStageSourcing, p.runSourcing},
		{entities.JobStageMatching, p.runMatching},
		{entities.JobStagePricing, p.runPricing},
		{entities.JobStageDrafting, p.runDrafting},
	}
}

// process runs one job through every stage. Cancellation is only honoured at
// stage boundaries, so a stage that started always finishes.
func (p *PipelineUseCase) process(ctx context.Context, jobID string) {
	log := p.log.With("job_id", jobID)

	job, err := p.repo.Start(ctx, jobID)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidJobTransition) {
			log.Info("job no longer pending, skipping")
			return
		}
		log.Error("failed to start job", "error", err)
		return
	}
	if job.ID == "" {
		log.Warn("job vanished before start")
		return
	}

	r := &jobRun{job: job, log: log}
	for _, st := range p.stages() {
		if p.cancelled(ctx, r) {
			return
		}
		if err := p.enterStage(ctx, r, st.name); err != nil {
			p.abort(ctx, r, err)
			return
		}
		if err := p.runStage(ctx, r, st); err != nil {
			p.abort(ctx, r, err)
			return
		}
	}

	if p.cancelled(ctx, r) {
		return
	}
	if err := p.enterStage(ctx, r, entities.JobStagePackaged); err != nil {
		p.abort(ctx, r, err)
		return
	}
	result := p.assemble(r)
	if _, err := p.repo.SetResult(context.WithoutCancel(ctx), jobID, result); err != nil {
		p.abort(ctx, r, err)
		return
	}
	log.Info("job completed",
		"rfp_id", r.rfp.ID,
		"requirements", len(r.matches),
		"grand_total", r.pricing.GrandTotal.String(),
		"warnings", len(r.warnings),
	)
}

func (p *PipelineUseCase) runStage(ctx context.Context, r *jobRun, st stage) error {
	ctx, span := p.tracer.Start(ctx, "pipeline."+string(st.name), trace.WithAttributes(
		attribute.String("job.id", r.job.ID),
	))
	defer span.End()

	r.log.Debug("stage started", "stage", st.name)
	err := st.run(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	r.log.Debug("stage finished", "stage", st.name)
	return nil
}

func (p *PipelineUseCase) enterStage(ctx context.Context, r *jobRun, s entities.JobStage) error {
	job, err := p.repo.UpdateStage(ctx, r.job.ID, s)
	if err != nil {
		return err
	}
	if job.ID != "" {
		r.job = job
	}
	return nil
}

// cancelled reports whether a cancellation was requested, and if so marks the job Cancelled.
func (p *PipelineUseCase) cancelled(ctx context.Context, r *jobRun) bool {
	job, err := p.repo.Get(ctx, r.job.ID)
	if err != nil {
		r.log.Warn("failed to read cancellation flag", "error", err)
		return false
	}
	if !job.CancelRequested {
		return false
	}
	if _, err := p.repo.Cancel(context.WithoutCancel(ctx), r.job.ID); err != nil {
		r.log.Error("failed to cancel job", "error", err)
	}
	r.log.Info("job cancelled", "stage", job.Stage)
	return true
}

// abort records a terminal failure. Stage failures carry their own kind,
// anything else is an internal error.
func (p *PipelineUseCase) abort(ctx context.Context, r *jobRun, err error) {
	var sf *stageFailure
	jobErr := entities.JobError{Kind: entities.ErrorKindInternal, Message: err.Error()}
	if errors.As(err, &sf) {
		jobErr = sf.jobErr
	} else if ctx.Err() != nil {
		jobErr.Message = "pipeline shut down before the job finished"
	}

	if _, serr := p.repo.SetError(context.WithoutCancel(ctx), r.job.ID, jobErr); serr != nil {
		r.log.Error("failed to record job failure", "error", serr, "cause", err)
		return
	}
	r.log.Warn("job failed", "stage", r.job.Stage, "kind", jobErr.Kind, "error", jobErr.Message)
}

func (p *PipelineUseCase) runSourcing(ctx context.Context, r *jobRun) error {
	type selection struct {
		doc entities.RfpDocument
		ok  bool
	}
	sel, err := callWithTimeout(ctx, p.callTimeout, func(c context.Context) (selection, error) {
		doc, ok, err := p.sources.SelectBest(c, r.job.Options.SourceHints)
		return selection{doc: doc, ok: ok}, err
	})
	if err != nil {
		return fail(entities.ErrorKindNoCandidateRfp, "rfp source unavailable", err.Error())
	}
	if !sel.ok {
		return fail(entities.ErrorKindNoCandidateRfp, "no candidate RFP found")
	}
	r.rfp = sel.doc
	r.log = r.log.With("rfp_id", sel.doc.ID)
	r.log.Info("rfp selected", "title", sel.doc.Title, "candidates", sel.doc.CandidatesFound)
	return nil
}

func (p *PipelineUseCase) runMatching(ctx context.Context, r *jobRun) error {
	maxLines := p.defaults.MaxRequirements
	if o := r.job.Options.Overrides.MaxRequirements; o > 0 {
		maxLines = o
	}
	topK := p.defaults.TopK
	if o := r.job.Options.Overrides.TopK; o > 0 {
		topK = o
	}

	r.lines = requirementLines(r.rfp, maxLines)
	results := make([]entities.MatchResult, len(r.lines))
	failures := make([]error, len(r.lines))

	// Lines are isolated: one failing line never cancels the others.
	var g errgroup.Group
	g.SetLimit(len(r.lines))
	for i, line := range r.lines {
		g.Go(func() error {
			res, err := p.matchLine(ctx, r, i+1, line.Text, topK)
			switch {
			case err != nil:
				failures[i] = err
			case len(res.Matches) == 0:
				failures[i] = errors.New("no catalog entry matched")
			default:
				results[i] = res
			}
			return nil
		})
	}
	_ = g.Wait()

	var details []string
	for i, err := range failures {
		if err != nil {
			details = append(details, fmt.Sprintf("line %d (%q): %s", i+1, r.lines[i].Text, err.Error()))
		}
	}
	if len(details) > 0 {
		return fail(entities.ErrorKindMatchingFailed,
			fmt.Sprintf("%d of %d requirement lines failed to match", len(details), len(r.lines)),
			details...)
	}
	r.matches = results
	return nil
}

// matchLine retries transient failures (embedding outage or timeout) with
// exponential backoff. Any other failure is final for the line.
func (p *PipelineUseCase) matchLine(ctx context.Context, r *jobRun, lineNo int, query string, topK int) (entities.MatchResult, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (entities.MatchResult, error) {
		attempt++
		res, err := callWithTimeout(ctx, p.callTimeout, func(c context.Context) (entities.MatchResult, error) {
			return p.matcher.Match(c, query, topK)
		})
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrEmbeddingUnavailable) || errors.Is(err, ErrCallTimeout) {
			return entities.MatchResult{}, err
		}
		return entities.MatchResult{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(p.retry.newBackOff()),
		backoff.WithMaxTries(uint(p.retry.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.log.Warn("matching line failed, retrying", "line", lineNo, "attempt", attempt, "next_in", next, "error", err)
		}),
	)
}

func (p *PipelineUseCase) runPricing(ctx context.Context, r *jobRun) error {
	quantity := decimal.NewFromFloat(p.defaults.DefaultQuantity)
	if q := r.job.Options.Overrides.DefaultQuantity; q != nil {
		quantity = decimal.NewFromFloat(*q)
	}

	items := make([]entities.LineItem, 0, len(r.matches))
	for i, m := range r.matches {
		best, ok := m.Best()
		if !ok {
			return fail(entities.ErrorKindPricingFailed, fmt.Sprintf("requirement line %d has no match", i+1))
		}
		qty := quantity
		if q := r.lines[i].Quantity; q != nil {
			qty = decimal.NewFromFloat(*q)
		}
		desc := best.Entry.Name
		if desc == "" {
			desc = best.Entry.Recommendation()
		}
		items = append(items, entities.LineItem{
			ItemNo:      i + 1,
			Description: desc,
			Quantity:    qty,
			SKU:         best.Entry.ID,
			Specs:       best.Entry.Specs.Clone(),
		})
	}

	tests := r.job.Options.Overrides.TestNames
	if len(tests) == 0 {
		tests = r.rfp.Tests
	}
	if len(tests) == 0 {
		tests = p.defaults.TestNames
	}

	rfpID := r.rfp.ID
	if strings.TrimSpace(rfpID) == "" {
		rfpID = r.rfp.Title
	}
	breakdown, err := callWithTimeout(ctx, p.callTimeout, func(c context.Context) (entities.PriceBreakdown, error) {
		return p.pricing.Price(c, rfpID, items, tests)
	})
	if err != nil {
		return fail(entities.ErrorKindPricingFailed, "pricing failed", err.Error())
	}
	r.pricing = breakdown
	r.warnings = append(r.warnings, breakdown.Warnings...)
	return nil
}

// runDrafting never fails the job: any problem is downgraded to a warning.
func (p *PipelineUseCase) runDrafting(ctx context.Context, r *jobRun) error {
	if p.drafter == nil {
		r.warnings = append(r.warnings, entities.Warning{
			Kind:    entities.WarningDraftingDegraded,
			Message: "no response drafter configured",
		})
		return nil
	}

	facts := entities.DraftFacts{Rfp: r.rfp, Matches: r.matches, Pricing: r.pricing}
	text, err := callWithTimeout(ctx, p.callTimeout, func(c context.Context) (string, error) {
		return p.drafter.Draft(c, facts)
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("drafter returned empty text")
	}
	if err != nil {
		r.log.Warn("drafting degraded", "error", err)
		r.warnings = append(r.warnings, entities.Warning{
			Kind:    entities.WarningDraftingDegraded,
			Message: "draft response unavailable: " + err.Error(),
		})
		return nil
	}
	text = strings.TrimSpace(text)
	r.draft = &text
	return nil
}

func (p *PipelineUseCase) assemble(r *jobRun) entities.JobResult {
	warnings := make([]entities.Warning, len(r.warnings))
	copy(warnings, r.warnings)
	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.Message)
	}

	res := entities.JobResult{
		RfpDetails:    r.rfp.Details(),
		SpecMatches:   r.matches,
		Pricing:       r.pricing,
		DraftResponse: r.draft,
		Warnings:      warnings,
	}
	res.ProcessingSummary = entities.ProcessingSummary{
		TotalRfpsScraped:    r.rfp.TotalScraped,
		CandidatesFound:     r.rfp.CandidatesFound,
		RequirementsMatched: len(r.matches),
		ProductsMatched:     res.MatchedProductCount(),
		Warnings:            messages,
		GeneratedAt:         p.now(),
	}
	return res
}
