package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rfp_automation/internal/domain/entities"
)

func TestJobMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewJobMemoryRepository()

	job, err := repo.Create(ctx, entities.NewJob("job-1", entities.JobOptions{SourceHints: []string{"https://a"}}, time.Now().UTC()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, job); !errors.Is(err, entities.ErrJobExists) {
		t.Fatalf("expected ErrJobExists, got %v", err)
	}

	missing, err := repo.Get(ctx, "nope")
	if err != nil || missing.ID != "" {
		t.Fatalf("expected zero job for unknown id, got %+v, %v", missing, err)
	}
	if upd, err := repo.Start(ctx, "nope"); err != nil || upd.ID != "" {
		t.Fatalf("expected zero job for unknown id on update, got %+v, %v", upd, err)
	}

	if _, err := repo.Start(ctx, "job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := repo.UpdateStage(ctx, "job-1", entities.JobStagePricing); err != nil {
		t.Fatalf("update stage: %v", err)
	}
	if _, err := repo.UpdateStage(ctx, "job-1", entities.JobStageMatching); !errors.Is(err, entities.ErrStageRegression) {
		t.Fatalf("expected ErrStageRegression, got %v", err)
	}

	got, _ := repo.Get(ctx, "job-1")
	if got.Stage != entities.JobStagePricing {
		t.Fatalf("rejected update must not change the stored job, got %s", got.Stage)
	}

	if _, err := repo.SetResult(ctx, "job-1", entities.JobResult{}); err != nil {
		t.Fatalf("set result: %v", err)
	}
	if _, err := repo.SetApproval(ctx, "job-1", entities.Approval{Approved: true}); err != nil {
		t.Fatalf("set approval: %v", err)
	}
	if _, err := repo.SetApproval(ctx, "job-1", entities.Approval{Approved: false}); !errors.Is(err, entities.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
}

func TestJobMemoryRepository_ReturnsDetachedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewJobMemoryRepository()
	_, _ = repo.Create(ctx, entities.NewJob("job-1", entities.JobOptions{SourceHints: []string{"https://a"}}, time.Now().UTC()))

	got, _ := repo.Get(ctx, "job-1")
	got.Options.SourceHints[0] = "mutated"
	got.Status = entities.JobStatusCompleted

	again, _ := repo.Get(ctx, "job-1")
	if again.Options.SourceHints[0] != "https://a" || again.Status != entities.JobStatusPending {
		t.Fatalf("stored job was mutated through a returned copy: %+v", again)
	}
}

func TestJobMemoryRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := NewJobMemoryRepository()
	_, _ = repo.Create(ctx, entities.NewJob("job-1", entities.JobOptions{}, time.Now().UTC()))
	_, _ = repo.Start(ctx, "job-1")
	_, _ = repo.SetResult(ctx, "job-1", entities.JobResult{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.SetApproval(ctx, "job-1", entities.Approval{Approved: true}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if success != 1 {
		t.Fatalf("expected exactly one approval to win, got %d", success)
	}
}
