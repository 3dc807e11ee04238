package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

const DefaultDueWithinDays = 90

type feedRecord struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	DueDate      string                     `json:"due_date"`
	Link         string                     `json:"link"`
	URL          string                     `json:"url"`
	Summary      string                     `json:"summary"`
	Description  string                     `json:"description"`
	Requirements []entities.RequirementLine `json:"requirements"`
	Tests        []string                   `json:"tests"`
}

// FeedSource selects RFPs from a JSON feed file: an array of records, or
// {"rfps": [...]}. The file is read on every call so the feed can be
// refreshed without a restart.
type FeedSource struct {
	path      string
	dueWithin time.Duration
	now       func() time.Time
}

var _ interfaces.IRfpSourceProvider = (*FeedSource)(nil)

type FeedOption func(*FeedSource)

func WithClock(now func() time.Time) FeedOption {
	return func(s *FeedSource) {
		if now != nil {
			s.now = now
		}
	}
}

func NewFeedSource(path string, dueWithinDays int, opts ...FeedOption) *FeedSource {
	if dueWithinDays <= 0 {
		dueWithinDays = DefaultDueWithinDays
	}
	s := &FeedSource{
		path:      path,
		dueWithin: time.Duration(dueWithinDays) * 24 * time.Hour,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectBest returns the candidate due soonest, ties by id. Only records
// whose link starts with one of hints are considered when hints are given.
func (s *FeedSource) SelectBest(ctx context.Context, hints []string) (entities.RfpDocument, bool, error) {
	if err := ctx.Err(); err != nil {
		return entities.RfpDocument{}, false, err
	}
	docs, err := s.load()
	if err != nil {
		return entities.RfpDocument{}, false, err
	}

	scraped := make([]entities.RfpDocument, 0, len(docs))
	for _, d := range docs {
		if matchesHint(d.Link, hints) {
			scraped = append(scraped, d)
		}
	}

	now := s.now().UTC()
	deadline := now.Add(s.dueWithin)
	candidates := make([]entities.RfpDocument, 0, len(scraped))
	for _, d := range scraped {
		if d.DueDate == nil || d.DueDate.Before(startOfDay(now)) || d.DueDate.After(deadline) {
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		return entities.RfpDocument{}, false, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.ID < b.ID
	})
	best := candidates[0]
	best.TotalScraped = len(scraped)
	best.CandidatesFound = len(candidates)
	return best, true, nil
}

func (s *FeedSource) load() ([]entities.RfpDocument, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read rfp feed: %w", err)
	}
	var records []feedRecord
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(raw, &records)
	} else {
		var wrapped struct {
			Rfps []feedRecord `json:"rfps"`
		}
		err = json.Unmarshal(raw, &wrapped)
		records = wrapped.Rfps
	}
	if err != nil {
		return nil, fmt.Errorf("parse rfp feed: %w", err)
	}

	docs := make([]entities.RfpDocument, 0, len(records))
	for i, r := range records {
		d := entities.RfpDocument{
			ID:           strings.TrimSpace(r.ID),
			Title:        strings.TrimSpace(r.Title),
			Link:         strings.TrimSpace(r.Link),
			Summary:      r.Summary,
			Description:  r.Description,
			Requirements: r.Requirements,
			Tests:        r.Tests,
		}
		if d.Link == "" {
			d.Link = strings.TrimSpace(r.URL)
		}
		if d.ID == "" {
			d.ID = fmt.Sprintf("rfp-%d", i+1)
		}
		if due, ok := parseDate(r.DueDate); ok {
			d.DueDate = &due
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func matchesHint(link string, hints []string) bool {
	if len(hints) == 0 {
		return true
	}
	for _, h := range hints {
		if h = strings.TrimSpace(h); h != "" && strings.HasPrefix(link, h) {
			return true
		}
	}
	return false
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "02-01-2006", "02/01/2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
