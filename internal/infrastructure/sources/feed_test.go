package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const feed = `[
  {"id": "b", "title": "Cables B", "due_date": "2026-11-20", "link": "https://tenders.example/b"},
  {"id": "a", "title": "Cables A", "due_date": "2026-11-20", "link": "https://tenders.example/a"},
  {"id": "c", "title": "Later", "due_date": "2026-12-30", "link": "https://other.example/c"},
  {"id": "d", "title": "Too late", "due_date": "2027-06-01", "link": "https://tenders.example/d"},
  {"id": "e", "title": "Expired", "due_date": "2026-09-01", "link": "https://tenders.example/e"},
  {"id": "f", "title": "Undated", "link": "https://tenders.example/f",
   "requirements": [{"text": "1.5 sq mm cable", "quantity": 100}]}
]`

func writeFeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
}

func TestFeedSource_SelectBest(t *testing.T) {
	src := NewFeedSource(writeFeed(t, feed), 90, WithClock(fixedNow))

	t.Run("earliest due date wins, ties by id", func(t *testing.T) {
		doc, ok, err := src.SelectBest(context.Background(), nil)
		if err != nil || !ok {
			t.Fatalf("expected a candidate, got ok=%v err=%v", ok, err)
		}
		if doc.ID != "a" {
			t.Fatalf("expected a, got %s", doc.ID)
		}
		if doc.TotalScraped != 6 || doc.CandidatesFound != 3 {
			t.Fatalf("unexpected counters scraped=%d candidates=%d", doc.TotalScraped, doc.CandidatesFound)
		}
	})

	t.Run("hints restrict sources", func(t *testing.T) {
		doc, ok, err := src.SelectBest(context.Background(), []string{"https://other.example"})
		if err != nil || !ok {
			t.Fatalf("expected a candidate, got ok=%v err=%v", ok, err)
		}
		if doc.ID != "c" || doc.TotalScraped != 1 {
			t.Fatalf("unexpected doc %+v", doc)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		_, ok, err := src.SelectBest(context.Background(), []string{"https://nowhere.example"})
		if err != nil || ok {
			t.Fatalf("expected no candidate, got ok=%v err=%v", ok, err)
		}
	})
}

func TestFeedSource_WrappedAndErrors(t *testing.T) {
	wrapped := `{"rfps": [{"title": "Only", "due_date": "2026-10-30T00:00:00Z", "url": "https://x.example/1"}]}`
	doc, ok, err := NewFeedSource(writeFeed(t, wrapped), 0, WithClock(fixedNow)).SelectBest(context.Background(), nil)
	if err != nil || !ok {
		t.Fatalf("expected a candidate, got ok=%v err=%v", ok, err)
	}
	if doc.ID != "rfp-1" || doc.Link != "https://x.example/1" {
		t.Fatalf("unexpected defaults %+v", doc)
	}

	if _, _, err := NewFeedSource(filepath.Join(t.TempDir(), "missing.json"), 90).SelectBest(context.Background(), nil); err == nil {
		t.Fatalf("expected error for missing feed")
	}
	if _, _, err := NewFeedSource(writeFeed(t, "{not json"), 90).SelectBest(context.Background(), nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
