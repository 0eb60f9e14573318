package records

import (
	"errors"
	"testing"
)

func TestRecordCrawl_InsertThenUpsert(t *testing.T) {
	store := newTestStore(t)
	url := "https://www.openarch.nl/search?name=jansen"

	first, err := store.RecordCrawl(url, 200, "hash-1", "initial crawl")
	if err != nil {
		t.Fatalf("RecordCrawl: %v", err)
	}
	if first.Processed {
		t.Error("new entry should start unprocessed")
	}
	if first.HTTPStatus == nil || *first.HTTPStatus != 200 {
		t.Errorf("http_status = %v, want 200", first.HTTPStatus)
	}

	if err := store.MarkCrawlProcessed(first.ID); err != nil {
		t.Fatalf("MarkCrawlProcessed: %v", err)
	}

	// Re-recording refreshes status/hash/notes but keeps identity,
	// first_seen and the processed flag.
	second, err := store.RecordCrawl(url, 304, "hash-2", "revisit")
	if err != nil {
		t.Fatalf("RecordCrawl upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: id %d -> %d", first.ID, second.ID)
	}
	if second.FirstSeen != first.FirstSeen {
		t.Errorf("first_seen changed on upsert: %q -> %q", first.FirstSeen, second.FirstSeen)
	}
	if !second.Processed {
		t.Error("processed flag reset by upsert")
	}
	if second.HTTPStatus == nil || *second.HTTPStatus != 304 {
		t.Errorf("http_status = %v, want refreshed 304", second.HTTPStatus)
	}
	if second.ContentHash == nil || *second.ContentHash != "hash-2" {
		t.Errorf("content_hash = %v, want refreshed hash-2", second.ContentHash)
	}
}

func TestRecordCrawl_RequiresURL(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.RecordCrawl("  ", 200, "", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUnprocessedCrawls_OrderAndFilter(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.RecordCrawl("https://a.example/1", 200, "", "")
	b, _ := store.RecordCrawl("https://b.example/2", 200, "", "")
	c, _ := store.RecordCrawl("https://c.example/3", 200, "", "")

	if err := store.MarkCrawlProcessed(b.ID); err != nil {
		t.Fatalf("MarkCrawlProcessed: %v", err)
	}

	crawls, err := store.UnprocessedCrawls(20)
	if err != nil {
		t.Fatalf("UnprocessedCrawls: %v", err)
	}
	if len(crawls) != 2 {
		t.Fatalf("got %d unprocessed, want 2", len(crawls))
	}
	// Oldest first; entries created in the same second fall back to id order.
	if crawls[0].ID != a.ID || crawls[1].ID != c.ID {
		t.Errorf("order = [%d %d], want [%d %d]", crawls[0].ID, crawls[1].ID, a.ID, c.ID)
	}
}

func TestUnprocessedCrawls_LimitClamped(t *testing.T) {
	store := newTestStore(t)

	store.cfg.MaxUnprocessedCrawls = 2
	for _, url := range []string{"https://x.example/1", "https://x.example/2", "https://x.example/3"} {
		if _, err := store.RecordCrawl(url, 200, "", ""); err != nil {
			t.Fatalf("RecordCrawl: %v", err)
		}
	}

	crawls, err := store.UnprocessedCrawls(50)
	if err != nil {
		t.Fatalf("UnprocessedCrawls: %v", err)
	}
	if len(crawls) != 2 {
		t.Errorf("got %d, want clamped to 2", len(crawls))
	}

	// Zero/negative falls back to the default of 20.
	crawls, err = store.UnprocessedCrawls(0)
	if err != nil {
		t.Fatalf("UnprocessedCrawls(0): %v", err)
	}
	if len(crawls) != 2 {
		t.Errorf("got %d with limit 0, want 2 available", len(crawls))
	}
}

func TestMarkCrawlProcessed_Idempotent(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.RecordCrawl("https://idem.example/p", 200, "", "")
	if err != nil {
		t.Fatalf("RecordCrawl: %v", err)
	}

	if err := store.MarkCrawlProcessed(entry.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := store.MarkCrawlProcessed(entry.ID); err != nil {
		t.Fatalf("second mark should be a no-op, got %v", err)
	}

	got, err := store.GetCrawlByURL(entry.URL)
	if err != nil {
		t.Fatalf("GetCrawlByURL: %v", err)
	}
	if !got.Processed {
		t.Error("entry not processed")
	}
}

func TestMarkCrawlProcessed_NotFound(t *testing.T) {
	store := newTestStore(t)

	if err := store.MarkCrawlProcessed(99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCrawlByURL_NotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetCrawlByURL("https://unseen.example"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
