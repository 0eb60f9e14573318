package records

import (
	"database/sql"
	"fmt"
	"strings"
)

// CrawlEntry is one row of the crawl dedup ledger: one distinct URL with its
// last observed HTTP status and content hash. The URL is the dedup key.
type CrawlEntry struct {
	ID          int64   `json:"crawl_id"`
	URL         string  `json:"url"`
	HTTPStatus  *int64  `json:"http_status,omitempty"`
	ContentHash *string `json:"content_hash,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Processed   bool    `json:"processed"`
	FirstSeen   string  `json:"first_seen"`
	LastSeen    string  `json:"last_seen"`
}

const crawlColumns = `crawl_id, url, http_status, content_hash, notes, processed, first_seen, last_seen`

// RecordCrawl upserts a ledger entry keyed on URL. A new URL is inserted
// with first_seen = last_seen = now and processed = false; a known URL gets
// its http_status, content_hash, notes and last_seen refreshed while
// processed and first_seen stay untouched. The ON CONFLICT clause makes
// concurrent first-recordings resolve to one insert and subsequent updates.
func (s *Store) RecordCrawl(url string, httpStatus int64, contentHash, notes string) (*CrawlEntry, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidArgument)
	}

	_, err := s.db.Exec(
		`INSERT INTO crawl_log (url, http_status, content_hash, notes)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		     http_status  = excluded.http_status,
		     content_hash = excluded.content_hash,
		     notes        = excluded.notes,
		     last_seen    = datetime('now')`,
		url, nullableInt(httpStatus), nullableString(contentHash), nullableString(notes),
	)
	if err != nil {
		return nil, fmt.Errorf("record crawl: %w", translateConstraint(err))
	}
	return s.GetCrawlByURL(url)
}

// GetCrawlByURL retrieves a ledger entry by its URL.
func (s *Store) GetCrawlByURL(url string) (*CrawlEntry, error) {
	row := s.db.QueryRow(`SELECT `+crawlColumns+` FROM crawl_log WHERE url = ?`, url)
	e, err := scanCrawl(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: crawl entry for %s", ErrNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("get crawl by url: %w", err)
	}
	return e, nil
}

// UnprocessedCrawls returns ledger entries not yet processed, oldest first.
// The limit is clamped to [1, MaxUnprocessedCrawls].
func (s *Store) UnprocessedCrawls(limit int) ([]CrawlEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > s.cfg.MaxUnprocessedCrawls {
		limit = s.cfg.MaxUnprocessedCrawls
	}

	rows, err := s.db.Query(
		`SELECT `+crawlColumns+`
		 FROM crawl_log
		 WHERE processed = 0
		 ORDER BY first_seen ASC, crawl_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("unprocessed crawls: %w", err)
	}
	defer rows.Close()

	var results []CrawlEntry
	for rows.Next() {
		e, err := scanCrawl(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

// MarkCrawlProcessed flags a ledger entry as processed. Re-marking an
// already-processed entry is a no-op, not an error.
func (s *Store) MarkCrawlProcessed(id int64) error {
	res, err := s.db.Exec(`UPDATE crawl_log SET processed = 1 WHERE crawl_id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark crawl processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: crawl entry %d", ErrNotFound, id)
	}
	return nil
}

// crawlIDForURL resolves a ledger URL to its id, or nil when unseen.
func (s *Store) crawlIDForURL(url string) (*int64, error) {
	if url == "" {
		return nil, nil
	}
	var id int64
	err := s.db.QueryRow(`SELECT crawl_id FROM crawl_log WHERE url = ?`, url).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func scanCrawl(row rowLike) (*CrawlEntry, error) {
	var e CrawlEntry
	var processed int
	if err := row.Scan(
		&e.ID, &e.URL, &e.HTTPStatus, &e.ContentHash, &e.Notes,
		&processed, &e.FirstSeen, &e.LastSeen,
	); err != nil {
		return nil, err
	}
	e.Processed = processed != 0
	return &e, nil
}
