package records

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Source describes the provenance of a fact: an archive record, an API
// response or a local document. Facts reference sources weakly — deleting a
// source nulls the reference and keeps the fact.
type Source struct {
	ID              string  `json:"source_id"`
	SourceType      *string `json:"source_type,omitempty"`
	ArchiveCode     *string `json:"archive_code,omitempty"`
	ArchiveName     *string `json:"archive_name,omitempty"`
	Identifier      *string `json:"identifier,omitempty"`
	URL             *string `json:"url,omitempty"`
	Collection      *string `json:"collection,omitempty"`
	DocumentNumber  *string `json:"document_number,omitempty"`
	RegistryNumber  *string `json:"registry_number,omitempty"`
	InstitutionName *string `json:"institution_name,omitempty"`
	RawJSON         *string `json:"raw_json,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	ImageURL        *string `json:"image_url,omitempty"`
	CrawlID         *int64  `json:"crawl_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// AddSourceParams holds the input for creating a source. CrawlURL, when set,
// links the source to the ledger entry that discovered it (silently skipped
// if the URL was never ledgered).
type AddSourceParams struct {
	SourceType      string `json:"source_type,omitempty"`
	ArchiveCode     string `json:"archive_code,omitempty"`
	ArchiveName     string `json:"archive_name,omitempty"`
	Identifier      string `json:"identifier,omitempty"`
	URL             string `json:"url,omitempty"`
	Collection      string `json:"collection,omitempty"`
	DocumentNumber  string `json:"document_number,omitempty"`
	RegistryNumber  string `json:"registry_number,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	RawJSON         string `json:"raw_json,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	CrawlURL        string `json:"crawl_url,omitempty"`
}

const sourceColumns = `source_id, source_type, archive_code, archive_name,
	identifier, url, collection, document_number, registry_number,
	institution_name, raw_json, notes, image_url, crawl_id, created_at`

// AddSource creates a source catalog entry.
func (s *Store) AddSource(p AddSourceParams) (*Source, error) {
	crawlID, err := s.crawlIDForURL(p.CrawlURL)
	if err != nil {
		return nil, fmt.Errorf("add source: resolve crawl url: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO sources (
			source_id, source_type, archive_code, archive_name, identifier,
			url, collection, document_number, registry_number,
			institution_name, raw_json, notes, image_url, crawl_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(p.SourceType), nullableString(p.ArchiveCode),
		nullableString(p.ArchiveName), nullableString(p.Identifier),
		nullableString(p.URL), nullableString(p.Collection),
		nullableString(p.DocumentNumber), nullableString(p.RegistryNumber),
		nullableString(p.InstitutionName), nullableString(p.RawJSON),
		nullableString(p.Notes), nullableString(p.ImageURL), crawlID,
	)
	if err != nil {
		return nil, fmt.Errorf("add source: %w", translateConstraint(err))
	}
	return s.GetSource(id)
}

// GetSource retrieves a source by ID.
func (s *Store) GetSource(id string) (*Source, error) {
	row := s.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE source_id = ?`, id)
	src, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get source %s: %w", id, err)
	}
	return src, nil
}

// FindSourcesByURL returns all sources recorded for a URL, newest first.
// Source URLs are not unique — only the crawl ledger enforces URL
// uniqueness — so dedup-before-insert callers check here first.
func (s *Store) FindSourcesByURL(url string) ([]Source, error) {
	rows, err := s.db.Query(
		`SELECT `+sourceColumns+` FROM sources WHERE url = ? ORDER BY created_at DESC, source_id`,
		url,
	)
	if err != nil {
		return nil, fmt.Errorf("find sources by url: %w", err)
	}
	defer rows.Close()

	var results []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *src)
	}
	return results, rows.Err()
}

// DeleteSource removes a source. Every fact citing it keeps existing with a
// nulled source reference.
func (s *Store) DeleteSource(id string) error {
	res, err := s.db.Exec(`DELETE FROM sources WHERE source_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	return nil
}

// requireSource fails with ErrNotFound unless the source exists.
// An empty id is accepted: source references are optional everywhere.
func (s *Store) requireSource(id string) error {
	if id == "" {
		return nil
	}
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM sources WHERE source_id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking source %s: %w", id, err)
	}
	return nil
}

func scanSource(row rowLike) (*Source, error) {
	var src Source
	if err := row.Scan(
		&src.ID, &src.SourceType, &src.ArchiveCode, &src.ArchiveName,
		&src.Identifier, &src.URL, &src.Collection, &src.DocumentNumber,
		&src.RegistryNumber, &src.InstitutionName, &src.RawJSON,
		&src.Notes, &src.ImageURL, &src.CrawlID, &src.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &src, nil
}
