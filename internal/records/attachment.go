package records

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// FetchState is the attachment retrieval lifecycle, derived from the
// (should_fetch, fetched) pair persisted as two boolean columns.
type FetchState string

const (
	// StateRegistered: metadata known, no fetch intent.
	StateRegistered FetchState = "registered"
	// StateQueued: the agent requested deferred retrieval.
	StateQueued FetchState = "queued"
	// StateFetched: retrieval completed. Terminal — never reset.
	StateFetched FetchState = "fetched"
)

// Attachment is file metadata with a two-phase fetch lifecycle. Relationship
// to a person and/or source is weak and nulled when they are deleted.
type Attachment struct {
	ID          string  `json:"attachment_id"`
	PersonID    *string `json:"person_id,omitempty"`
	SourceID    *string `json:"source_id,omitempty"`
	FileName    *string `json:"file_name,omitempty"`
	FileType    *string `json:"file_type,omitempty"`
	FilePath    *string `json:"file_path,omitempty"`
	Description *string `json:"description,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
	ShouldFetch bool    `json:"should_fetch"`
	Fetched     bool    `json:"fetched"`
	ClaimedAt   *string `json:"claimed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// FetchState derives the lifecycle state from the persisted flags.
func (a *Attachment) FetchState() FetchState {
	switch {
	case a.Fetched:
		return StateFetched
	case a.ShouldFetch:
		return StateQueued
	default:
		return StateRegistered
	}
}

// AddAttachmentParams holds the input for registering an attachment that
// already exists on disk (managed externally; the record is metadata only).
type AddAttachmentParams struct {
	PersonID    string `json:"person_id,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddAttachmentMetadataParams holds the input for registering an attachment
// by URL, to be downloaded later when ShouldFetch is set.
type AddAttachmentMetadataParams struct {
	PersonID    string `json:"person_id,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Description string `json:"description,omitempty"`
	ShouldFetch bool   `json:"should_fetch,omitempty"`
}

const attachmentColumns = `attachment_id, person_id, source_id, file_name, file_type,
	file_path, description, download_url, should_fetch, fetched, claimed_at, created_at`

// AddAttachment registers an attachment by path.
func (s *Store) AddAttachment(p AddAttachmentParams) (*Attachment, error) {
	if p.FileName == "" && p.FilePath == "" {
		return nil, fmt.Errorf("%w: file_name or file_path is required", ErrInvalidArgument)
	}
	if err := s.requireAttachmentRefs(p.PersonID, p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO attachments (
			attachment_id, person_id, source_id, file_name, file_type,
			file_path, description
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.PersonID), nullableString(p.SourceID),
		nullableString(p.FileName), nullableString(p.FileType),
		nullableString(p.FilePath), nullableString(p.Description),
	)
	if err != nil {
		return nil, fmt.Errorf("add attachment: %w", translateConstraint(err))
	}
	return s.GetAttachment(id)
}

// AddAttachmentMetadata registers an attachment by URL only. Queueing it for
// retrieval (should_fetch) requires a download URL; registering metadata
// without fetch intent does not.
func (s *Store) AddAttachmentMetadata(p AddAttachmentMetadataParams) (*Attachment, error) {
	if p.ShouldFetch && p.DownloadURL == "" {
		return nil, fmt.Errorf("%w: should_fetch requires a download_url", ErrInvalidArgument)
	}
	if err := s.requireAttachmentRefs(p.PersonID, p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO attachments (
			attachment_id, person_id, source_id, download_url,
			description, should_fetch
		) VALUES (?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.PersonID), nullableString(p.SourceID),
		nullableString(p.DownloadURL), nullableString(p.Description),
		boolToInt(p.ShouldFetch),
	)
	if err != nil {
		return nil, fmt.Errorf("add attachment metadata: %w", translateConstraint(err))
	}
	return s.GetAttachment(id)
}

// GetAttachment retrieves an attachment by ID.
func (s *Store) GetAttachment(id string) (*Attachment, error) {
	row := s.db.QueryRow(`SELECT `+attachmentColumns+` FROM attachments WHERE attachment_id = ?`, id)
	a, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: attachment %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment %s: %w", id, err)
	}
	return a, nil
}

// ListFetchQueue returns a person's attachments that are queued for
// retrieval and not claimed by another in-flight fetch.
func (s *Store) ListFetchQueue(personID string) ([]Attachment, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT `+attachmentColumns+`
		 FROM attachments
		 WHERE person_id = ?
		   AND should_fetch = 1
		   AND fetched = 0
		   AND download_url IS NOT NULL
		   AND claimed_at IS NULL
		 ORDER BY created_at ASC, attachment_id ASC`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fetch queue: %w", err)
	}
	defer rows.Close()

	var results []Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}
	return results, rows.Err()
}

// ClaimAttachment transitions an attachment out of the eligible set before
// retrieval starts. The conditional update succeeds for exactly one of any
// number of concurrent callers; the rest observe false and skip the
// download. Claims are held only for the duration of one fetch request —
// MarkAttachmentFetched or ReleaseAttachmentClaim clears them.
func (s *Store) ClaimAttachment(id string) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE attachments
		 SET claimed_at = datetime('now')
		 WHERE attachment_id = ?
		   AND should_fetch = 1
		   AND fetched = 0
		   AND claimed_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("claim attachment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseAttachmentClaim reverts a claim after a failed retrieval so a later
// retry can pick the attachment up again. should_fetch and fetched are left
// untouched: the row stays queued.
func (s *Store) ReleaseAttachmentClaim(id string) error {
	_, err := s.db.Exec(
		`UPDATE attachments SET claimed_at = NULL WHERE attachment_id = ? AND fetched = 0`,
		id,
	)
	if err != nil {
		return fmt.Errorf("release attachment claim: %w", err)
	}
	return nil
}

// MarkAttachmentFetched records a completed retrieval: the saved path and
// detected file type are stored, fetched becomes true and the claim is
// cleared. The fetched flag is monotonic — nothing ever resets it.
func (s *Store) MarkAttachmentFetched(id, filePath, fileType string) error {
	if fileType == "" {
		fileType = "binary"
	}
	res, err := s.db.Exec(
		`UPDATE attachments
		 SET file_path = ?, file_type = ?, fetched = 1, claimed_at = NULL
		 WHERE attachment_id = ?`,
		filePath, fileType, id,
	)
	if err != nil {
		return fmt.Errorf("mark attachment fetched: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: attachment %s", ErrNotFound, id)
	}
	return nil
}

// requireAttachmentRefs validates the optional person/source links.
func (s *Store) requireAttachmentRefs(personID, sourceID string) error {
	if personID != "" {
		if err := s.requirePerson(personID); err != nil {
			return err
		}
	}
	return s.requireSource(sourceID)
}

func scanAttachment(row rowLike) (*Attachment, error) {
	var a Attachment
	var shouldFetch, fetched int
	if err := row.Scan(
		&a.ID, &a.PersonID, &a.SourceID, &a.FileName, &a.FileType,
		&a.FilePath, &a.Description, &a.DownloadURL,
		&shouldFetch, &fetched, &a.ClaimedAt, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.ShouldFetch = shouldFetch != 0
	a.Fetched = fetched != 0
	return &a, nil
}
