package records

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Person is a provisional record of one real individual. The same physical
// person may exist as several records until the agent resolves duplicates.
type Person struct {
	ID                  string   `json:"person_id"`
	GivenName           *string  `json:"given_name,omitempty"`
	Prefix              *string  `json:"prefix,omitempty"`
	Surname             *string  `json:"surname,omitempty"`
	Gender              *string  `json:"gender,omitempty"`
	BirthYearEstimate   *int64   `json:"birth_year_estimate,omitempty"`
	DeathYearEstimate   *int64   `json:"death_year_estimate,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	FullNameNormalized  *string  `json:"full_name_normalized,omitempty"`
	ConfidenceScore     float64  `json:"confidence_score"`
	Verified            bool     `json:"verified"`
	ResearchStatus      string   `json:"research_status"`
	ResearchNotes       *string  `json:"research_notes,omitempty"`
	PossibleDuplicateOf *string  `json:"possible_duplicate_of,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// AddPersonParams holds the input for creating a new person.
type AddPersonParams struct {
	GivenName          string  `json:"given_name,omitempty"`
	Prefix             string  `json:"prefix,omitempty"`
	Surname            string  `json:"surname,omitempty"`
	Gender             string  `json:"gender,omitempty"`
	BirthYearEstimate  int64   `json:"birth_year_estimate,omitempty"`
	DeathYearEstimate  int64   `json:"death_year_estimate,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	FullNameNormalized string  `json:"full_name_normalized,omitempty"`
	ConfidenceScore    float64 `json:"confidence_score,omitempty"`
}

// Research workflow states. The status column stays a plain string for
// storage compatibility, but mutations only accept this set.
const (
	StatusUnreviewed = "unreviewed"
	StatusInProgress = "in-progress"
	StatusVerified   = "verified"
	StatusRejected   = "rejected"
)

var researchStatuses = map[string]bool{
	StatusUnreviewed: true,
	StatusInProgress: true,
	StatusVerified:   true,
	StatusRejected:   true,
}

const personColumns = `person_id, given_name, prefix, surname, gender,
	birth_year_estimate, death_year_estimate, notes, full_name_normalized,
	confidence_score, verified, research_status, research_notes,
	possible_duplicate_of, created_at, updated_at`

// AddPerson creates a person record. At least one of given name or surname
// is required. The normalized full name is derived from the name fields when
// the caller does not supply one.
func (s *Store) AddPerson(p AddPersonParams) (*Person, error) {
	if strings.TrimSpace(p.GivenName) == "" && strings.TrimSpace(p.Surname) == "" {
		return nil, fmt.Errorf("%w: at least given_name or surname is required", ErrInvalidArgument)
	}

	normalized := p.FullNameNormalized
	if normalized == "" {
		normalized = NormalizeName(p.GivenName, p.Prefix, p.Surname)
	}
	confidence := p.ConfidenceScore
	if confidence == 0 {
		confidence = 1.0
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO persons (
			person_id, given_name, prefix, surname, gender,
			birth_year_estimate, death_year_estimate, notes,
			full_name_normalized, confidence_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(p.GivenName), nullableString(p.Prefix),
		nullableString(p.Surname), nullableString(p.Gender),
		nullableInt(p.BirthYearEstimate), nullableInt(p.DeathYearEstimate),
		nullableString(p.Notes), nullableString(normalized), confidence,
	)
	if err != nil {
		return nil, fmt.Errorf("add person: %w", translateConstraint(err))
	}
	return s.GetPerson(id)
}

// GetPerson retrieves a person by ID.
func (s *Store) GetPerson(id string) (*Person, error) {
	row := s.db.QueryRow(
		`SELECT `+personColumns+` FROM persons WHERE person_id = ?`, id,
	)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	return p, nil
}

// FindPersons searches persons by a case-insensitive partial match on
// surname, given name or the normalized full name. Results are ordered by
// surname then given name, unknown names last. The limit is clamped to
// [1, MaxSearchResults].
func (s *Store) FindPersons(nameQuery string, limit int) ([]Person, error) {
	if strings.TrimSpace(nameQuery) == "" {
		return nil, fmt.Errorf("%w: name_query is required", ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	like := "%" + strings.ToLower(nameQuery) + "%"
	rows, err := s.db.Query(
		`SELECT `+personColumns+`
		 FROM persons
		 WHERE lower(ifnull(surname, '')) LIKE ?
		    OR lower(ifnull(given_name, '')) LIKE ?
		    OR lower(ifnull(full_name_normalized, '')) LIKE ?
		 ORDER BY surname IS NULL, surname, given_name IS NULL, given_name
		 LIMIT ?`,
		like, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find persons: %w", err)
	}
	defer rows.Close()

	var results []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

// SetVerified sets the verified flag on a person.
func (s *Store) SetVerified(id string, verified bool) error {
	res, err := s.db.Exec(
		`UPDATE persons SET verified = ?, updated_at = datetime('now') WHERE person_id = ?`,
		boolToInt(verified), id,
	)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	return requireRow(res, id)
}

// SetResearchStatus updates the research workflow status and optional notes.
// The status must be one of the recognized workflow states.
func (s *Store) SetResearchStatus(id, status, notes string) error {
	if !researchStatuses[status] {
		return fmt.Errorf("%w: unknown research_status %q", ErrInvalidArgument, status)
	}
	res, err := s.db.Exec(
		`UPDATE persons
		 SET research_status = ?, research_notes = ?, updated_at = datetime('now')
		 WHERE person_id = ?`,
		status, nullableString(notes), id,
	)
	if err != nil {
		return fmt.Errorf("set research status: %w", err)
	}
	return requireRow(res, id)
}

// SetPossibleDuplicate marks a person as a likely duplicate of another.
// This links the records without merging any data; chains and mutual pairs
// are permitted. An optional note is appended to the research notes.
func (s *Store) SetPossibleDuplicate(id, duplicateOf, note string) error {
	if id == duplicateOf {
		return fmt.Errorf("%w: a person cannot be its own duplicate", ErrInvalidArgument)
	}
	if err := s.requirePerson(id); err != nil {
		return err
	}
	if err := s.requirePerson(duplicateOf); err != nil {
		return err
	}

	extra := ""
	if note != "" {
		extra = "\n[Possible duplicate noted] " + note
	}
	_, err := s.db.Exec(
		`UPDATE persons
		 SET possible_duplicate_of = ?,
		     research_notes = ifnull(research_notes, '') || ?,
		     updated_at = datetime('now')
		 WHERE person_id = ?`,
		duplicateOf, extra, id,
	)
	if err != nil {
		return fmt.Errorf("set possible duplicate: %w", translateConstraint(err))
	}
	return nil
}

// DeletePerson removes a person. Events, professions, addresses and
// relationship edges cascade away; comments and attachments keep living with
// their person link nulled.
func (s *Store) DeletePerson(id string) error {
	res, err := s.db.Exec(`DELETE FROM persons WHERE person_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return requireRow(res, id)
}

// NormalizeName builds the searchable lowercase form of a person's name.
func NormalizeName(given, prefix, surname string) string {
	joined := strings.Join(strings.Fields(given+" "+prefix+" "+surname), " ")
	return strings.ToLower(joined)
}

// requirePerson fails with ErrNotFound unless the person exists.
func (s *Store) requirePerson(id string) error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM persons WHERE person_id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking person %s: %w", id, err)
	}
	return nil
}

type rowLike interface {
	Scan(dest ...any) error
}

func scanPerson(row rowLike) (*Person, error) {
	var p Person
	var verified int
	if err := row.Scan(
		&p.ID, &p.GivenName, &p.Prefix, &p.Surname, &p.Gender,
		&p.BirthYearEstimate, &p.DeathYearEstimate, &p.Notes,
		&p.FullNameNormalized, &p.ConfidenceScore, &verified,
		&p.ResearchStatus, &p.ResearchNotes, &p.PossibleDuplicateOf,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Verified = verified != 0
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	return nil
}
