package records

import (
	"fmt"

	"github.com/google/uuid"
)

// Attribute journals: time and place scoped facts owned by exactly one
// person. They are append-only from the agent's perspective — entries die
// with their person, and a deleted source only nulls the citation.

// Event is a life event: birth, marriage, death, census, residence, etc.
type Event struct {
	ID          string  `json:"event_id"`
	PersonID    string  `json:"person_id"`
	EventType   string  `json:"event_type"`
	DateLiteral *string `json:"date_literal,omitempty"`
	Year        *int64  `json:"year,omitempty"`
	Month       *int64  `json:"month,omitempty"`
	Day         *int64  `json:"day,omitempty"`
	Place       *string `json:"place,omitempty"`
	Country     *string `json:"country,omitempty"`
	SourceID    *string `json:"source_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// AddEventParams holds the input for recording a life event.
type AddEventParams struct {
	PersonID    string `json:"person_id"`
	EventType   string `json:"event_type"`
	DateLiteral string `json:"date_literal,omitempty"`
	Year        int64  `json:"year,omitempty"`
	Month       int64  `json:"month,omitempty"`
	Day         int64  `json:"day,omitempty"`
	Place       string `json:"place,omitempty"`
	Country     string `json:"country,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AddEvent records a life event for a person.
func (s *Store) AddEvent(p AddEventParams) (*Event, error) {
	if p.EventType == "" {
		return nil, fmt.Errorf("%w: event_type is required", ErrInvalidArgument)
	}
	if err := s.requirePerson(p.PersonID); err != nil {
		return nil, err
	}
	if err := s.requireSource(p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO events (
			event_id, person_id, event_type, date_literal,
			year, month, day, place, country, source_id, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.PersonID, p.EventType, nullableString(p.DateLiteral),
		nullableInt(p.Year), nullableInt(p.Month), nullableInt(p.Day),
		nullableString(p.Place), nullableString(p.Country),
		nullableString(p.SourceID), nullableString(p.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("add event: %w", translateConstraint(err))
	}

	row := s.db.QueryRow(
		`SELECT event_id, person_id, event_type, date_literal, year, month, day,
		        place, country, source_id, notes, created_at
		 FROM events WHERE event_id = ?`, id,
	)
	return scanEvent(row)
}

// ListPersonEvents returns all events for a person, ordered by date with
// unknown years last.
func (s *Store) ListPersonEvents(personID string) ([]Event, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT event_id, person_id, event_type, date_literal, year, month, day,
		        place, country, source_id, notes, created_at
		 FROM events
		 WHERE person_id = ?
		 ORDER BY year IS NULL, year, month IS NULL, month, day IS NULL, day, created_at`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var results []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

func scanEvent(row rowLike) (*Event, error) {
	var e Event
	if err := row.Scan(
		&e.ID, &e.PersonID, &e.EventType, &e.DateLiteral,
		&e.Year, &e.Month, &e.Day, &e.Place, &e.Country,
		&e.SourceID, &e.Notes, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// ─── Professions ─────────────────────────────────────────────────────────────

// Profession is an occupation held by a person over an optional year range.
type Profession struct {
	ID        string  `json:"profession_id"`
	PersonID  string  `json:"person_id"`
	Title     string  `json:"title"`
	StartYear *int64  `json:"start_year,omitempty"`
	EndYear   *int64  `json:"end_year,omitempty"`
	Location  *string `json:"location,omitempty"`
	SourceID  *string `json:"source_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// AddProfessionParams holds the input for recording a profession.
type AddProfessionParams struct {
	PersonID  string `json:"person_id"`
	Title     string `json:"title"`
	StartYear int64  `json:"start_year,omitempty"`
	EndYear   int64  `json:"end_year,omitempty"`
	Location  string `json:"location,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AddProfession records a profession for a person.
func (s *Store) AddProfession(p AddProfessionParams) (*Profession, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if err := s.requirePerson(p.PersonID); err != nil {
		return nil, err
	}
	if err := s.requireSource(p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO professions (
			profession_id, person_id, title, start_year, end_year,
			location, source_id, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.PersonID, p.Title,
		nullableInt(p.StartYear), nullableInt(p.EndYear),
		nullableString(p.Location), nullableString(p.SourceID), nullableString(p.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("add profession: %w", translateConstraint(err))
	}

	row := s.db.QueryRow(
		`SELECT profession_id, person_id, title, start_year, end_year,
		        location, source_id, notes, created_at
		 FROM professions WHERE profession_id = ?`, id,
	)
	return scanProfession(row)
}

// ListPersonProfessions returns all professions for a person, ordered by
// start year with unknown years last.
func (s *Store) ListPersonProfessions(personID string) ([]Profession, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT profession_id, person_id, title, start_year, end_year,
		        location, source_id, notes, created_at
		 FROM professions
		 WHERE person_id = ?
		 ORDER BY start_year IS NULL, start_year, created_at`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list professions: %w", err)
	}
	defer rows.Close()

	var results []Profession
	for rows.Next() {
		p, err := scanProfession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

func scanProfession(row rowLike) (*Profession, error) {
	var p Profession
	if err := row.Scan(
		&p.ID, &p.PersonID, &p.Title, &p.StartYear, &p.EndYear,
		&p.Location, &p.SourceID, &p.Notes, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ─── Addresses ───────────────────────────────────────────────────────────────

// Address is a residence of a person over an optional year range.
type Address struct {
	ID          string  `json:"address_id"`
	PersonID    string  `json:"person_id"`
	Street      *string `json:"street,omitempty"`
	HouseNumber *string `json:"house_number,omitempty"`
	City        *string `json:"city,omitempty"`
	Province    *string `json:"province,omitempty"`
	Country     *string `json:"country,omitempty"`
	StartYear   *int64  `json:"start_year,omitempty"`
	EndYear     *int64  `json:"end_year,omitempty"`
	SourceID    *string `json:"source_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// AddAddressParams holds the input for recording a residence.
type AddAddressParams struct {
	PersonID    string `json:"person_id"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
	Country     string `json:"country,omitempty"`
	StartYear   int64  `json:"start_year,omitempty"`
	EndYear     int64  `json:"end_year,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AddAddress records a residential address for a person.
func (s *Store) AddAddress(p AddAddressParams) (*Address, error) {
	if err := s.requirePerson(p.PersonID); err != nil {
		return nil, err
	}
	if err := s.requireSource(p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO addresses (
			address_id, person_id, street, house_number, city, province,
			country, start_year, end_year, source_id, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.PersonID,
		nullableString(p.Street), nullableString(p.HouseNumber),
		nullableString(p.City), nullableString(p.Province), nullableString(p.Country),
		nullableInt(p.StartYear), nullableInt(p.EndYear),
		nullableString(p.SourceID), nullableString(p.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("add address: %w", translateConstraint(err))
	}

	row := s.db.QueryRow(
		`SELECT address_id, person_id, street, house_number, city, province,
		        country, start_year, end_year, source_id, notes, created_at
		 FROM addresses WHERE address_id = ?`, id,
	)
	return scanAddress(row)
}

// ListPersonAddresses returns all residences for a person, ordered by start
// year with unknown years last.
func (s *Store) ListPersonAddresses(personID string) ([]Address, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT address_id, person_id, street, house_number, city, province,
		        country, start_year, end_year, source_id, notes, created_at
		 FROM addresses
		 WHERE person_id = ?
		 ORDER BY start_year IS NULL, start_year, created_at`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var results []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}
	return results, rows.Err()
}

func scanAddress(row rowLike) (*Address, error) {
	var a Address
	if err := row.Scan(
		&a.ID, &a.PersonID, &a.Street, &a.HouseNumber, &a.City,
		&a.Province, &a.Country, &a.StartYear, &a.EndYear,
		&a.SourceID, &a.Notes, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
