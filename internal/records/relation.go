package records

import (
	"fmt"

	"github.com/google/uuid"
)

// RelationType is the closed vocabulary of relationship edges. Edges are
// directional by convention: "parent" on (A, B) reads "A is parent of B".
type RelationType string

const (
	RelationParent  RelationType = "parent"
	RelationChild   RelationType = "child"
	RelationSpouse  RelationType = "spouse"
	RelationSibling RelationType = "sibling"
	RelationPartner RelationType = "partner"
	RelationUnknown RelationType = "unknown"
)

// ParseRelationType validates a relation type string against the closed
// vocabulary.
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(s) {
	case RelationParent, RelationChild, RelationSpouse,
		RelationSibling, RelationPartner, RelationUnknown:
		return RelationType(s), nil
	}
	return "", fmt.Errorf("%w: relation_type %q is not one of parent, child, spouse, sibling, partner, unknown", ErrInvalidArgument, s)
}

// Relationship is a typed, directed edge between two persons with a
// confidence score. No inverse edge is ever created automatically: an agent
// wanting both directions inserts both explicitly.
type Relationship struct {
	ID              string       `json:"relationship_id"`
	PersonIDA       string       `json:"person_id_a"`
	PersonIDB       string       `json:"person_id_b"`
	RelationType    RelationType `json:"relation_type"`
	ConfidenceScore float64      `json:"confidence_score"`
	Notes           *string      `json:"notes,omitempty"`
	CreatedAt       string       `json:"created_at"`
}

// PersonRelationship annotates an edge with the side the queried person
// occupies ("a" or "b").
type PersonRelationship struct {
	Relationship
	Side string `json:"side"`
}

// AddRelationshipParams holds the input for creating a relationship edge.
type AddRelationshipParams struct {
	PersonIDA       string  `json:"person_id_a"`
	PersonIDB       string  `json:"person_id_b"`
	RelationType    string  `json:"relation_type"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// AddRelationship creates one directed edge. Self-edges and types outside
// the vocabulary are rejected before any write; both endpoints must exist.
func (s *Store) AddRelationship(p AddRelationshipParams) (*Relationship, error) {
	if p.PersonIDA == p.PersonIDB {
		return nil, fmt.Errorf("%w: a relationship needs two distinct persons", ErrInvalidArgument)
	}
	relType, err := ParseRelationType(p.RelationType)
	if err != nil {
		return nil, err
	}
	if err := s.requirePerson(p.PersonIDA); err != nil {
		return nil, err
	}
	if err := s.requirePerson(p.PersonIDB); err != nil {
		return nil, err
	}

	confidence := p.ConfidenceScore
	if confidence == 0 {
		confidence = 1.0
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO relationships (
			relationship_id, person_id_a, person_id_b,
			relation_type, confidence_score, notes
		) VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.PersonIDA, p.PersonIDB, string(relType), confidence, nullableString(p.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("add relationship: %w", translateConstraint(err))
	}

	row := s.db.QueryRow(
		`SELECT relationship_id, person_id_a, person_id_b, relation_type,
		        confidence_score, notes, created_at
		 FROM relationships WHERE relationship_id = ?`, id,
	)
	return scanRelationship(row)
}

// ListPersonRelationships returns all edges where the person appears as
// either endpoint, each annotated with the side occupied.
func (s *Store) ListPersonRelationships(personID string) ([]PersonRelationship, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT relationship_id, person_id_a, person_id_b, relation_type,
		        confidence_score, notes, created_at
		 FROM relationships
		 WHERE person_id_a = ? OR person_id_b = ?
		 ORDER BY created_at ASC, relationship_id ASC`,
		personID, personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var results []PersonRelationship
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		side := "a"
		if r.PersonIDB == personID {
			side = "b"
		}
		results = append(results, PersonRelationship{Relationship: *r, Side: side})
	}
	return results, rows.Err()
}

func scanRelationship(row rowLike) (*Relationship, error) {
	var r Relationship
	var relType string
	if err := row.Scan(
		&r.ID, &r.PersonIDA, &r.PersonIDB, &relType,
		&r.ConfidenceScore, &r.Notes, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.RelationType = RelationType(relType)
	return &r, nil
}
