package records

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Comment is free text attributed to an author, optionally about a person
// and/or a source. Both links are weak: a comment outlives the entities it
// was about.
type Comment struct {
	ID        string  `json:"comment_id"`
	PersonID  *string `json:"person_id,omitempty"`
	SourceID  *string `json:"source_id,omitempty"`
	Author    *string `json:"author,omitempty"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
}

// AddCommentParams holds the input for adding a comment.
type AddCommentParams struct {
	PersonID string `json:"person_id,omitempty"`
	SourceID string `json:"source_id,omitempty"`
	Author   string `json:"author,omitempty"`
	Text     string `json:"text"`
}

// AddComment records a free-text comment.
func (s *Store) AddComment(p AddCommentParams) (*Comment, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidArgument)
	}
	if p.PersonID != "" {
		if err := s.requirePerson(p.PersonID); err != nil {
			return nil, err
		}
	}
	if err := s.requireSource(p.SourceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO comments (comment_id, person_id, source_id, author, text)
		 VALUES (?, ?, ?, ?, ?)`,
		id, nullableString(p.PersonID), nullableString(p.SourceID),
		nullableString(p.Author), p.Text,
	)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", translateConstraint(err))
	}

	row := s.db.QueryRow(
		`SELECT comment_id, person_id, source_id, author, text, created_at
		 FROM comments WHERE comment_id = ?`, id,
	)
	return scanComment(row)
}

// ListPersonComments returns all comments about a person, oldest first.
func (s *Store) ListPersonComments(personID string) ([]Comment, error) {
	if err := s.requirePerson(personID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT comment_id, person_id, source_id, author, text, created_at
		 FROM comments
		 WHERE person_id = ?
		 ORDER BY created_at ASC, comment_id ASC`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var results []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, rows.Err()
}

func scanComment(row rowLike) (*Comment, error) {
	var c Comment
	if err := row.Scan(&c.ID, &c.PersonID, &c.SourceID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
