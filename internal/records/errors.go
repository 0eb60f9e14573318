package records

import (
	"errors"
	"fmt"
	"strings"
)

// The error taxonomy the tool layer reports to the agent. Store operations
// wrap one of these sentinels; callers branch with errors.Is. Raw SQLite
// errors never cross the package boundary unwrapped.
var (
	// ErrNotFound means a referenced person/source/attachment/crawl entry
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the request was rejected before any mutation:
	// empty required text, self-referential edge, unrecognized enum value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict means the database surfaced a constraint violation, e.g.
	// a racing insert on a unique URL. Callers should retry as an update.
	ErrConflict = errors.New("conflict")

	// ErrFetchFailed means a network or storage error during attachment
	// retrieval. It is recorded per attachment, never fatal for a batch.
	ErrFetchFailed = errors.New("fetch failed")
)

// translateConstraint maps SQLite constraint violations into the taxonomy.
// Unique violations become ErrConflict; foreign key violations mean the
// referenced row is gone and become ErrNotFound.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: referenced record missing", ErrNotFound)
	default:
		return err
	}
}
