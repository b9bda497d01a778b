package infractions

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Store error classes. Callers distinguish a key collision from a lookup
// miss from the backing engine being unreachable, because the action engine
// reacts differently to each.
var (
	ErrConflict         = errors.New("record already exists")
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// classify maps a driver error onto the store error classes.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}
