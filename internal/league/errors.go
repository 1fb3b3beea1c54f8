package league

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is. The HTTP layer maps these to
// status codes; the store never retries on its own.
var (
	// ErrValidation covers malformed input: a missing winners list, an
	// empty player name, an unknown sort option.
	ErrValidation = errors.New("validation failed")

	// ErrPlayerConflict is returned when a player name is already taken.
	ErrPlayerConflict = errors.New("player name already exists")

	// ErrMatchConflict is returned when a match name is already taken.
	ErrMatchConflict = errors.New("match name already exists")

	// ErrPlayerNotFound is returned when a referenced player doesn't exist.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrMatchNotFound is returned when no match has the requested name.
	ErrMatchNotFound = errors.New("match not found")
)

// UnknownPlayersError reports every unresolved player ID in a match
// submission. Unknown players are collected and rejected up front, never
// silently skipped.
type UnknownPlayersError struct {
	PlayerIDs []string
}

func (e *UnknownPlayersError) Error() string {
	return fmt.Sprintf("unknown players: %s", strings.Join(e.PlayerIDs, ", "))
}

func (e *UnknownPlayersError) Unwrap() error { return ErrPlayerNotFound }

// BulkEntryError identifies which entry of a bulk match submission failed.
// The whole batch is rolled back when any entry fails.
type BulkEntryError struct {
	Index int
	Err   error
}

func (e *BulkEntryError) Error() string {
	return fmt.Sprintf("match entry %d: %v", e.Index, e.Err)
}

func (e *BulkEntryError) Unwrap() error { return e.Err }

// IsClientError reports whether the error is the caller's fault rather
// than a store failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPlayerConflict) ||
		errors.Is(err, ErrMatchConflict) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrMatchNotFound)
}
