package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrStageConflict is returned when a stage-guarded write matched no row:
// another caller already moved the trip, or the trip is terminal. The first
// successful writer wins; the loser gets this.
var ErrStageConflict = errors.New("trip stage changed concurrently")

// IsNotFoundError reports whether err is the store's "no such row" signal.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// GORM translates Postgres 23505 to ErrDuplicatedKey when TranslateError is
// on; the message check covers drivers that bypass translation.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
