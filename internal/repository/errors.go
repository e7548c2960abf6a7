package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConcurrencyConflict means a write matched no row: either the row is gone or
	// the caller's version token is stale.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrUserNotFound means a post references a user that does not exist.
	ErrUserNotFound = errors.New("referenced user does not exist")
	// ErrPostExists means an insert collided with an existing primary key.
	ErrPostExists = errors.New("post already exists")
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
