package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
)

// Postgres error codes relevant to the taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateRead maps lookup errors: missing rows become not_found, anything
// infrastructural becomes unavailable.
func translateRead(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	if isUnavailable(err) {
		return apperr.Unavailable(err)
	}
	return apperr.Internal(err)
}

// translateWrite maps insert/update errors. uniqueField/uniqueValue name the
// declared-unique column the statement could collide on; fkField names the
// foreign reference it could violate.
func translateWrite(err error, uniqueField, uniqueValue, fkField string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) && uniqueField != "" {
		return apperr.Conflict(uniqueField, uniqueValue)
	}
	if isForeignKeyViolation(err) && fkField != "" {
		return apperr.Referential(fkField)
	}
	if isUnavailable(err) {
		return apperr.Unavailable(err)
	}
	return apperr.Internal(err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// SQLite (test store) reports constraint failures as plain strings.
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") || strings.Contains(s, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "pool exhausted") ||
		strings.Contains(s, "timeout")
}
