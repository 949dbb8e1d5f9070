package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
)

func TestTranslateReadNotFound(t *testing.T) {
	err := translateRead(gorm.ErrRecordNotFound, "product")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	require.Contains(t, err.Error(), "product")
}

func TestTranslateReadUnavailable(t *testing.T) {
	err := translateRead(errors.New("dial tcp 127.0.0.1:5432: connection refused"), "product")
	require.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}

func TestTranslateWriteUniqueViolation(t *testing.T) {
	cases := []error{
		&pgconn.PgError{Code: "23505"},
		errors.New("UNIQUE constraint failed: products.sku"),
	}
	for _, cause := range cases {
		err := translateWrite(cause, "sku", "SKU-100", "")
		require.True(t, apperr.IsKind(err, apperr.KindConflict), "cause %v", cause)
	}
}

func TestTranslateWriteForeignKeyViolation(t *testing.T) {
	cases := []error{
		&pgconn.PgError{Code: "23503"},
		errors.New("FOREIGN KEY constraint failed"),
	}
	for _, cause := range cases {
		err := translateWrite(cause, "", "", "categoryId")
		require.True(t, apperr.IsKind(err, apperr.KindReferential), "cause %v", cause)
	}
}

func TestTranslateWriteUnknownIsInternal(t *testing.T) {
	err := translateWrite(errors.New("syntax error near SELECT"), "sku", "x", "categoryId")
	require.True(t, apperr.IsKind(err, apperr.KindInternal))
}
