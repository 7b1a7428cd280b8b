package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	ierr "github.com/subledger/subledger/internal/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver-level failures onto the service error
// taxonomy. Unique violations become already-exists, foreign key
// violations become reference-not-found, anything else is a database
// error.
func translateError(err error, uniqueHint, referenceHint string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return ierr.WithError(err).
				WithHint(uniqueHint).
				Mark(ierr.ErrAlreadyExists)
		case pgForeignKeyViolation:
			return ierr.WithError(err).
				WithHint(referenceHint).
				Mark(ierr.ErrReferenceNotFound)
		}
	}
	return ierr.WithError(err).
		WithHint("A database error occurred").
		Mark(ierr.ErrDatabase)
}

// notFound converts sql.ErrNoRows into a not-found error with the given
// hint; other errors pass through translateError.
func notFound(err error, hint string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHint(hint).
			Mark(ierr.ErrNotFound)
	}
	return translateError(err, "", "")
}
