package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/samber/lo"
	ierr "github.com/subledger/subledger/internal/errors"
)

// orderClause renders a safe ORDER BY for the given sort column. Columns
// are checked against the caller's whitelist since they are interpolated
// into the query text.
func orderClause(sort, order string, allowed []string) string {
	if !lo.Contains(allowed, sort) {
		sort = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", sort, direction)
}

// appendWhere joins filter conditions onto a base query
func appendWhere(base string, conditions []string) string {
	if len(conditions) == 0 {
		return base
	}
	return base + " WHERE " + strings.Join(conditions, " AND ")
}

// requireAffected turns a zero-row UPDATE or DELETE into a not-found error
func requireAffected(result sql.Result, hint string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return translateError(err, "", "")
	}
	if affected == 0 {
		return ierr.NewError("record not found").
			WithHint(hint).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
