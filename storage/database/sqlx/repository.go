// Package sqlxrepos stores the lifecycle records in PostgreSQL through sqlx.
package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/storage/database"
)

// repository holds what every table repository shares.
type repository struct {
	db sqlx.ExtContext
}

// trapNoRowsErr maps "no rows" to notFound and wraps anything else as a storage failure.
func (repo repository) trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return core.NewStorageError(err, msg)
}

// trapConflictErr maps unique violations to their domain error and wraps anything else as a storage failure.
func (repo repository) trapConflictErr(err error, byConstraint map[string]error, msg string) error {
	if domainErr, ok := database.TranslateConflict(err, byConstraint); ok {
		return domainErr
	}
	return core.NewStorageError(err, msg)
}

// where builds an AND-ed WHERE clause from the non-empty column filters, in order.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) eq(column string, value interface{}) *where {
	if s, ok := value.(string); ok && s == "" {
		return w
	}
	w.args = append(w.args, value)
	w.conds = append(w.conds, column+" = $"+strconv.Itoa(len(w.args)))
	return w
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
