package database

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// UniqueViolation returns the name of the unique constraint err violates.
// Both lib/pq and pgx errors are recognised.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// TranslateConflict maps a unique violation to the domain error registered for its constraint.
// ok is false when err is no such violation.
func TranslateConflict(err error, byConstraint map[string]error) (domainErr error, ok bool) {
	constraint, ok := UniqueViolation(err)
	if !ok {
		return nil, false
	}
	domainErr, ok = byConstraint[constraint]
	return domainErr, ok
}
