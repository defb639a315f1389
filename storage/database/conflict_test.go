package database

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTranslateConflict(t *testing.T) {
	errDup := errors.New("already exists")
	byConstraint := map[string]error{"things_name_key": errDup}

	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantErr        error
	}{
		{name: "nil", err: nil, wantErr: nil},
		{name: "no rows", err: sql.ErrNoRows},
		{
			name:           "lib/pq unique violation",
			err:            &pq.Error{Code: "23505", Constraint: "things_name_key"},
			wantConstraint: "things_name_key",
			wantErr:        errDup,
		},
		{
			name:           "wrapped pgx unique violation",
			err:            errors.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "things_name_key"}, "inserting"),
			wantConstraint: "things_name_key",
			wantErr:        errDup,
		},
		{
			name:           "unknown constraint",
			err:            &pq.Error{Code: "23505", Constraint: "lol_key"},
			wantConstraint: "lol_key",
		},
		{name: "foreign key violation", err: &pq.Error{Code: "23503", Constraint: "things_name_key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, _ := UniqueViolation(tt.err)
			assert.Equal(t, tt.wantConstraint, constraint)

			got, ok := TranslateConflict(tt.err, byConstraint)
			assert.Equal(t, tt.wantErr != nil, ok)
			assert.Equal(t, tt.wantErr, got)
		})
	}
}
