package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/enrollment"
)

var enrollmentConflicts = map[string]error{
	"enrollments_active_user_event_key": enrollment.ErrAlreadyEnrolled,
	"enrollments_number_key":            enrollment.ErrNumberTaken,
}

type enrollmentRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	EventID     string    `db:"event_id"`
	Number      string    `db:"number"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	CancelledAt null.Time `db:"cancelled_at"`
}

func (r enrollmentRow) unbox() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:          r.ID,
		UserID:      r.UserID,
		EventID:     r.EventID,
		Number:      r.Number,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt.UTC(),
		CancelledAt: r.CancelledAt,
	}
}

const enrollmentColumns = "id, user_id, event_id, number, active, created_at, cancelled_at"

type enrollmentRepository struct {
	repository
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{repository{db: db}}
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	enr.ID = uuid.New().String()
	var row enrollmentRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`INSERT INTO enrollments (id, user_id, event_id, number, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+enrollmentColumns,
		enr.ID, enr.UserID, enr.EventID, enr.Number, enr.Active, enr.CreatedAt.UTC())
	if err != nil {
		return enrollment.Enrollment{}, repo.trapConflictErr(err, enrollmentConflicts, "inserting enrollment")
	}
	return row.unbox(), nil
}

func (repo enrollmentRepository) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	var row enrollmentRow
	err := sqlx.GetContext(ctx, repo.db, &row, "SELECT "+enrollmentColumns+" FROM enrollments WHERE id = $1", id)
	if err != nil {
		return enrollment.Enrollment{}, repo.trapNoRowsErr(err, enrollment.ErrNotFound, "finding enrollment by ID")
	}
	return row.unbox(), nil
}

func (repo enrollmentRepository) CancelEnrollment(ctx context.Context, id string, at time.Time) (enrollment.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	var row enrollmentRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`UPDATE enrollments SET active = FALSE, cancelled_at = $2
		WHERE id = $1 AND active
		RETURNING `+enrollmentColumns,
		id, at.UTC())
	if err != nil {
		return enrollment.Enrollment{}, repo.trapNoRowsErr(err, enrollment.ErrNotFound, "cancelling enrollment")
	}
	return row.unbox(), nil
}

func (repo enrollmentRepository) QueryEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	w := new(where).eq("user_id", filter.UserID).eq("event_id", filter.EventID)
	ordering := core.OrderBy(core.DBOrdering{Field: "created_at"}, core.DBOrdering{Field: "id", Ascending: true})

	var rows []enrollmentRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, "SELECT "+enrollmentColumns+" FROM enrollments"+w.String()+ordering, w.args...); err != nil {
		return nil, core.NewStorageError(err, "querying enrollments")
	}
	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrs = append(enrs, r.unbox())
	}
	return enrs, nil
}
