package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/evaluation"
)

var participationConflicts = map[string]error{
	"participations_user_event_key": attendance.ErrAlreadyRegistered,
}

type participationRow struct {
	ID        string      `db:"id"`
	UserID    string      `db:"user_id"`
	EventID   string      `db:"event_id"`
	State     string      `db:"state"`
	Feedback  null.String `db:"feedback"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r participationRow) unbox() attendance.Participation {
	return attendance.Participation{
		ID:        r.ID,
		UserID:    r.UserID,
		EventID:   r.EventID,
		State:     attendance.State(r.State),
		Feedback:  r.Feedback,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const participationColumns = "id, user_id, event_id, state, feedback, created_at, updated_at"

type participationRepository struct {
	repository
}

var (
	_ attendance.Repository       = (*participationRepository)(nil) // interface compliance check
	_ evaluation.AttendanceLookup = (*participationRepository)(nil)
)

func NewParticipationRepository(db *sqlx.DB) *participationRepository {
	return &participationRepository{repository{db: db}}
}

func (repo participationRepository) CreateParticipation(ctx context.Context, p attendance.Participation) (attendance.Participation, error) {
	p.ID = uuid.New().String()
	var row participationRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`INSERT INTO participations (id, user_id, event_id, state, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+participationColumns,
		p.ID, p.UserID, p.EventID, string(p.State), p.Feedback, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return attendance.Participation{}, repo.trapConflictErr(err, participationConflicts, "inserting participation")
	}
	return row.unbox(), nil
}

func (repo participationRepository) GetParticipation(ctx context.Context, id string) (attendance.Participation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return attendance.Participation{}, attendance.ErrNotFound
	}
	var row participationRow
	err := sqlx.GetContext(ctx, repo.db, &row, "SELECT "+participationColumns+" FROM participations WHERE id = $1", id)
	if err != nil {
		return attendance.Participation{}, repo.trapNoRowsErr(err, attendance.ErrNotFound, "finding participation by ID")
	}
	return row.unbox(), nil
}

func (repo participationRepository) UpdateParticipation(ctx context.Context, p attendance.Participation, from attendance.State) (attendance.Participation, error) {
	var row participationRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`UPDATE participations SET state = $3, feedback = $4, updated_at = $5
		WHERE id = $1 AND state = $2
		RETURNING `+participationColumns,
		p.ID, string(from), string(p.State), p.Feedback, p.UpdatedAt.UTC())
	if err != nil {
		return attendance.Participation{}, repo.trapNoRowsErr(err, attendance.ErrStateChanged, "updating participation")
	}
	return row.unbox(), nil
}

func (repo participationRepository) QueryParticipations(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Participation, error) {
	w := new(where).eq("user_id", filter.UserID).eq("event_id", filter.EventID)
	ordering := core.OrderBy(core.DBOrdering{Field: "created_at"}, core.DBOrdering{Field: "id", Ascending: true})

	var rows []participationRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, "SELECT "+participationColumns+" FROM participations"+w.String()+ordering, w.args...); err != nil {
		return nil, core.NewStorageError(err, "querying participations")
	}
	ps := make([]attendance.Participation, 0, len(rows))
	for _, r := range rows {
		ps = append(ps, r.unbox())
	}
	return ps, nil
}

func (repo participationRepository) CountParticipations(ctx context.Context, eventID string, checkedInOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM participations WHERE event_id = $1"
	args := []interface{}{eventID}
	if checkedInOnly {
		query += " AND state IN ($2, $3)"
		args = append(args, string(attendance.StateCheckedIn), string(attendance.StateFeedbackGiven))
	}
	var count int
	if err := sqlx.GetContext(ctx, repo.db, &count, query, args...); err != nil {
		return 0, core.NewStorageError(err, "counting participations")
	}
	return count, nil
}

func (repo participationRepository) HasCheckedIn(ctx context.Context, userID, eventID string) (bool, error) {
	var checkedIn bool
	err := sqlx.GetContext(ctx, repo.db, &checkedIn,
		`SELECT EXISTS (
			SELECT 1 FROM participations WHERE user_id = $1 AND event_id = $2 AND state IN ($3, $4)
		)`,
		userID, eventID, string(attendance.StateCheckedIn), string(attendance.StateFeedbackGiven))
	if err != nil {
		return false, core.NewStorageError(err, "checking attendance")
	}
	return checkedIn, nil
}
