package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/evaluation"
)

var evaluationConflicts = map[string]error{
	"evaluations_user_event_key": evaluation.ErrAlreadyEvaluated,
}

type evaluationRow struct {
	ID        string      `db:"id"`
	UserID    string      `db:"user_id"`
	EventID   string      `db:"event_id"`
	Rating    int         `db:"rating"`
	Comment   null.String `db:"comment"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r evaluationRow) unbox() evaluation.Evaluation {
	return evaluation.Evaluation{
		ID:        r.ID,
		UserID:    r.UserID,
		EventID:   r.EventID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const evaluationColumns = "id, user_id, event_id, rating, comment, created_at"

type evaluationRepository struct {
	repository
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *sqlx.DB) *evaluationRepository {
	return &evaluationRepository{repository{db: db}}
}

func (repo evaluationRepository) CreateEvaluation(ctx context.Context, ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	ev.ID = uuid.New().String()
	var row evaluationRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`INSERT INTO evaluations (id, user_id, event_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+evaluationColumns,
		ev.ID, ev.UserID, ev.EventID, ev.Rating, ev.Comment, ev.CreatedAt.UTC())
	if err != nil {
		return evaluation.Evaluation{}, repo.trapConflictErr(err, evaluationConflicts, "inserting evaluation")
	}
	return row.unbox(), nil
}

func (repo evaluationRepository) QueryEvaluations(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	w := new(where).eq("user_id", filter.UserID).eq("event_id", filter.EventID)
	ordering := core.OrderBy(core.DBOrdering{Field: "created_at"}, core.DBOrdering{Field: "id", Ascending: true})

	var rows []evaluationRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, "SELECT "+evaluationColumns+" FROM evaluations"+w.String()+ordering, w.args...); err != nil {
		return nil, core.NewStorageError(err, "querying evaluations")
	}
	evs := make([]evaluation.Evaluation, 0, len(rows))
	for _, r := range rows {
		evs = append(evs, r.unbox())
	}
	return evs, nil
}

func (repo evaluationRepository) AverageRating(ctx context.Context, eventID string) (float64, int, error) {
	var res struct {
		Average null.Float64 `db:"average"`
		Count   int          `db:"count"`
	}
	err := sqlx.GetContext(ctx, repo.db, &res,
		"SELECT AVG(rating)::float8 AS average, COUNT(*) AS count FROM evaluations WHERE event_id = $1", eventID)
	if err != nil {
		return 0, 0, core.NewStorageError(err, "averaging ratings")
	}
	return res.Average.Float64, res.Count, nil
}

func (repo evaluationRepository) CountByRating(ctx context.Context, rating int) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, repo.db, &count, "SELECT COUNT(*) FROM evaluations WHERE rating = $1", rating); err != nil {
		return 0, core.NewStorageError(err, "counting evaluations")
	}
	return count, nil
}
