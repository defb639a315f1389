package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/actios/core/evaluation"
)

type evaluationRepository struct {
	db *evaluationTable
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{db: db.evaluation}
}

func (repo *evaluationRepository) CreateEvaluation(_ context.Context, ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pair{ev.UserID, ev.EventID}
	if _, ok := repo.db.byPair[key]; ok {
		return evaluation.Evaluation{}, evaluation.ErrAlreadyEvaluated
	}
	ev.ID = uuid.New().String()
	repo.db.table[ev.ID] = &ev
	repo.db.seq = append(repo.db.seq, ev.ID)
	repo.db.byPair[key] = ev.ID
	return ev, nil
}

func (repo *evaluationRepository) QueryEvaluations(_ context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	evs := make([]evaluation.Evaluation, 0)
	for i := len(repo.db.seq) - 1; i >= 0; i-- {
		ev := repo.db.table[repo.db.seq[i]]
		if filter.UserID != "" && ev.UserID != filter.UserID {
			continue
		}
		if filter.EventID != "" && ev.EventID != filter.EventID {
			continue
		}
		evs = append(evs, *ev)
	}
	return evs, nil
}

func (repo *evaluationRepository) AverageRating(_ context.Context, eventID string) (float64, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sum, count int
	for _, ev := range repo.db.table {
		if ev.EventID == eventID {
			sum += ev.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (repo *evaluationRepository) CountByRating(_ context.Context, rating int) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, ev := range repo.db.table {
		if ev.Rating == rating {
			count++
		}
	}
	return count, nil
}
