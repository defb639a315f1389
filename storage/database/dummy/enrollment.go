package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/actios/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pair{enr.UserID, enr.EventID}
	if _, ok := repo.db.active[key]; ok && enr.Active {
		return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
	}
	if _, ok := repo.db.byNumber[enr.Number]; ok {
		return enrollment.Enrollment{}, enrollment.ErrNumberTaken
	}

	enr.ID = uuid.New().String()
	repo.db.table[enr.ID] = &enr
	repo.db.seq = append(repo.db.seq, enr.ID)
	repo.db.byNumber[enr.Number] = enr.ID
	if enr.Active {
		repo.db.active[key] = enr.ID
	}
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) CancelEnrollment(_ context.Context, id string, at time.Time) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr, ok := repo.db.table[id]
	if !ok || !enr.Active {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	enr.Active = false
	enr.CancelledAt = null.TimeFrom(at.UTC())
	delete(repo.db.active, pair{enr.UserID, enr.EventID})
	return *enr, nil
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrs := make([]enrollment.Enrollment, 0, len(repo.db.seq))
	// newest insertions first, so that equal timestamps keep the most recent on top
	for i := len(repo.db.seq) - 1; i >= 0; i-- {
		enr := repo.db.table[repo.db.seq[i]]
		if filter.UserID != "" && enr.UserID != filter.UserID {
			continue
		}
		if filter.EventID != "" && enr.EventID != filter.EventID {
			continue
		}
		enrs = append(enrs, *enr)
	}
	sort.SliceStable(enrs, func(i, j int) bool { return enrs[i].CreatedAt.After(enrs[j].CreatedAt) })
	return enrs, nil
}
