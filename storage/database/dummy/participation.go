package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/evaluation"
)

type participationRepository struct {
	db *participationTable
}

var (
	_ attendance.Repository       = (*participationRepository)(nil) // interface compliance check
	_ evaluation.AttendanceLookup = (*participationRepository)(nil)
)

// NewParticipationRepository also serves as the evaluation.AttendanceLookup of the store.
func NewParticipationRepository(db *DB) *participationRepository {
	return &participationRepository{db: db.participation}
}

func (repo *participationRepository) CreateParticipation(_ context.Context, p attendance.Participation) (attendance.Participation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pair{p.UserID, p.EventID}
	if _, ok := repo.db.byPair[key]; ok {
		return attendance.Participation{}, attendance.ErrAlreadyRegistered
	}
	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	repo.db.seq = append(repo.db.seq, p.ID)
	repo.db.byPair[key] = p.ID
	return p, nil
}

func (repo *participationRepository) GetParticipation(_ context.Context, id string) (attendance.Participation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return attendance.Participation{}, attendance.ErrNotFound
}

func (repo *participationRepository) UpdateParticipation(_ context.Context, p attendance.Participation, from attendance.State) (attendance.Participation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[p.ID]
	if !ok || orig.State != from {
		return attendance.Participation{}, attendance.ErrStateChanged
	}
	orig.State = p.State
	orig.Feedback = p.Feedback
	orig.UpdatedAt = p.UpdatedAt
	return *orig, nil
}

func (repo *participationRepository) QueryParticipations(_ context.Context, filter attendance.QueryFilter) ([]attendance.Participation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ps := make([]attendance.Participation, 0)
	for i := len(repo.db.seq) - 1; i >= 0; i-- {
		p := repo.db.table[repo.db.seq[i]]
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.EventID != "" && p.EventID != filter.EventID {
			continue
		}
		ps = append(ps, *p)
	}
	return ps, nil
}

func (repo *participationRepository) CountParticipations(_ context.Context, eventID string, checkedInOnly bool) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, p := range repo.db.table {
		if p.EventID == eventID && (!checkedInOnly || p.CheckedIn()) {
			count++
		}
	}
	return count, nil
}

func (repo *participationRepository) HasCheckedIn(_ context.Context, userID, eventID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	id, ok := repo.db.byPair[pair{userID, eventID}]
	return ok && repo.db.table[id].CheckedIn(), nil
}
