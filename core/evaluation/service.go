package evaluation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
)

var (
	// errors
	ErrAlreadyEvaluated = core.NewError(core.KindAlreadyExists, "user already evaluated this event")
	ErrInvalidRating    = core.NewError(core.KindInvalidField, "rating must be between 1 and 5")
	ErrEventNotHeld     = core.NewError(core.KindInvalidDate, "event has not taken place yet")
	ErrNotParticipant   = core.NewError(core.KindOperationNotAllowed, "only checked-in participants can evaluate an event")
	ErrNoRatings        = core.NewError(core.KindNotFound, "event has no ratings")
)

type (
	Repository interface {
		// CreateEvaluation fails with ErrAlreadyEvaluated when the (user, event) pair exists.
		CreateEvaluation(ctx context.Context, ev Evaluation) (Evaluation, error)
		QueryEvaluations(ctx context.Context, filter QueryFilter) ([]Evaluation, error)
		// AverageRating returns the mean rating of an event and the number of ratings it is computed on.
		AverageRating(ctx context.Context, eventID string) (float64, int, error)
		CountByRating(ctx context.Context, rating int) (int, error)
	}

	// AttendanceLookup tells whether a user checked in to an event.
	AttendanceLookup interface {
		HasCheckedIn(ctx context.Context, userID, eventID string) (bool, error)
	}

	Service struct {
		repo              Repository
		catalog           catalog.Store
		attendance        AttendanceLookup
		loc               *time.Location
		requireAttendance bool
		now               func() time.Time
	}
)

func NewService(repo Repository, store catalog.Store, attendance AttendanceLookup, conf *core.Config) *Service {
	return &Service{
		repo:              repo,
		catalog:           store,
		attendance:        attendance,
		loc:               conf.Location,
		requireAttendance: conf.Lifecycle.EvaluationRequiresAttendance,
		now:               time.Now,
	}
}

// CreateFeedback records the rating a user gives to an event that took place.
func (svc *Service) CreateFeedback(ctx context.Context, userID, eventID string, rating *int, comment string) (Evaluation, error) {
	if rating == nil || !ValidRating(*rating) {
		return Evaluation{}, ErrInvalidRating
	}
	if _, err := svc.catalog.GetUser(ctx, userID); err != nil {
		return Evaluation{}, errors.Wrap(err, "getting user")
	}
	evt, err := svc.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "getting event")
	}
	if evt.Day().After(core.Today(svc.now(), svc.loc)) {
		return Evaluation{}, ErrEventNotHeld
	}
	if svc.requireAttendance && svc.attendance != nil {
		attended, err := svc.attendance.HasCheckedIn(ctx, userID, eventID)
		if err != nil {
			return Evaluation{}, errors.Wrap(err, "checking attendance")
		}
		if !attended {
			return Evaluation{}, ErrNotParticipant
		}
	}

	comment = core.CleanString(comment)
	ev, err := svc.repo.CreateEvaluation(ctx, Evaluation{
		UserID:    userID,
		EventID:   eventID,
		Rating:    *rating,
		Comment:   null.NewString(comment, comment != ""),
		CreatedAt: svc.now().UTC(),
	})
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "creating evaluation")
	}
	return ev, nil
}

// Average is the mean rating of an existing event; events without ratings give ErrNoRatings.
func (svc *Service) Average(ctx context.Context, eventID string) (Average, error) {
	if _, err := svc.catalog.GetEvent(ctx, eventID); err != nil {
		return Average{}, errors.Wrap(err, "getting event")
	}
	avg, count, err := svc.repo.AverageRating(ctx, eventID)
	if err != nil {
		return Average{}, errors.Wrap(err, "averaging ratings")
	}
	if count == 0 {
		return Average{}, ErrNoRatings
	}
	return Average{EventID: eventID, Average: avg, Count: count}, nil
}

// CountByRating counts the evaluations, across all events, that gave this rating.
func (svc *Service) CountByRating(ctx context.Context, rating int) (int, error) {
	if !ValidRating(rating) {
		return 0, ErrInvalidRating
	}
	return svc.repo.CountByRating(ctx, rating)
}

func (svc *Service) ListByEvent(ctx context.Context, eventID string) ([]Evaluation, error) {
	return svc.repo.QueryEvaluations(ctx, QueryFilter{EventID: eventID})
}

func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Evaluation, error) {
	return svc.repo.QueryEvaluations(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Evaluation, error) {
	filter.UserID = core.CleanString(filter.UserID)
	filter.EventID = core.CleanString(filter.EventID)
	return svc.repo.QueryEvaluations(ctx, filter)
}
