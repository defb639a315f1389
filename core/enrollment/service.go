package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
)

var (
	// errors
	ErrNotFound        = core.NewError(core.KindNotFound, "enrollment not found")
	ErrAlreadyEnrolled = core.NewError(core.KindAlreadyExists, "user is already enrolled in this event")
	ErrNumberTaken     = core.NewError(core.KindAlreadyExists, "enrollment number already taken")
	ErrNotLearner      = core.NewError(core.KindInvalidUserType, "only learners can enroll in events")
	ErrEventPassed     = core.NewError(core.KindInvalidDate, "event has already taken place")
)

type (
	Repository interface {
		// CreateEnrollment fails with ErrAlreadyEnrolled when the pair already has an active enrollment
		// and with ErrNumberTaken when the number is in use.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, id string) (Enrollment, error)
		// CancelEnrollment deactivates an active enrollment; inactive or unknown ones give ErrNotFound.
		CancelEnrollment(ctx context.Context, id string, at time.Time) (Enrollment, error)
		// QueryEnrollments lists matching enrollments, most recent first.
		QueryEnrollments(ctx context.Context, filter QueryFilter) ([]Enrollment, error)
	}

	// Notifier is told about new enrollments. It must not block.
	Notifier interface {
		EnrollmentConfirmed(usr catalog.User, evt catalog.Event, enr Enrollment)
	}

	Service struct {
		repo           Repository
		catalog        catalog.Store
		notifier       Notifier
		loc            *time.Location
		numberAttempts int

		now       func() time.Time
		newNumber func() (string, error)
	}
)

func NewService(repo Repository, store catalog.Store, notifier Notifier, conf *core.Config) *Service {
	attempts := conf.Lifecycle.EnrollmentNumberAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		repo:           repo,
		catalog:        store,
		notifier:       notifier,
		loc:            conf.Location,
		numberAttempts: attempts,
		now:            time.Now,
		newNumber:      GenerateNumber,
	}
}

func (svc *Service) today() time.Time {
	return core.Today(svc.now(), svc.loc)
}

// Enroll registers a learner into an event that has not taken place yet.
func (svc *Service) Enroll(ctx context.Context, userID, eventID string) (Enrollment, error) {
	usr, err := svc.catalog.GetUser(ctx, userID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "getting user")
	}
	evt, err := svc.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "getting event")
	}
	if !usr.IsLearner() {
		return Enrollment{}, ErrNotLearner
	}
	if evt.Day().Before(svc.today()) {
		return Enrollment{}, ErrEventPassed
	}

	for attempt := 1; ; attempt++ {
		number, err := svc.newNumber()
		if err != nil {
			return Enrollment{}, errors.Wrap(err, "generating enrollment number")
		}
		enr, err := svc.repo.CreateEnrollment(ctx, Enrollment{
			UserID:    usr.ID,
			EventID:   evt.ID,
			Number:    number,
			Active:    true,
			CreatedAt: svc.now().UTC(),
		})
		if errors.Cause(err) == ErrNumberTaken && attempt < svc.numberAttempts {
			continue
		}
		if err != nil {
			return Enrollment{}, errors.Wrap(err, "creating enrollment")
		}

		if svc.notifier != nil {
			svc.notifier.EnrollmentConfirmed(usr, evt, enr)
		}
		return enr, nil
	}
}

// Cancel deactivates an active enrollment as long as its event has not taken place.
func (svc *Service) Cancel(ctx context.Context, id string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollment(ctx, id)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	if !enr.Active {
		return Enrollment{}, ErrNotFound
	}
	evt, err := svc.catalog.GetEvent(ctx, enr.EventID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "getting event")
	}
	if evt.Day().Before(svc.today()) {
		return Enrollment{}, ErrEventPassed
	}

	enr, err = svc.repo.CancelEnrollment(ctx, id, svc.now().UTC())
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "cancelling enrollment")
	}
	return enr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollment(ctx, id)
}

func (svc *Service) ListAll(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, QueryFilter{})
}

func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) ListByEvent(ctx context.Context, eventID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, QueryFilter{EventID: eventID})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Enrollment, error) {
	filter.UserID = core.CleanString(filter.UserID)
	filter.EventID = core.CleanString(filter.EventID)
	return svc.repo.QueryEnrollments(ctx, filter)
}
