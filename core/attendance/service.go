package attendance

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
	ErrNotFound          = core.NewError(core.KindNotFound, "participation not found")
	ErrAlreadyRegistered = core.NewError(core.KindAlreadyExists, "user already participates in this event")
	ErrAlreadyCheckedIn  = core.NewError(core.KindAlreadyExists, "participant already checked in")
	ErrFeedbackExists    = core.NewError(core.KindAlreadyExists, "feedback already given")
	ErrNotCheckedIn      = core.NewError(core.KindOperationNotAllowed, "participant must check in before giving feedback")
	ErrFeedbackBlank     = core.NewError(core.KindInvalidField, "feedback cannot be blank")

	// ErrStateChanged is returned by Repository.UpdateParticipation when the stored state
	// no longer matches the expected one.
	ErrStateChanged = core.NewError(core.KindAlreadyExists, "participation changed concurrently")
)

type (
	Repository interface {
		// CreateParticipation fails with ErrAlreadyRegistered when the (user, event) pair exists.
		CreateParticipation(ctx context.Context, p Participation) (Participation, error)
		GetParticipation(ctx context.Context, id string) (Participation, error)
		// UpdateParticipation saves p only if the stored state still equals from; ErrStateChanged otherwise.
		UpdateParticipation(ctx context.Context, p Participation, from State) (Participation, error)
		QueryParticipations(ctx context.Context, filter QueryFilter) ([]Participation, error)
		CountParticipations(ctx context.Context, eventID string, checkedInOnly bool) (int, error)
		HasCheckedIn(ctx context.Context, userID, eventID string) (bool, error)
	}

	Service struct {
		repo    Repository
		catalog catalog.Store
		now     func() time.Time
	}
)

func NewService(repo Repository, store catalog.Store) *Service {
	return &Service{repo: repo, catalog: store, now: time.Now}
}

// RegisterParticipation opens the participation record of a user for an event.
func (svc *Service) RegisterParticipation(ctx context.Context, userID, eventID string) (Participation, error) {
	if _, err := svc.catalog.GetUser(ctx, userID); err != nil {
		return Participation{}, errors.Wrap(err, "getting user")
	}
	if _, err := svc.catalog.GetEvent(ctx, eventID); err != nil {
		return Participation{}, errors.Wrap(err, "getting event")
	}

	now := svc.now().UTC()
	p, err := svc.repo.CreateParticipation(ctx, Participation{
		UserID:    userID,
		EventID:   eventID,
		State:     StateRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Participation{}, errors.Wrap(err, "creating participation")
	}
	return p, nil
}

func (svc *Service) CheckIn(ctx context.Context, id string) (Participation, error) {
	p, err := svc.repo.GetParticipation(ctx, id)
	if err != nil {
		return Participation{}, errors.Wrap(err, "getting participation")
	}
	from := p.State
	if p.State, err = from.CheckIn(); err != nil {
		return Participation{}, err
	}
	p.UpdatedAt = svc.now().UTC()

	p, err = svc.repo.UpdateParticipation(ctx, p, from)
	if errors.Cause(err) == ErrStateChanged {
		return Participation{}, ErrAlreadyCheckedIn
	}
	if err != nil {
		return Participation{}, errors.Wrap(err, "checking in")
	}
	return p, nil
}

// AddFeedback stores the free-text feedback of a checked-in participant. It can only be given once.
func (svc *Service) AddFeedback(ctx context.Context, id, text string) (Participation, error) {
	p, err := svc.repo.GetParticipation(ctx, id)
	if err != nil {
		return Participation{}, errors.Wrap(err, "getting participation")
	}
	from := p.State
	if p.State, err = from.GiveFeedback(); err != nil {
		return Participation{}, err
	}
	text = core.CleanString(text)
	if text == "" {
		return Participation{}, ErrFeedbackBlank
	}
	p.Feedback = null.StringFrom(text)
	p.UpdatedAt = svc.now().UTC()

	p, err = svc.repo.UpdateParticipation(ctx, p, from)
	if errors.Cause(err) == ErrStateChanged {
		return Participation{}, ErrFeedbackExists
	}
	if err != nil {
		return Participation{}, errors.Wrap(err, "adding feedback")
	}
	return p, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Participation, error) {
	return svc.repo.GetParticipation(ctx, id)
}

func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Participation, error) {
	return svc.repo.QueryParticipations(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) ListByEvent(ctx context.Context, eventID string) ([]Participation, error) {
	return svc.repo.QueryParticipations(ctx, QueryFilter{EventID: eventID})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Participation, error) {
	filter.UserID = core.CleanString(filter.UserID)
	filter.EventID = core.CleanString(filter.EventID)
	return svc.repo.QueryParticipations(ctx, filter)
}

func (svc *Service) CountByEvent(ctx context.Context, eventID string) (int, error) {
	return svc.repo.CountParticipations(ctx, eventID, false)
}

func (svc *Service) CountCheckedInByEvent(ctx context.Context, eventID string) (int, error) {
	return svc.repo.CountParticipations(ctx, eventID, true)
}

// Stats counts the participations of an event, all and checked-in.
func (svc *Service) Stats(ctx context.Context, eventID string) (Stats, error) {
	total, err := svc.CountByEvent(ctx, eventID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting participations")
	}
	checkedIn, err := svc.CountCheckedInByEvent(ctx, eventID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting checked-in participations")
	}
	return Stats{EventID: eventID, Total: total, CheckedIn: checkedIn}, nil
}
