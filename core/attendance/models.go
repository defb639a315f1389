package attendance

import (
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"
)

// State is the step a participant has reached for an event.
// The only moves are StateRegistered -> StateCheckedIn -> StateFeedbackGiven.
type State string

const (
	StateRegistered    State = "registered"
	StateCheckedIn     State = "checked_in"
	StateFeedbackGiven State = "feedback_given"
)

func (s State) Valid() bool {
	switch s {
	case StateRegistered, StateCheckedIn, StateFeedbackGiven:
		return true
	}
	return false
}

// CheckedIn is true once the participant has been checked in; check-in is never undone.
func (s State) CheckedIn() bool {
	return s == StateCheckedIn || s == StateFeedbackGiven
}

// CheckIn returns the state following a check-in.
func (s State) CheckIn() (State, error) {
	if s != StateRegistered {
		return s, ErrAlreadyCheckedIn
	}
	return StateCheckedIn, nil
}

// GiveFeedback returns the state following a feedback submission.
func (s State) GiveFeedback() (State, error) {
	switch s {
	case StateRegistered:
		return s, ErrNotCheckedIn
	case StateCheckedIn:
		return StateFeedbackGiven, nil
	default:
		return s, ErrFeedbackExists
	}
}

type Participation struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	EventID   string      `json:"event_id"`
	State     State       `json:"state"`
	Feedback  null.String `json:"feedback"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

func (p Participation) CheckedIn() bool { return p.State.CheckedIn() }

func (p Participation) MarshalJSON() ([]byte, error) {
	type participation Participation
	return json.Marshal(struct {
		participation
		CheckedIn bool `json:"checked_in"`
	}{participation(p), p.CheckedIn()})
}

type NewParticipation struct {
	UserID  string `json:"user_id" validate:"notblank"`
	EventID string `json:"event_id" validate:"notblank"`
}

type NewFeedback struct {
	Text string `json:"text"`
}

type QueryFilter struct {
	UserID  string `query:"user_id"`
	EventID string `query:"event_id"`
}

type Stats struct {
	EventID   string `json:"event_id"`
	Total     int    `json:"total"`
	CheckedIn int    `json:"checked_in"`
}
