package enrollment

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Enrollment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	Number      string    `json:"number"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	CancelledAt null.Time `json:"cancelled_at"`
}

// NewEnrollment is the payload to enroll a user into an event.
type NewEnrollment struct {
	UserID  string `json:"user_id" validate:"notblank"`
	EventID string `json:"event_id" validate:"notblank"`
}

// QueryFilter narrows listings down; empty fields are ignored.
type QueryFilter struct {
	UserID  string `query:"user_id"`
	EventID string `query:"event_id"`
}
