package evaluation

import (
	"time"

	"github.com/volatiletech/null/v8"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Evaluation struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	EventID   string      `json:"event_id"`
	Rating    int         `json:"rating"`
	Comment   null.String `json:"comment"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

// NewEvaluation is the rating payload. Rating is a pointer so that a missing rating is told apart from 0.
type NewEvaluation struct {
	UserID  string `json:"user_id" validate:"notblank"`
	EventID string `json:"event_id" validate:"notblank"`
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

type QueryFilter struct {
	UserID  string `query:"user_id"`
	EventID string `query:"event_id"`
}

type Average struct {
	EventID string  `json:"event_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
