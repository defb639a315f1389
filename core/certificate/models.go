package certificate

import "time"

type Certificate struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	CourseID string    `json:"course_id"`
	Code     string    `json:"code"`
	IssuedOn time.Time `json:"issued_on"` // calendar date
}

// ExpiresOn is the last day the certificate validates.
func (c Certificate) ExpiresOn(validityYears int) time.Time {
	return c.IssuedOn.AddDate(validityYears, 0, 0)
}

type NewCertificate struct {
	UserID   string `json:"user_id" validate:"notblank"`
	CourseID string `json:"course_id" validate:"notblank"`
}

type QueryFilter struct {
	UserID   string `query:"user_id"`
	CourseID string `query:"course_id"`
}

// Validation is the outcome of a successful code check.
type Validation struct {
	Certificate
	Valid     bool      `json:"valid"`
	ExpiresOn time.Time `json:"expires_on"`
}
