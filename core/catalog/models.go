// Package catalog holds the identity & catalog entities the lifecycle services look up.
// The records are owned elsewhere; this module only reads them.
package catalog

import (
	"context"
	"time"

	"github.com/trezcool/actios/core"
)

// Roles
const (
	RoleLearner    Role = "learner"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var (
	ErrUserNotFound   = core.NewError(core.KindNotFound, "user not found")
	ErrEventNotFound  = core.NewError(core.KindNotFound, "event not found")
	ErrCourseNotFound = core.NewError(core.KindNotFound, "course not found")
)

type Role string

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Locale string `json:"locale,omitempty"`
}

func (u User) IsLearner() bool    { return u.Role == RoleLearner }
func (u User) IsInstructor() bool { return u.Role == RoleInstructor }

type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"` // calendar date
}

// Day returns the event's calendar date, see core.DateOf.
func (e Event) Day() time.Time { return core.DateOf(e.Date) }

type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Store looks catalog entities up by id.
// Missing entities are reported with ErrUserNotFound, ErrEventNotFound and ErrCourseNotFound.
type Store interface {
	GetUser(ctx context.Context, id string) (User, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	HasCompletedCourse(ctx context.Context, userID, courseID string) (bool, error)
}
