package boiledrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
)

type (
	userRow struct {
		ID     string      `boil:"id"`
		Name   string      `boil:"name"`
		Email  string      `boil:"email"`
		Role   string      `boil:"role"`
		Locale null.String `boil:"locale"`
	}

	eventRow struct {
		ID    string    `boil:"id"`
		Title string    `boil:"title"`
		Date  time.Time `boil:"event_date"`
	}

	courseRow struct {
		ID    string `boil:"id"`
		Title string `boil:"title"`
	}
)

// catalogStore reads the identity & catalog tables. It never writes them.
type catalogStore struct {
	exec core.DBExecutor
}

var _ catalog.Store = (*catalogStore)(nil) // interface compliance check

func NewCatalogStore(exec core.DBExecutor) *catalogStore {
	return &catalogStore{exec: exec}
}

func (s catalogStore) executor() boil.ContextExecutor {
	return s.exec
}

// trapNoRowsErr maps psql "no rows" err to notFound
func (s catalogStore) trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return core.NewStorageError(err, msg)
}

func (s catalogStore) GetUser(ctx context.Context, id string) (catalog.User, error) {
	var row userRow
	err := queries.Raw(`SELECT id, name, email, role, locale FROM users WHERE id = $1`, id).Bind(ctx, s.executor(), &row)
	if err != nil {
		return catalog.User{}, s.trapNoRowsErr(err, catalog.ErrUserNotFound, "finding user by ID")
	}
	return catalog.User{
		ID:     row.ID,
		Name:   row.Name,
		Email:  row.Email,
		Role:   catalog.Role(row.Role),
		Locale: row.Locale.String,
	}, nil
}

func (s catalogStore) GetEvent(ctx context.Context, id string) (catalog.Event, error) {
	var row eventRow
	err := queries.Raw(`SELECT id, title, event_date FROM events WHERE id = $1`, id).Bind(ctx, s.executor(), &row)
	if err != nil {
		return catalog.Event{}, s.trapNoRowsErr(err, catalog.ErrEventNotFound, "finding event by ID")
	}
	return catalog.Event{ID: row.ID, Title: row.Title, Date: core.DateOf(row.Date)}, nil
}

func (s catalogStore) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	var row courseRow
	err := queries.Raw(`SELECT id, title FROM courses WHERE id = $1`, id).Bind(ctx, s.executor(), &row)
	if err != nil {
		return catalog.Course{}, s.trapNoRowsErr(err, catalog.ErrCourseNotFound, "finding course by ID")
	}
	return catalog.Course{ID: row.ID, Title: row.Title}, nil
}

func (s catalogStore) HasCompletedCourse(ctx context.Context, userID, courseID string) (bool, error) {
	var res struct {
		Completed bool `boil:"completed"`
	}
	err := queries.Raw(
		`SELECT EXISTS (SELECT 1 FROM course_completions WHERE user_id = $1 AND course_id = $2) AS completed`,
		userID, courseID,
	).Bind(ctx, s.executor(), &res)
	if err != nil {
		return false, core.NewStorageError(err, "checking course completion")
	}
	return res.Completed, nil
}
