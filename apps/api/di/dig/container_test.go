package dig_container

import (
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/actios/apps/api/echo"
	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/certificate"
	"github.com/trezcool/actios/core/enrollment"
	"github.com/trezcool/actios/core/evaluation"
	"github.com/trezcool/actios/core/notification"
	"github.com/trezcool/actios/storage/database"
)

// newTestContainer registers the app providers over a test config and a database handle
// that is never dialed (sql.Open does not connect).
func newTestContainer(t *testing.T) *dig.Container {
	conf := core.NewTestConfig()
	db, err := sql.Open("postgres", "postgres://actios@localhost/actios_test?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := dig.New()
	require.NoError(t, c.Provide(func() *core.Config { return conf }))
	require.NoError(t, c.Provide(func() (*sql.DB, core.DB) { return db, db }))
	require.NoError(t, c.Provide(database.NewSqlx))
	provideApp(c)
	return c
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New())
}

func Test_provideApp(t *testing.T) {
	c := newTestContainer(t)

	t.Run("services", func(t *testing.T) {
		err := c.Invoke(func(
			enr *enrollment.Service,
			att *attendance.Service,
			ev *evaluation.Service,
			cert *certificate.Service,
		) {
			assert.NotNil(t, enr)
			assert.NotNil(t, att)
			assert.NotNil(t, ev)
			assert.NotNil(t, cert)
		})
		assert.NoError(t, err)
	})

	t.Run("participation repository serves attendance lookups", func(t *testing.T) {
		err := c.Invoke(func(repo attendance.Repository, lookup evaluation.AttendanceLookup) {
			assert.Same(t, repo, lookup)
		})
		assert.NoError(t, err)
	})

	t.Run("one notifier for enrollments and certificates", func(t *testing.T) {
		err := c.Invoke(func(enrNotifier enrollment.Notifier, certNotifier certificate.Notifier) {
			assert.IsType(t, &notification.Notifier{}, enrNotifier)
			assert.Same(t, enrNotifier, certNotifier)
		})
		assert.NoError(t, err)
	})

	t.Run("server", func(t *testing.T) {
		err := c.Invoke(func(db *sqlx.DB, srv *echoapi.Server) {
			assert.Equal(t, "postgres", db.DriverName())
			assert.NotNil(t, srv)
		})
		assert.NoError(t, err)
	})
}
