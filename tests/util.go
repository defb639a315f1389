// Package testutil holds fixtures shared by the service, storage and API tests.
package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/catalog"
	"github.com/trezcool/actios/core/certificate"
	"github.com/trezcool/actios/core/enrollment"
	"github.com/trezcool/actios/core/evaluation"
	dummydb "github.com/trezcool/actios/storage/database/dummy"
)

// Services bundles the lifecycle services over a fresh in-memory store.
type Services struct {
	Conf    *core.Config
	DB      *dummydb.DB
	Catalog *dummydb.CatalogStore

	Enrollment    *enrollment.Service
	Attendance    *attendance.Service
	Evaluation    *evaluation.Service
	Certificate   *certificate.Service
	Certificates  certificate.Repository
	Participation attendance.Repository
}

type Notifiers struct {
	Enrollment  enrollment.Notifier
	Certificate certificate.Notifier
}

// NewServices wires every service on top of dummydb. conf may be nil.
func NewServices(conf *core.Config, notifiers ...Notifiers) *Services {
	if conf == nil {
		conf = core.NewTestConfig()
	}
	var ntf Notifiers
	if len(notifiers) > 0 {
		ntf = notifiers[0]
	}

	db := dummydb.MustOpen()
	store := dummydb.NewCatalogStore(db)
	partRepo := dummydb.NewParticipationRepository(db)
	certRepo := dummydb.NewCertificateRepository(db)

	return &Services{
		Conf:          conf,
		DB:            db,
		Catalog:       store,
		Enrollment:    enrollment.NewService(dummydb.NewEnrollmentRepository(db), store, ntf.Enrollment, conf),
		Attendance:    attendance.NewService(partRepo, store),
		Evaluation:    evaluation.NewService(dummydb.NewEvaluationRepository(db), store, partRepo, conf),
		Certificate:   certificate.NewService(certRepo, store, ntf.Certificate, conf),
		Certificates:  certRepo,
		Participation: partRepo,
	}
}

func CreateLearner(t *testing.T, store *dummydb.CatalogStore, name, email string) catalog.User {
	t.Helper()
	return store.AddUser(catalog.User{Name: name, Email: email, Role: catalog.RoleLearner})
}

func CreateInstructor(t *testing.T, store *dummydb.CatalogStore, name, email string) catalog.User {
	t.Helper()
	return store.AddUser(catalog.User{Name: name, Email: email, Role: catalog.RoleInstructor})
}

// CreateEvent adds an event taking place `days` days from today (negative for past events).
func CreateEvent(t *testing.T, store *dummydb.CatalogStore, title string, days int) catalog.Event {
	t.Helper()
	return store.AddEvent(catalog.Event{Title: title, Date: Day(days)})
}

func CreateCourse(t *testing.T, store *dummydb.CatalogStore, title string) catalog.Course {
	t.Helper()
	return store.AddCourse(catalog.Course{Title: title})
}

// Day returns the calendar date `days` days from today, in UTC.
func Day(days int) time.Time {
	return core.DateOf(time.Now().UTC()).AddDate(0, 0, days)
}

func IntPtr(i int) *int { return &i }
