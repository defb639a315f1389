package certificate_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
	"github.com/trezcool/actios/core/certificate"
	dummydb "github.com/trezcool/actios/storage/database/dummy"
	"github.com/trezcool/actios/tests"
)

type notifierMock struct {
	issued []certificate.Certificate
}

func (n *notifierMock) CertificateIssued(_ catalog.User, _ catalog.Course, cert certificate.Certificate) {
	n.issued = append(n.issued, cert)
}

// busyRepo pretends every code is in use, or that inserts collide on the code.
type busyRepo struct {
	certificate.Repository
	codeExists   bool
	insertTaken  int
	checks, adds int
}

func (r *busyRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.checks++
	if r.codeExists {
		return true, nil
	}
	return r.Repository.CodeExists(ctx, code)
}

func (r *busyRepo) CreateCertificate(ctx context.Context, cert certificate.Certificate) (certificate.Certificate, error) {
	r.adds++
	if r.adds <= r.insertTaken {
		return certificate.Certificate{}, certificate.ErrCodeTaken
	}
	return r.Repository.CreateCertificate(ctx, cert)
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()
	ntf := new(notifierMock)
	svc := testutil.NewServices(nil, testutil.Notifiers{Certificate: ntf})

	alice := testutil.CreateLearner(t, svc.Catalog, "Alice", "alice@test.cd")
	bob := testutil.CreateLearner(t, svc.Catalog, "Bob", "bob@test.cd")
	prof := testutil.CreateInstructor(t, svc.Catalog, "Prof", "prof@test.cd")
	admin := svc.Catalog.AddUser(catalog.User{Name: "Admin", Role: catalog.RoleAdmin})
	course := testutil.CreateCourse(t, svc.Catalog, "Go 101")
	svc.Catalog.CompleteCourse(alice.ID, course.ID)
	svc.Catalog.CompleteCourse(prof.ID, course.ID)
	svc.Catalog.CompleteCourse(admin.ID, course.ID)

	tests := []struct {
		name     string
		userID   string
		courseID string
		wantErr  error
		wantKind core.Kind
	}{
		{name: "unknown user", userID: "lol", courseID: course.ID, wantErr: catalog.ErrUserNotFound, wantKind: core.KindNotFound},
		{name: "unknown course", userID: alice.ID, courseID: "lol", wantErr: catalog.ErrCourseNotFound, wantKind: core.KindNotFound},
		{name: "instructor", userID: prof.ID, courseID: course.ID, wantErr: certificate.ErrInstructor, wantKind: core.KindInvalidUserType},
		{name: "not completed", userID: bob.ID, courseID: course.ID, wantErr: certificate.ErrCourseNotComplete, wantKind: core.KindOperationNotAllowed},
		{name: "ok", userID: alice.ID, courseID: course.ID},
		{name: "admin", userID: admin.ID, courseID: course.ID},
		{name: "duplicate", userID: alice.ID, courseID: course.ID, wantErr: certificate.ErrAlreadyIssued, wantKind: core.KindAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert, err := svc.Certificate.Issue(ctx, tt.userID, tt.courseID)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Regexp(t, `^([0-9A-Z]{4}-){3}[0-9A-Z]{4}$`, cert.Code)
			assert.Equal(t, testutil.Day(0), cert.IssuedOn)
		})
	}

	assert.Len(t, ntf.issued, 2)
}

func TestService_Issue_codeRetries(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	conf.Lifecycle.CodeMaxAttempts = 4

	db := dummydb.MustOpen()
	store := dummydb.NewCatalogStore(db)
	course := testutil.CreateCourse(t, store, "Go 101")
	learner := func() catalog.User {
		usr := testutil.CreateLearner(t, store, "Alice", "alice@test.cd")
		store.CompleteCourse(usr.ID, course.ID)
		return usr
	}

	t.Run("every code taken", func(t *testing.T) {
		repo := &busyRepo{Repository: dummydb.NewCertificateRepository(db), codeExists: true}
		svc := certificate.NewService(repo, store, nil, conf)
		_, err := svc.Issue(ctx, learner().ID, course.ID)
		assert.Equal(t, certificate.ErrCodesExhausted, errors.Cause(err))
		assert.Equal(t, 4, repo.checks)
		assert.Equal(t, 0, repo.adds)
	})

	t.Run("insert collisions retried", func(t *testing.T) {
		repo := &busyRepo{Repository: dummydb.NewCertificateRepository(db), insertTaken: 3}
		svc := certificate.NewService(repo, store, nil, conf)
		cert, err := svc.Issue(ctx, learner().ID, course.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, cert.Code)
		assert.Equal(t, 4, repo.adds)
	})

	t.Run("insert collisions share the budget", func(t *testing.T) {
		repo := &busyRepo{Repository: dummydb.NewCertificateRepository(db), insertTaken: 4}
		svc := certificate.NewService(repo, store, nil, conf)
		_, err := svc.Issue(ctx, learner().ID, course.ID)
		assert.Equal(t, certificate.ErrCodesExhausted, errors.Cause(err))
		assert.Equal(t, 4, repo.adds)
	})
}

func TestService_Validate(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(nil)
	alice := testutil.CreateLearner(t, svc.Catalog, "Alice", "alice@test.cd")
	course := testutil.CreateCourse(t, svc.Catalog, "Go 101")

	insert := func(code string, issuedOn time.Time) certificate.Certificate {
		c := testutil.CreateCourse(t, svc.Catalog, "Course "+code)
		cert, err := svc.Certificates.CreateCertificate(ctx, certificate.Certificate{
			UserID:   alice.ID,
			CourseID: c.ID,
			Code:     code,
			IssuedOn: issuedOn,
		})
		require.NoError(t, err)
		return cert
	}

	years := svc.Conf.Lifecycle.CertificateValidityYears
	today := testutil.Day(0)
	svc.Catalog.CompleteCourse(alice.ID, course.ID)
	fresh, err := svc.Certificate.Issue(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	lastDay := insert("AAAA-AAAA-AAAA-AAAA", today.AddDate(-years, 0, 0))
	expired := insert("BBBB-BBBB-BBBB-BBBB", today.AddDate(-years, 0, -1))

	tests := []struct {
		name     string
		code     string
		want     certificate.Certificate
		wantErr  error
		wantKind core.Kind
	}{
		{name: "unknown", code: "ZZZZ-ZZZZ-ZZZZ-ZZZZ", wantErr: certificate.ErrNotFound, wantKind: core.KindNotFound},
		{name: "fresh", code: fresh.Code, want: fresh},
		{name: "lower case with spaces", code: " " + strings.ToLower(fresh.Code) + " ", want: fresh},
		{name: "last valid day", code: lastDay.Code, want: lastDay},
		{name: "expired the day after", code: expired.Code, wantErr: certificate.ErrExpired, wantKind: core.KindExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := svc.Certificate.Validate(ctx, tt.code)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, v.Valid)
			assert.Equal(t, tt.want, v.Certificate)
			assert.Equal(t, tt.want.IssuedOn.AddDate(years, 0, 0), v.ExpiresOn)
		})
	}
}

func TestService_listAndCount(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(nil)
	alice := testutil.CreateLearner(t, svc.Catalog, "Alice", "alice@test.cd")
	bob := testutil.CreateLearner(t, svc.Catalog, "Bob", "bob@test.cd")
	go101 := testutil.CreateCourse(t, svc.Catalog, "Go 101")
	sql101 := testutil.CreateCourse(t, svc.Catalog, "SQL 101")

	for _, usr := range []catalog.User{alice, bob} {
		for _, course := range []catalog.Course{go101, sql101} {
			if usr.ID == bob.ID && course.ID == sql101.ID {
				continue
			}
			svc.Catalog.CompleteCourse(usr.ID, course.ID)
			_, err := svc.Certificate.Issue(ctx, usr.ID, course.ID)
			require.NoError(t, err)
		}
	}

	count := func(n int, err error) int {
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, 2, count(svc.Certificate.CountByUser(ctx, alice.ID)))
	assert.Equal(t, 1, count(svc.Certificate.CountByUser(ctx, bob.ID)))
	assert.Equal(t, 2, count(svc.Certificate.CountByCourse(ctx, go101.ID)))
	assert.Equal(t, 1, count(svc.Certificate.CountByCourse(ctx, sql101.ID)))
	assert.Equal(t, 3, count(svc.Certificate.Count(ctx, certificate.QueryFilter{})))
	assert.Equal(t, 0, count(svc.Certificate.CountByUser(ctx, "lol")))

	certs, err := svc.Certificate.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 2)

	certs, err = svc.Certificate.ListByCourse(ctx, sql101.ID)
	require.NoError(t, err)
	if assert.Len(t, certs, 1) {
		assert.Equal(t, alice.ID, certs[0].UserID)
	}

	certs, err = svc.Certificate.ListByUserAndCourse(ctx, bob.ID, go101.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 1)

	certs, err = svc.Certificate.Filter(ctx, certificate.QueryFilter{UserID: bob.ID, CourseID: sql101.ID})
	require.NoError(t, err)
	assert.Empty(t, certs)
}
