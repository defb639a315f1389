package certificate

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
)

var (
	// errors
	ErrNotFound          = core.NewError(core.KindNotFound, "certificate not found")
	ErrAlreadyIssued     = core.NewError(core.KindAlreadyExists, "a certificate was already issued for this course")
	ErrCodeTaken         = core.NewError(core.KindAlreadyExists, "validation code already taken")
	ErrCodesExhausted    = core.NewError(core.KindAlreadyExists, "could not generate a unique validation code")
	ErrInstructor        = core.NewError(core.KindInvalidUserType, "instructors cannot receive certificates")
	ErrCourseNotComplete = core.NewError(core.KindOperationNotAllowed, "course not completed by user")
	ErrExpired           = core.NewError(core.KindExpired, "certificate has expired")
)

type (
	Repository interface {
		// CreateCertificate fails with ErrAlreadyIssued when the (user, course) pair exists
		// and with ErrCodeTaken when the code is in use.
		CreateCertificate(ctx context.Context, cert Certificate) (Certificate, error)
		CodeExists(ctx context.Context, code string) (bool, error)
		GetCertificateByCode(ctx context.Context, code string) (Certificate, error)
		QueryCertificates(ctx context.Context, filter QueryFilter) ([]Certificate, error)
		CountCertificates(ctx context.Context, filter QueryFilter) (int, error)
	}

	// Notifier is told about issued certificates. It must not block.
	Notifier interface {
		CertificateIssued(usr catalog.User, course catalog.Course, cert Certificate)
	}

	Service struct {
		repo          Repository
		catalog       catalog.Store
		notifier      Notifier
		loc           *time.Location
		validityYears int
		maxAttempts   int

		now     func() time.Time
		newCode func() (string, error)
	}
)

func NewService(repo Repository, store catalog.Store, notifier Notifier, conf *core.Config) *Service {
	attempts := conf.Lifecycle.CodeMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		repo:          repo,
		catalog:       store,
		notifier:      notifier,
		loc:           conf.Location,
		validityYears: conf.Lifecycle.CertificateValidityYears,
		maxAttempts:   attempts,
		now:           time.Now,
		newCode:       GenerateCode,
	}
}

func (svc *Service) today() time.Time {
	return core.Today(svc.now(), svc.loc)
}

// uniqueCode draws codes until one is unused, giving up after maxAttempts draws.
func (svc *Service) uniqueCode(ctx context.Context, attempts *int) (string, error) {
	for ; *attempts < svc.maxAttempts; *attempts++ {
		code, err := svc.newCode()
		if err != nil {
			return "", errors.Wrap(err, "generating validation code")
		}
		exists, err := svc.repo.CodeExists(ctx, code)
		if err != nil {
			return "", errors.Wrap(err, "checking validation code")
		}
		if !exists {
			*attempts++
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}

// Issue grants a completion certificate to a learner who completed the course.
func (svc *Service) Issue(ctx context.Context, userID, courseID string) (Certificate, error) {
	usr, err := svc.catalog.GetUser(ctx, userID)
	if err != nil {
		return Certificate{}, errors.Wrap(err, "getting user")
	}
	course, err := svc.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return Certificate{}, errors.Wrap(err, "getting course")
	}
	if usr.IsInstructor() {
		return Certificate{}, ErrInstructor
	}
	completed, err := svc.catalog.HasCompletedCourse(ctx, usr.ID, course.ID)
	if err != nil {
		return Certificate{}, errors.Wrap(err, "checking course completion")
	}
	if !completed {
		return Certificate{}, ErrCourseNotComplete
	}

	// a code can still be taken between the check and the insert; the insert is retried
	// within the same attempts budget.
	var attempts int
	for {
		code, err := svc.uniqueCode(ctx, &attempts)
		if err != nil {
			return Certificate{}, err
		}
		cert, err := svc.repo.CreateCertificate(ctx, Certificate{
			UserID:   usr.ID,
			CourseID: course.ID,
			Code:     code,
			IssuedOn: svc.today(),
		})
		if errors.Cause(err) == ErrCodeTaken {
			continue
		}
		if err != nil {
			return Certificate{}, errors.Wrap(err, "creating certificate")
		}

		if svc.notifier != nil {
			svc.notifier.CertificateIssued(usr, course, cert)
		}
		return cert, nil
	}
}

// Validate looks a certificate up by its code and checks it has not expired.
func (svc *Service) Validate(ctx context.Context, code string) (Validation, error) {
	cert, err := svc.repo.GetCertificateByCode(ctx, NormalizeCode(code))
	if err != nil {
		return Validation{}, errors.Wrap(err, "getting certificate")
	}
	expiresOn := cert.ExpiresOn(svc.validityYears)
	if svc.today().After(expiresOn) {
		return Validation{}, ErrExpired
	}
	return Validation{Certificate: cert, Valid: true, ExpiresOn: expiresOn}, nil
}

func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Certificate, error) {
	return svc.repo.QueryCertificates(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) ListByCourse(ctx context.Context, courseID string) ([]Certificate, error) {
	return svc.repo.QueryCertificates(ctx, QueryFilter{CourseID: courseID})
}

func (svc *Service) ListByUserAndCourse(ctx context.Context, userID, courseID string) ([]Certificate, error) {
	return svc.repo.QueryCertificates(ctx, QueryFilter{UserID: userID, CourseID: courseID})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Certificate, error) {
	filter.UserID = core.CleanString(filter.UserID)
	filter.CourseID = core.CleanString(filter.CourseID)
	return svc.repo.QueryCertificates(ctx, filter)
}

func (svc *Service) CountByUser(ctx context.Context, userID string) (int, error) {
	return svc.repo.CountCertificates(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) CountByCourse(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountCertificates(ctx, QueryFilter{CourseID: courseID})
}

func (svc *Service) Count(ctx context.Context, filter QueryFilter) (int, error) {
	filter.UserID = core.CleanString(filter.UserID)
	filter.CourseID = core.CleanString(filter.CourseID)
	return svc.repo.CountCertificates(ctx, filter)
}
