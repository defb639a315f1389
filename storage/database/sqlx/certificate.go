package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/certificate"
)

var certificateConflicts = map[string]error{
	"certificates_user_course_key": certificate.ErrAlreadyIssued,
	"certificates_code_key":        certificate.ErrCodeTaken,
}

type certificateRow struct {
	ID       string    `db:"id"`
	UserID   string    `db:"user_id"`
	CourseID string    `db:"course_id"`
	Code     string    `db:"code"`
	IssuedOn time.Time `db:"issued_on"`
}

func (r certificateRow) unbox() certificate.Certificate {
	return certificate.Certificate{
		ID:       r.ID,
		UserID:   r.UserID,
		CourseID: r.CourseID,
		Code:     r.Code,
		IssuedOn: core.DateOf(r.IssuedOn),
	}
}

const certificateColumns = "id, user_id, course_id, code, issued_on"

type certificateRepository struct {
	repository
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *sqlx.DB) *certificateRepository {
	return &certificateRepository{repository{db: db}}
}

func (repo certificateRepository) CreateCertificate(ctx context.Context, cert certificate.Certificate) (certificate.Certificate, error) {
	cert.ID = uuid.New().String()
	var row certificateRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`INSERT INTO certificates (id, user_id, course_id, code, issued_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+certificateColumns,
		cert.ID, cert.UserID, cert.CourseID, cert.Code, cert.IssuedOn.Format("2006-01-02"))
	if err != nil {
		return certificate.Certificate{}, repo.trapConflictErr(err, certificateConflicts, "inserting certificate")
	}
	return row.unbox(), nil
}

func (repo certificateRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, repo.db, &exists, "SELECT EXISTS (SELECT 1 FROM certificates WHERE code = $1)", code); err != nil {
		return false, core.NewStorageError(err, "checking validation code")
	}
	return exists, nil
}

func (repo certificateRepository) GetCertificateByCode(ctx context.Context, code string) (certificate.Certificate, error) {
	var row certificateRow
	err := sqlx.GetContext(ctx, repo.db, &row, "SELECT "+certificateColumns+" FROM certificates WHERE code = $1", code)
	if err != nil {
		return certificate.Certificate{}, repo.trapNoRowsErr(err, certificate.ErrNotFound, "finding certificate by code")
	}
	return row.unbox(), nil
}

func (repo certificateRepository) QueryCertificates(ctx context.Context, filter certificate.QueryFilter) ([]certificate.Certificate, error) {
	w := new(where).eq("user_id", filter.UserID).eq("course_id", filter.CourseID)
	ordering := core.OrderBy(core.DBOrdering{Field: "issued_on"}, core.DBOrdering{Field: "code", Ascending: true})

	var rows []certificateRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, "SELECT "+certificateColumns+" FROM certificates"+w.String()+ordering, w.args...); err != nil {
		return nil, core.NewStorageError(err, "querying certificates")
	}
	certs := make([]certificate.Certificate, 0, len(rows))
	for _, r := range rows {
		certs = append(certs, r.unbox())
	}
	return certs, nil
}

func (repo certificateRepository) CountCertificates(ctx context.Context, filter certificate.QueryFilter) (int, error) {
	w := new(where).eq("user_id", filter.UserID).eq("course_id", filter.CourseID)
	var count int
	if err := sqlx.GetContext(ctx, repo.db, &count, "SELECT COUNT(*) FROM certificates"+w.String(), w.args...); err != nil {
		return 0, core.NewStorageError(err, "counting certificates")
	}
	return count, nil
}
