package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/certificate"
)

type certificateRepository struct {
	db *certificateTable
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *DB) certificate.Repository {
	return &certificateRepository{db: db.certificate}
}

func (repo *certificateRepository) CreateCertificate(_ context.Context, cert certificate.Certificate) (certificate.Certificate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pair{cert.UserID, cert.CourseID}
	if _, ok := repo.db.byPair[key]; ok {
		return certificate.Certificate{}, certificate.ErrAlreadyIssued
	}
	if _, ok := repo.db.byCode[cert.Code]; ok {
		return certificate.Certificate{}, certificate.ErrCodeTaken
	}
	cert.ID = uuid.New().String()
	cert.IssuedOn = core.DateOf(cert.IssuedOn)
	repo.db.table[cert.ID] = &cert
	repo.db.seq = append(repo.db.seq, cert.ID)
	repo.db.byPair[key] = cert.ID
	repo.db.byCode[cert.Code] = cert.ID
	return cert, nil
}

func (repo *certificateRepository) CodeExists(_ context.Context, code string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.byCode[code]
	return ok, nil
}

func (repo *certificateRepository) GetCertificateByCode(_ context.Context, code string) (certificate.Certificate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if id, ok := repo.db.byCode[code]; ok {
		return *repo.db.table[id], nil
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}

func (repo *certificateRepository) query(filter certificate.QueryFilter) []certificate.Certificate {
	certs := make([]certificate.Certificate, 0)
	for _, id := range repo.db.seq {
		cert := repo.db.table[id]
		if filter.UserID != "" && cert.UserID != filter.UserID {
			continue
		}
		if filter.CourseID != "" && cert.CourseID != filter.CourseID {
			continue
		}
		certs = append(certs, *cert)
	}
	return certs
}

func (repo *certificateRepository) QueryCertificates(_ context.Context, filter certificate.QueryFilter) ([]certificate.Certificate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	certs := repo.query(filter)
	sort.SliceStable(certs, func(i, j int) bool {
		if !certs[i].IssuedOn.Equal(certs[j].IssuedOn) {
			return certs[i].IssuedOn.After(certs[j].IssuedOn)
		}
		return certs[i].Code < certs[j].Code
	})
	return certs, nil
}

func (repo *certificateRepository) CountCertificates(_ context.Context, filter certificate.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.query(filter)), nil
}
