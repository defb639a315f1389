// Package dummydb is an in-memory store enforcing the same uniqueness rules as the
// PostgreSQL schema. It backs tests and local runs without a database.
package dummydb

import (
	"sync"

	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/catalog"
	"github.com/trezcool/actios/core/certificate"
	"github.com/trezcool/actios/core/enrollment"
	"github.com/trezcool/actios/core/evaluation"
)

type (
	DB struct {
		catalog       *catalogTables
		enrollment    *enrollmentTable
		participation *participationTable
		evaluation    *evaluationTable
		certificate   *certificateTable
	}

	pair struct{ a, b string }

	catalogTables struct {
		sync.RWMutex
		users       map[string]catalog.User
		events      map[string]catalog.Event
		courses     map[string]catalog.Course
		completions map[pair]bool // {user, course}
	}

	enrollmentTable struct {
		sync.RWMutex
		table    map[string]*enrollment.Enrollment
		seq      []string        // ids in insertion order
		active   map[pair]string // {user, event}: id of the active enrollment
		byNumber map[string]string
	}

	participationTable struct {
		sync.RWMutex
		table  map[string]*attendance.Participation
		seq    []string
		byPair map[pair]string // {user, event}
	}

	evaluationTable struct {
		sync.RWMutex
		table  map[string]*evaluation.Evaluation
		seq    []string
		byPair map[pair]string // {user, event}
	}

	certificateTable struct {
		sync.RWMutex
		table  map[string]*certificate.Certificate
		seq    []string
		byPair map[pair]string // {user, course}
		byCode map[string]string
	}
)

func Open() (*DB, error) {
	db := &DB{
		catalog: &catalogTables{
			users:       make(map[string]catalog.User),
			events:      make(map[string]catalog.Event),
			courses:     make(map[string]catalog.Course),
			completions: make(map[pair]bool),
		},
		enrollment: &enrollmentTable{
			table:    make(map[string]*enrollment.Enrollment),
			active:   make(map[pair]string),
			byNumber: make(map[string]string),
		},
		participation: &participationTable{
			table:  make(map[string]*attendance.Participation),
			byPair: make(map[pair]string),
		},
		evaluation: &evaluationTable{
			table:  make(map[string]*evaluation.Evaluation),
			byPair: make(map[pair]string),
		},
		certificate: &certificateTable{
			table:  make(map[string]*certificate.Certificate),
			byPair: make(map[pair]string),
			byCode: make(map[string]string),
		},
	}
	return db, nil
}

// MustOpen is Open for tests and wiring code that cannot fail.
func MustOpen() *DB {
	db, _ := Open()
	return db
}
