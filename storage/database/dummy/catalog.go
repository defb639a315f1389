package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
)

// CatalogStore serves catalog lookups from memory. Unlike the SQL store it can also be
// seeded, which tests and the local setup rely on.
type CatalogStore struct {
	db *catalogTables
}

var _ catalog.Store = (*CatalogStore)(nil) // interface compliance check

func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db.catalog}
}

func (s *CatalogStore) AddUser(usr catalog.User) catalog.User {
	s.db.Lock()
	defer s.db.Unlock()
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	s.db.users[usr.ID] = usr
	return usr
}

func (s *CatalogStore) AddEvent(evt catalog.Event) catalog.Event {
	s.db.Lock()
	defer s.db.Unlock()
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	evt.Date = core.DateOf(evt.Date)
	s.db.events[evt.ID] = evt
	return evt
}

func (s *CatalogStore) AddCourse(course catalog.Course) catalog.Course {
	s.db.Lock()
	defer s.db.Unlock()
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	s.db.courses[course.ID] = course
	return course
}

func (s *CatalogStore) CompleteCourse(userID, courseID string) {
	s.db.Lock()
	defer s.db.Unlock()
	s.db.completions[pair{userID, courseID}] = true
}

func (s *CatalogStore) GetUser(_ context.Context, id string) (catalog.User, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	if usr, ok := s.db.users[id]; ok {
		return usr, nil
	}
	return catalog.User{}, catalog.ErrUserNotFound
}

func (s *CatalogStore) GetEvent(_ context.Context, id string) (catalog.Event, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	if evt, ok := s.db.events[id]; ok {
		return evt, nil
	}
	return catalog.Event{}, catalog.ErrEventNotFound
}

func (s *CatalogStore) GetCourse(_ context.Context, id string) (catalog.Course, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	if course, ok := s.db.courses[id]; ok {
		return course, nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (s *CatalogStore) HasCompletedCourse(_ context.Context, userID, courseID string) (bool, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.db.completions[pair{userID, courseID}], nil
}
