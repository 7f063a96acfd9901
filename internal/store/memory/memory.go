// Package memory implements store.Store with an in-process map. It backs
// unit tests and local development; Postgres is the production store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventgrove/eventgrove/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	events map[string]store.Event
	users  map[string]store.User
}

func New() *Store {
	return &Store{
		events: make(map[string]store.Event),
		users:  make(map[string]store.User),
	}
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return nil }

func (s *Store) CreateEvent(_ context.Context, e *store.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.AttendeeIDs = []string{}
	e.AttendeeCount = 0

	s.events[e.ID] = cloneEvent(*e)
	return nil
}

func (s *Store) GetEvent(_ context.Context, id string) (store.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return store.Event{}, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	return cloneEvent(e), nil
}

func (s *Store) ListEvents(_ context.Context, f store.EventFilter) ([]store.Event, error) {
	search := strings.ToLower(f.TitleSearch)

	s.mu.RLock()
	events := make([]store.Event, 0, len(s.events))
	for _, e := range s.events {
		if search != "" && !strings.Contains(strings.ToLower(e.Title), search) {
			continue
		}
		if !f.From.IsZero() && e.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.StartTime.After(f.To) {
			continue
		}
		events = append(events, cloneEvent(e))
	}
	s.mu.RUnlock()

	sortEvents(events)
	return events, nil
}

func (s *Store) ListEventsByOwner(_ context.Context, ownerID string) ([]store.Event, error) {
	s.mu.RLock()
	events := make([]store.Event, 0)
	for _, e := range s.events {
		if e.OwnerID == ownerID {
			events = append(events, cloneEvent(e))
		}
	}
	s.mu.RUnlock()

	sortEvents(events)
	return events, nil
}

func (s *Store) UpdateEvent(
	_ context.Context,
	id, callerID string,
	patch store.EventPatch,
) (store.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return store.Event{}, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	if e.OwnerID != callerID {
		return store.Event{}, store.ErrNotOwner
	}

	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.StartTime != nil {
		e.StartTime = *patch.StartTime
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	e.UpdatedAt = time.Now()

	s.events[id] = e
	return cloneEvent(e), nil
}

func (s *Store) DeleteEvent(_ context.Context, id, callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	if e.OwnerID != callerID {
		return store.ErrNotOwner
	}
	delete(s.events, id)
	return nil
}

// JoinEvent performs the membership check and the append under one write
// lock, so two concurrent joins by the same user cannot both pass the check.
func (s *Store) JoinEvent(_ context.Context, id, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return 0, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	for _, a := range e.AttendeeIDs {
		if a == userID {
			return 0, store.ErrAlreadyJoined
		}
	}

	e.AttendeeIDs = append(append([]string(nil), e.AttendeeIDs...), userID)
	e.AttendeeCount = len(e.AttendeeIDs)
	e.UpdatedAt = time.Now()

	s.events[id] = e
	return e.AttendeeCount, nil
}

func (s *Store) CreateUser(_ context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %q: %w", u.Email, store.ErrEmailTaken)
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, fmt.Errorf("email %q: %w", email, store.ErrUserNotFound)
}

func (s *Store) GetUserByID(_ context.Context, id string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return store.User{}, fmt.Errorf("user %q: %w", id, store.ErrUserNotFound)
	}
	return u, nil
}

// Sort by StartTime descending, ties broken by CreatedAt descending.
func sortEvents(events []store.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.After(events[j].StartTime)
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}

// cloneEvent detaches the attendee slice so callers can't alias stored state.
func cloneEvent(e store.Event) store.Event {
	if e.AttendeeIDs != nil {
		e.AttendeeIDs = append([]string(nil), e.AttendeeIDs...)
	}
	return e
}
