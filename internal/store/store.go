package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotOwner      = errors.New("caller is not the event owner")
	ErrAlreadyJoined = errors.New("user already joined the event")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
)

// Event is a postable happening with a time, place, and owner.
// AttendeeCount always equals len(AttendeeIDs); OwnerID never changes
// after creation. JSON tags match the public API wire format.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	PostedByName  string    `json:"name"`
	OwnerID       string    `json:"ownerId"`
	StartTime     time.Time `json:"dateTime"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	AttendeeIDs   []string  `json:"attendees"`
	AttendeeCount int       `json:"attendeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// User is the persisted auth user record. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EventFilter narrows ListEvents results. TitleSearch is a case-insensitive
// substring over Title only. A zero From/To leaves that bound open; the
// window is inclusive on both ends.
type EventFilter struct {
	TitleSearch string
	From        time.Time
	To          time.Time
}

// EventPatch carries a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	StartTime   *time.Time
	Location    *string
	Description *string
}

type EventStore interface {
	// CreateEvent persists a new event, assigning ID and timestamps when
	// unset. The attendee set starts empty with a count of zero.
	CreateEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	// ListEvents returns matching events sorted by StartTime descending,
	// ties broken by CreatedAt descending.
	ListEvents(ctx context.Context, f EventFilter) ([]Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]Event, error)
	// UpdateEvent applies patch to the event iff callerID owns it.
	// Returns ErrEventNotFound or ErrNotOwner otherwise.
	UpdateEvent(ctx context.Context, id, callerID string, patch EventPatch) (Event, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
	// JoinEvent adds userID to the attendee set at most once and returns
	// the updated count. A repeat join fails with ErrAlreadyJoined and
	// must not mutate the event.
	JoinEvent(ctx context.Context, id, userID string) (int, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}

// Store is the full persistence surface the service runs against.
type Store interface {
	EventStore
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
