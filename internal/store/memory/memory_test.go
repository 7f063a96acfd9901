package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eventgrove/eventgrove/internal/store"
)

func newEvent(title, ownerID string, start time.Time) store.Event {
	return store.Event{
		Title:        title,
		PostedByName: "Test Owner",
		OwnerID:      ownerID,
		StartTime:    start,
		Location:     "Park",
		Description:  "description",
	}
}

func TestCreateEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newEvent("Yoga", "owner-1", time.Now().Add(24*time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &e))
	require.NotEmpty(t, e.ID)
	require.Zero(t, e.AttendeeCount)
	require.Empty(t, e.AttendeeIDs)
	require.False(t, e.CreatedAt.IsZero())

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, e.Title, got.Title)
	require.Equal(t, e.OwnerID, got.OwnerID)
}

func TestGetEventNotFound(t *testing.T) {
	s := New()
	_, err := s.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestJoinEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newEvent("Yoga", "owner-1", time.Now().Add(24*time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &e))

	t.Run("first join counts", func(t *testing.T) {
		count, err := s.JoinEvent(ctx, e.ID, "user-1")
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("repeat join rejected without mutation", func(t *testing.T) {
		_, err := s.JoinEvent(ctx, e.ID, "user-1")
		require.ErrorIs(t, err, store.ErrAlreadyJoined)

		got, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.AttendeeCount)
		require.Equal(t, []string{"user-1"}, got.AttendeeIDs)
	})

	t.Run("second user counts", func(t *testing.T) {
		count, err := s.JoinEvent(ctx, e.ID, "user-2")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("owner may join own event", func(t *testing.T) {
		count, err := s.JoinEvent(ctx, e.ID, "owner-1")
		require.NoError(t, err)
		require.Equal(t, 3, count)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := s.JoinEvent(ctx, "missing", "user-1")
		require.ErrorIs(t, err, store.ErrEventNotFound)
	})
}

func TestJoinEventCountMatchesAttendees(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newEvent("Picnic", "owner-1", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &e))

	users := []string{"u1", "u2", "u3", "u4"}
	for i, u := range users {
		count, err := s.JoinEvent(ctx, e.ID, u)
		require.NoError(t, err)
		require.Equal(t, i+1, count)
	}

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, len(got.AttendeeIDs), got.AttendeeCount)
	require.Equal(t, users, got.AttendeeIDs, "insertion order preserved")
}

func TestUpdateEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newEvent("Yoga", "owner-1", time.Now().Add(24*time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &e))
	_, err := s.JoinEvent(ctx, e.ID, "user-1")
	require.NoError(t, err)

	t.Run("non-owner rejected, record intact", func(t *testing.T) {
		title := "Hijacked"
		_, err := s.UpdateEvent(ctx, e.ID, "someone-else", store.EventPatch{Title: &title})
		require.ErrorIs(t, err, store.ErrNotOwner)

		got, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, "Yoga", got.Title)
	})

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		title := "Evening Yoga"
		updated, err := s.UpdateEvent(ctx, e.ID, "owner-1", store.EventPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "Evening Yoga", updated.Title)
		require.Equal(t, "Park", updated.Location)
		require.Equal(t, "owner-1", updated.OwnerID)
		require.Equal(t, 1, updated.AttendeeCount)
		require.True(t, updated.CreatedAt.Equal(e.CreatedAt))
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := s.UpdateEvent(ctx, "missing", "owner-1", store.EventPatch{})
		require.ErrorIs(t, err, store.ErrEventNotFound)
	})
}

func TestDeleteEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newEvent("Yoga", "owner-1", time.Now().Add(24*time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &e))

	t.Run("non-owner rejected, record survives", func(t *testing.T) {
		require.ErrorIs(t, s.DeleteEvent(ctx, e.ID, "user-2"), store.ErrNotOwner)
		_, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
	})

	t.Run("owner deletes permanently", func(t *testing.T) {
		require.NoError(t, s.DeleteEvent(ctx, e.ID, "owner-1"))
		_, err := s.GetEvent(ctx, e.ID)
		require.ErrorIs(t, err, store.ErrEventNotFound)
	})

	t.Run("unknown event", func(t *testing.T) {
		require.ErrorIs(t, s.DeleteEvent(ctx, "missing", "owner-1"), store.ErrEventNotFound)
	})
}

func TestListEventsSearch(t *testing.T) {
	s := New()
	ctx := context.Background()

	picnic := newEvent("Community Picnic Day", "owner-1", time.Now().Add(time.Hour))
	concert := newEvent("Concert Night", "owner-1", time.Now().Add(2*time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &picnic))
	require.NoError(t, s.CreateEvent(ctx, &concert))

	events, err := s.ListEvents(ctx, store.EventFilter{TitleSearch: "Picnic"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Community Picnic Day", events[0].Title)

	// Case-insensitive substring.
	events, err = s.ListEvents(ctx, store.EventFilter{TitleSearch: "picnic"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Search never matches Description or PostedByName.
	events, err = s.ListEvents(ctx, store.EventFilter{TitleSearch: "description"})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestListEventsDateWindow(t *testing.T) {
	s := New()
	ctx := context.Background()

	day := time.Date(2026, time.August, 26, 0, 0, 0, 0, time.Local)
	from := day
	to := day.Add(24*time.Hour - time.Millisecond)

	inside := newEvent("Inside", "o", day.Add(12*time.Hour))
	atStart := newEvent("At start", "o", from)
	atEnd := newEvent("At end", "o", to)
	lateYesterday := newEvent("Late yesterday", "o", day.Add(-time.Millisecond))
	nextMidnight := newEvent("Next midnight", "o", day.Add(24*time.Hour))

	for _, e := range []*store.Event{&inside, &atStart, &atEnd, &lateYesterday, &nextMidnight} {
		require.NoError(t, s.CreateEvent(ctx, e))
	}

	events, err := s.ListEvents(ctx, store.EventFilter{From: from, To: to})
	require.NoError(t, err)

	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	require.ElementsMatch(t, []string{"Inside", "At start", "At end"}, titles)
}

func TestListEventsSorted(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.Local)
	early := newEvent("Early", "o", base)
	late := newEvent("Late", "o", base.Add(48*time.Hour))
	mid := newEvent("Mid", "o", base.Add(24*time.Hour))

	for _, e := range []*store.Event{&early, &late, &mid} {
		require.NoError(t, s.CreateEvent(ctx, e))
	}

	events, err := s.ListEvents(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "Late", events[0].Title)
	require.Equal(t, "Mid", events[1].Title)
	require.Equal(t, "Early", events[2].Title)
}

func TestListEventsByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	mine := newEvent("Mine", "owner-1", time.Now().Add(time.Hour))
	other := newEvent("Other", "owner-2", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateEvent(ctx, &mine))
	require.NoError(t, s.CreateEvent(ctx, &other))

	events, err := s.ListEventsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Mine", events[0].Title)
}

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := store.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, &u))
	require.NotEmpty(t, u.ID)

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := store.User{Name: "Ada Again", Email: "ada@example.com", PasswordHash: "y"}
		require.ErrorIs(t, s.CreateUser(ctx, &dup), store.ErrEmailTaken)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada", byID.Name)
	})

	t.Run("unknown lookups", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

// Mirrors the end-to-end lifecycle: create, join twice, second attendee,
// forbidden delete, owner delete.
func TestEventLifecycleScenario(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := store.Event{
		Title:        "Yoga",
		PostedByName: "Owner",
		OwnerID:      "owner",
		StartTime:    time.Now().Add(24 * time.Hour).Truncate(time.Hour).Add(9 * time.Hour),
		Location:     "Park",
		Description:  "Morning yoga",
	}
	require.NoError(t, s.CreateEvent(ctx, &e))

	count, err := s.JoinEvent(ctx, e.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = s.JoinEvent(ctx, e.ID, "u1")
	require.ErrorIs(t, err, store.ErrAlreadyJoined)
	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AttendeeCount)

	count, err = s.JoinEvent(ctx, e.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.ErrorIs(t, s.DeleteEvent(ctx, e.ID, "u2"), store.ErrNotOwner)

	require.NoError(t, s.DeleteEvent(ctx, e.ID, "owner"))
	_, err = s.GetEvent(ctx, e.ID)
	require.ErrorIs(t, err, store.ErrEventNotFound)
}
