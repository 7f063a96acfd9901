package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventgrove/eventgrove/internal/store"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the Postgres error code raised by the users email index.
const uniqueViolation = "23505"

const eventColumns = `id, title, posted_by_name, owner_id, start_time, location,
	description, attendee_ids, attendee_count, created_at, updated_at`

// Store is the durable persistence layer backed by Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a connection pool and fails fast if the DB is unreachable.
func New(ctx context.Context, dsn string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateEvent(ctx context.Context, e *store.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO events(id, title, posted_by_name, owner_id, start_time, location, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING attendee_ids, attendee_count, created_at, updated_at
	`, e.ID, e.Title, e.PostedByName, e.OwnerID, e.StartTime, e.Location, e.Description)

	return row.Scan(&e.AttendeeIDs, &e.AttendeeCount, &e.CreatedAt, &e.UpdatedAt)
}

func (s *Store) GetEvent(ctx context.Context, id string) (store.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)

	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Event{}, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	return e, err
}

func (s *Store) ListEvents(ctx context.Context, f store.EventFilter) ([]store.Event, error) {
	var from, to *time.Time
	if !f.From.IsZero() {
		from = &f.From
	}
	if !f.To.IsZero() {
		to = &f.To
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		  AND ($2::timestamptz IS NULL OR start_time >= $2)
		  AND ($3::timestamptz IS NULL OR start_time <= $3)
		ORDER BY start_time DESC, created_at DESC
	`, f.TitleSearch, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) ListEventsByOwner(ctx context.Context, ownerID string) ([]store.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE owner_id = $1
		ORDER BY start_time DESC, created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) UpdateEvent(
	ctx context.Context,
	id, callerID string,
	patch store.EventPatch,
) (store.Event, error) {
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return store.Event{}, err
	}

	// COALESCE keeps stored values for fields the caller did not supply.
	// The owner_id predicate is repeated so a concurrent ownerless state
	// can never slip a write through.
	row := s.pool.QueryRow(ctx, `
		UPDATE events
		SET title       = COALESCE($3, title),
		    start_time  = COALESCE($4, start_time),
		    location    = COALESCE($5, location),
		    description = COALESCE($6, description),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+eventColumns,
		id, callerID, patch.Title, patch.StartTime, patch.Location, patch.Description)

	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Event{}, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	return e, err
}

func (s *Store) DeleteEvent(ctx context.Context, id, callerID string) error {
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM events WHERE id = $1 AND owner_id = $2`, id, callerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	return nil
}

// JoinEvent appends userID to the attendee set as a single conditional
// UPDATE, so the membership check and the append cannot race. Zero affected
// rows are disambiguated afterwards; that read is for the error kind only.
func (s *Store) JoinEvent(ctx context.Context, id, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		UPDATE events
		SET attendee_ids   = array_append(attendee_ids, $2),
		    attendee_count = cardinality(attendee_ids) + 1,
		    updated_at     = now()
		WHERE id = $1 AND NOT ($2 = ANY(attendee_ids))
		RETURNING attendee_count
	`, id, userID).Scan(&count)

	if err == nil {
		return count, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	return 0, store.ErrAlreadyJoined
}

func (s *Store) CreateUser(ctx context.Context, u *store.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users(id, name, email, photo_url, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, u.ID, u.Name, u.Email, u.PhotoURL, u.PasswordHash).Scan(&u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("email %q: %w", u.Email, store.ErrEmailTaken)
	}
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	u, err := s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, name, email, photo_url, password_hash, created_at FROM users WHERE email = $1`,
		email))
	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, fmt.Errorf("email %q: %w", email, store.ErrUserNotFound)
	}
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (store.User, error) {
	u, err := s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, name, email, photo_url, password_hash, created_at FROM users WHERE id = $1`,
		id))
	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, fmt.Errorf("user %q: %w", id, store.ErrUserNotFound)
	}
	return u, err
}

// checkOwner distinguishes NotFound from NotOwner before a gated mutation.
func (s *Store) checkOwner(ctx context.Context, id, callerID string) error {
	var ownerID string
	err := s.pool.QueryRow(ctx,
		`SELECT owner_id FROM events WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("event %q: %w", id, store.ErrEventNotFound)
	}
	if err != nil {
		return err
	}
	if ownerID != callerID {
		return store.ErrNotOwner
	}
	return nil
}

func (s *Store) scanUser(row pgx.Row) (store.User, error) {
	var u store.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func scanEvent(row pgx.Row) (store.Event, error) {
	var e store.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.PostedByName, &e.OwnerID, &e.StartTime,
		&e.Location, &e.Description, &e.AttendeeIDs, &e.AttendeeCount,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanEvents(rows pgx.Rows) ([]store.Event, error) {
	events := make([]store.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
