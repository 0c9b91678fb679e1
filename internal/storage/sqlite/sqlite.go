package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
)

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite storage backend.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, "agendactl.db")
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL CHECK(length(title) > 0),
			start_at        TEXT NOT NULL,
			end_at          TEXT NOT NULL,
			start_ns        INTEGER NOT NULL,
			end_ns          INTEGER NOT NULL,
			organizer_email TEXT NOT NULL,
			organizer_name  TEXT NOT NULL DEFAULT '',
			location_desc   TEXT,
			location_lat    REAL,
			location_lon    REAL,
			notes           TEXT NOT NULL DEFAULT '',
			CHECK(start_ns < end_ns)
		);
		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_ns, id);
		CREATE TABLE IF NOT EXISTS attendees (
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			email    TEXT NOT NULL,
			name     TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (event_id, position)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event and its attendees in one transaction.
func (s *Store) CreateEvent(e event.Event) error {
	if err := storage.Validate(e); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM events WHERE id = ?", e.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("%w: checking event: %v", storage.ErrStorage, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: event %s already exists", storage.ErrConflict, e.ID())
	}

	var desc sql.NullString
	var lat, lon sql.NullFloat64
	if loc, ok := e.Location(); ok {
		desc = sql.NullString{String: loc.Description, Valid: true}
		lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
	}

	org := e.Organizer()
	if _, err := tx.Exec(
		`INSERT INTO events (id, title, start_at, end_at, start_ns, end_ns,
			organizer_email, organizer_name, location_desc, location_lat, location_lon, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID(),
		e.Title(),
		e.Start().Format(time.RFC3339Nano),
		e.End().Format(time.RFC3339Nano),
		e.Start().UnixNano(),
		e.End().UnixNano(),
		org.Email,
		org.Name,
		desc, lat, lon,
		e.Notes(),
	); err != nil {
		return fmt.Errorf("%w: inserting event: %v", storage.ErrStorage, err)
	}

	for i, p := range e.Attendees() {
		if _, err := tx.Exec(
			"INSERT INTO attendees (event_id, position, email, name) VALUES (?, ?, ?, ?)",
			e.ID(), i, p.Email, p.Name,
		); err != nil {
			return fmt.Errorf("%w: inserting attendee: %v", storage.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return nil
}

const selectEvents = `SELECT id, title, start_at, end_at, organizer_email, organizer_name,
	location_desc, location_lat, location_lon, notes FROM events`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (event.Fields, error) {
	var f event.Fields
	var startStr, endStr string
	var desc sql.NullString
	var lat, lon sql.NullFloat64
	if err := row.Scan(&f.ID, &f.Title, &startStr, &endStr,
		&f.Organizer.Email, &f.Organizer.Name, &desc, &lat, &lon, &f.Notes); err != nil {
		return event.Fields{}, err
	}

	var err error
	f.Start, err = time.Parse(time.RFC3339Nano, startStr)
	if err != nil {
		return event.Fields{}, fmt.Errorf("%w: parsing start_at: %v", storage.ErrStorage, err)
	}
	f.End, err = time.Parse(time.RFC3339Nano, endStr)
	if err != nil {
		return event.Fields{}, fmt.Errorf("%w: parsing end_at: %v", storage.ErrStorage, err)
	}
	if desc.Valid {
		f.Location = &event.Location{
			Description: desc.String,
			Latitude:    lat.Float64,
			Longitude:   lon.Float64,
		}
	}
	return f, nil
}

func (s *Store) attendees(id string) ([]event.Person, error) {
	rows, err := s.db.Query(
		"SELECT email, name FROM attendees WHERE event_id = ? ORDER BY position", id,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendees: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	var people []event.Person
	for rows.Next() {
		var p event.Person
		if err := rows.Scan(&p.Email, &p.Name); err != nil {
			return nil, fmt.Errorf("%w: scanning attendee: %v", storage.ErrStorage, err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) build(f event.Fields) (event.Event, error) {
	people, err := s.attendees(f.ID)
	if err != nil {
		return event.Event{}, err
	}
	f.Attendees = people
	e, err := event.New(f)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(id string) (event.Event, error) {
	f, err := scanEvent(s.db.QueryRow(selectEvents+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		if errors.Is(err, storage.ErrStorage) {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("%w: querying event: %v", storage.ErrStorage, err)
	}
	return s.build(f)
}

// ListEvents returns events matching the given options, ordered by start.
func (s *Store) ListEvents(opts storage.ListOptions) ([]event.Event, error) {
	query := selectEvents + " WHERE 1=1"
	var args []interface{}

	if !opts.Start.IsZero() {
		query += " AND start_ns >= ?"
		args = append(args, opts.Start.UnixNano())
	}
	if !opts.End.IsZero() {
		query += " AND start_ns < ?"
		args = append(args, opts.End.UnixNano())
	}

	query += " ORDER BY start_ns ASC, id ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing events: %v", storage.ErrStorage, err)
	}

	var fields []event.Fields
	for rows.Next() {
		f, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: listing events: %v", storage.ErrStorage, err)
	}
	rows.Close()

	// Attendees are loaded after the cursor is closed so a single
	// connection is never asked to serve two result sets at once.
	events := make([]event.Event, 0, len(fields))
	for _, f := range fields {
		e, err := s.build(f)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// DeleteEvent removes an event and its attendees permanently.
func (s *Store) DeleteEvent(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting event: %v", storage.ErrStorage, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking delete result: %v", storage.ErrStorage, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM attendees WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("%w: deleting attendees: %v", storage.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return nil
}
