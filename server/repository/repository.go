package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/ponyo877/tankarena/server/domain"
)

// DriverName is the sqlite3 driver with the regexp function registered.
const DriverName = "sqlite3_with_go_func"

var ErrEmptyPattern = errors.New("empty pattern")

func regex(re, s string) (bool, error) {
	return regexp.MatchString(re, s)
}

func init() {
	sql.Register(DriverName,
		&sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("regexp", regex, true)
			},
		})
}

// Open opens the journal database at path. An empty path keeps the journal in
// memory for the lifetime of the process.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %q: %w", dsn, err)
	}
	// every pooled connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)
	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			participant_id INTEGER NOT NULL,
			detail TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}

// Record stores event under a fresh ULID. A zero CreatedAt is stamped now.
func (r *Repository) Record(event domain.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	id := ulid.MustNew(ulid.Timestamp(event.CreatedAt), ulid.DefaultEntropy())
	query := "INSERT INTO events (id, kind, participant_id, detail, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id.String(), string(event.Kind), int32(event.Participant), event.Detail, event.CreatedAt); err != nil {
		return fmt.Errorf("failed to record %s event for tank %d: %w", event.Kind, event.Participant, err)
	}
	return nil
}

// ListEvents returns at most limit events, newest first.
func (r *Repository) ListEvents(limit int) ([]domain.Event, error) {
	query := "SELECT id, kind, participant_id, detail, created_at FROM events ORDER BY id DESC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return scanEvents(rows)
}

// SearchEvents returns events whose detail matches pattern, newest first.
func (r *Repository) SearchEvents(pattern string, limit int) ([]domain.Event, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	query := "SELECT id, kind, participant_id, detail, created_at FROM events WHERE detail REGEXP ? ORDER BY id DESC LIMIT ?"
	rows, err := r.db.Query(query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search for query '%s': %w", pattern, err)
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	defer rows.Close()

	var id, kind, detail string
	var participantID int32
	var createdAt time.Time
	events := []domain.Event{}
	for rows.Next() {
		if err := rows.Scan(&id, &kind, &participantID, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, domain.Event{
			ID:          id,
			Kind:        domain.EventKind(kind),
			Participant: domain.ParticipantID(participantID),
			Detail:      detail,
			CreatedAt:   createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over events: %w", err)
	}
	return events, nil
}
