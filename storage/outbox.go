// Package storage persists the notification outbox: one row per email the
// tool layer sent or simulated. Conversations themselves are never stored;
// the outbox only gives operators an audit trail of side effects that
// cannot be undone.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ShayonX/LLM-Playground/internal/mail"
)

// Outbox is a SQLite-backed record of notification deliveries.
type Outbox struct {
	db *sql.DB
}

// OpenOutbox opens (and if needed creates) the outbox database at path.
func OpenOutbox(path string) (*Outbox, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	o := &Outbox{db: db}
	if err := o.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return o, nil
}

func (o *Outbox) createTables() error {
	query := `CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT,
		mode TEXT NOT NULL,
		kind TEXT,
		priority TEXT,
		sent_at DATETIME NOT NULL
	)`

	if _, err := o.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query %s: %w", query, err)
	}
	return nil
}

// Record inserts one outbox entry. Implements mail.Outbox.
func (o *Outbox) Record(rec mail.OutboxRecord) error {
	sentAt := rec.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now().UTC()
	}

	_, err := o.db.Exec(
		`INSERT INTO notifications (id, recipient, subject, body, mode, kind, priority, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Recipient, rec.Subject, rec.Body, rec.Mode, rec.Kind, rec.Priority, sentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// Entry is one stored outbox row.
type Entry struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	Mode      string
	Kind      string
	Priority  string
	SentAt    time.Time
}

// List returns the most recent entries, newest first.
func (o *Outbox) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := o.db.Query(
		`SELECT id, recipient, subject, body, mode, kind, priority, sent_at
		 FROM notifications ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.Mode, &e.Kind, &e.Priority, &e.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (o *Outbox) Count() (int, error) {
	var n int
	if err := o.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (o *Outbox) Close() error {
	return o.db.Close()
}
