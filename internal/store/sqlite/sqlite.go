package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jobdeck/presence-server/internal/store"
)

// schema creates the tables this service touches. The users table is the
// platform's directory; it is created here only so a standalone instance
// can run, the service itself never writes to it.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	avatar_ref   TEXT NOT NULL DEFAULT '',
	job_category TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	room_key      TEXT NOT NULL,
	sender_id     TEXT NOT NULL,
	sender_name   TEXT NOT NULL,
	sender_avatar TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_room ON messages (room_key, id);
CREATE INDEX IF NOT EXISTS idx_users_job_category ON users (job_category);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema and seed rows on one connection.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ResolveUser retrieves a directory entry by user id.
func (s *SQLiteStore) ResolveUser(ctx context.Context, id string) (*store.User, error) {
	query := `
		SELECT id, display_name, avatar_ref, job_category, created_at
		FROM users
		WHERE id = ?
	`
	var u store.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.DisplayName,
		&u.AvatarRef,
		&u.JobCategory,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// UsersByJobCategory lists every user in a job category.
func (s *SQLiteStore) UsersByJobCategory(ctx context.Context, category string) ([]*store.User, error) {
	query := `
		SELECT id, display_name, avatar_ref, job_category, created_at
		FROM users
		WHERE job_category = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("query users by job category: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.AvatarRef, &u.JobCategory, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// AppendMessage persists a message and returns the stored row with its
// assigned id and server timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.Message) (*store.Message, error) {
	query := `
		INSERT INTO messages (room_key, sender_id, sender_name, sender_avatar, body)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		msg.RoomKey, msg.SenderID, msg.SenderName, msg.SenderAvatar, msg.Body)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return s.getMessage(ctx, id)
}

func (s *SQLiteStore) getMessage(ctx context.Context, id int64) (*store.Message, error) {
	query := `
		SELECT id, room_key, sender_id, sender_name, sender_avatar, body, created_at
		FROM messages
		WHERE id = ?
	`
	var m store.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.RoomKey, &m.SenderID, &m.SenderName, &m.SenderAvatar, &m.Body, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query message: %w", err)
	}
	return &m, nil
}

// RoomHistory returns the most recent limit messages in a room, re-sorted
// oldest first so a joining client can replay them in order.
func (s *SQLiteStore) RoomHistory(ctx context.Context, roomKey string, limit int) ([]*store.Message, error) {
	query := `
		SELECT id, room_key, sender_id, sender_name, sender_avatar, body, created_at
		FROM (
			SELECT id, room_key, sender_id, sender_name, sender_avatar, body, created_at
			FROM messages
			WHERE room_key = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, roomKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query room history: %w", err)
	}
	defer rows.Close()

	var msgs []*store.Message
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.RoomKey, &m.SenderID, &m.SenderName, &m.SenderAvatar, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
