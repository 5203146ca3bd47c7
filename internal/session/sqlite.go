package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS session_turns (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     TEXT NOT NULL,
	user_text      TEXT NOT NULL,
	assistant_text TEXT NOT NULL,
	metadata_json  TEXT,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_turns_session ON session_turns(session_id, id);

CREATE TABLE IF NOT EXISTS decision_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id     TEXT NOT NULL,
	session_id     TEXT,
	disposition    TEXT NOT NULL,
	reason         TEXT,
	integrity      REAL NOT NULL,
	fallback       INTEGER NOT NULL DEFAULT 0,
	chosen_backend TEXT,
	payload_json   TEXT,
	created_at     TEXT NOT NULL
);
`

// #endregion schema

// #region sqlite-store
// SQLiteStore persists history in SQLite, keeping at most limit rows per session.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, limit int) (*SQLiteStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db, limit: limit}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// #endregion sqlite-store

// #region get
// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_text, assistant_text, metadata_json, created_at
		 FROM session_turns WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var meta sql.NullString
		var created string
		if err := rows.Scan(&t.UserText, &t.AssistantText, &meta, &created); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &t.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		t.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// #endregion get

// #region append
// Append inserts the turn and trims the session to the newest limit rows
// in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	var meta any
	if len(turn.Metadata) > 0 {
		b, err := json.Marshal(turn.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_turns (session_id, user_text, assistant_text, metadata_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, turn.UserText, turn.AssistantText, meta, turn.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM session_turns
		 WHERE session_id = ? AND id NOT IN (
			SELECT id FROM session_turns WHERE session_id = ? ORDER BY id DESC LIMIT ?
		 )`,
		sessionID, sessionID, s.limit,
	)
	if err != nil {
		return fmt.Errorf("evict turns: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion append

// #region evict
// Evict implements Store.
func (s *SQLiteStore) Evict(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("evict session %s: %w", sessionID, err)
	}
	return nil
}

// #endregion evict

// #region sessions
// Sessions lists session ids with stored turns, most recently active first.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM session_turns GROUP BY session_id ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion sessions
