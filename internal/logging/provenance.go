package logging

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the decision_log table.
func LogDecision(ctx context.Context, db *sql.DB, entry DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	fallback := 0
	if entry.Fallback {
		fallback = 1
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO decision_log (request_id, session_id, disposition, reason, integrity, fallback, chosen_backend, payload_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		nullIfEmpty(entry.SessionID),
		entry.Disposition,
		nullIfEmpty(entry.Reason),
		entry.Integrity,
		fallback,
		nullIfEmpty(entry.ChosenBackend),
		nullIfEmpty(entry.PayloadJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region decision-log
// DecisionLog records pipeline decisions into a database that already
// carries the decision_log table (see session.NewSQLiteStore).
type DecisionLog struct {
	db *sql.DB
}

// NewDecisionLog wraps db.
func NewDecisionLog(db *sql.DB) *DecisionLog {
	return &DecisionLog{db: db}
}

// Record writes one entry.
func (l *DecisionLog) Record(ctx context.Context, entry DecisionEntry) error {
	return LogDecision(ctx, l.db, entry)
}

// Recent returns up to limit entries for a session, newest first.
func (l *DecisionLog) Recent(ctx context.Context, sessionID string, limit int) ([]DecisionEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT request_id, session_id, disposition, reason, integrity, fallback, chosen_backend, payload_json, created_at
		 FROM decision_log WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var session, reason, backend, payload sql.NullString
		var fallback int
		var created string
		if err := rows.Scan(&e.RequestID, &session, &e.Disposition, &reason, &e.Integrity,
			&fallback, &backend, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.SessionID = session.String
		e.Reason = reason.String
		e.ChosenBackend = backend.String
		e.PayloadJSON = payload.String
		e.Fallback = fallback != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion decision-log

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
