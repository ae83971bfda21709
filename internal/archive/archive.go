package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/openclaw/clawchat/internal/db"
	"github.com/openclaw/clawchat/pkg/models"
)

// Archive is a local DuckDB copy of reconciled transcripts. The TUI
// appends to it best-effort after every reconciliation; the show and
// search commands read from it, which also works while the gateway is
// down. It is a cache of server-side truth, never the other way around:
// recording a session replaces its rows wholesale with the reconciled
// history.
type Archive struct {
	database *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	session_id VARCHAR NOT NULL,
	title      VARCHAR,
	seq        INTEGER NOT NULL,
	role       VARCHAR NOT NULL,
	content    VARCHAR NOT NULL,
	created_at VARCHAR,
	archived_at TIMESTAMP NOT NULL
)`

// Open opens (and if needed initializes) the archive at path. An empty
// path opens an in-memory archive.
func Open(path string) (*Archive, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	return &Archive{database: database}, nil
}

func (a *Archive) Close() error {
	return a.database.Close()
}

// Record replaces the archived transcript for a session with the given
// reconciled history.
func (a *Archive) Record(sessionID, title string, msgs []models.Message) error {
	tx, err := a.database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transcripts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear old transcript: %w", err)
	}

	now := time.Now().UTC()
	for i, m := range msgs {
		_, err := tx.Exec(
			`INSERT INTO transcripts (session_id, title, seq, role, content, created_at, archived_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, title, i, string(m.Role), m.Content, m.CreatedAt, now,
		)
		if err != nil {
			return fmt.Errorf("failed to archive message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// Forget drops a deleted session's transcript.
func (a *Archive) Forget(sessionID string) error {
	if _, err := a.database.Exec(`DELETE FROM transcripts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to drop transcript: %w", err)
	}
	return nil
}

// Transcript returns the archived messages for a session in order.
func (a *Archive) Transcript(sessionID string) ([]models.Message, error) {
	rows, err := a.database.Query(
		`SELECT role, content, created_at FROM transcripts
		 WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		var role string
		var createdAt sql.NullString
		if err := rows.Scan(&role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		m.Role = models.Role(role)
		m.CreatedAt = createdAt.String
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Sessions lists archived sessions, most recently archived first.
func (a *Archive) Sessions() ([]models.Session, error) {
	rows, err := a.database.Query(
		`SELECT session_id, COALESCE(MAX(title), ''), MAX(archived_at)
		 FROM transcripts GROUP BY session_id
		 ORDER BY MAX(archived_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		var archivedAt time.Time
		if err := rows.Scan(&s.SessionID, &s.Title, &archivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		s.UpdatedAt = archivedAt.Format(time.RFC3339)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SearchHit is one matching message with its session context.
type SearchHit struct {
	SessionID string
	Title     string
	Role      models.Role
	Content   string
}

// Search finds archived messages containing the query, case-insensitive,
// newest sessions first.
func (a *Archive) Search(query string) ([]SearchHit, error) {
	rows, err := a.database.Query(
		`SELECT session_id, COALESCE(title, ''), role, content FROM transcripts
		 WHERE content ILIKE '%' || ? || '%'
		 ORDER BY archived_at DESC, seq
		 LIMIT 100`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search archive: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		var role string
		if err := rows.Scan(&h.SessionID, &h.Title, &role, &h.Content); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		h.Role = models.Role(role)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
