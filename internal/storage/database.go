package storage

import (
	"database/sql"
	"fmt"

	"github.com/conorfennell/kanadrill/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordAnswer appends an answer to the history log.
func (db *DB) RecordAnswer(rec domain.AnswerRecord) error {
	_, err := db.conn.Exec(`
		INSERT INTO answers (session_id, item_hash, front, back, answer, correct, answered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.SessionID,
		rec.ItemHash,
		rec.Front,
		rec.Back,
		rec.Answer,
		rec.Correct,
		rec.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record answer for item %s: %w", rec.ItemHash, err)
	}
	return nil
}

// AnswersBySession retrieves the answers of one session in the order given.
func (db *DB) AnswersBySession(sessionID string) ([]domain.AnswerRecord, error) {
	rows, err := db.conn.Query(`
		SELECT session_id, item_hash, front, back, answer, correct, answered_at
		FROM answers WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var records []domain.AnswerRecord
	for rows.Next() {
		var rec domain.AnswerRecord
		if err := rows.Scan(
			&rec.SessionID,
			&rec.ItemHash,
			&rec.Front,
			&rec.Back,
			&rec.Answer,
			&rec.Correct,
			&rec.AnsweredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan answer row for session %s: %w", sessionID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ItemStat summarises the recorded answers for one item.
type ItemStat struct {
	Hash     string
	Front    string
	Back     string
	Attempts int
	Correct  int
}

// Accuracy returns the share of correct answers, or 0 with no attempts.
func (s ItemStat) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// ItemStats returns per-item totals, least accurate first.
func (db *DB) ItemStats() ([]ItemStat, error) {
	rows, err := db.conn.Query(`
		SELECT item_hash, MIN(front), MIN(back), COUNT(*), SUM(correct)
		FROM answers
		GROUP BY item_hash
		ORDER BY CAST(SUM(correct) AS REAL) / COUNT(*) ASC, COUNT(*) DESC, MIN(front) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get item stats: %w", err)
	}
	defer rows.Close()

	var stats []ItemStat
	for rows.Next() {
		var s ItemStat
		if err := rows.Scan(&s.Hash, &s.Front, &s.Back, &s.Attempts, &s.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan item stat row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
