package storage

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteSessionStorage struct {
	db *sql.DB
}

func getDBPath() string {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		projectDir, err := os.Getwd()
		if err != nil {
			log.Fatalf("❌ Error getting project directory: %v", err)
		}
		defaultPath := filepath.Join(projectDir, "data", "sessions.db")
		if err := os.MkdirAll(filepath.Dir(defaultPath), os.ModePerm); err != nil {
			log.Fatalf("❌ Error creating data directory: %v", err)
		}
		log.Printf("📂 DB_PATH not set, using default: %s", defaultPath)
		return defaultPath
	}
	return dbPath
}

// NewSQLiteStorage opens (or creates) the session database. An empty path
// falls back to DB_PATH, then to ./data/sessions.db.
func NewSQLiteStorage(path string) *SQLiteSessionStorage {
	if path == "" {
		path = getDBPath()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Fatalf("❌ Error opening SQLite DB at %s: %v", path, err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            key TEXT NOT NULL,
            session_id TEXT NOT NULL,
            stage INTEGER NOT NULL,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (key)
        );
        CREATE TABLE IF NOT EXISTS messages (
            session_key TEXT NOT NULL,
            idx INTEGER NOT NULL,
            role TEXT NOT NULL,
            content TEXT NOT NULL,
            PRIMARY KEY (session_key, idx)
        );
        CREATE INDEX IF NOT EXISTS idx_session_key ON messages (session_key);
    `)
	if err != nil {
		log.Fatalf("❌ Error creating tables: %v", err)
	}

	return &SQLiteSessionStorage{db: db}
}

func (s *SQLiteSessionStorage) SaveSession(ctx context.Context, rec SessionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (key, session_id, stage, updated_at) VALUES (?, ?, ?, datetime(?))
		 ON CONFLICT(key) DO UPDATE SET session_id = excluded.session_id, stage = excluded.stage, updated_at = excluded.updated_at`,
		rec.Key, rec.SessionID, rec.Stage, updatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		log.Printf("⚠️ Error saving session %s: %v", rec.Key, err)
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE session_key = ?`, rec.Key); err != nil {
		return err
	}
	for i, m := range rec.Messages {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO messages (session_key, idx, role, content) VALUES (?, ?, ?, ?)`,
			rec.Key, i, m.Role, m.Content,
		); err != nil {
			log.Printf("⚠️ Error saving message %d of session %s: %v", i, rec.Key, err)
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteSessionStorage) LoadSession(ctx context.Context, key string) (*SessionRecord, error) {
	var rec SessionRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT key, session_id, stage, updated_at FROM sessions WHERE key = ?`, key,
	).Scan(&rec.Key, &rec.SessionID, &rec.Stage, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session_key = ? ORDER BY idx ASC`, key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m MessageRecord
		if err = rows.Scan(&m.Role, &m.Content); err != nil {
			log.Printf("⚠️ Error scanning message row for session %s: %v", key, err)
			continue
		}
		rec.Messages = append(rec.Messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteSessionStorage) DeleteSession(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_key = ?`, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key)
	return err
}

func (s *SQLiteSessionStorage) Close() error {
	return s.db.Close()
}
