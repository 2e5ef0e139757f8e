package storage

import (
	"context"
	"time"
)

type Interface interface {
	SaveSession(ctx context.Context, rec SessionRecord) error
	LoadSession(ctx context.Context, key string) (*SessionRecord, error)
	DeleteSession(ctx context.Context, key string) error
}

// SessionRecord is the persisted (log, stage) pair. Key is the connector
// level identity (a chat channel, a user), stable across restarts;
// SessionID is the controller's own identity for the session.
type SessionRecord struct {
	Key       string          `json:"key" db:"key"`
	SessionID string          `json:"session_id" db:"session_id"`
	Stage     int             `json:"stage" db:"stage"`
	Messages  []MessageRecord `json:"messages"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type MessageRecord struct {
	Role    string `json:"role" db:"role"`
	Content string `json:"content" db:"content"`
}
