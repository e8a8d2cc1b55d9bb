package storage

import (
	"context"
	"errors"

	"github.com/dmarkhas/lmchat/internal/models"
)

// ErrNotFound is returned when the requested session does not exist.
var ErrNotFound = errors.New("session not found")

type Storage interface {
	// SaveSession inserts or replaces the session.
	SaveSession(ctx context.Context, session *models.ChatSession) error
	// GetSession returns ErrNotFound when the id is unknown.
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	// ListSessions returns session ids, most recently created first.
	ListSessions(ctx context.Context) ([]string, error)
	// DeleteSession returns ErrNotFound when the id is unknown.
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}
