package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/dmarkhas/lmchat/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*models.ChatSession),
	}
}

func (s *MemoryStorage) SaveSession(ctx context.Context, session *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.SessionID] = copySession(session)
	return nil
}

func (s *MemoryStorage) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}
	return copySession(session), nil
}

func (s *MemoryStorage) ListSessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*models.ChatSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}

	// Most recently created first; ties broken by id for a stable order.
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].SessionID > sessions[j].SessionID
	})

	ids := make([]string, len(sessions))
	for i, session := range sessions {
		ids[i] = session.SessionID
	}
	return ids, nil
}

func (s *MemoryStorage) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// copySession guards against callers mutating a stored session through a
// shared slice.
func copySession(session *models.ChatSession) *models.ChatSession {
	copied := *session
	copied.Messages = make([]models.ChatMessage, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return &copied
}
