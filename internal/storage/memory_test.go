package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/lmchat/internal/models"
)

func sampleSession(id string, createdAt time.Time) *models.ChatSession {
	confidence := 0.95
	return &models.ChatSession{
		SessionID: id,
		CreatedAt: createdAt,
		Messages: []models.ChatMessage{
			{
				Role:             "user",
				Content:          "what is the weather like today",
				Timestamp:        createdAt,
				Intent:           "query",
				IntentConfidence: &confidence,
				Keywords:         []string{"what", "weather", "like", "today"},
				Complexity:       "moderate",
			},
			{
				Role:      "assistant",
				Content:   "I cannot check live weather, but I can explain how forecasts work.",
				Timestamp: createdAt.Add(time.Second),
			},
		},
	}
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	session := sampleSession("abc", time.Now())
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, loaded.SessionID)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, session.Messages[0], loaded.Messages[0])
	assert.Equal(t, "assistant", loaded.Messages[1].Role)
}

func TestMemoryStorageGetUnknownSession(t *testing.T) {
	store := NewMemoryStorage()

	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorageIsolatesStoredSessions(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	session := sampleSession("abc", time.Now())
	require.NoError(t, store.SaveSession(ctx, session))

	// Mutating the caller's copy must not leak into the store.
	session.Messages[0].Content = "mutated"
	session.Messages = append(session.Messages, models.ChatMessage{Role: "user", Content: "extra"})

	loaded, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "what is the weather like today", loaded.Messages[0].Content)
}

func TestMemoryStorageListMostRecentFirst(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.SaveSession(ctx, sampleSession("oldest", base.Add(-2*time.Hour))))
	require.NoError(t, store.SaveSession(ctx, sampleSession("newest", base)))
	require.NoError(t, store.SaveSession(ctx, sampleSession("middle", base.Add(-time.Hour))))

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)
}

func TestMemoryStorageDelete(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, sampleSession("abc", time.Now())))
	require.NoError(t, store.DeleteSession(ctx, "abc"))

	_, err := store.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteSession(ctx, "abc"), ErrNotFound)
}

func TestMemoryStorageSaveOverwrites(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	session := sampleSession("abc", time.Now())
	require.NoError(t, store.SaveSession(ctx, session))

	session.Messages = append(session.Messages, models.ChatMessage{Role: "user", Content: "another turn"})
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 3)
}
