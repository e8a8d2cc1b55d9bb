package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/dmarkhas/lmchat/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) SaveSession(ctx context.Context, session *models.ChatSession) error {
	payload, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("error encoding session messages: %w", err)
	}

	query := `
		INSERT INTO chat_sessions (session_id, created_at, messages, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id)
		DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, session.SessionID, session.CreatedAt, payload, time.Now()); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	query := `
		SELECT session_id, created_at, messages
		FROM chat_sessions
		WHERE session_id = $1`

	session := &models.ChatSession{}
	var payload []byte

	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&session.SessionID, &session.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}

	if err := json.Unmarshal(payload, &session.Messages); err != nil {
		return nil, fmt.Errorf("error decoding session messages: %w", err)
	}

	return session, nil
}

func (s *PostgresStorage) ListSessions(ctx context.Context) ([]string, error) {
	query := `
		SELECT session_id
		FROM chat_sessions
		ORDER BY created_at DESC, session_id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning session id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *PostgresStorage) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
