package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/recipegenie/backend/internal/wizard"
)

// ErrSessionNotFound reports an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

const sessionTTL = 24 * time.Hour

func sessionKey(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

// SessionService persists shell sessions in redis with a sliding TTL.
type SessionService struct {
	redis *redis.Client
}

func NewSessionService(redisClient *redis.Client) *SessionService {
	return &SessionService{redis: redisClient}
}

// Create starts a new session on the landing screen.
func (s *SessionService) Create(ctx context.Context) (*wizard.Session, error) {
	session := wizard.NewSession(uuid.New().String())
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session wizard.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the session back and renews its TTL.
func (s *SessionService) Save(ctx context.Context, session *wizard.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
