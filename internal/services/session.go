package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
)

// Flash kinds shown by the layout.
const (
	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// Session is the server-side state behind the session cookie.
type Session struct {
	ID      string              `json:"-"`
	UserID  string              `json:"user_id,omitempty"`
	Flashes map[string][]string `json:"flashes,omitempty"`

	// IsNew is true until the session has been saved once.
	IsNew bool `json:"-"`
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	if s.Flashes == nil {
		s.Flashes = make(map[string][]string)
	}
	s.Flashes[kind] = append(s.Flashes[kind], message)
}

// TakeFlashes returns the queued messages and clears them.
func (s *Session) TakeFlashes() map[string][]string {
	f := s.Flashes
	s.Flashes = nil
	return f
}

type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, id string) error
}

// NewSession creates an unsaved session with a fresh random id.
func NewSession() (*Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	return &Session{
		ID:    base64.URLEncoding.EncodeToString(tokenBytes),
		IsNew: true,
	}, nil
}

// RedisSessionStore keeps sessions as JSON with a sliding 7-day expiry.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	raw, err := s.client.Get(ctx, SessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, SessionKeyPrefix+sess.ID, raw, SessionDuration).Err(); err != nil {
		return err
	}
	sess.IsNew = false
	return nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, SessionKeyPrefix+id).Err()
}
