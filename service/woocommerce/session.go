package woocommerce

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront.GO/config"
	"storefront.GO/core/cache"
)

// SessionTTL bounds how long an operator can sit on a validation result
// before having to re-upload.
const SessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("import session not found")

// ImportSession holds one upload's parsed and validated records between the
// validate call and the run call, while the operator reviews the summary.
type ImportSession struct {
	ID         string            `json:"id"`
	BusinessID uint              `json:"business_id"`
	Products   []*ParsedProduct  `json:"products"`
	Summary    ValidationSummary `json:"summary"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SessionStore persists import sessions in Redis when configured, falling
// back to the in-process cache otherwise (single-instance deployments).
type SessionStore struct {
	redis *redis.Client
	mem   *cache.Cache
}

func NewSessionStore() *SessionStore {
	return &SessionStore{redis: config.RedisClient, mem: cache.GetInstance()}
}

// NewMemorySessionStore returns a store bound to a private in-process cache.
func NewMemorySessionStore() *SessionStore {
	return &SessionStore{mem: cache.NewCache()}
}

// NewSessionID returns a random 128-bit hex token.
func NewSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func sessionKey(id string) string {
	return "wooimport:session:" + id
}

func (s *SessionStore) Save(ctx context.Context, sess *ImportSession) error {
	if sess.ID == "" {
		sess.ID = NewSessionID()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if s.redis != nil {
		return s.redis.Set(ctx, sessionKey(sess.ID), data, SessionTTL).Err()
	}
	s.mem.Set(sessionKey(sess.ID), data, int64(SessionTTL.Seconds()))
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*ImportSession, error) {
	var data []byte
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		if err != nil {
			return nil, err
		}
		data = raw
	} else {
		v, ok := s.mem.Get(sessionKey(id))
		if !ok {
			return nil, ErrSessionNotFound
		}
		data = v.([]byte)
	}
	var sess ImportSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) {
	if s.redis != nil {
		s.redis.Del(ctx, sessionKey(id))
		return
	}
	s.mem.Delete(sessionKey(id))
}
