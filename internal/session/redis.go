package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-docwizard/pkg/wizard"
)

const (
	redisKeyPrefix  = "docwizard:session:"
	redisDialTime   = 5 * time.Second
	defaultSessions = 24 * time.Hour
)

// RedisStore persists sessions as JSON values with a TTL. Each Save writes
// the whole session in one SET, so readers never observe a partial update.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and pings it before returning.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("session: redis address is required")
	}
	if ttl <= 0 {
		ttl = defaultSessions
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: redisDialTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTime)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Load returns the user's session, or nil when none exists.
func (s *RedisStore) Load(ctx context.Context, userID int64) (*wizard.Session, error) {
	raw, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	var session wizard.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("session: decode session: %w", err)
	}
	if session.Collected == nil {
		session.Collected = map[string]string{}
	}
	if session.Skipped == nil {
		session.Skipped = map[string]bool{}
	}
	return &session, nil
}

// Save serializes and stores the session, refreshing its TTL.
func (s *RedisStore) Save(ctx context.Context, userID int64, session *wizard.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session: encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Clear removes the session key.
func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func key(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

var _ wizard.Store = (*RedisStore)(nil)
