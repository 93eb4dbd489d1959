package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix    = "backoffice:session:"
	defaultSessionTTL = 8 * time.Hour
)

// Connect opens the Redis client shared by every console session.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return client, nil
}

// RedisStore keeps one console session server-side under its session id. The
// key expires with the token.
type RedisStore struct {
	client redis.Cmdable
	key    string
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable, sessionID string) *RedisStore {
	return &RedisStore{client: client, key: redisKeyPrefix + sessionID, now: time.Now}
}

func (r *RedisStore) Get(ctx context.Context) (Session, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %v", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %v", err)
	}
	return s, nil
}

func (r *RedisStore) Set(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	ttl := defaultSessionTTL
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Clear(ctx)
		}
	}
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %v", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %v", err)
	}
	return nil
}
