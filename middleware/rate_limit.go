package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Limiter counts attempts per key inside a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, reset time.Time, err error)
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Message  string
}

// RateLimit rejects a client address once it used up its attempts. Limiter
// errors let the request through.
func RateLimit(l Limiter, cfg RateLimitConfig, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:%s:%s", r.URL.Path, ClientIP(r))
			allowed, remaining, reset, err := l.Allow(r.Context(), key, cfg.Requests, cfg.Window)
			if err != nil {
				log.WithError(err).Warn("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				log.WithFields(logrus.Fields{"key": key, "path": r.URL.Path}).Warn("rate limit exceeded")
				retry := int64(time.Until(reset).Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				sendJSONError(w, http.StatusTooManyRequests, cfg.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the caller address, honouring proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// RedisLimiter shares counters between console instances.
type RedisLimiter struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Scores are unix milliseconds on both sides of the window check.
const rateLimitScript = `
local key = KEYS[1]
local window_start = ARGV[1]
local limit = tonumber(ARGV[2])
local now = ARGV[3]
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. window_start)
local current = redis.call('ZCARD', key)
if current < limit then
	redis.call('ZADD', key, now, now .. ':' .. current)
	redis.call('EXPIRE', key, ttl)
	return {1, limit - current - 1}
end
return {0, 0}
`

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	now := l.now()
	windowStart := now.Truncate(window)
	reset := windowStart.Add(window)

	result, err := l.client.Eval(ctx, rateLimitScript, []string{key},
		windowStart.UnixMilli(), limit, now.UnixMilli(), int(window.Seconds())+1).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
	}
	return allowed == 1, int(remaining), reset, nil
}

// MemoryLimiter is the single-instance Limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	now     func() time.Time
}

type fixedWindow struct {
	start time.Time
	count int
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*fixedWindow), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	now := l.now()
	start := now.Truncate(window)

	l.mu.Lock()
	defer l.mu.Unlock()
	fw, ok := l.windows[key]
	if !ok || !fw.start.Equal(start) {
		fw = &fixedWindow{start: start}
		l.windows[key] = fw
	}
	reset := start.Add(window)
	if fw.count >= limit {
		return false, 0, reset, nil
	}
	fw.count++
	return true, limit - fw.count, reset, nil
}

func sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
