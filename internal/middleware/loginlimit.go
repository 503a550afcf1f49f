package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/centralake/site-server-go/internal/redis"
)

const (
	loginMaxAttempts    = 5
	loginWindowDuration = time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

// LoginLimiter bounds authentication attempts per source address.
type LoginLimiter interface {
	Allow(ctx context.Context, ip string) bool
}

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// MemoryLoginLimiter is the single-instance fallback when Redis is not
// configured.
type MemoryLoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	lastCleanup time.Time
}

func NewMemoryLoginLimiter() *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		attempts:    make(map[string]*loginAttempt),
		lastCleanup: time.Now(),
	}
}

func (l *MemoryLoginLimiter) cleanup() {
	now := time.Now()
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for ip, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > loginWindowDuration {
			delete(l.attempts, ip)
		}
	}
}

func (l *MemoryLoginLimiter) Allow(ctx context.Context, ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanup()

	now := time.Now()
	attempt, exists := l.attempts[ip]

	if !exists {
		l.attempts[ip] = &loginAttempt{
			count:       1,
			windowStart: now,
		}
		return true
	}

	if now.Sub(attempt.windowStart) > loginWindowDuration {
		attempt.count = 1
		attempt.windowStart = now
		return true
	}

	if attempt.count >= loginMaxAttempts {
		return false
	}

	attempt.count++
	return true
}

// loginLimitScript is a Lua script for sliding window rate limiting
var loginLimitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return 1
`)

// RedisLoginLimiter shares the attempt window across instances.
type RedisLoginLimiter struct {
	client *redis.Client
}

func NewRedisLoginLimiter(client *redis.Client) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, ip string) bool {
	result, err := loginLimitScript.Run(
		ctx,
		l.client,
		[]string{redis.LoginAttemptKey(ip)},
		time.Now().Unix(),
		int64(loginWindowDuration.Seconds()),
		loginMaxAttempts,
	).Int64()

	if err != nil {
		log.Warn().
			Err(err).
			Str("ip", ip).
			Msg("login limit check failed, denying attempt for safety")
		return false
	}

	return result == 1
}

// LoginRateLimit rejects attempts beyond the per-address window.
func LoginRateLimit(limiter LoginLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = forwarded
			}

			if !limiter.Allow(r.Context(), ip) {
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "Too many login attempts. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
