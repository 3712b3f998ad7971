package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NewRedisClient connects and pings. An empty Addr disables Redis and
// returns a nil client.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("Redis connected", "addr", cfg.Addr, "ping", res)
	return rdb, nil
}

// GetJSON decodes key into target. found is false on a miss.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, target interface{}) (found bool, err error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

func Delete(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}

const statsKey = "parlour:attendance:stats"

// AttendanceStatsCache keeps the last computed attendance stats for ttl.
type AttendanceStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAttendanceStatsCache(rdb *redis.Client, ttl time.Duration) *AttendanceStatsCache {
	return &AttendanceStatsCache{rdb: rdb, ttl: ttl}
}

func (c *AttendanceStatsCache) Get(ctx context.Context) (attendance.Stats, bool, error) {
	var stats attendance.Stats
	found, err := GetJSON(ctx, c.rdb, statsKey, &stats)
	return stats, found, err
}

func (c *AttendanceStatsCache) Set(ctx context.Context, stats attendance.Stats) error {
	return SetJSON(ctx, c.rdb, statsKey, stats, c.ttl)
}

func (c *AttendanceStatsCache) Invalidate(ctx context.Context) error {
	return Delete(ctx, c.rdb, statsKey)
}

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker is a single-instance Redis lock (SET NX PX) used to keep a
// scheduled job from running on two replicas at once.
type Locker struct {
	rdb    *redis.Client
	prefix string
}

func NewLocker(rdb *redis.Client, prefix string) *Locker {
	return &Locker{rdb: rdb, prefix: prefix}
}

// TryLock acquires name for ttl. ok is false when another holder has it.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err = l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return func() {}, false, err
	}

	release = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			slog.Warn("failed to release job lock", "key", key, "error", err)
		}
	}
	return release, true, nil
}
