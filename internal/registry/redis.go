package registry

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/config"
)

const cooldownKeyPrefix = "ticketbot:cooldown:"

// NewRedisClient connects to Redis using the provided configuration. A
// failed ping is logged but not fatal; the registry degrades per call.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}
	return client
}

// RedisCooldowns keeps cooldown windows in Redis so restarts of the bot
// process do not hand every recent requester a fresh window. Expiry is
// delegated to Redis key TTLs; the caller-supplied now is unused.
type RedisCooldowns struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCooldowns wraps an existing client.
func NewRedisCooldowns(client *redis.Client, logger *zap.Logger) *RedisCooldowns {
	return &RedisCooldowns{client: client, logger: logger}
}

// CheckAndReserve is atomic via SET NX PX. When the key already exists the
// remaining window is read back with PTTL; a key that expires between the
// two calls counts as a successful reservation on retry.
func (r *RedisCooldowns) CheckAndReserve(userID string, _ time.Time, d time.Duration) (time.Duration, bool) {
	ctx := context.Background()
	key := cooldownKeyPrefix + userID

	for {
		set, err := r.client.SetNX(ctx, key, 1, d).Result()
		if err != nil {
			// Availability over strictness: an unreachable registry
			// must not lock every user out of support.
			r.logger.Warn("cooldown reserve failed, allowing request", zap.Error(err))
			return 0, true
		}
		if set {
			return 0, true
		}

		ttl, err := r.client.PTTL(ctx, key).Result()
		if err != nil {
			r.logger.Warn("cooldown ttl read failed, allowing request", zap.Error(err))
			return 0, true
		}
		if ttl <= 0 {
			// Key expired between SETNX and PTTL; reserve again.
			continue
		}
		return ttl, false
	}
}

func (r *RedisCooldowns) ResetUser(userID string) {
	if err := r.client.Del(context.Background(), cooldownKeyPrefix+userID).Err(); err != nil {
		r.logger.Warn("cooldown reset failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *RedisCooldowns) ResetAll() {
	ctx := context.Background()
	iter := r.client.Scan(ctx, 0, cooldownKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("cooldown reset failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cooldown scan failed", zap.Error(err))
	}
}
