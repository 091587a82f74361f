package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New returns the locker selected by configuration: a RedisLocker when Redis is
// enabled, otherwise a MemoryLocker. The returned close function releases the
// Redis client, if any.
func New(ctx context.Context, redisCfg config.RedisConfig, lockCfg config.LockConfig, logger *zap.Logger) (shared.Locker, func() error, error) {
	if !redisCfg.Enabled {
		logger.Info("Using in-process crop locks")
		return NewMemoryLocker(lockCfg.WaitTimeout), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Addr(), err)
	}

	logger.Info("Using Redis crop locks",
		zap.String("addr", redisCfg.Addr()),
		zap.Duration("ttl", lockCfg.TTL),
		zap.Duration("wait_timeout", lockCfg.WaitTimeout),
	)
	return NewRedisLocker(client, lockCfg.TTL, lockCfg.WaitTimeout, WithLogger(logger.Named("lock"))), client.Close, nil
}
