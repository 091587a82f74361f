package lock

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/agrotrace/backend/internal/infrastructure/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	lockCfg := config.LockConfig{TTL: time.Second, WaitTimeout: 100 * time.Millisecond}

	t.Run("memory locker when redis disabled", func(t *testing.T) {
		locker, closeFn, err := New(ctx, config.RedisConfig{}, lockCfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &MemoryLocker{}, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("redis locker when enabled", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)

		locker, closeFn, err := New(ctx, config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}, lockCfg, zap.NewNop())
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &RedisLocker{}, locker)

		unlock, err := locker.Lock(ctx, "crop:1")
		require.NoError(t, err)
		unlock()
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, _ := strconv.Atoi(mr.Port())
		mr.Close()

		_, _, err := New(ctx, config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: port}, lockCfg, zap.NewNop())
		assert.Error(t, err)
	})
}
