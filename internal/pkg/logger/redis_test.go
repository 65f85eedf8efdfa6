package logger

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(log.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { log.SetDefault(prev) })
	return &buf
}

func TestRedisHook_LogsErrorsButNotMisses(t *testing.T) {
	buf := captureDefault(t)
	hook := NewRedisHook(time.Second)
	ctx := context.Background()

	miss := hook.ProcessHook(func(context.Context, redis.Cmder) error { return redis.Nil })
	assert.ErrorIs(t, miss(ctx, redis.NewStringCmd(ctx, "get", "hearth:lock:recount")), redis.Nil)
	assert.Empty(t, buf.String())

	boom := hook.ProcessHook(func(context.Context, redis.Cmder) error { return errors.New("READONLY") })
	_ = boom(ctx, redis.NewIntCmd(ctx, "sadd", "hearth:dirty_posts", 1, 2, 3))
	assert.Contains(t, buf.String(), "redis command error")
	assert.Contains(t, buf.String(), `"key":"hearth:dirty_posts"`)
	// 集合成员不写入日志
	assert.NotContains(t, buf.String(), "1 2 3")
}

func TestRedisHook_SlowCommandAndProtectedArgs(t *testing.T) {
	buf := captureDefault(t)
	hook := NewRedisHook(time.Millisecond)
	ctx := context.Background()

	slow := hook.ProcessHook(func(context.Context, redis.Cmder) error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	_ = slow(ctx, redis.NewStatusCmd(ctx, "auth", "secret"))
	assert.Contains(t, buf.String(), "redis slow command")
	assert.Contains(t, buf.String(), "[PROTECTED]")
	assert.NotContains(t, buf.String(), "secret")
}

func TestRedisHook_PipelineOnlyMissesIsQuiet(t *testing.T) {
	buf := captureDefault(t)
	hook := NewRedisHook(time.Second)
	ctx := context.Background()

	cmd := redis.NewStringCmd(ctx, "get", "hearth:missing")
	cmd.SetErr(redis.Nil)
	pipe := hook.ProcessPipelineHook(func(context.Context, []redis.Cmder) error { return redis.Nil })
	assert.ErrorIs(t, pipe(ctx, []redis.Cmder{cmd}), redis.Nil)
	assert.Empty(t, buf.String())
}
