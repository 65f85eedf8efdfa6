package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisSlow = 100 * time.Millisecond

// RedisHook 记录 Redis 错误与慢命令
// 只记录命令名与首个 key，脏集合批量写入的成员不进日志
type RedisHook struct {
	slow time.Duration
}

func NewRedisHook(slow time.Duration) *RedisHook {
	if slow <= 0 {
		slow = defaultRedisSlow
	}
	return &RedisHook{slow: slow}
}

func (s *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "redis dial error", "addr", addr, "latency", time.Since(start), "err", err)
		}
		return conn, err
	}
}

func (s *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		switch {
		case err != nil && !ignorableRedisErr(cmd, err):
			log.ErrorContext(ctx, "redis command error", "command", cmd.Name(), "key", redisKey(cmd), "latency", elapsed, "err", err)
		case err == nil && elapsed > s.slow:
			log.WarnContext(ctx, "redis slow command", "command", cmd.Name(), "key", redisKey(cmd), "latency", elapsed)
		}
		return err
	}
}

func (s *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err != nil {
			failed := 0
			for _, cmd := range cmds {
				if e := cmd.Err(); e != nil && !ignorableRedisErr(cmd, e) {
					failed++
				}
			}
			if failed > 0 || !errors.Is(err, redis.Nil) {
				log.ErrorContext(ctx, "redis pipeline error", "cmd_count", len(cmds), "failed", failed, "latency", elapsed, "err", err)
			}
		} else if elapsed > s.slow {
			log.WarnContext(ctx, "redis slow pipeline", "cmd_count", len(cmds), "latency", elapsed)
		}
		return err
	}
}

// ignorableRedisErr key 不存在属于正常结果，客户端握手时的 setinfo 报错来自旧版本服务端
func ignorableRedisErr(cmd redis.Cmder, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	return cmd.Name() == "client" && strings.Contains(err.Error(), "setinfo")
}

func redisKey(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	return fmt.Sprint(args[1])
}
