package job

import (
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/logger"
	"Hearth/internal/pkg/redis"
	"Hearth/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// Locker 多实例部署时同一时刻只允许一个实例回算
type Locker interface {
	Lock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, value string)
}

type redisLocker struct{}

func NewRedisLocker() Locker {
	return redisLocker{}
}

func (redisLocker) Lock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return redis.TryLock(ctx, key, value, ttl, 1)
}

func (redisLocker) Unlock(ctx context.Context, key, value string) {
	redis.UnLock(ctx, key, value)
}

// DirtyRecountJob 回算被标记的帖子计数
type DirtyRecountJob struct {
	counterSvc service.CounterService
	locker     Locker
}

func NewDirtyRecountJob(counterSvc service.CounterService, locker Locker) *DirtyRecountJob {
	return &DirtyRecountJob{
		counterSvc: counterSvc,
		locker:     locker,
	}
}

func (s *DirtyRecountJob) Run() {
	ctx, unlock, ok := acquire(s.locker, "job-recount-", consts.RecountLock, 5*time.Minute)
	if !ok {
		return
	}
	defer unlock()

	processed, err := s.counterSvc.RecountDirty(ctx)
	if err != nil {
		log.ErrorContext(ctx, "recount dirty posts error", "processed", processed, "err", err)
		return
	}
	log.InfoContext(ctx, "recount dirty posts success", "post_count", processed)
}

// FullRecountJob 全量回算，兜底所有漏标的帖子
type FullRecountJob struct {
	counterSvc service.CounterService
	locker     Locker
	batch      int
}

func NewFullRecountJob(counterSvc service.CounterService, locker Locker, batch int) *FullRecountJob {
	return &FullRecountJob{
		counterSvc: counterSvc,
		locker:     locker,
		batch:      batch,
	}
}

func (s *FullRecountJob) Run() {
	ctx, unlock, ok := acquire(s.locker, "job-recount-full-", consts.RecountFullLock, time.Hour)
	if !ok {
		return
	}
	defer unlock()

	start := time.Now()
	processed, err := s.counterSvc.RecountAll(ctx, s.batch)
	if err != nil {
		log.ErrorContext(ctx, "full recount error", "processed", processed, "err", err)
		return
	}
	log.InfoContext(ctx, "full recount success", "post_count", processed, "cost", time.Since(start).String())
}

// acquire 生成带 trace id 的 ctx 并抢锁，locker 为空时不加锁
func acquire(locker Locker, tracePrefix, lockKey string, ttl time.Duration) (context.Context, func(), bool) {
	traceID := tracePrefix + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)
	if locker == nil {
		return ctx, func() {}, true
	}

	ok, err := locker.Lock(ctx, lockKey, traceID, ttl)
	if err != nil {
		log.ErrorContext(ctx, "acquire recount lock error", "key", lockKey, "err", err)
		return ctx, nil, false
	}
	if !ok {
		log.InfoContext(ctx, "recount is running on another instance", "key", lockKey)
		return ctx, nil, false
	}
	return ctx, func() { locker.Unlock(ctx, lockKey, traceID) }, true
}
