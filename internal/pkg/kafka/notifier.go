package kafka

import (
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/mongo"
	"Hearth/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

const notifyDedupTTL = 24 * time.Hour

// Deduper 判断一次通知是否第一次出现，canal 至少投递一次
type Deduper interface {
	FirstSeen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string)
}

// DirtyMarker 标记计数需要回算的帖子
type DirtyMarker interface {
	Mark(ctx context.Context, ids ...uint64) error
}

type redisDeduper struct{}

func NewRedisDeduper() Deduper {
	return redisDeduper{}
}

func (redisDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	return redis.TryLock(ctx, consts.NotifyDedupKey+key, 1, notifyDedupTTL, 1)
}

func (redisDeduper) Forget(ctx context.Context, key string) {
	redis.UnLock(ctx, consts.NotifyDedupKey+key, 1)
}

// notifier 各表 handler 共用的通知写入
type notifier struct {
	sysBoxRepo mongo.SysBoxRepo
	deduper    Deduper
}

// send 自己触发的动作不通知自己
func (n *notifier) send(ctx context.Context, msg *mongo.SysBoxModel) error {
	if msg.ReceiverID == 0 || msg.ReceiverID == msg.SenderID {
		return nil
	}

	key := fmt.Sprintf("%d:%d:%d:%d", msg.Type, msg.SenderID, msg.ReceiverID, msg.TargetID)
	if n.deduper != nil {
		first, err := n.deduper.FirstSeen(ctx, key)
		if err != nil {
			return err
		}
		if !first {
			log.DebugContext(ctx, "duplicate notification skipped", "key", key)
			return nil
		}
	}

	msg.IsRead = false
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if err := n.sysBoxRepo.CreateNotification(ctx, msg); err != nil {
		// 写入失败时释放去重标记，重试才能再次写入
		if n.deduper != nil {
			n.deduper.Forget(ctx, key)
		}
		return err
	}
	return nil
}
