package logger

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const defaultSlowMongo = 200 * time.Millisecond

// NewMongoMonitor 记录 sys_box 集合上的失败与慢命令
// 通知正文含用户内容，命令体不写入日志，只记录集合名
func NewMongoMonitor(slow time.Duration) *event.CommandMonitor {
	if slow <= 0 {
		slow = defaultSlowMongo
	}
	var collections sync.Map

	collection := func(requestID int64) string {
		v, ok := collections.LoadAndDelete(requestID)
		if !ok {
			return ""
		}
		return v.(string)
	}

	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if name, ok := evt.Command.Lookup(evt.CommandName).StringValueOK(); ok {
				collections.Store(evt.RequestID, name)
			}
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			coll := collection(evt.RequestID)
			if evt.Duration > slow {
				log.WarnContext(ctx, "mongo slow command", "command", evt.CommandName, "collection", coll, "latency", evt.Duration)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "mongo command error",
				"command", evt.CommandName,
				"collection", collection(evt.RequestID),
				"latency", evt.Duration,
				"err", evt.Failure,
			)
		},
	}
}
