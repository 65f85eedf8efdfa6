package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// SlogGormLogger 把 gorm 日志转到 slog
// 普通 SQL 只在 Debug 级别输出；唯一键冲突是切换接口的正常并发结果，按 Warn 记录
type SlogGormLogger struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger(slow time.Duration) *SlogGormLogger {
	if slow <= 0 {
		slow = defaultSlowSQL
	}
	return &SlogGormLogger{LogLevel: gormlogger.Info, SlowThreshold: slow}
}

func (l *SlogGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	l.LogLevel = level
	return l
}

func (l *SlogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		log.InfoContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		log.WarnContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		log.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	op, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	fields := []any{"op", strings.ToUpper(op), "sql", sql, "rows", rows, "latency", elapsed}

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		log.DebugContext(ctx, "sql no rows", fields...)
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		log.WarnContext(ctx, "sql duplicate key", fields...)
	case err != nil:
		log.ErrorContext(ctx, "sql error", append(fields, "err", err)...)
	case elapsed > l.SlowThreshold:
		log.WarnContext(ctx, "sql slow", fields...)
	default:
		log.DebugContext(ctx, "sql", fields...)
	}
}
