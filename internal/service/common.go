package service

import (
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/util"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// DirtyMarker 标记计数需要回算的帖子
type DirtyMarker interface {
	Mark(ctx context.Context, ids ...uint64) error
}

type noopDirtyMarker struct{}

func (noopDirtyMarker) Mark(context.Context, ...uint64) error { return nil }

func orNoop(m DirtyMarker) DirtyMarker {
	if m == nil {
		return noopDirtyMarker{}
	}
	return m
}

// markDirty 事务提交后调用，失败只记录日志，由全量回算兜底
func markDirty(ctx context.Context, m DirtyMarker, postID uint64) {
	if err := m.Mark(ctx, postID); err != nil {
		log.WarnContext(ctx, "mark post dirty failed", "postID", postID, "err", err)
	}
}

// resolveModerator 调用方未声明版主身份时，按用户角色判断
func resolveModerator(ctx context.Context, userRepo repository.UserRepo, actorID uint64, isModerator bool) (bool, error) {
	if isModerator {
		return true, nil
	}
	user, err := userRepo.GetUserById(ctx, actorID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsModerator(), nil
}

// pageArgs 返回 limit、offset 与规整后的页码
func pageArgs(page, pageSize int) (int, int, int) {
	limit, offset := util.Offset(page, pageSize, consts.MaxPageSize)
	if page < 1 {
		page = consts.DefaultPage
	}
	return limit, offset, page
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// copyOption 模型转 DTO 时时间统一格式化为字符串
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return formatTime(src.(time.Time)), nil
			},
		},
	},
}
