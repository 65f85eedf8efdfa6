package redis

import (
	"context"
	"strconv"
	"strings"
)

// DirtySet 记录计数可能漂移的实体 ID，定时任务取走后逐个回算
type DirtySet struct {
	key string
}

func NewDirtySet(key string) *DirtySet {
	return &DirtySet{key: key}
}

func (s *DirtySet) Mark(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 || Rdb == nil {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, strconv.FormatUint(id, 10))
	}
	return AddToSet(ctx, s.key, members...)
}

// Drain 把集合改名为 processing 后读取，读取期间新的标记写入原 key
// 上次未处理完的 processing 集合会被优先接着处理
func (s *DirtySet) Drain(ctx context.Context) ([]string, func(context.Context) error, error) {
	processingKey := s.key + ":processing"

	exists, err := Exists(ctx, processingKey)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		if err = Rename(ctx, s.key, processingKey); err != nil {
			if strings.Contains(err.Error(), "no such key") {
				return nil, nil, nil
			}
			return nil, nil, err
		}
	}

	members, err := GetSet(ctx, processingKey)
	if err != nil {
		return nil, nil, err
	}
	done := func(ctx context.Context) error {
		return DeleteKey(ctx, processingKey)
	}
	return members, done, nil
}
