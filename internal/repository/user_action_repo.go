package repository

import (
	"Hearth/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserActionRepo interface {
	GetLiveAction(ctx context.Context, userID, targetID uint64, targetType string, actionType model.ActionType) (*model.UserAction, error)
	CreateAction(ctx context.Context, action *model.UserAction) error
	TombstoneAction(ctx context.Context, id uint64) (int64, error)
	TombstoneByTarget(ctx context.Context, targetID uint64, targetType string) (int64, error)
	GetLiveActionTypes(ctx context.Context, userID, targetID uint64, targetType string) ([]model.ActionType, error)
	CountLiveByTarget(ctx context.Context, targetID uint64, targetType string) (map[model.ActionType]int64, error)
	ListByTarget(ctx context.Context, targetID uint64, targetType string, includeDeleted bool) ([]*model.UserAction, error)
}

type UserActionRepoImpl struct {
	db *gorm.DB
}

func NewUserActionRepo(db *gorm.DB) UserActionRepo {
	return &UserActionRepoImpl{db: db}
}

// GetLiveAction 加锁读取当前有效的动作记录，不存在返回 nil
func (s *UserActionRepoImpl) GetLiveAction(ctx context.Context, userID, targetID uint64, targetType string, actionType model.ActionType) (*model.UserAction, error) {
	var action model.UserAction
	err := forUpdate(conn(ctx, s.db)).
		Where("user_id = ? AND target_id = ? AND target_type = ? AND action_type = ? AND is_deleted = ?",
			userID, targetID, targetType, actionType, false).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

func (s *UserActionRepoImpl) CreateAction(ctx context.Context, action *model.UserAction) error {
	return conn(ctx, s.db).Create(action).Error
}

// TombstoneAction 打墓碑，同时释放唯一索引占位
func (s *UserActionRepoImpl) TombstoneAction(ctx context.Context, id uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.UserAction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "live": nil})
	return result.RowsAffected, result.Error
}

// TombstoneByTarget 目标删除时级联作废所有有效动作
func (s *UserActionRepoImpl) TombstoneByTarget(ctx context.Context, targetID uint64, targetType string) (int64, error) {
	result := conn(ctx, s.db).Model(&model.UserAction{}).
		Where("target_id = ? AND target_type = ? AND is_deleted = ?", targetID, targetType, false).
		Updates(map[string]any{"is_deleted": true, "live": nil})
	return result.RowsAffected, result.Error
}

func (s *UserActionRepoImpl) GetLiveActionTypes(ctx context.Context, userID, targetID uint64, targetType string) ([]model.ActionType, error) {
	var types []model.ActionType
	err := conn(ctx, s.db).Model(&model.UserAction{}).
		Where("user_id = ? AND target_id = ? AND target_type = ? AND is_deleted = ?", userID, targetID, targetType, false).
		Distinct().
		Pluck("action_type", &types).Error
	return types, err
}

// CountLiveByTarget 按动作类型统计有效记录，用于计数修复
func (s *UserActionRepoImpl) CountLiveByTarget(ctx context.Context, targetID uint64, targetType string) (map[model.ActionType]int64, error) {
	var rows []struct {
		ActionType model.ActionType
		Total      int64
	}
	err := conn(ctx, s.db).Model(&model.UserAction{}).
		Select("action_type, COUNT(*) AS total").
		Where("target_id = ? AND target_type = ? AND is_deleted = ?", targetID, targetType, false).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ActionType]int64, len(rows))
	for _, r := range rows {
		counts[r.ActionType] = r.Total
	}
	return counts, nil
}

// ListByTarget includeDeleted 为 true 时连同墓碑记录一起返回
func (s *UserActionRepoImpl) ListByTarget(ctx context.Context, targetID uint64, targetType string, includeDeleted bool) ([]*model.UserAction, error) {
	var actions []*model.UserAction
	q := conn(ctx, s.db).Where("target_id = ? AND target_type = ?", targetID, targetType)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Order("id ASC").Find(&actions).Error
	return actions, err
}
