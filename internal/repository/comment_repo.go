package repository

import (
	"Hearth/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	GetParentID(ctx context.Context, id uint64) (*uint64, bool, error)
	CountLiveChildren(ctx context.Context, id uint64) (int64, error)
	MarkPlaceholder(ctx context.Context, id uint64, content string) (int64, error)
	Tombstone(ctx context.Context, id uint64) (int64, error)
	GetRootComments(ctx context.Context, postID uint64, limit, offset int, includeDeleted bool) ([]*model.Comment, error)
	CountRootComments(ctx context.Context, postID uint64, includeDeleted bool) (int64, error)
	GetReplies(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Comment, error)
	CountReplies(ctx context.Context, parentIDs []uint64) (map[uint64]int64, error)
	CountLiveByPost(ctx context.Context, postID uint64) (int64, error)
	GetUserComments(ctx context.Context, userID uint64, limit, offset int) ([]*model.Comment, error)
	CountUserComments(ctx context.Context, userID uint64) (int64, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db: db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return conn(ctx, s.db).Create(comment).Error
}

// GetCommentByID 加锁读取，包括已删除的评论，不存在返回 nil
func (s *CommentRepoImpl) GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := forUpdate(conn(ctx, s.db)).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetParentID 只取父评论 ID，第二个返回值表示评论是否存在
func (s *CommentRepoImpl) GetParentID(ctx context.Context, id uint64) (*uint64, bool, error) {
	var comment model.Comment
	err := conn(ctx, s.db).Select("id", "parent_id").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return comment.ParentID, true, nil
}

// CountLiveChildren 直接子评论中未删除且状态正常的数量
func (s *CommentRepoImpl) CountLiveChildren(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.Comment{}).
		Where("parent_id = ? AND is_deleted = ? AND status = ?", id, false, model.CommentStatusNormal).
		Count(&count).Error
	return count, err
}

// MarkPlaceholder 转为占位评论，删除标记保持不变
func (s *CommentRepoImpl) MarkPlaceholder(ctx context.Context, id uint64, content string) (int64, error) {
	result := conn(ctx, s.db).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ? AND status = ?", id, false, model.CommentStatusNormal).
		Updates(map[string]any{"status": model.CommentStatusPlaceholder, "content": content})
	return result.RowsAffected, result.Error
}

func (s *CommentRepoImpl) Tombstone(ctx context.Context, id uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

// GetRootComments 一级评论，占位评论保留在列表中以承载子回复
func (s *CommentRepoImpl) GetRootComments(ctx context.Context, postID uint64, limit, offset int, includeDeleted bool) ([]*model.Comment, error) {
	var comments []*model.Comment
	q := conn(ctx, s.db).Where("post_id = ? AND parent_id IS NULL", postID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *CommentRepoImpl) CountRootComments(ctx context.Context, postID uint64, includeDeleted bool) (int64, error) {
	var count int64
	q := conn(ctx, s.db).Model(&model.Comment{}).Where("post_id = ? AND parent_id IS NULL", postID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Count(&count).Error
	return count, err
}

// GetReplies 直接子回复，按时间正序
func (s *CommentRepoImpl) GetReplies(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := conn(ctx, s.db).
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// CountReplies 批量统计每个父评论下未删除的直接回复数
func (s *CommentRepoImpl) CountReplies(ctx context.Context, parentIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ParentID uint64
		Total    int64
	}
	err := conn(ctx, s.db).Model(&model.Comment{}).
		Select("parent_id, COUNT(*) AS total").
		Where("parent_id IN ? AND is_deleted = ?", parentIDs, false).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ParentID] = r.Total
	}
	return counts, nil
}

// CountLiveByPost 帖子下状态正常且未删除的评论数，用于计数修复
func (s *CommentRepoImpl) CountLiveByPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.Comment{}).
		Where("post_id = ? AND is_deleted = ? AND status = ?", postID, false, model.CommentStatusNormal).
		Count(&count).Error
	return count, err
}

// userComments 用户仍可见的评论，所在帖子已删除的不算
func (s *CommentRepoImpl) userComments(ctx context.Context, userID uint64) *gorm.DB {
	return conn(ctx, s.db).Model(&model.Comment{}).
		Where("user_id = ? AND is_deleted = ? AND status = ?", userID, false, model.CommentStatusNormal).
		Where("post_id IN (SELECT id FROM posts WHERE is_deleted = ?)", false)
}

// GetUserComments 用户评论历史，按时间倒序
func (s *CommentRepoImpl) GetUserComments(ctx context.Context, userID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.userComments(ctx, userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *CommentRepoImpl) CountUserComments(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.userComments(ctx, userID).Count(&count).Error
	return count, err
}
