package repository

import (
	"Hearth/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 允许被计数同步修改的列
var counterColumns = map[string]struct{}{
	"like_count":    {},
	"collect_count": {},
	"share_count":   {},
	"comment_count": {},
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostForUpdate(ctx context.Context, id uint64) (*model.Post, error)
	IncrCounter(ctx context.Context, id uint64, column string, delta int) error
	SetCounters(ctx context.Context, id uint64, counters model.PostCounters) error
	MarkDeleted(ctx context.Context, id uint64) (int64, error)
	CountUserPosts(ctx context.Context, userID uint64) (int64, error)
	CountPostsByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error)
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]*model.Post, int64, error)
	ListPostIDsAfter(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
}

// PostFilter 帖子列表条件，零值字段不参与过滤
type PostFilter struct {
	UserID         uint64
	TagName        string
	CollectedBy    uint64 // 按收藏时间倒序
	ByHeat         bool   // 依次按点赞、收藏、分享数倒序
	IncludeDeleted bool
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return conn(ctx, s.db).Create(post).Error
}

// GetPost 按 ID 读取，包括已删除的帖子，不存在返回 nil
func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := conn(ctx, s.db).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostForUpdate 事务内加行锁读取，删帖与写入关联记录在帖子行上串行
func (s *PostRepoImpl) GetPostForUpdate(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := forUpdate(conn(ctx, s.db)).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// IncrCounter 原子增减计数列，结果不小于 0
func (s *PostRepoImpl) IncrCounter(ctx context.Context, id uint64, column string, delta int) error {
	if _, ok := counterColumns[column]; !ok {
		return fmt.Errorf("unknown counter column: %s", column)
	}
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", column, column), delta, delta)
	return conn(ctx, s.db).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, expr).Error
}

func (s *PostRepoImpl) SetCounters(ctx context.Context, id uint64, counters model.PostCounters) error {
	return conn(ctx, s.db).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"like_count":    counters.LikeCount,
			"collect_count": counters.CollectCount,
			"share_count":   counters.ShareCount,
			"comment_count": counters.CommentCount,
		}).Error
}

// MarkDeleted 同时置删除标记与下架状态
func (s *PostRepoImpl) MarkDeleted(ctx context.Context, id uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "status": model.PostStatusRemoved})
	return result.RowsAffected, result.Error
}

func (s *PostRepoImpl) CountUserPosts(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.Post{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ListPostIDsAfter 按主键游标分批遍历
func (s *PostRepoImpl) ListPostIDsAfter(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := conn(ctx, s.db).Model(&model.Post{}).
		Where("id > ? AND is_deleted = ?", afterID, false).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// CountPostsByUsers 一次查询多个用户的有效帖子数
func (s *PostRepoImpl) CountPostsByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID uint64
		Total  int64
	}
	err := conn(ctx, s.db).Model(&model.Post{}).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ? AND is_deleted = ?", userIDs, false).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}
	return counts, nil
}

func (s *PostRepoImpl) ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]*model.Post, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if !filter.IncludeDeleted {
			db = db.Where("posts.is_deleted = ?", false)
		}
		if filter.UserID != 0 {
			db = db.Where("posts.user_id = ?", filter.UserID)
		}
		if filter.TagName != "" {
			db = db.Where("EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id "+
				"WHERE post_tags.post_id = posts.id AND post_tags.is_deleted = ? AND tags.name = ?)", false, filter.TagName)
		}
		if filter.CollectedBy != 0 {
			db = db.Joins("JOIN user_actions ON user_actions.target_id = posts.id AND user_actions.target_type = ? "+
				"AND user_actions.action_type = ? AND user_actions.user_id = ? AND user_actions.is_deleted = ?",
				model.TargetTypePost, model.ActionCollect, filter.CollectedBy, false)
		}
		return db
	}

	var total int64
	if err := conn(ctx, s.db).Model(&model.Post{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := conn(ctx, s.db).Model(&model.Post{}).Scopes(where).Select("posts.*")
	switch {
	case filter.CollectedBy != 0:
		q = q.Order("user_actions.id DESC")
	case filter.ByHeat:
		q = q.Order("posts.like_count DESC").Order("posts.collect_count DESC").Order("posts.share_count DESC")
	}
	var posts []*model.Post
	err := q.Order("posts.created_at DESC").Order("posts.id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
