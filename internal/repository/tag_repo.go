package repository

import (
	"Hearth/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo interface {
	GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error)
	CreatePostTags(ctx context.Context, postID uint64, tagIDs []uint64) error
	GetTagsByPost(ctx context.Context, postID uint64) ([]*model.Tag, error)
	GetTagNamesByPosts(ctx context.Context, postIDs []uint64) (map[uint64][]string, error)
	ListPostTags(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.PostTag, error)
	TombstonePostTags(ctx context.Context, postID uint64) (int64, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

func (s *tagRepoImpl) GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error) {
	var tags []*model.Tag
	if len(tagNames) == 0 {
		return tags, nil
	}
	db := conn(ctx, s.db)
	// 创建所有标签，使用 OnConflict DoNothing 避免重复创建
	for _, tagName := range tagNames {
		tag := model.Tag{
			Name:      tagName,
			CreatedAt: time.Now(),
		}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error
		if err != nil {
			return nil, err
		}
	}

	err := db.Where("name IN ?", tagNames).Order("id ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreatePostTags 关联帖子与标签，并累加标签帖子数
func (s *tagRepoImpl) CreatePostTags(ctx context.Context, postID uint64, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	db := conn(ctx, s.db)
	links := make([]*model.PostTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, &model.PostTag{PostID: postID, TagID: id})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return err
	}
	return db.Model(&model.Tag{}).
		Where("id IN ?", tagIDs).
		UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
}

func (s *tagRepoImpl) GetTagsByPost(ctx context.Context, postID uint64) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := conn(ctx, s.db).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ? AND post_tags.is_deleted = ?", postID, false).
		Order("tags.id ASC").
		Find(&tags).Error
	return tags, err
}

func (s *tagRepoImpl) ListPostTags(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.PostTag, error) {
	var links []*model.PostTag
	q := conn(ctx, s.db).Where("post_id = ?", postID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Order("tag_id ASC").Find(&links).Error
	return links, err
}

// TombstonePostTags 只打墓碑，不回算标签帖子数
func (s *tagRepoImpl) TombstonePostTags(ctx context.Context, postID uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.PostTag{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

// GetTagNamesByPosts 列表页批量取标签名
func (s *tagRepoImpl) GetTagNamesByPosts(ctx context.Context, postIDs []uint64) (map[uint64][]string, error) {
	names := make(map[uint64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return names, nil
	}
	var rows []struct {
		PostID uint64
		Name   string
	}
	err := conn(ctx, s.db).Table("post_tags").
		Select("post_tags.post_id, tags.name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ? AND post_tags.is_deleted = ?", postIDs, false).
		Order("tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		names[r.PostID] = append(names[r.PostID], r.Name)
	}
	return names, nil
}
