package repository

import (
	"Hearth/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFollowRepo interface {
	GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error)
	FilterFollowing(ctx context.Context, followerID uint64, candidates []uint64) (map[uint64]bool, error)
	FilterFollowers(ctx context.Context, followingID uint64, candidates []uint64) (map[uint64]bool, error)
	CountFollowersByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error)
	CountFollowingByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error)
	CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) (int64, error)
	DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (int64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetUserFollowers 获取用户的粉丝列表
func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := conn(ctx, s.db).
		Where("following_id = ?", userID).
		Order("created_at desc").Order("follower_id desc").
		Limit(limit).
		Offset(offset).
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowing 获取用户的关注列表
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := conn(ctx, s.db).
		Where("follower_id = ?", userID).
		Order("created_at desc").Order("following_id desc").
		Limit(limit).
		Offset(offset).
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowerCount 获取用户的粉丝数量
func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := conn(ctx, s.db).
		Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollowingCount 获取用户的关注数量
func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := conn(ctx, s.db).
		Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollow 获取用户的关注关系，加锁读
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error) {
	var userFollow model.UserFollow
	result := forUpdate(conn(ctx, s.db)).
		Where("follower_id = ? AND following_id = ?", userID, followingID).
		First(&userFollow)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &userFollow, nil
}

// FilterFollowing candidates 中被 followerID 关注的用户
func (s *UserFollowRepoImpl) FilterFollowing(ctx context.Context, followerID uint64, candidates []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(candidates))
	if followerID == 0 || len(candidates) == 0 {
		return set, nil
	}
	var ids []uint64
	err := conn(ctx, s.db).Model(&model.UserFollow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// FilterFollowers candidates 中关注了 followingID 的用户
func (s *UserFollowRepoImpl) FilterFollowers(ctx context.Context, followingID uint64, candidates []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(candidates))
	if followingID == 0 || len(candidates) == 0 {
		return set, nil
	}
	var ids []uint64
	err := conn(ctx, s.db).Model(&model.UserFollow{}).
		Where("following_id = ? AND follower_id IN ?", followingID, candidates).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CountFollowersByUsers 一次查询多个用户的粉丝数
func (s *UserFollowRepoImpl) CountFollowersByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, "following_id", userIDs)
}

// CountFollowingByUsers 一次查询多个用户的关注数
func (s *UserFollowRepoImpl) CountFollowingByUsers(ctx context.Context, userIDs []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, "follower_id", userIDs)
}

func (s *UserFollowRepoImpl) countGrouped(ctx context.Context, column string, userIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID uint64
		Total  int64
	}
	err := conn(ctx, s.db).Model(&model.UserFollow{}).
		Select(column+" AS user_id, COUNT(*) AS total").
		Where(column+" IN ?", userIDs).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}
	return counts, nil
}

// CreateUserFollow 创建用户的关注关系
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) (int64, error) {
	result := conn(ctx, s.db).
		Clauses(clause.OnConflict{
			DoNothing: true,
		}).
		Create(userFollow)
	return result.RowsAffected, result.Error
}

// DeleteUserFollow 删除用户的关注关系
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID, followingID uint64) (int64, error) {
	result := conn(ctx, s.db).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.UserFollow{})
	return result.RowsAffected, result.Error
}
