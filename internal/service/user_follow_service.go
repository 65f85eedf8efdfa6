package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/metrics"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

type UserFollowService interface {
	ToggleFollow(ctx context.Context, followerID, followeeID uint64) (bool, error)
	CountFollowers(ctx context.Context, userID uint64) (int64, error)
	CountFollowing(ctx context.Context, userID uint64) (int64, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error)
	ListFollowers(ctx context.Context, ownerID, viewerID uint64, page, pageSize int) (*dto.PageDTO[*dto.FollowUserDTO], error)
	ListFollowing(ctx context.Context, ownerID, viewerID uint64, page, pageSize int) (*dto.PageDTO[*dto.FollowUserDTO], error)
	GetUserStats(ctx context.Context, userID, viewerID uint64) (*dto.UserStatsDTO, error)
}

type UserFollowServiceImpl struct {
	tx             repository.TxManager
	userFollowRepo repository.UserFollowRepo
	userRepo       repository.UserRepo
	postRepo       repository.PostRepo
}

func NewUserFollowService(
	tx repository.TxManager,
	userFollowRepo repository.UserFollowRepo,
	userRepo repository.UserRepo,
	postRepo repository.PostRepo,
) UserFollowService {
	return &UserFollowServiceImpl{
		tx:             tx,
		userFollowRepo: userFollowRepo,
		userRepo:       userRepo,
		postRepo:       postRepo,
	}
}

// ToggleFollow 已关注则取关，否则关注，返回操作后的关注状态
func (s *UserFollowServiceImpl) ToggleFollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, ErrParamInvalid
	}
	if followerID == followeeID {
		return false, ErrUserFollowSelf
	}

	var following bool
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		followee, err := s.userRepo.GetUserById(ctx, followeeID)
		if err != nil {
			return err
		}
		if followee == nil {
			return ErrUserNotFound
		}

		edge, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if edge != nil {
			if _, err = s.userFollowRepo.DeleteUserFollow(ctx, followerID, followeeID); err != nil {
				return err
			}
			following = false
			return nil
		}

		_, err = s.userFollowRepo.CreateUserFollow(ctx, &model.UserFollow{
			FollowerID:  followerID,
			FollowingID: followeeID,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return err
		}
		following = true
		return nil
	})
	metrics.InteractionsTotal.WithLabelValues("follow", metrics.Result(err)).Inc()
	if err != nil {
		return false, err
	}

	log.InfoContext(ctx, "follow toggled", "followerID", followerID, "followeeID", followeeID, "following", following)
	return following, nil
}

func (s *UserFollowServiceImpl) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowerCount(ctx, userID)
}

func (s *UserFollowServiceImpl) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowingCount(ctx, userID)
}

// IsFollowing 自己与自己之间不存在关注关系
func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 || followerID == followeeID {
		return false, nil
	}
	edge, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return edge != nil, nil
}

func (s *UserFollowServiceImpl) ListFollowers(ctx context.Context, ownerID, viewerID uint64, page, pageSize int) (*dto.PageDTO[*dto.FollowUserDTO], error) {
	return s.listCommon(ctx, ownerID, viewerID, page, pageSize, true)
}

func (s *UserFollowServiceImpl) ListFollowing(ctx context.Context, ownerID, viewerID uint64, page, pageSize int) (*dto.PageDTO[*dto.FollowUserDTO], error) {
	return s.listCommon(ctx, ownerID, viewerID, page, pageSize, false)
}

// GetUserStats 各项计数并行实时统计
func (s *UserFollowServiceImpl) GetUserStats(ctx context.Context, userID, viewerID uint64) (*dto.UserStatsDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	stats := &dto.UserStatsDTO{UserID: userID}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.FollowerCount, err = s.userFollowRepo.GetUserFollowerCount(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.FollowingCount, err = s.userFollowRepo.GetUserFollowingCount(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PostCount, err = s.postRepo.CountUserPosts(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.IsFollowing, err = s.IsFollowing(gCtx, viewerID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.IsFollowedBy, err = s.IsFollowing(gCtx, userID, viewerID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// listCommon 关系标记与计数均按 IN 批量查询，不逐条查询
func (s *UserFollowServiceImpl) listCommon(ctx context.Context, ownerID, viewerID uint64, page, pageSize int, isFollowerList bool) (*dto.PageDTO[*dto.FollowUserDTO], error) {
	limit, offset, page := pageArgs(page, pageSize)

	var (
		edges []*model.UserFollow
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if isFollowerList {
			edges, err = s.userFollowRepo.GetUserFollowers(gCtx, ownerID, limit, offset)
		} else {
			edges, err = s.userFollowRepo.GetUserFollowing(gCtx, ownerID, limit, offset)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if isFollowerList {
			total, err = s.userFollowRepo.GetUserFollowerCount(gCtx, ownerID)
		} else {
			total, err = s.userFollowRepo.GetUserFollowingCount(gCtx, ownerID)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &dto.PageDTO[*dto.FollowUserDTO]{
		List:     make([]*dto.FollowUserDTO, 0, len(edges)),
		Total:    total,
		Page:     page,
		PageSize: limit,
	}
	if len(edges) == 0 {
		return result, nil
	}

	ids := make([]uint64, 0, len(edges))
	followedAt := make(map[uint64]time.Time, len(edges))
	for _, e := range edges {
		id := e.FollowingID
		if isFollowerList {
			id = e.FollowerID
		}
		ids = append(ids, id)
		followedAt[id] = e.CreatedAt
	}

	var (
		users                        []*model.User
		ownerFollows, followsOwner   map[uint64]bool
		viewerFollows, followsViewer map[uint64]bool
		followerCounts, followingCounts map[uint64]int64
		postCounts                      map[uint64]int64
	)
	g, gCtx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.GetUserByIds(gCtx, ids)
		return err
	})
	g.Go(func() error {
		if !isFollowerList {
			ownerFollows = allTrue(ids)
			return nil
		}
		var err error
		ownerFollows, err = s.userFollowRepo.FilterFollowing(gCtx, ownerID, ids)
		return err
	})
	g.Go(func() error {
		if isFollowerList {
			followsOwner = allTrue(ids)
			return nil
		}
		var err error
		followsOwner, err = s.userFollowRepo.FilterFollowers(gCtx, ownerID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		followerCounts, err = s.userFollowRepo.CountFollowersByUsers(gCtx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		followingCounts, err = s.userFollowRepo.CountFollowingByUsers(gCtx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		postCounts, err = s.postRepo.CountPostsByUsers(gCtx, ids)
		return err
	})
	if viewerID != 0 {
		g.Go(func() error {
			var err error
			viewerFollows, err = s.userFollowRepo.FilterFollowing(gCtx, viewerID, ids)
			return err
		})
		g.Go(func() error {
			var err error
			followsViewer, err = s.userFollowRepo.FilterFollowers(gCtx, viewerID, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userMap := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	for _, id := range ids {
		user, ok := userMap[id]
		if !ok {
			continue
		}
		item := &dto.FollowUserDTO{}
		if err := copier.Copy(item, user); err != nil {
			return nil, err
		}
		item.UserID = id
		item.IsFollowing = ownerFollows[id]
		item.IsFollowedBy = followsOwner[id]
		item.IsMutual = item.IsFollowing && item.IsFollowedBy
		item.ViewerFollowing = viewerFollows[id] && viewerID != id
		item.ViewerFollowedBy = followsViewer[id] && viewerID != id
		item.IsSelf = viewerID != 0 && viewerID == id
		item.FollowerCount = followerCounts[id]
		item.FollowingCount = followingCounts[id]
		item.PostCount = postCounts[id]
		item.FollowedAt = formatTime(followedAt[id])
		result.List = append(result.List, item)
	}
	return result, nil
}

func allTrue(ids []uint64) map[uint64]bool {
	m := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
