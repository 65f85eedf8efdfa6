package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/metrics"
	"Hearth/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
)

const defaultRecountBatch = 500

// DirtySource 提供待回算的帖子 ID，done 在全部处理成功后调用
type DirtySource interface {
	Drain(ctx context.Context) ([]string, func(context.Context) error, error)
}

type CounterService interface {
	RecountPost(ctx context.Context, postID uint64) (*dto.RecountDTO, error)
	RecountDirty(ctx context.Context) (int, error)
	RecountAll(ctx context.Context, batch int) (int, error)
}

type counterServiceImpl struct {
	tx          repository.TxManager
	postRepo    repository.PostRepo
	actionRepo  repository.UserActionRepo
	commentRepo repository.CommentRepo
	dirty       DirtySource
}

func NewCounterService(
	tx repository.TxManager,
	postRepo repository.PostRepo,
	actionRepo repository.UserActionRepo,
	commentRepo repository.CommentRepo,
	dirty DirtySource,
) CounterService {
	return &counterServiceImpl{
		tx:          tx,
		postRepo:    postRepo,
		actionRepo:  actionRepo,
		commentRepo: commentRepo,
		dirty:       dirty,
	}
}

// RecountPost 按有效流水与有效评论重算帖子计数，已删除的帖子不回算
func (s *counterServiceImpl) RecountPost(ctx context.Context, postID uint64) (*dto.RecountDTO, error) {
	result := &dto.RecountDTO{PostID: postID}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		post, err := s.postRepo.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrPostNotFound
		}

		actions, err := s.actionRepo.CountLiveByTarget(ctx, postID, model.TargetTypePost)
		if err != nil {
			return err
		}
		comments, err := s.commentRepo.CountLiveByPost(ctx, postID)
		if err != nil {
			return err
		}

		fresh := model.PostCounters{
			LikeCount:    int(actions[model.ActionLike]),
			CollectCount: int(actions[model.ActionCollect]),
			ShareCount:   int(actions[model.ActionShare]),
			CommentCount: int(comments),
		}
		result.LikeCount = fresh.LikeCount
		result.CollectCount = fresh.CollectCount
		result.ShareCount = fresh.ShareCount
		result.CommentCount = fresh.CommentCount

		stale := post.Counters()
		if stale == fresh {
			return nil
		}
		result.Changed = true
		recordCorrections(stale, fresh)
		return s.postRepo.SetCounters(ctx, postID, fresh)
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		log.WarnContext(ctx, "post counters corrected", "postID", postID,
			"likeCount", result.LikeCount, "collectCount", result.CollectCount,
			"shareCount", result.ShareCount, "commentCount", result.CommentCount)
	}
	return result, nil
}

// RecountDirty 处理被标记的帖子，任一帖子失败时保留标记等待下次重试
func (s *counterServiceImpl) RecountDirty(ctx context.Context) (int, error) {
	if s.dirty == nil {
		return 0, nil
	}
	metrics.RecountRunsTotal.WithLabelValues("dirty").Inc()

	members, done, err := s.dirty.Drain(ctx)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		if done != nil {
			return 0, done(ctx)
		}
		return 0, nil
	}

	processed := 0
	var failed error
	for _, m := range members {
		postID, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			log.WarnContext(ctx, "invalid dirty post id", "member", m)
			continue
		}
		if _, err = s.RecountPost(ctx, postID); err != nil {
			if errors.Is(err, ErrPostNotFound) {
				continue
			}
			log.ErrorContext(ctx, "recount post error", "postID", postID, "err", err)
			failed = err
			continue
		}
		processed++
	}
	if failed != nil {
		return processed, failed
	}
	return processed, done(ctx)
}

// RecountAll 按主键分批遍历全部有效帖子
func (s *counterServiceImpl) RecountAll(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = defaultRecountBatch
	}
	metrics.RecountRunsTotal.WithLabelValues("full").Inc()

	var lastID uint64
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		ids, err := s.postRepo.ListPostIDsAfter(ctx, lastID, batch)
		if err != nil {
			return processed, err
		}
		if len(ids) == 0 {
			return processed, nil
		}
		for _, id := range ids {
			if _, err = s.RecountPost(ctx, id); err != nil && !errors.Is(err, ErrPostNotFound) {
				return processed, err
			}
			processed++
		}
		lastID = ids[len(ids)-1]
	}
}

func recordCorrections(stale, fresh model.PostCounters) {
	if stale.LikeCount != fresh.LikeCount {
		metrics.RecountCorrectionsTotal.WithLabelValues("like_count").Inc()
	}
	if stale.CollectCount != fresh.CollectCount {
		metrics.RecountCorrectionsTotal.WithLabelValues("collect_count").Inc()
	}
	if stale.ShareCount != fresh.ShareCount {
		metrics.RecountCorrectionsTotal.WithLabelValues("share_count").Inc()
	}
	if stale.CommentCount != fresh.CommentCount {
		metrics.RecountCorrectionsTotal.WithLabelValues("comment_count").Inc()
	}
}
