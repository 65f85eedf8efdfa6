package service

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/metrics"
	"Hearth/internal/pkg/util"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

type UserActionService interface {
	ToggleAction(ctx context.Context, actorID, targetID uint64, targetType string, verb model.ActionType) (bool, error)
	Share(ctx context.Context, actorID, postID uint64) error
	Report(ctx context.Context, actorID, targetID uint64, targetType, reason string) error
	GetActionState(ctx context.Context, actorID, targetID uint64, targetType string) (liked bool, collected bool, err error)
}

type userActionServiceImpl struct {
	tx          repository.TxManager
	actionRepo  repository.UserActionRepo
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	dirty       DirtyMarker
}

func NewUserActionService(
	tx repository.TxManager,
	actionRepo repository.UserActionRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	dirty DirtyMarker,
) UserActionService {
	return &userActionServiceImpl{
		tx:          tx,
		actionRepo:  actionRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		dirty:       orNoop(dirty),
	}
}

// 动作类型对应的帖子计数列
var counterColumnOf = map[model.ActionType]string{
	model.ActionLike:    "like_count",
	model.ActionCollect: "collect_count",
	model.ActionShare:   "share_count",
}

// ToggleAction 切换点赞/收藏，返回切换后是否处于激活状态
// 流水与帖子计数在同一事务内提交
func (s *userActionServiceImpl) ToggleAction(ctx context.Context, actorID, targetID uint64, targetType string, verb model.ActionType) (bool, error) {
	if actorID == 0 || targetID == 0 {
		return false, ErrParamInvalid
	}
	if !verb.Toggleable() {
		return false, ErrInvalidVerb
	}
	targetType, err := normalizeTargetType(targetType)
	if err != nil {
		return false, err
	}

	var active bool
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.checkTarget(ctx, targetID, targetType); err != nil {
			return err
		}

		existing, err := s.actionRepo.GetLiveAction(ctx, actorID, targetID, targetType, verb)
		if err != nil {
			return err
		}

		if existing != nil {
			if _, err = s.actionRepo.TombstoneAction(ctx, existing.ID); err != nil {
				return err
			}
			active = false
			return s.syncCounter(ctx, targetID, targetType, verb, -1)
		}

		action := &model.UserAction{
			UserID:     actorID,
			TargetID:   targetID,
			TargetType: targetType,
			ActionType: verb,
			Live:       model.LiveMark(),
			CreatedAt:  time.Now(),
		}
		if err = s.actionRepo.CreateAction(ctx, action); err != nil {
			if repository.IsDuplicateError(err) {
				return ErrActionDuplicate
			}
			return err
		}
		active = true
		return s.syncCounter(ctx, targetID, targetType, verb, 1)
	})
	metrics.InteractionsTotal.WithLabelValues(verb.String(), metrics.Result(err)).Inc()
	if err != nil {
		return false, err
	}

	if targetType == model.TargetTypePost {
		markDirty(ctx, s.dirty, targetID)
	}
	log.InfoContext(ctx, "action toggled", "userID", actorID, "targetID", targetID, "targetType", targetType, "verb", verb.String(), "active", active)
	return active, nil
}

// Share 分享只追加流水并累加分享数
func (s *userActionServiceImpl) Share(ctx context.Context, actorID, postID uint64) error {
	if actorID == 0 || postID == 0 {
		return ErrParamInvalid
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.checkTarget(ctx, postID, model.TargetTypePost); err != nil {
			return err
		}
		action := &model.UserAction{
			UserID:     actorID,
			TargetID:   postID,
			TargetType: model.TargetTypePost,
			ActionType: model.ActionShare,
			CreatedAt:  time.Now(),
		}
		if err := s.actionRepo.CreateAction(ctx, action); err != nil {
			return err
		}
		return s.syncCounter(ctx, postID, model.TargetTypePost, model.ActionShare, 1)
	})
	metrics.InteractionsTotal.WithLabelValues(model.ActionShare.String(), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	markDirty(ctx, s.dirty, postID)
	return nil
}

// Report 每次举报都追加一条记录，不影响计数
func (s *userActionServiceImpl) Report(ctx context.Context, actorID, targetID uint64, targetType, reason string) error {
	if actorID == 0 || targetID == 0 {
		return ErrParamInvalid
	}
	targetType, err := normalizeTargetType(targetType)
	if err != nil {
		return err
	}
	reason = util.SanitizeText(reason)
	if reason == "" {
		return ErrEmptyContent
	}

	extra, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.checkTarget(ctx, targetID, targetType); err != nil {
			return err
		}
		return s.actionRepo.CreateAction(ctx, &model.UserAction{
			UserID:     actorID,
			TargetID:   targetID,
			TargetType: targetType,
			ActionType: model.ActionReport,
			ExtraData:  string(extra),
			CreatedAt:  time.Now(),
		})
	})
	metrics.InteractionsTotal.WithLabelValues(model.ActionReport.String(), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "content reported", "userID", actorID, "targetID", targetID, "targetType", targetType)
	return nil
}

// GetActionState 匿名访问者视为未交互
func (s *userActionServiceImpl) GetActionState(ctx context.Context, actorID, targetID uint64, targetType string) (bool, bool, error) {
	if actorID == 0 {
		return false, false, nil
	}
	targetType, err := normalizeTargetType(targetType)
	if err != nil {
		return false, false, err
	}
	types, err := s.actionRepo.GetLiveActionTypes(ctx, actorID, targetID, targetType)
	if err != nil {
		return false, false, err
	}
	var liked, collected bool
	for _, t := range types {
		switch t {
		case model.ActionLike:
			liked = true
		case model.ActionCollect:
			collected = true
		}
	}
	return liked, collected, nil
}

// checkTarget 目标不存在、已删除或为占位评论时返回 NotFound
// 所属帖子加行锁，与删帖互斥
func (s *userActionServiceImpl) checkTarget(ctx context.Context, targetID uint64, targetType string) error {
	switch targetType {
	case model.TargetTypePost:
		post, err := s.postRepo.GetPostForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrPostNotFound
		}
	case model.TargetTypeComment:
		comment, err := s.commentRepo.GetCommentByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment == nil || comment.IsDeleted || comment.IsPlaceholder() {
			return ErrCommentNotFound
		}
		post, err := s.postRepo.GetPostForUpdate(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrCommentNotFound
		}
	default:
		return ErrTargetNotFound
	}
	return nil
}

// syncCounter 评论没有冗余计数列，只有帖子需要同步
func (s *userActionServiceImpl) syncCounter(ctx context.Context, targetID uint64, targetType string, verb model.ActionType, delta int) error {
	if targetType != model.TargetTypePost {
		return nil
	}
	column, ok := counterColumnOf[verb]
	if !ok {
		return nil
	}
	return s.postRepo.IncrCounter(ctx, targetID, column, delta)
}

func normalizeTargetType(targetType string) (string, error) {
	switch targetType {
	case "", model.TargetTypePost:
		return model.TargetTypePost, nil
	case model.TargetTypeComment:
		return model.TargetTypeComment, nil
	default:
		return "", ErrParamInvalid
	}
}
