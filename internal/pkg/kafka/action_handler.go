package kafka

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/mongo"
	"Hearth/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

const actionsTable = "user_actions"

// ActionsHandler 消费 user_actions 的 binlog，点赞/收藏给作者发通知，并标记帖子待回算
type ActionsHandler struct {
	notifier
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	dirty       DirtyMarker
}

func NewActionsHandler(
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	sysBoxRepo mongo.SysBoxRepo,
	dirty DirtyMarker,
	deduper Deduper,
) *ActionsHandler {
	return &ActionsHandler{
		notifier:    notifier{sysBoxRepo: sysBoxRepo, deduper: deduper},
		postRepo:    postRepo,
		commentRepo: commentRepo,
		dirty:       dirty,
	}
}

func (s *ActionsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user actions consumer setup")
	return nil
}

func (s *ActionsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user actions consumer cleanup")
	return nil
}

func (s *ActionsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-actions consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-actions process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ActionsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return consumeCanal(ctx, msg, actionsTable, s.handle)
}

func (s *ActionsHandler) handle(ctx context.Context, msg *CanalMessage) error {
	for _, row := range msg.Data {
		targetID := StrToUint64(row["target_id"])
		targetType := StrOf(row["target_type"])
		if targetType == "" {
			targetType = model.TargetTypePost
		}

		// 帖子上的任何流水变化都可能影响计数
		if targetType == model.TargetTypePost && s.dirty != nil {
			if err := s.dirty.Mark(ctx, targetID); err != nil {
				return err
			}
		}

		if msg.Type != INSERT || StrToBool(row["is_deleted"]) {
			continue
		}
		actionType := model.ActionType(StrToUint64(row["action_type"]))
		if !actionType.Toggleable() {
			continue
		}
		if err := s.notifyAction(ctx, StrToUint64(row["user_id"]), targetID, targetType, actionType); err != nil {
			return err
		}
	}
	return nil
}

func (s *ActionsHandler) notifyAction(ctx context.Context, senderID, targetID uint64, targetType string, actionType model.ActionType) error {
	notification := &mongo.SysBoxModel{
		SenderID: senderID,
		TargetID: targetID,
		Type:     mongo.SysBoxTypeLike,
		Payload:  map[string]any{"target_type": targetType},
	}
	if actionType == model.ActionCollect {
		notification.Type = mongo.SysBoxTypeCollect
	}

	switch targetType {
	case model.TargetTypePost:
		post, err := s.postRepo.GetPost(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return nil
		}
		notification.ReceiverID = post.UserID
		notification.Payload["post_title"] = post.Title
		if actionType == model.ActionCollect {
			notification.Content = "收藏了你的帖子"
		} else {
			notification.Content = "点赞了你的帖子"
		}
	case model.TargetTypeComment:
		comment, err := s.commentRepo.GetCommentByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment == nil || comment.IsDeleted || comment.IsPlaceholder() {
			return nil
		}
		notification.ReceiverID = comment.UserID
		notification.Payload["post_id"] = comment.PostID
		if actionType == model.ActionCollect {
			notification.Content = "收藏了你的评论"
		} else {
			notification.Content = "点赞了你的评论"
		}
	default:
		return nil
	}

	return s.send(ctx, notification)
}
