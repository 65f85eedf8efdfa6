package kafka

import (
	"Hearth/internal/pkg/mongo"
	"Hearth/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

const (
	commentsTable     = "comments"
	commentPreviewLen = 50
)

// CommentsHandler 新评论通知帖子作者，回复通知父评论作者
type CommentsHandler struct {
	notifier
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	dirty       DirtyMarker
}

func NewCommentsHandler(
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	sysBoxRepo mongo.SysBoxRepo,
	dirty DirtyMarker,
	deduper Deduper,
) *CommentsHandler {
	return &CommentsHandler{
		notifier:    notifier{sysBoxRepo: sysBoxRepo, deduper: deduper},
		postRepo:    postRepo,
		commentRepo: commentRepo,
		dirty:       dirty,
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comments consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comments consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comments consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comments process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return consumeCanal(ctx, msg, commentsTable, s.handle)
}

func (s *CommentsHandler) handle(ctx context.Context, msg *CanalMessage) error {
	for _, row := range msg.Data {
		postID := StrToUint64(row["post_id"])
		if s.dirty != nil {
			if err := s.dirty.Mark(ctx, postID); err != nil {
				return err
			}
		}
		if msg.Type != INSERT || StrToBool(row["is_deleted"]) {
			continue
		}
		if err := s.notifyComment(ctx, row, postID); err != nil {
			return err
		}
	}
	return nil
}

func (s *CommentsHandler) notifyComment(ctx context.Context, row map[string]interface{}, postID uint64) error {
	commentID := StrToUint64(row["id"])
	notification := &mongo.SysBoxModel{
		SenderID: StrToUint64(row["user_id"]),
		TargetID: postID,
		Content:  preview(StrOf(row["content"])),
		Payload:  map[string]any{"comment_id": commentID},
	}

	if parentID := StrToUint64(row["parent_id"]); parentID != 0 {
		parent, err := s.commentRepo.GetCommentByID(ctx, parentID)
		if err != nil {
			return err
		}
		if parent == nil || parent.IsDeleted {
			return nil
		}
		notification.Type = mongo.SysBoxTypeReply
		notification.ReceiverID = parent.UserID
		notification.Payload["parent_id"] = parentID
		return s.send(ctx, notification)
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || post.IsDeleted {
		return nil
	}
	notification.Type = mongo.SysBoxTypeComment
	notification.ReceiverID = post.UserID
	notification.Payload["post_title"] = post.Title
	return s.send(ctx, notification)
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= commentPreviewLen {
		return content
	}
	return string(runes[:commentPreviewLen]) + "..."
}
