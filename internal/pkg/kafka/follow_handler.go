package kafka

import (
	"Hearth/internal/pkg/mongo"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

const followsTable = "user_follows"

type UserFollowsHandler struct {
	notifier
}

func NewUserFollowsHandler(sysBoxRepo mongo.SysBoxRepo, deduper Deduper) *UserFollowsHandler {
	return &UserFollowsHandler{
		notifier: notifier{sysBoxRepo: sysBoxRepo, deduper: deduper},
	}
}

func (s *UserFollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer setup")
	return nil
}

func (s *UserFollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer cleanup")
	return nil
}

func (s *UserFollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows consume claim end")
	return nil
}

func (s *UserFollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return consumeCanal(ctx, msg, followsTable, s.handle)
}

// handle 取关是物理删除，只有新增关注需要通知
func (s *UserFollowsHandler) handle(ctx context.Context, msg *CanalMessage) error {
	if msg.Type != INSERT {
		return nil
	}
	for _, row := range msg.Data {
		followerID := StrToUint64(row["follower_id"])
		err := s.send(ctx, &mongo.SysBoxModel{
			ReceiverID: StrToUint64(row["following_id"]),
			SenderID:   followerID,
			Type:       mongo.SysBoxTypeFollow,
			TargetID:   followerID,
			Content:    "关注了你",
		})
		if err != nil {
			return err
		}
	}
	return nil
}
