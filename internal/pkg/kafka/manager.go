package kafka

import (
	"Hearth/internal/api/config"
	"Hearth/internal/pkg/mongo"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type tableConsumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 canal 表的消费者
type ConsumerManager struct {
	consumers []*tableConsumer
}

func NewConsumerManager(
	cfg *config.Config,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	sysBoxRepo mongo.SysBoxRepo,
	dirty DirtyMarker,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	deduper := NewRedisDeduper()

	specs := []struct {
		name    string
		table   config.KafkaTableConsumer
		handler sarama.ConsumerGroupHandler
	}{
		{actionsTable, cfg.KafkaActions, NewActionsHandler(postRepo, commentRepo, sysBoxRepo, dirty, deduper)},
		{commentsTable, cfg.KafkaComments, NewCommentsHandler(postRepo, commentRepo, sysBoxRepo, dirty, deduper)},
		{followsTable, cfg.KafkaFollows, NewUserFollowsHandler(sysBoxRepo, deduper)},
	}

	m := &ConsumerManager{}
	for _, spec := range specs {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, spec.table.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &tableConsumer{
			name:    spec.name,
			topic:   spec.table.Topic,
			group:   group,
			handler: spec.handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，ctx 取消后关闭消费组并返回
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func(c *tableConsumer) {
			defer wg.Done()
			log.Info("consumer started", "table", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "table", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
		go func(c *tableConsumer) {
			for err := range c.group.Errors() {
				log.Error("consumer group error", "table", c.name, "err", err)
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	wg.Wait()
	return nil
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "table", c.name, "err", err)
		}
	}
}
