package kafka

import (
	"Hearth/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

// 消费参数未配置时的默认值，单位秒
const (
	defaultSessionTimeout    = 30
	defaultHeartbeatInterval = 3
	defaultRebalanceTimeout  = 60
	defaultMaxProcessingTime = 5
)

// newSaramaConfig 三张表的消费组共用一份配置
// 位点在批次处理成功后手动提交，重复投递由去重键兜底
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = "hearth-canal"

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	cc := kafkaCfg.Consumer
	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}
	c.Consumer.Group.Session.Timeout = seconds(cc.SessionTimeout, defaultSessionTimeout)
	c.Consumer.Group.Heartbeat.Interval = seconds(cc.HeartbeatInterval, defaultHeartbeatInterval)
	c.Consumer.Group.Rebalance.Timeout = seconds(cc.RebalanceTimeout, defaultRebalanceTimeout)
	c.Consumer.MaxProcessingTime = seconds(cc.MaxProcessingTime, defaultMaxProcessingTime)

	return c
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
