package kafka

import (
	"Hearth/internal/api/config"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaramaConfig_DefaultsWhenUnset(t *testing.T) {
	c := newSaramaConfig(config.KafkaConfig{})
	require.NoError(t, c.Validate())

	assert.False(t, c.Consumer.Offsets.AutoCommit.Enable)
	assert.Equal(t, sarama.OffsetNewest, c.Consumer.Offsets.Initial)
	assert.Equal(t, 30*time.Second, c.Consumer.Group.Session.Timeout)
	assert.Equal(t, 3*time.Second, c.Consumer.Group.Heartbeat.Interval)
	assert.Equal(t, 5*time.Second, c.Consumer.MaxProcessingTime)
	require.Len(t, c.Consumer.Group.Rebalance.GroupStrategies, 1)
	assert.Equal(t, sarama.StickyBalanceStrategyName, c.Consumer.Group.Rebalance.GroupStrategies[0].Name())
}

func TestNewSaramaConfig_UsesConfiguredValues(t *testing.T) {
	c := newSaramaConfig(config.KafkaConfig{
		Sasl:     config.SaslConfig{Enable: true, Username: "canal", Password: "pw"},
		Consumer: config.ConsumerConfig{SessionTimeout: 45, HeartbeatInterval: 5, RebalanceTimeout: 90, MaxProcessingTime: 10},
	})
	require.NoError(t, c.Validate())

	assert.True(t, c.Net.SASL.Enable)
	assert.Equal(t, "canal", c.Net.SASL.User)
	assert.Equal(t, 45*time.Second, c.Consumer.Group.Session.Timeout)
	assert.Equal(t, 90*time.Second, c.Consumer.Group.Rebalance.Timeout)
	assert.Equal(t, 10*time.Second, c.Consumer.MaxProcessingTime)
}
