package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// NewGroup builds the consumer group for the stock adjustments topic.
// Offsets start at newest: missed adjustments are reconciled out of band,
// not replayed against a catalog that has moved on.
func NewGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = groupID
	cfg.Version = sarama.V2_6_0_0
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Net.DialTimeout = 5 * time.Second

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("join consumer group %s: %w", groupID, err)
	}
	return group, nil
}
