package kafka

import (
	"github.com/IBM/sarama"
)

const ReservationTopic = "reservation-events"

type Config struct {
	Brokers []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
}

func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Brokers, defaultCfg)
}
