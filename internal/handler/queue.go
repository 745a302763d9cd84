package handler

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/openshelf/openshelf/pkg/breaker"
)

type Enqueuer interface {
	Enqueue(topic string, v any) error
}

// NewEnqueuer wraps the producer in a circuit breaker so a dead broker
// does not slow every reservation request down.
func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
		cb:       breaker.New(20, 30*time.Second, 0.5, 5),
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	cb       breaker.CircuitBreaker
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return q.cb.Call(func() error {
		msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
		_, _, err := q.producer.SendMessage(msg)
		return err
	})
}

// NewNopEnqueuer is used when no brokers are configured.
func NewNopEnqueuer() Enqueuer {
	return nopEnqueuer{}
}

type nopEnqueuer struct{}

func (nopEnqueuer) Enqueue(string, any) error { return nil }
