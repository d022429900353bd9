package reward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/kinnikutoken/internal/workout"

	"github.com/segmentio/kafka-go"
)

const EventTypeRewardGranted = "reward.granted"

// Event is published after a reward transfer has been announced.
type Event struct {
	Type        string          `json:"type"`
	Address     string          `json:"address"`
	TokenAmount uint64          `json:"tokenAmount"`
	Calories    float64         `json:"calories"`
	TxHash      string          `json:"txHash"`
	Workouts    []workout.Entry `json:"workouts"`
	Timestamp   time.Time       `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes reward events to a single topic, keyed by address.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Address),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
