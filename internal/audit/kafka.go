package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "certform/pkg/domain"
)

// DefaultTopic is the topic audit events are published to unless overridden.
const DefaultTopic = "certform.audit.events"

// kafkaEvent is the wire shape published to the broker.
type kafkaEvent struct {
	Timestamp     time.Time        `json:"timestamp"`
	ActorID       string           `json:"actor_id"`
	ActorRole     string           `json:"actor_role"`
	ApplicationID id.ApplicationID `json:"application_id"`
	Form          string           `json:"form,omitempty"`
	Action        string           `json:"action"`
	Detail        string           `json:"detail,omitempty"`
}

// KafkaSink publishes audit events to a Kafka topic, keyed by application id
// so one application's trail stays ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

type KafkaSinkOption func(s *KafkaSink)

func WithTopic(topic string) KafkaSinkOption {
	return func(s *KafkaSink) {
		s.topic = topic
	}
}

// NewKafkaSink connects to the given brokers. Close releases the client.
func NewKafkaSink(brokers []string, opts ...KafkaSinkOption) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	sink := &KafkaSink{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(sink)
	}
	return sink, nil
}

// EnsureTopic creates the sink's topic when it does not exist yet.
func (s *KafkaSink) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopic(ctx, partitions, 1, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	return nil
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(kafkaEvent{
		Timestamp:     event.Timestamp,
		ActorID:       event.ActorID,
		ActorRole:     event.ActorRole,
		ApplicationID: event.ApplicationID,
		Form:          event.Form,
		Action:        event.Action,
		Detail:        event.Detail,
	})
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.ApplicationID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
