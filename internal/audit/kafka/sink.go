// Package kafka publishes audit events to a topic so downstream compliance
// systems consume the trail without querying this service.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"kustodia/internal/audit"
)

// Sink produces one record per audit event, keyed by actor address so a
// principal's actions stay ordered within a partition.
type Sink struct {
	client *kgo.Client
	topic  string
}

// NewSink connects to the brokers and ensures the topic exists.
func NewSink(ctx context.Context, brokers []string, topic string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		if !errors.Is(err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("ensure audit topic: %w", err)
		}
	}

	return &Sink{client: client, topic: topic}, nil
}

type payload struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor,omitempty"`
	Creditor  string `json:"creditor,omitempty"`
	Debtor    string `json:"debtor,omitempty"`
	Consumer  string `json:"consumer,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Metadata  string `json:"metadata,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(payload{
		ID:        event.ID.String(),
		Action:    string(event.Action),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Actor:     event.Actor,
		Creditor:  event.Creditor,
		Debtor:    event.Debtor,
		Consumer:  event.Consumer,
		Provider:  event.Provider,
		Decision:  event.Decision,
		Metadata:  event.Metadata,
		RequestID: event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{Topic: s.topic, Key: []byte(event.Actor), Value: value}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}
