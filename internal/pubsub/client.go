package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Cloud Pub/Sub. An empty projectID yields a client that
// only logs what it would publish.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	if projectID == "" {
		log.Warn("No GCP project configured, events will not be published")
		return noopClient{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client: pubSubC,
		teardown: func() {
			if err := pubSubC.Close(); err != nil {
				log.Error("Failed to close pubsub client", "error", err)
			}
		},
	}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}
	result := c.client.Topic(string(topic)).Publish(ctx, &pubsub.Message{Data: msgpackData})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}
	log.Debug("Published message", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() {
	c.teardown()
}

func (noopClient) SendMessage(_ context.Context, topic EventType, data any) error {
	if _, err := msgpack.Marshal(data); err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}
	log.Debug("Skipping publish, pubsub disabled", "topic", topic)
	return nil
}

func (noopClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (noopClient) Close() {}

// decode unmarshals a MessagePack payload into returnValue, which must be a pointer.
func decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
