package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noopClient is used when no GCP project is configured.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
// The value doubles as the topic name.
type EventType string

const (
	EventRateMatch       EventType = "rate-match"
	EventMatchRated      EventType = "match-rated"
	EventDivisionChanged EventType = "division-changed"
)
