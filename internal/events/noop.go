package events

import "context"

// NoopPublisher discards every event. The server falls back to it when no
// NATS URL is configured; the event log and SSE stream still work.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (n *NoopPublisher) Close() error { return nil }
