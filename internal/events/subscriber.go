package events

import (
	"encoding/json"
	"fmt"
)

// Message is one event received from the bus.
type Message struct {
	// Topic is the concrete subject the event was published on, even when
	// the subscription used a wildcard pattern.
	Topic string
	Data  []byte
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", m.Topic, err)
	}
	return nil
}

// Subscriber receives board events from the event bus.
type Subscriber interface {
	// Subscribe delivers events matching the topic pattern on the returned
	// channel. The cancel function unsubscribes and closes the channel; it
	// is safe to call more than once.
	Subscribe(pattern string) (<-chan Message, func(), error)
	Close() error
}
