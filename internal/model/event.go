package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted event record, mirroring what is published to NATS.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	TaskID    string          `json:"task_id,omitempty"`
	LabelID   string          `json:"label_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventFilter narrows an event listing.
type EventFilter struct {
	TopicPrefix string `json:"topic_prefix,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	AfterID     int64  `json:"after_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}
