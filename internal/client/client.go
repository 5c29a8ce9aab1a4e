// Package client provides a transport-agnostic interface for the taskboard
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/stats"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

// BoardClient is the interface the tb CLI uses to talk to a board server.
type BoardClient interface {
	// Board
	GetBoard(ctx context.Context) (*model.Board, error)
	GetView(ctx context.Context, req *ViewRequest) (*View, error)

	// Tasks
	AddTask(ctx context.Context, in engine.TaskInput) (*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	EditTask(ctx context.Context, id string, req *EditTaskRequest) (*Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id string, req *MoveTaskRequest) (*MoveResult, error)

	// Labels
	ListLabels(ctx context.Context) ([]LabelUsage, error)
	AddLabel(ctx context.Context, name, color string) (*model.Label, error)
	EditLabel(ctx context.Context, id string, patch engine.LabelPatch) (*model.Label, error)
	DeleteLabel(ctx context.Context, id string) ([]string, error)

	// Active filter
	GetFilter(ctx context.Context) (view.Filter, error)
	SetFilter(ctx context.Context, f view.Filter) (view.Filter, error)

	// Reports
	Stats(ctx context.Context, top int) (*stats.Statistics, error)
	Reminders(ctx context.Context) (*Reminders, error)
	Calendar(ctx context.Context, year, month int) (*view.Month, error)

	// Events
	ListEvents(ctx context.Context, f model.EventFilter) ([]*model.Event, error)
	StreamEvents(ctx context.Context, topics []string, lastID uint64, fn func(StreamEvent) error) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// Task is a task as the server reports it: its fields, the column holding it
// and its due status.
type Task struct {
	model.Task
	ColumnID string          `json:"column_id"`
	Due      model.DueStatus `json:"due_status"`
}

// EditTaskRequest holds optional task changes. Nil pointer fields mean
// "don't change"; ClearDueDate removes the due date.
type EditTaskRequest struct {
	engine.TaskPatch
	ClearDueDate bool `json:"clear_due_date,omitempty"`
}

// MoveTaskRequest places a task at ToIndex of ToColumn. When FromColumn is
// empty the server uses the task's current position.
type MoveTaskRequest struct {
	FromColumn string `json:"from_column,omitempty"`
	FromIndex  int    `json:"from_index,omitempty"`
	ToColumn   string `json:"to_column"`
	ToIndex    int    `json:"to_index"`
}

// MoveResult is the response from MoveTask.
type MoveResult struct {
	Task       Task              `json:"task"`
	FromColumn string            `json:"from_column"`
	ToColumn   string            `json:"to_column"`
	Transition engine.Transition `json:"transition,omitempty"`
}

// LabelUsage is a label with the number of tasks carrying it.
type LabelUsage struct {
	model.Label
	Tasks int `json:"tasks"`
}

// ViewRequest builds an ad-hoc filter. A nil request, or one with every
// field empty, asks for the server's active filter.
type ViewRequest struct {
	Search     string
	Priorities string // "high,low", "all", "none"
	Labels     []string
}

// View is a filtered board together with the filter that produced it.
type View struct {
	Filter view.Filter  `json:"filter"`
	Board  *model.Board `json:"board"`
}

// Reminders is the response from Reminders.
type Reminders struct {
	Today     model.Date          `json:"today"`
	Reminders []reminder.Reminder `json:"reminders"`
}

// StreamEvent is one server-sent event.
type StreamEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}
