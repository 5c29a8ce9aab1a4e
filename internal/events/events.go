package events

import (
	"context"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// Event topic constants
const (
	TopicTaskAdded     = "taskboard.task.added"
	TopicTaskEdited    = "taskboard.task.edited"
	TopicTaskDeleted   = "taskboard.task.deleted"
	TopicTaskMoved     = "taskboard.task.moved"
	TopicTaskCompleted = "taskboard.task.completed"
	TopicTaskArchived  = "taskboard.task.archived"

	TopicLabelAdded   = "taskboard.label.added"
	TopicLabelEdited  = "taskboard.label.edited"
	TopicLabelDeleted = "taskboard.label.deleted"

	TopicValidationFailed = "taskboard.validation.failed"

	// Reminder scan results
	TopicReminderDueToday    = "taskboard.reminder.due_today"
	TopicReminderDueTomorrow = "taskboard.reminder.due_tomorrow"
	TopicReminderOverdue     = "taskboard.reminder.overdue"
)

// AllTopics matches every taskboard subject, NATS wildcard style.
const AllTopics = "taskboard.>"

// Event pairs a topic with its payload. The engine returns these; transports
// publish them.
type Event struct {
	Topic   string
	Payload any
}

// Event types

type TaskAdded struct {
	Task     model.Task `json:"task"`
	ColumnID string     `json:"column_id"`
}

type TaskEdited struct {
	Task    model.Task     `json:"task"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type TaskDeleted struct {
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	ColumnID string `json:"column_id"`
}

type TaskMoved struct {
	TaskID     string `json:"task_id"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
	FromIndex  int    `json:"from_index"`
	ToIndex    int    `json:"to_index"`
}

// TaskCompleted is emitted when a task enters a done column from a column
// that is not done.
type TaskCompleted struct {
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
}

// TaskArchived is emitted when a task enters an archive column from another column.
type TaskArchived struct {
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
}

type LabelAdded struct {
	Label model.Label `json:"label"`
}

type LabelEdited struct {
	Label model.Label `json:"label"`
}

type LabelDeleted struct {
	LabelID string   `json:"label_id"`
	Name    string   `json:"name"`
	Tasks   []string `json:"tasks"` // tasks the label was stripped from
}

type ValidationFailed struct {
	Op     string             `json:"op"`
	Errors []model.FieldError `json:"errors"`
}

// Reminder is the payload of every reminder topic.
type Reminder struct {
	TaskID  string     `json:"task_id"`
	Title   string     `json:"title"`
	DueDate model.Date `json:"due_date"`
	Days    int        `json:"days"` // days until due; negative when overdue
}

// TaskIDOf returns the task id an event payload refers to, if any.
func TaskIDOf(payload any) string {
	switch p := payload.(type) {
	case TaskAdded:
		return p.Task.ID
	case TaskEdited:
		return p.Task.ID
	case TaskDeleted:
		return p.TaskID
	case TaskMoved:
		return p.TaskID
	case TaskCompleted:
		return p.TaskID
	case TaskArchived:
		return p.TaskID
	case Reminder:
		return p.TaskID
	}
	return ""
}

// LabelIDOf returns the label id an event payload refers to, if any.
func LabelIDOf(payload any) string {
	switch p := payload.(type) {
	case LabelAdded:
		return p.Label.ID
	case LabelEdited:
		return p.Label.ID
	case LabelDeleted:
		return p.LabelID
	}
	return ""
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
