// Package reminder finds open tasks with reminders that are due today, due
// tomorrow or overdue, and periodically forwards them to a Notifier.
package reminder

import (
	"context"
	"sort"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// Kind classifies a reminder.
type Kind string

const (
	KindOverdue     Kind = "overdue"
	KindDueToday    Kind = "due_today"
	KindDueTomorrow Kind = "due_tomorrow"
)

func (k Kind) rank() int {
	switch k {
	case KindOverdue:
		return 0
	case KindDueToday:
		return 1
	}
	return 2
}

// Topic returns the event topic reminders of this kind are published on.
func (k Kind) Topic() string {
	switch k {
	case KindOverdue:
		return events.TopicReminderOverdue
	case KindDueToday:
		return events.TopicReminderDueToday
	}
	return events.TopicReminderDueTomorrow
}

// Reminder is a single notification-worthy task.
type Reminder struct {
	TaskID   string     `json:"task_id"`
	Title    string     `json:"title"`
	ColumnID string     `json:"column_id"`
	Kind     Kind       `json:"kind"`
	DueDate  model.Date `json:"due_date"`
	Days     int        `json:"days"`
}

// Payload converts r to its event payload.
func (r Reminder) Payload() events.Reminder {
	return events.Reminder{TaskID: r.TaskID, Title: r.Title, DueDate: r.DueDate, Days: r.Days}
}

// Scan returns the reminders for b as of today. Only tasks with the reminder
// flag set that are not in a done or archive column are considered; the due
// date rules are those of model.Classify. Results are ordered overdue first,
// then due today, then due tomorrow, each in board order.
func Scan(b *model.Board, today model.Date) []Reminder {
	out := []Reminder{}
	for _, cid := range b.ColumnOrder {
		col := b.Columns[cid]
		if col.Role.IsTerminal() {
			continue
		}
		for _, tid := range col.TaskIDs {
			t, ok := b.Tasks[tid]
			if !ok || !t.Reminder {
				continue
			}
			var kind Kind
			switch model.Classify(t.DueDate, today) {
			case model.DueOverdue:
				kind = KindOverdue
			case model.DueToday:
				kind = KindDueToday
			case model.DueTomorrow:
				kind = KindDueTomorrow
			default:
				continue
			}
			out = append(out, Reminder{
				TaskID:   t.ID,
				Title:    t.Title,
				ColumnID: cid,
				Kind:     kind,
				DueDate:  *t.DueDate,
				Days:     today.DaysUntil(*t.DueDate),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind.rank() < out[j].Kind.rank()
	})
	return out
}

// Notifier receives reminders found by a scan.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// PublisherNotifier forwards reminders to an event publisher.
type PublisherNotifier struct {
	Publisher events.Publisher
}

// Notify implements Notifier.
func (p PublisherNotifier) Notify(ctx context.Context, r Reminder) error {
	return p.Publisher.Publish(ctx, r.Kind.Topic(), r.Payload())
}
