package model

// DueStatus classifies a due date relative to today.
type DueStatus string

const (
	DueNone     DueStatus = "none"
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueTomorrow DueStatus = "tomorrow"
	DueUpcoming DueStatus = "upcoming"
)

// Classify returns the DueStatus of due relative to today. A nil or zero
// due date is DueNone.
func Classify(due *Date, today Date) DueStatus {
	if due == nil || due.IsZero() {
		return DueNone
	}
	switch {
	case due.Before(today):
		return DueOverdue
	case *due == today:
		return DueToday
	case *due == today.AddDays(1):
		return DueTomorrow
	default:
		return DueUpcoming
	}
}

// IsOverdue reports whether task sits in an open column on b and its due date
// has passed.
func (b *Board) IsOverdue(taskID string, today Date) bool {
	t, ok := b.Tasks[taskID]
	if !ok || b.IsTerminal(taskID) {
		return false
	}
	return Classify(t.DueDate, today) == DueOverdue
}
