package model

import "fmt"

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid checks whether the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts s to a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
	}
	return p, nil
}

// Task is a unit of work on the board. Its status is not stored here; it is
// derived from the column that holds it (see Board.ColumnOf).
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"due_date,omitempty"`
	Reminder    bool     `json:"reminder"`
	Labels      []string `json:"labels"`
}

// HasLabel reports whether the task carries the given label id.
func (t Task) HasLabel(id string) bool {
	for _, l := range t.Labels {
		if l == id {
			return true
		}
	}
	return false
}

// Label is a user-defined tag that can be attached to tasks.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultLabelColor is used when a label is created without a color.
const DefaultLabelColor = "#3b82f6"

// IsHexColor reports whether s is a CSS hex color (#rgb or #rrggbb).
func IsHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// DedupeLabels returns ids with duplicates removed, keeping first occurrence.
// The result is never nil.
func DedupeLabels(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
