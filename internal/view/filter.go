// Package view derives read-only projections of a board: the filtered board
// the UI renders and the calendar month grid.
package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// PriorityMask is a set of priorities.
type PriorityMask uint8

const (
	MaskLow PriorityMask = 1 << iota
	MaskMedium
	MaskHigh

	AllPriorities = MaskLow | MaskMedium | MaskHigh
)

// MaskOf returns the single-priority mask for p, or 0 for an unknown priority.
func MaskOf(p model.Priority) PriorityMask {
	switch p {
	case model.PriorityLow:
		return MaskLow
	case model.PriorityMedium:
		return MaskMedium
	case model.PriorityHigh:
		return MaskHigh
	}
	return 0
}

// Has reports whether p is in the set.
func (m PriorityMask) Has(p model.Priority) bool {
	bit := MaskOf(p)
	return bit != 0 && m&bit != 0
}

// With returns m plus p.
func (m PriorityMask) With(p model.Priority) PriorityMask {
	return m | MaskOf(p)
}

// Without returns m minus p.
func (m PriorityMask) Without(p model.Priority) PriorityMask {
	return m &^ MaskOf(p)
}

// Priorities lists the members of m from low to high.
func (m PriorityMask) Priorities() []model.Priority {
	out := []model.Priority{}
	for _, p := range model.Priorities {
		if m.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// String renders m as "all", "none" or a comma-separated list.
func (m PriorityMask) String() string {
	switch m & AllPriorities {
	case AllPriorities:
		return "all"
	case 0:
		return "none"
	}
	ps := m.Priorities()
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// ParsePriorityMask parses "all", an empty string (all), "none", or a
// comma-separated list of priorities.
func ParsePriorityMask(s string) (PriorityMask, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "all":
		return AllPriorities, nil
	case "none":
		return 0, nil
	}
	var m PriorityMask
	for _, part := range strings.Split(s, ",") {
		p, err := model.ParsePriority(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		m = m.With(p)
	}
	return m, nil
}

// MarshalJSON encodes m as a list of priority names.
func (m PriorityMask) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Priorities())
}

// UnmarshalJSON decodes a list of priority names. A null leaves m unchanged.
func (m *PriorityMask) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var ps []model.Priority
	if err := json.Unmarshal(data, &ps); err != nil {
		return fmt.Errorf("priorities: %w", err)
	}
	var out PriorityMask
	for _, p := range ps {
		if !p.IsValid() {
			return fmt.Errorf("priorities: invalid value %q", p)
		}
		out = out.With(p)
	}
	*m = out
	return nil
}

// Filter selects which tasks a view shows. An empty Search and an empty
// Labels list match everything; Priorities must contain the task's priority.
type Filter struct {
	Search     string       `json:"search"`
	Priorities PriorityMask `json:"priorities"`
	Labels     []string     `json:"labels"`
}

// DefaultFilter shows every task.
func DefaultFilter() Filter {
	return Filter{Priorities: AllPriorities, Labels: []string{}}
}

// IsDefault reports whether f hides nothing.
func (f Filter) IsDefault() bool {
	return f.Search == "" && f.Priorities&AllPriorities == AllPriorities && len(f.Labels) == 0
}

// WithoutLabel returns f with id removed from the label selection.
func (f Filter) WithoutLabel(id string) Filter {
	labels := make([]string, 0, len(f.Labels))
	for _, l := range f.Labels {
		if l != id {
			labels = append(labels, l)
		}
	}
	f.Labels = labels
	return f
}

// Sanitize drops label ids that no longer exist on b.
func (f Filter) Sanitize(b *model.Board) Filter {
	labels := make([]string, 0, len(f.Labels))
	for _, l := range f.Labels {
		if _, ok := b.Labels[l]; ok {
			labels = append(labels, l)
		}
	}
	f.Labels = labels
	return f
}

// Matches reports whether t passes f. Search is matched as typed, spaces included.
func (f Filter) Matches(t model.Task) bool {
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if !f.Priorities.Has(t.Priority) {
		return false
	}
	if len(f.Labels) == 0 {
		return true
	}
	for _, l := range f.Labels {
		if t.HasLabel(l) {
			return true
		}
	}
	return false
}

// FilterBoard returns a board holding only the tasks matching f. Columns keep
// their order and the relative order of surviving tasks; labels are kept
// as-is. b is not modified.
func FilterBoard(b *model.Board, f Filter) *model.Board {
	out := &model.Board{
		Tasks:       make(map[string]model.Task),
		Columns:     make(map[string]model.Column, len(b.Columns)),
		ColumnOrder: b.ColumnOrder,
		Labels:      b.Labels,
	}
	for cid, col := range b.Columns {
		kept := make([]string, 0, len(col.TaskIDs))
		for _, tid := range col.TaskIDs {
			t, ok := b.Tasks[tid]
			if !ok || !f.Matches(t) {
				continue
			}
			kept = append(kept, tid)
			out.Tasks[tid] = t
		}
		col.TaskIDs = kept
		out.Columns[cid] = col
	}
	return out
}
