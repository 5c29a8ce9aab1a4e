// Package stats aggregates board statistics. Everything here is a pure
// function of the board and the reference date.
package stats

import (
	"math"
	"sort"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// DefaultTopLabels is the number of labels ranked when Options.TopLabels is 0.
const DefaultTopLabels = 5

// DueSoonDays is the length of the due-this-week window. Both ends are
// inclusive: a task due exactly DueSoonDays from today counts.
const DueSoonDays = 7

// Options tunes Compute.
type Options struct {
	Today     model.Date
	TopLabels int
}

// ColumnCount is one entry of the per-column breakdown.
type ColumnCount struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Role  model.ColumnRole `json:"role,omitempty"`
	Count int              `json:"count"`
	Color string           `json:"color"`
}

// StatusCounts splits tasks by lifecycle.
type StatusCounts struct {
	Open     int `json:"open"`
	Done     int `json:"done"`
	Archived int `json:"archived"`
}

// LabelCount is one entry of the top-labels ranking.
type LabelCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Statistics is the aggregate report for a board.
type Statistics struct {
	TotalTasks     int                    `json:"total_tasks"`
	PerColumn      []ColumnCount          `json:"per_column"`
	ByPriority     map[model.Priority]int `json:"by_priority"`
	ByStatus       StatusCounts           `json:"by_status"`
	Overdue        int                    `json:"overdue"`
	DueThisWeek    int                    `json:"due_this_week"`
	NoDueDate      int                    `json:"no_due_date"`
	CompletionRate int                    `json:"completion_rate"`
	TopLabels      []LabelCount           `json:"top_labels"`
}

// Compute aggregates b as of opts.Today.
func Compute(b *model.Board, opts Options) Statistics {
	topN := opts.TopLabels
	if topN <= 0 {
		topN = DefaultTopLabels
	}
	today := opts.Today
	weekEnd := today.AddDays(DueSoonDays)

	s := Statistics{
		TotalTasks: len(b.Tasks),
		PerColumn:  make([]ColumnCount, 0, len(b.ColumnOrder)),
		ByPriority: map[model.Priority]int{
			model.PriorityLow:    0,
			model.PriorityMedium: 0,
			model.PriorityHigh:   0,
		},
		TopLabels: []LabelCount{},
	}

	for _, col := range b.OrderedColumns() {
		n := len(col.TaskIDs)
		s.PerColumn = append(s.PerColumn, ColumnCount{
			ID:    col.ID,
			Title: col.Title,
			Role:  col.Role,
			Count: n,
			Color: ColumnColor(col),
		})
		switch col.Role {
		case model.RoleDone:
			s.ByStatus.Done += n
		case model.RoleArchive:
			s.ByStatus.Archived += n
		default:
			s.ByStatus.Open += n
		}
	}

	labelUse := make(map[string]int)
	for id, t := range b.Tasks {
		s.ByPriority[t.Priority]++
		for _, lid := range t.Labels {
			if _, ok := b.Labels[lid]; ok {
				labelUse[lid]++
			}
		}

		if t.DueDate == nil || t.DueDate.IsZero() {
			s.NoDueDate++
			continue
		}
		due := *t.DueDate
		if due.Before(today) && !b.IsTerminal(id) {
			s.Overdue++
		}
		if !due.Before(today) && !due.After(weekEnd) {
			s.DueThisWeek++
		}
	}

	s.CompletionRate = CompletionRate(s.ByStatus.Done+s.ByStatus.Archived, s.TotalTasks)
	s.TopLabels = topLabels(b, labelUse, topN)
	return s
}

// CompletionRate returns round(100*finished/total) with halves rounded up,
// or 0 when total is 0.
func CompletionRate(finished, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(finished)/float64(total) + 0.5))
}

func topLabels(b *model.Board, use map[string]int, n int) []LabelCount {
	ranked := make([]LabelCount, 0, len(use))
	for id, count := range use {
		l := b.Labels[id]
		ranked = append(ranked, LabelCount{ID: id, Name: l.Name, Color: l.Color, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, c := ranked[i], ranked[j]
		if a.Count != c.Count {
			return a.Count > c.Count
		}
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		return a.ID < c.ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

var titleColors = map[string]string{
	"Backlog":     "#6b7280",
	"To Do":       "#3b82f6",
	"In Progress": "#eab308",
	"Review":      "#8b5cf6",
	"Done":        "#22c55e",
	"Archived":    "#9ca3af",
}

// ColumnColor returns the accent color used when charting col.
func ColumnColor(col model.Column) string {
	if c, ok := titleColors[col.Title]; ok {
		return c
	}
	switch col.Role {
	case model.RoleDone:
		return titleColors["Done"]
	case model.RoleArchive:
		return titleColors["Archived"]
	}
	return "#6b7280"
}
