package view

import (
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// CalendarTask is a task placed on a calendar day.
type CalendarTask struct {
	Task     model.Task `json:"task"`
	ColumnID string     `json:"column_id"`
	Overdue  bool       `json:"overdue"`
}

// Day is one cell of a month grid.
type Day struct {
	Date       model.Date     `json:"date"`
	InMonth    bool           `json:"in_month"`
	IsToday    bool           `json:"is_today"`
	HasOverdue bool           `json:"has_overdue"`
	Tasks      []CalendarTask `json:"tasks"`
}

// Month is a month laid out in full Sunday-first weeks.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks [][]Day    `json:"weeks"`
}

// TasksDueOn returns the tasks due on d, in board order, excluding tasks in
// archive columns.
func TasksDueOn(b *model.Board, d model.Date, today model.Date) []CalendarTask {
	return dueIndex(b, today)[d]
}

func dueIndex(b *model.Board, today model.Date) map[model.Date][]CalendarTask {
	idx := make(map[model.Date][]CalendarTask)
	for _, cid := range b.ColumnOrder {
		col := b.Columns[cid]
		if col.Role == model.RoleArchive {
			continue
		}
		for _, tid := range col.TaskIDs {
			t, ok := b.Tasks[tid]
			if !ok || t.DueDate == nil || t.DueDate.IsZero() {
				continue
			}
			idx[*t.DueDate] = append(idx[*t.DueDate], CalendarTask{
				Task:     t,
				ColumnID: cid,
				Overdue:  !col.Role.IsTerminal() && t.DueDate.Before(today),
			})
		}
	}
	return idx
}

// Calendar lays out the given month. Leading and trailing days from the
// adjacent months fill the first and last weeks.
func Calendar(b *model.Board, year int, month time.Month, today model.Date) Month {
	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month+1, 1).AddDays(-1)
	start := first.AddDays(-int(first.Weekday()))
	end := last.AddDays(int(time.Saturday - last.Weekday()))

	idx := dueIndex(b, today)
	m := Month{Year: first.Year, Month: first.Month}
	var week []Day
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := Day{
			Date:    d,
			InMonth: d.Month == first.Month && d.Year == first.Year,
			IsToday: d == today,
			Tasks:   idx[d],
		}
		if day.Tasks == nil {
			day.Tasks = []CalendarTask{}
		}
		for _, ct := range day.Tasks {
			if ct.Overdue {
				day.HasOverdue = true
				break
			}
		}
		week = append(week, day)
		if len(week) == 7 {
			m.Weeks = append(m.Weeks, week)
			week = nil
		}
	}
	return m
}
