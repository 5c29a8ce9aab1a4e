package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/client"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/stats"
	"github.com/ANUPAM4545/taskboard-pro/internal/ui"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func labelNames(b *model.Board, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if l, ok := b.Labels[id]; ok {
			names = append(names, ui.RenderHex(l.Color, l.Name))
		}
	}
	return strings.Join(names, ", ")
}

func dueText(d *model.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.String()
}

func printTask(w io.Writer, t *client.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Column:      %s\n", t.ColumnID)
	fmt.Fprintf(w, "Priority:    %s\n", ui.RenderPriority(t.Priority))
	due := dueText(t.DueDate)
	if badge := ui.RenderDue(t.Due); badge != "" {
		due += " (" + badge + ")"
	}
	fmt.Fprintf(w, "Due:         %s\n", due)
	fmt.Fprintf(w, "Reminder:    %t\n", t.Reminder)
	if len(t.Labels) > 0 {
		fmt.Fprintf(w, "Labels:      %s\n", strings.Join(t.Labels, ", "))
	}
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
}

// printBoard lists each column with its tasks in order.
func printBoard(w io.Writer, b *model.Board, today model.Date) {
	width := ui.Width()
	titleWidth := max(20, width-50)
	for i, col := range b.OrderedColumns() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", ui.RenderHex(stats.ColumnColor(col), col.Title), ui.RenderMuted(fmt.Sprintf("(%d)", len(col.TaskIDs))))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, id := range col.TaskIDs {
			t := b.Tasks[id]
			badge := ""
			if !col.Role.IsTerminal() {
				badge = ui.RenderDue(model.Classify(t.DueDate, today))
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
				ui.RenderMuted(t.ID),
				ui.RenderPriority(t.Priority),
				ui.Truncate(t.Title, titleWidth),
				dueText(t.DueDate),
				badge,
				labelNames(b, t.Labels),
			)
		}
		tw.Flush()
	}
}

func printLabels(w io.Writer, labels []client.LabelUsage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tTASKS")
	for _, l := range labels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", l.ID, ui.RenderHex(l.Color, l.Name), l.Color, l.Tasks)
	}
	tw.Flush()
}

func printStats(w io.Writer, s *stats.Statistics) {
	fmt.Fprintf(w, "Tasks:         %d\n", s.TotalTasks)
	fmt.Fprintf(w, "Completion:    %d%%\n", s.CompletionRate)
	fmt.Fprintf(w, "Open/Done/Arc: %d/%d/%d\n", s.ByStatus.Open, s.ByStatus.Done, s.ByStatus.Archived)
	fmt.Fprintf(w, "Overdue:       %d\n", s.Overdue)
	fmt.Fprintf(w, "Due this week: %d\n", s.DueThisWeek)
	fmt.Fprintf(w, "No due date:   %d\n", s.NoDueDate)
	fmt.Fprintf(w, "Priority:      high %d, medium %d, low %d\n",
		s.ByPriority[model.PriorityHigh], s.ByPriority[model.PriorityMedium], s.ByPriority[model.PriorityLow])

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTASKS")
	for _, c := range s.PerColumn {
		fmt.Fprintf(tw, "%s\t%d\n", ui.RenderHex(c.Color, c.Title), c.Count)
	}
	tw.Flush()

	if len(s.TopLabels) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LABEL\tTASKS")
		for _, l := range s.TopLabels {
			fmt.Fprintf(tw, "%s\t%d\n", ui.RenderHex(l.Color, l.Name), l.Count)
		}
		tw.Flush()
	}
}

func printReminders(w io.Writer, rs []reminder.Reminder) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "no reminders")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tTASK\tDUE\tTITLE")
	for _, r := range rs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Kind, r.TaskID, r.DueDate, r.Title)
	}
	tw.Flush()
}

// printCalendar draws a Sunday-first month grid with the number of tasks
// due each day; days with overdue tasks are marked with "!".
func printCalendar(w io.Writer, m *view.Month) {
	fmt.Fprintf(w, "%s %d\n", ui.RenderAccent(m.Month.String()), m.Year)
	fmt.Fprintln(w, " Sun  Mon  Tue  Wed  Thu  Fri  Sat")
	for _, week := range m.Weeks {
		var sb strings.Builder
		for _, d := range week {
			cell := "    "
			if d.InMonth {
				mark := " "
				switch {
				case d.HasOverdue:
					mark = "!"
				case len(d.Tasks) > 0:
					mark = "*"
				}
				cell = fmt.Sprintf("%3d%s", d.Date.Day, mark)
				if d.IsToday {
					cell = ui.RenderAccent(cell)
				} else if len(d.Tasks) == 0 {
					cell = ui.RenderMuted(cell)
				}
			}
			sb.WriteString(" " + cell)
		}
		fmt.Fprintln(w, sb.String())
	}

	for _, week := range m.Weeks {
		for _, d := range week {
			if !d.InMonth || len(d.Tasks) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s\n", d.Date)
			for _, ct := range d.Tasks {
				flag := ""
				if ct.Overdue {
					flag = " " + ui.RenderDue(model.DueOverdue)
				}
				fmt.Fprintf(w, "  %s  %s%s\n", ui.RenderMuted(ct.Task.ID), ct.Task.Title, flag)
			}
		}
	}
}

func printEvents(w io.Writer, evts []*model.Event) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTOPIC\tTASK\tLABEL")
	for _, e := range evts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Topic, e.TaskID, e.LabelID)
	}
	tw.Flush()
}
