package store

import (
	"fmt"
	"sort"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// TaskRow is a task together with its placement, as stored in a tasks table.
type TaskRow struct {
	Task     model.Task
	ColumnID string
	Position int
}

// ColumnRow is a column together with its display position.
type ColumnRow struct {
	Column   model.Column
	Position int
}

// ColumnRows lists b's columns in display order.
func ColumnRows(b *model.Board) []ColumnRow {
	out := make([]ColumnRow, 0, len(b.ColumnOrder))
	for i, cid := range b.ColumnOrder {
		out = append(out, ColumnRow{Column: b.Columns[cid], Position: i})
	}
	return out
}

// TaskRows lists b's tasks column by column, in board order.
func TaskRows(b *model.Board) []TaskRow {
	out := make([]TaskRow, 0, len(b.Tasks))
	for _, cid := range b.ColumnOrder {
		for i, tid := range b.Columns[cid].TaskIDs {
			out = append(out, TaskRow{Task: b.Tasks[tid], ColumnID: cid, Position: i})
		}
	}
	return out
}

// SortedLabels lists b's labels ordered by id.
func SortedLabels(b *model.Board) []model.Label {
	out := make([]model.Label, 0, len(b.Labels))
	for _, l := range b.Labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Builder assembles a Board from stored rows. Columns must be added in
// display order and tasks in position order within their column.
type Builder struct {
	b *model.Board
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{b: model.NewBoard()}
}

// AddColumn appends a column to the board.
func (bb *Builder) AddColumn(c model.Column) {
	c.TaskIDs = []string{}
	bb.b.Columns[c.ID] = c
	bb.b.ColumnOrder = append(bb.b.ColumnOrder, c.ID)
}

// AddLabel adds a label.
func (bb *Builder) AddLabel(l model.Label) {
	bb.b.Labels[l.ID] = l
}

// AddTask appends t to the end of its column.
func (bb *Builder) AddTask(columnID string, t model.Task) error {
	col, ok := bb.b.Columns[columnID]
	if !ok {
		return fmt.Errorf("task %s references unknown column %s", t.ID, columnID)
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	bb.b.Tasks[t.ID] = t
	col.TaskIDs = append(col.TaskIDs, t.ID)
	bb.b.Columns[columnID] = col
	return nil
}

// AttachLabel appends labelID to the task's label list.
func (bb *Builder) AttachLabel(taskID, labelID string) error {
	t, ok := bb.b.Tasks[taskID]
	if !ok {
		return fmt.Errorf("label %s attached to unknown task %s", labelID, taskID)
	}
	t.Labels = append(t.Labels, labelID)
	bb.b.Tasks[taskID] = t
	return nil
}

// Board returns the assembled board after checking its invariants. It
// returns (nil, nil) if no column was added.
func (bb *Builder) Board() (*model.Board, error) {
	if len(bb.b.ColumnOrder) == 0 {
		return nil, nil
	}
	if err := model.CheckInvariants(bb.b); err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return bb.b, nil
}
