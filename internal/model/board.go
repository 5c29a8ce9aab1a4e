package model

// ColumnRole marks columns the board treats specially.
type ColumnRole string

const (
	RoleNone    ColumnRole = ""
	RoleIntake  ColumnRole = "intake"
	RoleDone    ColumnRole = "done"
	RoleArchive ColumnRole = "archive"
)

// IsValid checks whether the role is a known value.
func (r ColumnRole) IsValid() bool {
	switch r {
	case RoleNone, RoleIntake, RoleDone, RoleArchive:
		return true
	}
	return false
}

// IsTerminal reports whether tasks in a column with this role are finished.
func (r ColumnRole) IsTerminal() bool {
	return r == RoleDone || r == RoleArchive
}

// Column is a workflow stage holding an ordered list of task ids.
type Column struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Role    ColumnRole `json:"role,omitempty"`
	TaskIDs []string   `json:"task_ids"`
}

// Board is the whole aggregate: tasks, columns in display order, and labels.
//
// A Board returned by the engine is never modified afterwards. Functions
// that change state build a new Board and share untouched parts with the old
// one, so maps and slices reachable from a Board must be treated as read-only.
type Board struct {
	Tasks       map[string]Task   `json:"tasks"`
	Columns     map[string]Column `json:"columns"`
	ColumnOrder []string          `json:"column_order"`
	Labels      map[string]Label  `json:"labels"`
}

// NewBoard returns an empty board with the given columns in order.
func NewBoard(columns ...Column) *Board {
	b := &Board{
		Tasks:       make(map[string]Task),
		Columns:     make(map[string]Column, len(columns)),
		ColumnOrder: make([]string, 0, len(columns)),
		Labels:      make(map[string]Label),
	}
	for _, c := range columns {
		if c.TaskIDs == nil {
			c.TaskIDs = []string{}
		}
		b.Columns[c.ID] = c
		b.ColumnOrder = append(b.ColumnOrder, c.ID)
	}
	return b
}

// ColumnOf returns the id of the column holding taskID, or "" if none does.
func (b *Board) ColumnOf(taskID string) string {
	for _, cid := range b.ColumnOrder {
		for _, id := range b.Columns[cid].TaskIDs {
			if id == taskID {
				return cid
			}
		}
	}
	return ""
}

// IntakeColumn returns the id of the column new tasks are added to. If no
// column carries the intake role the first column in order is used.
func (b *Board) IntakeColumn() string {
	for _, cid := range b.ColumnOrder {
		if b.Columns[cid].Role == RoleIntake {
			return cid
		}
	}
	if len(b.ColumnOrder) > 0 {
		return b.ColumnOrder[0]
	}
	return ""
}

// RoleOf returns the role of the column holding taskID.
func (b *Board) RoleOf(taskID string) ColumnRole {
	cid := b.ColumnOf(taskID)
	if cid == "" {
		return RoleNone
	}
	return b.Columns[cid].Role
}

// IsTerminal reports whether taskID sits in a done or archive column.
func (b *Board) IsTerminal(taskID string) bool {
	return b.RoleOf(taskID).IsTerminal()
}

// OrderedColumns returns the columns in display order.
func (b *Board) OrderedColumns() []Column {
	out := make([]Column, 0, len(b.ColumnOrder))
	for _, cid := range b.ColumnOrder {
		out = append(out, b.Columns[cid])
	}
	return out
}

// ShallowCopy returns a new Board whose maps are fresh copies but whose
// values (and their slices) are shared with b.
func (b *Board) ShallowCopy() *Board {
	nb := &Board{
		Tasks:       make(map[string]Task, len(b.Tasks)),
		Columns:     make(map[string]Column, len(b.Columns)),
		ColumnOrder: b.ColumnOrder,
		Labels:      make(map[string]Label, len(b.Labels)),
	}
	for k, v := range b.Tasks {
		nb.Tasks[k] = v
	}
	for k, v := range b.Columns {
		nb.Columns[k] = v
	}
	for k, v := range b.Labels {
		nb.Labels[k] = v
	}
	return nb
}

// Clone returns a deep copy of b that shares no memory with it.
func (b *Board) Clone() *Board {
	nb := b.ShallowCopy()
	nb.ColumnOrder = append([]string(nil), b.ColumnOrder...)
	for k, t := range nb.Tasks {
		t.Labels = append([]string{}, t.Labels...)
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		nb.Tasks[k] = t
	}
	for k, c := range nb.Columns {
		c.TaskIDs = append([]string{}, c.TaskIDs...)
		nb.Columns[k] = c
	}
	return nb
}
