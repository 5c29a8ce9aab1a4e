package engine

import (
	"slices"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// TaskInput holds the fields of a new task. Zero values pick the defaults:
// medium priority, reminder on, no labels.
type TaskInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority,omitempty"`
	DueDate     *model.Date    `json:"due_date,omitempty"`
	Reminder    *bool          `json:"reminder,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
}

// TaskPatch holds optional task field updates. Nil fields are left unchanged.
// Labels replaces the whole label list; a zero DueDate clears the due date.
type TaskPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
	DueDate     *model.Date     `json:"due_date,omitempty"`
	Reminder    *bool           `json:"reminder,omitempty"`
	Labels      *[]string       `json:"labels,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.Reminder == nil && p.Labels == nil
}

func checkLabels(b *model.Board, ids []string) error {
	for _, id := range ids {
		if _, ok := b.Labels[id]; !ok {
			return &model.NotFoundError{Kind: "label", ID: id}
		}
	}
	return nil
}

// AddTask creates a task from in and appends it to the intake column.
func (e *Engine) AddTask(b *model.Board, in TaskInput) (Outcome, error) {
	const op = "add task"

	t := model.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    in.Priority,
		Reminder:    true,
		Labels:      model.DedupeLabels(in.Labels),
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if in.Reminder != nil {
		t.Reminder = *in.Reminder
	}
	if in.DueDate != nil && !in.DueDate.IsZero() {
		d := *in.DueDate
		t.DueDate = &d
	}
	if err := model.ValidateTask(&t); err != nil {
		return failed(b, err)
	}
	if err := checkLabels(b, t.Labels); err != nil {
		return failed(b, err)
	}

	intake := b.IntakeColumn()
	if intake == "" {
		return failed(b, &model.InvariantViolation{Op: op, Detail: "board has no columns"})
	}

	id, err := e.newID(op, TaskPrefix, func(id string) bool {
		_, ok := b.Tasks[id]
		return ok
	})
	if err != nil {
		return failed(b, err)
	}
	t.ID = id

	nb := b.ShallowCopy()
	nb.Tasks[id] = t
	col := nb.Columns[intake]
	col.TaskIDs = inserted(col.TaskIDs, len(col.TaskIDs), id)
	nb.Columns[intake] = col

	return Outcome{
		Board:  nb,
		TaskID: id,
		Events: []events.Event{{
			Topic:   events.TopicTaskAdded,
			Payload: events.TaskAdded{Task: t, ColumnID: intake},
		}},
	}, nil
}

// EditTask merges patch over the task identified by id. A patch that changes
// nothing returns the input board with no events.
func (e *Engine) EditTask(b *model.Board, id string, patch TaskPatch) (Outcome, error) {
	old, ok := b.Tasks[id]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "task", ID: id})
	}

	t := old
	changes := make(map[string]any)

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title != old.Title {
			t.Title = title
			changes["title"] = title
		}
	}
	if patch.Description != nil && *patch.Description != old.Description {
		t.Description = *patch.Description
		changes["description"] = t.Description
	}
	if patch.Priority != nil && *patch.Priority != old.Priority {
		t.Priority = *patch.Priority
		changes["priority"] = t.Priority
	}
	if patch.DueDate != nil {
		switch {
		case patch.DueDate.IsZero():
			if old.DueDate != nil {
				t.DueDate = nil
				changes["due_date"] = nil
			}
		case old.DueDate == nil || *old.DueDate != *patch.DueDate:
			d := *patch.DueDate
			t.DueDate = &d
			changes["due_date"] = d
		}
	}
	if patch.Reminder != nil && *patch.Reminder != old.Reminder {
		t.Reminder = *patch.Reminder
		changes["reminder"] = t.Reminder
	}
	if patch.Labels != nil {
		labels := model.DedupeLabels(*patch.Labels)
		if !slices.Equal(labels, old.Labels) {
			t.Labels = labels
			changes["labels"] = labels
		}
	}

	if err := model.ValidateTask(&t); err != nil {
		return failed(b, err)
	}
	if err := checkLabels(b, t.Labels); err != nil {
		return failed(b, err)
	}
	if len(changes) == 0 {
		return Outcome{Board: b, TaskID: id}, nil
	}

	nb := b.ShallowCopy()
	nb.Tasks[id] = t
	return Outcome{
		Board:  nb,
		TaskID: id,
		Events: []events.Event{{
			Topic:   events.TopicTaskEdited,
			Payload: events.TaskEdited{Task: t, Changes: changes},
		}},
	}, nil
}

// DeleteTask removes the task and every column reference to it.
func (e *Engine) DeleteTask(b *model.Board, id string) (Outcome, error) {
	t, ok := b.Tasks[id]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "task", ID: id})
	}

	nb := b.ShallowCopy()
	delete(nb.Tasks, id)

	var from string
	for cid, col := range b.Columns {
		if !slices.Contains(col.TaskIDs, id) {
			continue
		}
		if from == "" {
			from = cid
		}
		kept := make([]string, 0, len(col.TaskIDs)-1)
		for _, tid := range col.TaskIDs {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		col.TaskIDs = kept
		nb.Columns[cid] = col
	}

	return Outcome{
		Board:  nb,
		TaskID: id,
		Events: []events.Event{{
			Topic:   events.TopicTaskDeleted,
			Payload: events.TaskDeleted{TaskID: id, Title: t.Title, ColumnID: from},
		}},
	}, nil
}
