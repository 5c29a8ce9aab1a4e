package engine

import (
	"fmt"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// MoveRequest describes a drag of one task to a new position.
type MoveRequest struct {
	TaskID     string `json:"task_id"`
	FromColumn string `json:"from_column"`
	FromIndex  int    `json:"from_index"`
	ToColumn   string `json:"to_column"`
	ToIndex    int    `json:"to_index"`
}

// MoveTask relocates a task within or between columns. ToIndex is clamped to
// the destination list, measured after the task has been removed from its
// source. Moving a task onto its own position returns the input board with no
// events.
func (e *Engine) MoveTask(b *model.Board, req MoveRequest) (Outcome, error) {
	const op = "move task"

	src, ok := b.Columns[req.FromColumn]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "column", ID: req.FromColumn})
	}
	dst, ok := b.Columns[req.ToColumn]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "column", ID: req.ToColumn})
	}
	task, ok := b.Tasks[req.TaskID]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "task", ID: req.TaskID})
	}
	if req.FromIndex < 0 || req.FromIndex >= len(src.TaskIDs) || src.TaskIDs[req.FromIndex] != req.TaskID {
		return failed(b, &model.InvariantViolation{
			Op:     op,
			Detail: fmt.Sprintf("task %q is not at %s[%d]", req.TaskID, req.FromColumn, req.FromIndex),
		})
	}

	moved := events.TaskMoved{
		TaskID:     req.TaskID,
		FromColumn: req.FromColumn,
		ToColumn:   req.ToColumn,
		FromIndex:  req.FromIndex,
	}

	nb := b.ShallowCopy()
	remaining := without(src.TaskIDs, req.FromIndex)

	if req.FromColumn == req.ToColumn {
		to := clamp(req.ToIndex, 0, len(remaining))
		if to == req.FromIndex {
			return Outcome{Board: b, TaskID: req.TaskID, FromColumn: req.FromColumn, ToColumn: req.ToColumn}, nil
		}
		src.TaskIDs = inserted(remaining, to, req.TaskID)
		nb.Columns[src.ID] = src
		moved.ToIndex = to
		return Outcome{
			Board:      nb,
			TaskID:     req.TaskID,
			Transition: TransitionReordered,
			FromColumn: req.FromColumn,
			ToColumn:   req.ToColumn,
			Events:     []events.Event{{Topic: events.TopicTaskMoved, Payload: moved}},
		}, nil
	}

	to := clamp(req.ToIndex, 0, len(dst.TaskIDs))
	src.TaskIDs = remaining
	dst.TaskIDs = inserted(dst.TaskIDs, to, req.TaskID)
	nb.Columns[src.ID] = src
	nb.Columns[dst.ID] = dst
	moved.ToIndex = to

	out := Outcome{
		Board:      nb,
		TaskID:     req.TaskID,
		Transition: TransitionMoved,
		FromColumn: req.FromColumn,
		ToColumn:   req.ToColumn,
		Events:     []events.Event{{Topic: events.TopicTaskMoved, Payload: moved}},
	}
	switch {
	case dst.Role == model.RoleDone && src.Role != model.RoleDone:
		out.Transition = TransitionCompleted
		out.Events = append(out.Events, events.Event{
			Topic:   events.TopicTaskCompleted,
			Payload: events.TaskCompleted{TaskID: task.ID, Title: task.Title},
		})
	case dst.Role == model.RoleArchive && src.Role != model.RoleArchive:
		out.Transition = TransitionArchived
		out.Events = append(out.Events, events.Event{
			Topic:   events.TopicTaskArchived,
			Payload: events.TaskArchived{TaskID: task.ID, Title: task.Title},
		})
	}
	return out, nil
}

// MoveTo builds a MoveRequest for taskID from its current position.
func MoveTo(b *model.Board, taskID, toColumn string, toIndex int) (MoveRequest, error) {
	cid, idx, ok := Locate(b, taskID)
	if !ok {
		return MoveRequest{}, &model.NotFoundError{Kind: "task", ID: taskID}
	}
	return MoveRequest{TaskID: taskID, FromColumn: cid, FromIndex: idx, ToColumn: toColumn, ToIndex: toIndex}, nil
}
