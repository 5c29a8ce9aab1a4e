package engine

import (
	"slices"
	"testing"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

func TestMoveTask_Reorder(t *testing.T) {
	for _, tc := range []struct {
		name      string
		fromIndex int
		toIndex   int
		want      []string
	}{
		{"first to last", 0, 2, []string{"t2", "t3", "t1"}},
		{"last to first", 2, 0, []string{"t3", "t1", "t2"}},
		{"middle down", 1, 2, []string{"t1", "t3", "t2"}},
		{"index past end clamps", 0, 99, []string{"t2", "t3", "t1"}},
		{"negative index clamps", 2, -5, []string{"t3", "t1", "t2"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := smallBoard()
			id := b.Columns["todo"].TaskIDs[tc.fromIndex]
			out, err := newEngine().MoveTask(b, MoveRequest{
				TaskID: id, FromColumn: "todo", FromIndex: tc.fromIndex, ToColumn: "todo", ToIndex: tc.toIndex,
			})
			nb := mustOK(t, out, err)
			if got := nb.Columns["todo"].TaskIDs; !slices.Equal(got, tc.want) {
				t.Errorf("todo = %v, want %v", got, tc.want)
			}
			if out.Transition != TransitionReordered {
				t.Errorf("Transition = %q, want reordered", out.Transition)
			}
			if got := topics(out); !slices.Equal(got, []string{events.TopicTaskMoved}) {
				t.Errorf("events = %v", got)
			}
			if !slices.Equal(b.Columns["todo"].TaskIDs, []string{"t1", "t2", "t3"}) {
				t.Error("input board modified")
			}
		})
	}
}

func TestMoveTask_SamePositionIsNoop(t *testing.T) {
	b := smallBoard()
	out, err := newEngine().MoveTask(b, MoveRequest{TaskID: "t2", FromColumn: "todo", FromIndex: 1, ToColumn: "todo", ToIndex: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Board != b {
		t.Error("no-op move should return the identical board")
	}
	if len(out.Events) != 0 || out.Transition != TransitionNone {
		t.Errorf("no-op move produced events %v / transition %q", topics(out), out.Transition)
	}

	// Clamping can also land a task on its own position.
	out, err = newEngine().MoveTask(b, MoveRequest{TaskID: "t3", FromColumn: "todo", FromIndex: 2, ToColumn: "todo", ToIndex: 10})
	if err != nil || out.Board != b {
		t.Errorf("clamped no-op: board changed=%v err=%v", out.Board != b, err)
	}
}

func TestMoveTask_CrossColumn(t *testing.T) {
	b := smallBoard()
	e := newEngine()

	out, err := e.MoveTask(b, MoveRequest{TaskID: "t2", FromColumn: "todo", FromIndex: 1, ToColumn: "doing", ToIndex: 0})
	b = mustOK(t, out, err)
	if got := b.Columns["todo"].TaskIDs; !slices.Equal(got, []string{"t1", "t3"}) {
		t.Errorf("todo = %v", got)
	}
	if got := b.Columns["doing"].TaskIDs; !slices.Equal(got, []string{"t2"}) {
		t.Errorf("doing = %v", got)
	}
	if out.Transition != TransitionMoved || b.ColumnOf("t2") != "doing" {
		t.Errorf("transition %q, column %q", out.Transition, b.ColumnOf("t2"))
	}

	// Destination index is clamped to the destination length.
	out, err = e.MoveTask(b, MoveRequest{TaskID: "t1", FromColumn: "todo", FromIndex: 0, ToColumn: "doing", ToIndex: 7})
	b = mustOK(t, out, err)
	if got := b.Columns["doing"].TaskIDs; !slices.Equal(got, []string{"t2", "t1"}) {
		t.Errorf("doing = %v", got)
	}
	moved := out.Events[0].Payload.(events.TaskMoved)
	if moved.ToIndex != 1 {
		t.Errorf("event ToIndex = %d, want clamped 1", moved.ToIndex)
	}
}

func TestMoveTask_Transitions(t *testing.T) {
	for _, tc := range []struct {
		name       string
		from, to   string
		want       Transition
		wantTopics []string
	}{
		{"into done", "doing", "done", TransitionCompleted, []string{events.TopicTaskMoved, events.TopicTaskCompleted}},
		{"into archive", "done", "archive", TransitionArchived, []string{events.TopicTaskMoved, events.TopicTaskArchived}},
		{"out of done", "done", "doing", TransitionMoved, []string{events.TopicTaskMoved}},
		{"todo to archive", "todo", "archive", TransitionArchived, []string{events.TopicTaskMoved, events.TopicTaskArchived}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := smallBoard()
			// Put t1 in the source column first.
			if tc.from != "todo" {
				b = b.Clone()
				todo := b.Columns["todo"]
				todo.TaskIDs = []string{"t2", "t3"}
				b.Columns["todo"] = todo
				src := b.Columns[tc.from]
				src.TaskIDs = []string{"t1"}
				b.Columns[tc.from] = src
			}
			req, err := MoveTo(b, "t1", tc.to, 0)
			if err != nil {
				t.Fatal(err)
			}
			out, err := newEngine().MoveTask(b, req)
			mustOK(t, out, err)
			if out.Transition != tc.want {
				t.Errorf("Transition = %q, want %q", out.Transition, tc.want)
			}
			if got := topics(out); !slices.Equal(got, tc.wantTopics) {
				t.Errorf("events = %v, want %v", got, tc.wantTopics)
			}
		})
	}
}

func TestMoveTask_DoneToDoneReorderDoesNotComplete(t *testing.T) {
	b := smallBoard().Clone()
	todo := b.Columns["todo"]
	todo.TaskIDs = []string{"t3"}
	b.Columns["todo"] = todo
	done := b.Columns["done"]
	done.TaskIDs = []string{"t1", "t2"}
	b.Columns["done"] = done

	out, err := newEngine().MoveTask(b, MoveRequest{TaskID: "t1", FromColumn: "done", FromIndex: 0, ToColumn: "done", ToIndex: 1})
	mustOK(t, out, err)
	if slices.Contains(topics(out), events.TopicTaskCompleted) {
		t.Error("reordering within done must not emit a completion")
	}
}

func TestMoveTask_Errors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		req      MoveRequest
		notFound bool
	}{
		{"unknown source column", MoveRequest{TaskID: "t1", FromColumn: "nope", ToColumn: "todo"}, true},
		{"unknown destination column", MoveRequest{TaskID: "t1", FromColumn: "todo", ToColumn: "nope"}, true},
		{"unknown task", MoveRequest{TaskID: "t9", FromColumn: "todo", ToColumn: "doing"}, true},
		{"wrong index", MoveRequest{TaskID: "t1", FromColumn: "todo", FromIndex: 1, ToColumn: "doing"}, false},
		{"index out of range", MoveRequest{TaskID: "t1", FromColumn: "todo", FromIndex: 3, ToColumn: "doing"}, false},
		{"wrong column", MoveRequest{TaskID: "t1", FromColumn: "doing", FromIndex: 0, ToColumn: "todo"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := smallBoard()
			out, err := newEngine().MoveTask(b, tc.req)
			if tc.notFound && !model.IsNotFound(err) {
				t.Errorf("expected NotFoundError, got %v", err)
			}
			if !tc.notFound && !model.IsInvariant(err) {
				t.Errorf("expected InvariantViolation, got %v", err)
			}
			if out.Board != b {
				t.Error("board should be unchanged on error")
			}
		})
	}
}

func TestMoveTo(t *testing.T) {
	b := smallBoard()
	req, err := MoveTo(b, "t3", "doing", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := MoveRequest{TaskID: "t3", FromColumn: "todo", FromIndex: 2, ToColumn: "doing", ToIndex: 0}
	if req != want {
		t.Errorf("MoveTo = %+v, want %+v", req, want)
	}
	if _, err := MoveTo(b, "t9", "doing", 0); !model.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
