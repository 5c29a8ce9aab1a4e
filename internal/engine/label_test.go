package engine

import (
	"slices"
	"testing"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

func TestAddLabel(t *testing.T) {
	for _, tc := range []struct {
		name      string
		label     string
		color     string
		wantColor string
		wantErr   bool
	}{
		{"explicit color", "Bug", "#ef4444", "#ef4444", false},
		{"default color", "Docs", "", model.DefaultLabelColor, false},
		{"short hex", "Ops", "#0f0", "#0f0", false},
		{"blank name", "  ", "#ef4444", "", true},
		{"malformed color", "Bug", "red", "", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := smallBoard()
			out, err := newEngine().AddLabel(b, tc.label, tc.color)
			if tc.wantErr {
				if !model.IsValidation(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				if out.Board != b {
					t.Error("board should be unchanged")
				}
				return
			}
			nb := mustOK(t, out, err)
			l := nb.Labels[out.LabelID]
			if out.LabelID != "label-1" || l.Color != tc.wantColor || l.Name != tc.label {
				t.Errorf("label = %+v (id %q)", l, out.LabelID)
			}
			if len(b.Labels) != 0 {
				t.Error("input board modified")
			}
		})
	}
}

func TestEditLabel(t *testing.T) {
	b := smallBoard()
	b.Labels["l1"] = model.Label{ID: "l1", Name: "Bug", Color: "#ef4444"}
	e := newEngine()

	out, err := e.EditLabel(b, "l1", LabelPatch{Name: ptr("Defect")})
	nb := mustOK(t, out, err)
	if got := nb.Labels["l1"]; got.Name != "Defect" || got.Color != "#ef4444" {
		t.Errorf("label = %+v", got)
	}
	if got := topics(out); !slices.Equal(got, []string{events.TopicLabelEdited}) {
		t.Errorf("events = %v", got)
	}

	same, err := e.EditLabel(nb, "l1", LabelPatch{Color: ptr("#ef4444")})
	if err != nil || same.Board != nb || len(same.Events) != 0 {
		t.Errorf("unchanged edit: board changed=%v events=%d err=%v", same.Board != nb, len(same.Events), err)
	}

	if _, err := e.EditLabel(nb, "l9", LabelPatch{Name: ptr("x")}); !model.IsNotFound(err) {
		t.Errorf("unknown label: %v", err)
	}
	if _, err := e.EditLabel(nb, "l1", LabelPatch{Color: ptr("#zzz")}); !model.IsValidation(err) {
		t.Errorf("bad color: %v", err)
	}
}

func TestDeleteLabel_Cascade(t *testing.T) {
	b := smallBoard().Clone()
	b.Labels["l1"] = model.Label{ID: "l1", Name: "Bug", Color: "#ef4444"}
	b.Labels["l2"] = model.Label{ID: "l2", Name: "UI", Color: "#3b82f6"}
	for id, labels := range map[string][]string{"t1": {"l1", "l2"}, "t3": {"l1"}, "t2": {"l2"}} {
		task := b.Tasks[id]
		task.Labels = labels
		b.Tasks[id] = task
	}

	out, err := newEngine().DeleteLabel(b, "l1")
	nb := mustOK(t, out, err)
	if _, ok := nb.Labels["l1"]; ok {
		t.Error("label still present")
	}
	for id, task := range nb.Tasks {
		if task.HasLabel("l1") {
			t.Errorf("task %s still carries l1", id)
		}
	}
	if !slices.Equal(nb.Tasks["t1"].Labels, []string{"l2"}) {
		t.Errorf("t1 labels = %v", nb.Tasks["t1"].Labels)
	}
	if !slices.Equal(out.Affected, []string{"t1", "t3"}) {
		t.Errorf("Affected = %v", out.Affected)
	}
	if p := out.Events[0].Payload.(events.LabelDeleted); p.Name != "Bug" || !slices.Equal(p.Tasks, out.Affected) {
		t.Errorf("payload = %+v", p)
	}
	if !slices.Equal(b.Tasks["t1"].Labels, []string{"l1", "l2"}) {
		t.Error("input board modified")
	}

	if _, err := newEngine().DeleteLabel(nb, "l1"); !model.IsNotFound(err) {
		t.Errorf("second delete: %v", err)
	}
}

// Add a label, attach it to a task, then delete it: the task ends up with no labels.
func TestLabelLifecycle(t *testing.T) {
	e := newEngine()
	b := smallBoard()

	out, err := e.AddLabel(b, "Urgent", "")
	b = mustOK(t, out, err)
	labelID := out.LabelID

	out, err = e.EditTask(b, "t2", TaskPatch{Labels: &[]string{labelID}})
	b = mustOK(t, out, err)

	out, err = e.DeleteLabel(b, labelID)
	b = mustOK(t, out, err)
	if got := b.Tasks["t2"].Labels; len(got) != 0 {
		t.Errorf("t2 labels = %v, want empty", got)
	}
	if !slices.Equal(out.Affected, []string{"t2"}) {
		t.Errorf("Affected = %v", out.Affected)
	}
}
