package engine

import (
	"sort"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// LabelPatch holds optional label field updates.
type LabelPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// AddLabel creates a label. An empty color selects DefaultLabelColor. The new
// id is returned in Outcome.LabelID.
func (e *Engine) AddLabel(b *model.Board, name, color string) (Outcome, error) {
	l := model.Label{Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
	if l.Color == "" {
		l.Color = model.DefaultLabelColor
	}
	if err := model.ValidateLabel(&l); err != nil {
		return failed(b, err)
	}

	id, err := e.newID("add label", LabelPrefix, func(id string) bool {
		_, ok := b.Labels[id]
		return ok
	})
	if err != nil {
		return failed(b, err)
	}
	l.ID = id

	nb := b.ShallowCopy()
	nb.Labels[id] = l
	return Outcome{
		Board:   nb,
		LabelID: id,
		Events:  []events.Event{{Topic: events.TopicLabelAdded, Payload: events.LabelAdded{Label: l}}},
	}, nil
}

// EditLabel updates a label's name or color.
func (e *Engine) EditLabel(b *model.Board, id string, patch LabelPatch) (Outcome, error) {
	old, ok := b.Labels[id]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "label", ID: id})
	}

	l := old
	if patch.Name != nil {
		l.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		l.Color = strings.TrimSpace(*patch.Color)
	}
	if err := model.ValidateLabel(&l); err != nil {
		return failed(b, err)
	}
	if l == old {
		return Outcome{Board: b, LabelID: id}, nil
	}

	nb := b.ShallowCopy()
	nb.Labels[id] = l
	return Outcome{
		Board:   nb,
		LabelID: id,
		Events:  []events.Event{{Topic: events.TopicLabelEdited, Payload: events.LabelEdited{Label: l}}},
	}, nil
}

// DeleteLabel removes a label and strips it from every task. The ids of the
// tasks that carried it are returned, sorted, in Outcome.Affected.
func (e *Engine) DeleteLabel(b *model.Board, id string) (Outcome, error) {
	l, ok := b.Labels[id]
	if !ok {
		return failed(b, &model.NotFoundError{Kind: "label", ID: id})
	}

	nb := b.ShallowCopy()
	delete(nb.Labels, id)

	affected := []string{}
	for tid, t := range b.Tasks {
		if !t.HasLabel(id) {
			continue
		}
		kept := make([]string, 0, len(t.Labels)-1)
		for _, lid := range t.Labels {
			if lid != id {
				kept = append(kept, lid)
			}
		}
		t.Labels = kept
		nb.Tasks[tid] = t
		affected = append(affected, tid)
	}
	sort.Strings(affected)

	return Outcome{
		Board:    nb,
		LabelID:  id,
		Affected: affected,
		Events: []events.Event{{
			Topic:   events.TopicLabelDeleted,
			Payload: events.LabelDeleted{LabelID: id, Name: l.Name, Tasks: affected},
		}},
	}, nil
}
