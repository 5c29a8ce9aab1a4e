// Package engine implements the board mutations. Every operation takes the
// current board and returns a new one; the input is never modified, and on
// error the returned Outcome carries the input board unchanged.
package engine

import (
	"fmt"

	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/idgen"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// Id prefixes for generated entities.
const (
	TaskPrefix  = "task-"
	LabelPrefix = "label-"
)

// DefaultIDAttempts bounds how many ids are drawn before giving up on a collision.
const DefaultIDAttempts = 8

// Transition describes what a move did to a task's lifecycle.
type Transition string

const (
	TransitionNone      Transition = ""
	TransitionReordered Transition = "reordered"
	TransitionMoved     Transition = "moved"
	TransitionCompleted Transition = "completed"
	TransitionArchived  Transition = "archived"
)

// Outcome is the result of an operation.
type Outcome struct {
	Board *model.Board

	// TaskID / LabelID name the entity the operation created or touched.
	TaskID  string
	LabelID string

	// Set by MoveTask.
	Transition Transition
	FromColumn string
	ToColumn   string

	// Affected lists task ids changed as a side effect, sorted.
	Affected []string

	// Events to publish once the new board has been persisted.
	Events []events.Event
}

// Changed reports whether the operation produced a different board.
func (o Outcome) Changed(before *model.Board) bool {
	return o.Board != before
}

// Engine applies mutations to boards.
type Engine struct {
	ids      idgen.Generator
	attempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDAttempts sets the number of ids drawn before a collision is fatal.
func WithIDAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.attempts = n
		}
	}
}

// New returns an Engine drawing ids from ids. A nil generator uses nanoid.
func New(ids idgen.Generator, opts ...Option) *Engine {
	if ids == nil {
		ids = idgen.Nanoid{}
	}
	e := &Engine{ids: ids, attempts: DefaultIDAttempts}
	for _, o := range opts {
		o(e)
	}
	return e
}

// newID draws an id not present in taken.
func (e *Engine) newID(op, prefix string, taken func(string) bool) (string, error) {
	for i := 0; i < e.attempts; i++ {
		id, err := e.ids.NewID(prefix)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !taken(id) {
			return id, nil
		}
	}
	return "", &model.InvariantViolation{
		Op:     op,
		Detail: fmt.Sprintf("no free %sid after %d attempts", prefix, e.attempts),
	}
}

// Locate returns the column and index of taskID on b.
func Locate(b *model.Board, taskID string) (columnID string, index int, ok bool) {
	for _, cid := range b.ColumnOrder {
		for i, id := range b.Columns[cid].TaskIDs {
			if id == taskID {
				return cid, i, true
			}
		}
	}
	return "", 0, false
}

func failed(b *model.Board, err error) (Outcome, error) {
	return Outcome{Board: b}, err
}

// without returns a copy of ids with the element at i removed.
func without(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}

// inserted returns a copy of ids with id placed at position i.
func inserted(ids []string, i int, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
