package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/stats"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

// Options tunes a BoardServer. Zero values pick the defaults.
type Options struct {
	// Location defines calendar days for due dates. Defaults to time.Local.
	Location *time.Location
	// TopLabels is the length of the top-labels ranking in statistics.
	TopLabels int
	// Now replaces time.Now, for tests.
	Now func() time.Time
	Logger *slog.Logger
}

// BoardServer owns the live board. Writers are serialized by mu; readers
// load the current snapshot from an atomic pointer and never block.
type BoardServer struct {
	engine    *engine.Engine
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub

	mu     sync.Mutex
	board  atomic.Pointer[model.Board]
	filter atomic.Pointer[view.Filter]

	loc       *time.Location
	topLabels int
	now       func() time.Time
	logger    *slog.Logger
}

var _ reminder.Notifier = (*BoardServer)(nil)

// NewBoardServer loads the board from s. When nothing has been saved yet the
// seed board is saved and served.
func NewBoardServer(ctx context.Context, s store.Store, p events.Publisher, eng *engine.Engine, opts Options) (*BoardServer, error) {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.TopLabels <= 0 {
		opts.TopLabels = stats.DefaultTopLabels
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	srv := &BoardServer{
		engine:    eng,
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
		loc:       opts.Location,
		topLabels: opts.TopLabels,
		now:       opts.Now,
		logger:    opts.Logger,
	}

	b, err := s.LoadBoard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	if b == nil {
		b = model.SeedBoard(srv.Today())
		if err := s.SaveBoard(ctx, b); err != nil {
			return nil, fmt.Errorf("save seed board: %w", err)
		}
		srv.logger.Info("seeded new board", "tasks", len(b.Tasks), "labels", len(b.Labels))
	}
	srv.board.Store(b)
	f := view.DefaultFilter()
	srv.filter.Store(&f)
	return srv, nil
}

// Board returns the current board snapshot. It must not be modified.
func (s *BoardServer) Board() *model.Board {
	return s.board.Load()
}

// Filter returns the active view filter.
func (s *BoardServer) Filter() view.Filter {
	return *s.filter.Load()
}

// SetFilter replaces the active view filter. Label ids unknown to the board
// are dropped.
func (s *BoardServer) SetFilter(f view.Filter) view.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	f = f.Sanitize(s.Board())
	s.filter.Store(&f)
	return f
}

// Today returns the current calendar day in the configured location.
func (s *BoardServer) Today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// Statistics computes statistics for the current board.
func (s *BoardServer) Statistics(topN int) stats.Statistics {
	if topN <= 0 {
		topN = s.topLabels
	}
	return stats.Compute(s.Board(), stats.Options{Today: s.Today(), TopLabels: topN})
}

// storeError marks a persistence failure. The in-memory board is unchanged.
type storeError struct{ err error }

func (e *storeError) Error() string { return "persist board: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// apply runs one engine operation against the current board. A successful
// result is persisted before it becomes visible, then its events are
// recorded and published in order.
func (s *BoardServer) apply(ctx context.Context, op string, fn func(*model.Board) (engine.Outcome, error)) (engine.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.board.Load()
	out, err := fn(cur)
	if err != nil {
		s.reportFailure(ctx, op, err)
		return out, err
	}
	if !out.Changed(cur) {
		return out, nil
	}

	if err := s.store.SaveBoard(ctx, out.Board); err != nil {
		s.logger.Error("failed to persist board", "op", op, "err", err)
		out.Board = cur
		return out, &storeError{err: err}
	}
	s.board.Store(out.Board)

	if f := s.filter.Load(); len(f.Labels) > 0 {
		clean := f.Sanitize(out.Board)
		s.filter.Store(&clean)
	}

	for _, ev := range out.Events {
		s.recordAndPublish(ctx, ev)
	}
	return out, nil
}

func (s *BoardServer) reportFailure(ctx context.Context, op string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		s.logger.Info("rejected invalid input", "op", op, "err", err)
		s.recordAndPublish(ctx, events.Event{
			Topic:   events.TopicValidationFailed,
			Payload: events.ValidationFailed{Op: op, Errors: ve.Errors},
		})
	case model.IsNotFound(err):
		s.logger.Warn("operation on missing entity", "op", op, "err", err)
	case model.IsInvariant(err):
		s.logger.Error("operation refused", "op", op, "err", err)
	default:
		s.logger.Error("operation failed", "op", op, "err", err)
	}
}

// recordAndPublish persists an event to the store, publishes it and fans it
// out to SSE clients. All three are best-effort; failures are logged.
func (s *BoardServer) recordAndPublish(ctx context.Context, ev events.Event) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		s.logger.Warn("failed to marshal event", "topic", ev.Topic, "err", err)
		return
	}
	taskID := events.TaskIDOf(ev.Payload)
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:   ev.Topic,
		TaskID:  taskID,
		LabelID: events.LabelIDOf(ev.Payload),
		Payload: payload,
	}); err != nil {
		s.logger.Warn("failed to record event", "topic", ev.Topic, "task_id", taskID, "err", err)
	}
	if err := s.publisher.Publish(ctx, ev.Topic, ev.Payload); err != nil {
		s.logger.Warn("failed to publish event", "topic", ev.Topic, "task_id", taskID, "err", err)
	}
	s.sseHub.broadcast(ev.Topic, payload)
}

// Notify implements reminder.Notifier.
func (s *BoardServer) Notify(ctx context.Context, r reminder.Reminder) error {
	s.recordAndPublish(ctx, events.Event{Topic: r.Kind.Topic(), Payload: r.Payload()})
	return nil
}

// AddTask creates a task in the intake column.
func (s *BoardServer) AddTask(ctx context.Context, in engine.TaskInput) (engine.Outcome, error) {
	return s.apply(ctx, "add task", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.AddTask(b, in)
	})
}

func (s *BoardServer) EditTask(ctx context.Context, id string, patch engine.TaskPatch) (engine.Outcome, error) {
	return s.apply(ctx, "edit task", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.EditTask(b, id, patch)
	})
}

func (s *BoardServer) DeleteTask(ctx context.Context, id string) (engine.Outcome, error) {
	return s.apply(ctx, "delete task", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.DeleteTask(b, id)
	})
}

// MoveTask applies req. When req.FromColumn is empty the task's current
// position is used as the source.
func (s *BoardServer) MoveTask(ctx context.Context, req engine.MoveRequest) (engine.Outcome, error) {
	return s.apply(ctx, "move task", func(b *model.Board) (engine.Outcome, error) {
		if req.FromColumn == "" {
			full, err := engine.MoveTo(b, req.TaskID, req.ToColumn, req.ToIndex)
			if err != nil {
				return engine.Outcome{Board: b}, err
			}
			req = full
		}
		return s.engine.MoveTask(b, req)
	})
}

func (s *BoardServer) AddLabel(ctx context.Context, name, color string) (engine.Outcome, error) {
	return s.apply(ctx, "add label", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.AddLabel(b, name, color)
	})
}

func (s *BoardServer) EditLabel(ctx context.Context, id string, patch engine.LabelPatch) (engine.Outcome, error) {
	return s.apply(ctx, "edit label", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.EditLabel(b, id, patch)
	})
}

// DeleteLabel removes a label from the board, every task and the active filter.
func (s *BoardServer) DeleteLabel(ctx context.Context, id string) (engine.Outcome, error) {
	return s.apply(ctx, "delete label", func(b *model.Board) (engine.Outcome, error) {
		return s.engine.DeleteLabel(b, id)
	})
}
