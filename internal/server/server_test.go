package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/idgen"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/store/memory"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

// fixedNow is noon UTC on Sunday 2024-03-10, the day the seed board is built for.
var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.topics)
}

// newTestServer returns a server over a freshly seeded memory store.
func newTestServer(t *testing.T) (*BoardServer, *memory.Store, *recordingPublisher) {
	t.Helper()
	ms := memory.New()
	pub := &recordingPublisher{}
	// The seed board already uses task-1..16 and label-1..6.
	eng := engine.New(&idgen.Sequence{}, engine.WithIDAttempts(32))
	srv, err := NewBoardServer(context.Background(), ms, pub, eng, Options{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewBoardServer: %v", err)
	}
	return srv, ms, pub
}

func storedTopics(t *testing.T, ms *memory.Store) []string {
	t.Helper()
	evts, err := ms.ListEvents(context.Background(), model.EventFilter{Limit: 1000})
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range evts {
		out = append(out, e.Topic)
	}
	return out
}

func TestNewBoardServer_SeedsEmptyStore(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	if n := len(srv.Board().Tasks); n != 16 {
		t.Fatalf("seeded %d tasks, want 16", n)
	}
	saved, err := ms.LoadBoard(context.Background())
	if err != nil || saved == nil {
		t.Fatalf("seed was not saved: %v", err)
	}
	if srv.Today() != model.NewDate(2024, 3, 10) {
		t.Errorf("Today = %v", srv.Today())
	}
}

func TestNewBoardServer_LoadsExisting(t *testing.T) {
	ms := memory.New()
	if err := ms.SaveBoard(context.Background(), model.EmptyBoard()); err != nil {
		t.Fatal(err)
	}
	srv, err := NewBoardServer(context.Background(), ms, nil, engine.New(&idgen.Sequence{}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(srv.Board().Tasks) != 0 {
		t.Error("existing board was replaced")
	}
}

func TestApply_PersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	srv, ms, pub := newTestServer(t)

	out, err := srv.AddTask(ctx, engine.TaskInput{Title: "Write release notes"})
	if err != nil {
		t.Fatal(err)
	}
	if srv.Board() != out.Board {
		t.Error("new board not published to readers")
	}
	saved, _ := ms.LoadBoard(ctx)
	if _, ok := saved.Tasks[out.TaskID]; !ok {
		t.Error("new task not persisted")
	}

	if _, err := srv.MoveTask(ctx, engine.MoveRequest{TaskID: out.TaskID, ToColumn: "column-4"}); err != nil {
		t.Fatal(err)
	}
	want := []string{events.TopicTaskAdded, events.TopicTaskMoved, events.TopicTaskCompleted}
	if got := pub.published(); !slices.Equal(got, want) {
		t.Errorf("published %v, want %v", got, want)
	}
	if got := storedTopics(t, ms); !slices.Equal(got, want) {
		t.Errorf("recorded %v, want %v", got, want)
	}
}

func TestApply_NoopHasNoEvents(t *testing.T) {
	ctx := context.Background()
	srv, _, pub := newTestServer(t)
	before := srv.Board()
	cid, idx, _ := engine.Locate(before, "task-1")

	out, err := srv.MoveTask(ctx, engine.MoveRequest{TaskID: "task-1", FromColumn: cid, FromIndex: idx, ToColumn: cid, ToIndex: idx})
	if err != nil {
		t.Fatal(err)
	}
	if out.Board != before || srv.Board() != before {
		t.Error("no-op move replaced the board")
	}
	if n := len(pub.published()); n != 0 {
		t.Errorf("published %d events", n)
	}
}

func TestApply_StoreFailureKeepsBoard(t *testing.T) {
	ctx := context.Background()
	srv, ms, pub := newTestServer(t)
	before := srv.Board()
	ms.SaveErr = errors.New("disk full")

	_, err := srv.DeleteTask(ctx, "task-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if statusFor(err) != 500 {
		t.Errorf("status = %d", statusFor(err))
	}
	if srv.Board() != before {
		t.Error("board changed despite failed save")
	}
	if n := len(pub.published()); n != 0 {
		t.Errorf("published %d events for a failed save", n)
	}
}

func TestApply_ErrorPolicy(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name       string
		run        func(*BoardServer) error
		wantStatus int
		wantTopics []string
	}{
		{
			name: "validation",
			run: func(s *BoardServer) error {
				_, err := s.AddTask(ctx, engine.TaskInput{Title: "  "})
				return err
			},
			wantStatus: 400,
			wantTopics: []string{events.TopicValidationFailed},
		},
		{
			name: "not found",
			run: func(s *BoardServer) error {
				_, err := s.DeleteTask(ctx, "task-404")
				return err
			},
			wantStatus: 404,
		},
		{
			name: "unknown column",
			run: func(s *BoardServer) error {
				_, err := s.MoveTask(ctx, engine.MoveRequest{TaskID: "task-1", ToColumn: "nowhere"})
				return err
			},
			wantStatus: 404,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv, ms, _ := newTestServer(t)
			before := srv.Board()
			err := tc.run(srv)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := statusFor(err); got != tc.wantStatus {
				t.Errorf("status = %d, want %d", got, tc.wantStatus)
			}
			if srv.Board() != before {
				t.Error("board changed")
			}
			if got := storedTopics(t, ms); !slices.Equal(got, tc.wantTopics) {
				t.Errorf("recorded %v, want %v", got, tc.wantTopics)
			}
		})
	}
}

func TestDeleteLabel_PurgesActiveFilter(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newTestServer(t)
	srv.SetFilter(view.Filter{Priorities: view.AllPriorities, Labels: []string{"label-1", "label-2", "label-zzz"}})
	if got := srv.Filter().Labels; !slices.Equal(got, []string{"label-1", "label-2"}) {
		t.Fatalf("SetFilter kept unknown label: %v", got)
	}

	if _, err := srv.DeleteLabel(ctx, "label-1"); err != nil {
		t.Fatal(err)
	}
	if got := srv.Filter().Labels; !slices.Equal(got, []string{"label-2"}) {
		t.Errorf("filter labels = %v", got)
	}
	for id, task := range srv.Board().Tasks {
		if task.HasLabel("label-1") {
			t.Errorf("task %s still carries deleted label", id)
		}
	}
}

func TestNotify_RecordsReminders(t *testing.T) {
	ctx := context.Background()
	srv, ms, pub := newTestServer(t)

	sched := reminder.NewScheduler(srv.Board, srv, time.Hour, srv.Today, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if n := sched.ScanOnce(ctx); n != 2 {
		t.Fatalf("sent %d reminders, want 2", n)
	}
	want := []string{events.TopicReminderOverdue, events.TopicReminderDueTomorrow}
	if got := pub.published(); !slices.Equal(got, want) {
		t.Errorf("published %v, want %v", got, want)
	}
	evts, _ := ms.ListEvents(ctx, model.EventFilter{TaskID: "task-16"})
	if len(evts) != 1 {
		t.Errorf("task-16 events = %d", len(evts))
	}
}

func TestStatistics_UsesConfiguredTop(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if got := len(srv.Statistics(0).TopLabels); got != 5 {
		t.Errorf("default top labels = %d", got)
	}
	if got := len(srv.Statistics(2).TopLabels); got != 2 {
		t.Errorf("top 2 = %d", got)
	}
}
