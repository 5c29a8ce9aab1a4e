package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// tinyBoard has one intake column holding one labelled task with a due date.
func tinyBoard() *model.Board {
	b := model.NewBoard(
		model.Column{ID: "todo", Title: "To Do", Role: model.RoleIntake, TaskIDs: []string{"task-1"}},
		model.Column{ID: "done", Title: "Done", Role: model.RoleDone},
	)
	due := model.NewDate(2024, 3, 12)
	b.Labels["label-1"] = model.Label{ID: "label-1", Name: "Bug", Color: "#ef4444"}
	b.Tasks["task-1"] = model.Task{
		ID: "task-1", Title: "Fix login", Priority: model.PriorityHigh,
		DueDate: &due, Reminder: true, Labels: []string{"label-1"},
	}
	return b
}

func expectClear(mock sqlmock.Sqlmock) {
	for _, table := range []string{"task_labels", "tasks", "labels", "board_columns"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestQuerySaveBoard(t *testing.T) {
	db, mock := newMockDB(t)
	expectClear(mock)
	mock.ExpectExec("INSERT INTO board_columns").WithArgs("todo", "To Do", "intake", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO board_columns").WithArgs("done", "Done", "done", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO labels").WithArgs("label-1", "Bug", "#ef4444").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tasks").
		WithArgs("task-1", "todo", 0, "Fix login", "", "high", "2024-03-12", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO task_labels").WithArgs("task-1", "label-1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := querySaveBoard(context.Background(), db, tinyBoard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveBoard_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM task_labels").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := s.SaveBoard(context.Background(), tinyBoard()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveBoard_Commits(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectBegin()
	expectClear(mock)
	mock.ExpectExec("INSERT INTO board_columns").WithArgs("c", "Only", "intake", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b := model.NewBoard(model.Column{ID: "c", Title: "Only", Role: model.RoleIntake})
	if err := s.SaveBoard(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryLoadBoard(t *testing.T) {
	db, mock := newMockDB(t)
	due := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, title, role FROM board_columns").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "role"}).
			AddRow("todo", "To Do", "intake").
			AddRow("done", "Done", "done"))
	mock.ExpectQuery("SELECT id, name, color FROM labels").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).
			AddRow("label-1", "Bug", "#ef4444").
			AddRow("label-2", "UI", "#8b5cf6"))
	mock.ExpectQuery("SELECT .+ FROM tasks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "description", "priority", "due_date", "reminder"}).
			AddRow("task-2", "done", "Ship", nil, "low", nil, false).
			AddRow("task-1", "todo", "Fix login", "steps", "high", due, true).
			AddRow("task-3", "todo", "Docs", "", "medium", nil, false))
	mock.ExpectQuery("SELECT task_id, label_id FROM task_labels").
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "label_id"}).
			AddRow("task-1", "label-2").
			AddRow("task-1", "label-1"))

	b, err := queryLoadBoard(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(b.ColumnOrder, []string{"todo", "done"}) {
		t.Errorf("column order = %v", b.ColumnOrder)
	}
	if !slices.Equal(b.Columns["todo"].TaskIDs, []string{"task-1", "task-3"}) {
		t.Errorf("todo tasks = %v", b.Columns["todo"].TaskIDs)
	}
	t1 := b.Tasks["task-1"]
	if t1.DueDate == nil || *t1.DueDate != model.NewDate(2024, 3, 12) {
		t.Errorf("due date = %v", t1.DueDate)
	}
	if !slices.Equal(t1.Labels, []string{"label-2", "label-1"}) {
		t.Errorf("labels = %v, want stored order", t1.Labels)
	}
	if b.Tasks["task-2"].DueDate != nil || b.Tasks["task-2"].Labels == nil {
		t.Errorf("task-2 = %+v", b.Tasks["task-2"])
	}
}

func TestQueryLoadBoard_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM board_columns").WillReturnRows(sqlmock.NewRows([]string{"id", "title", "role"}))
	mock.ExpectQuery("FROM labels").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}))
	mock.ExpectQuery("FROM tasks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "description", "priority", "due_date", "reminder"}))
	mock.ExpectQuery("FROM task_labels").WillReturnRows(sqlmock.NewRows([]string{"task_id", "label_id"}))

	b, err := queryLoadBoard(context.Background(), db)
	if b != nil || err != nil {
		t.Fatalf("got %v, %v; want nil, nil", b, err)
	}
}

func TestQueryLoadBoard_UnknownColumn(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM board_columns").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "role"}).AddRow("todo", "To Do", "intake"))
	mock.ExpectQuery("FROM labels").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}))
	mock.ExpectQuery("FROM tasks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "description", "priority", "due_date", "reminder"}).
			AddRow("task-1", "gone", "x", "", "low", nil, false))

	if _, err := queryLoadBoard(context.Background(), db); err == nil {
		t.Fatal("expected error for task in unknown column")
	}
}

func TestQueryRecordEvent(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	event := &model.Event{
		Topic: "taskboard.task.added", TaskID: "task-1",
		Payload: json.RawMessage(`{"task":{"id":"task-1"}}`),
	}
	mock.ExpectQuery("INSERT INTO events").
		WithArgs("taskboard.task.added", "task-1", "", []byte(`{"task":{"id":"task-1"}}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	if err := queryRecordEvent(context.Background(), db, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID != 7 || !event.CreatedAt.Equal(now) {
		t.Fatalf("got id=%d created_at=%v", event.ID, event.CreatedAt)
	}
}

func TestQueryListEvents(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "topic", "task_id", "label_id", "payload", "created_at"}).
		AddRow(3, "taskboard.task.moved", "task-1", "", []byte(`{}`), now).
		AddRow(4, "taskboard.task.completed", "task-1", "", nil, now)
	mock.ExpectQuery("SELECT .+ FROM events WHERE").
		WithArgs(int64(2), "task-1", `taskboard.task.%`, 100).
		WillReturnRows(rows)

	evts, err := queryListEvents(context.Background(), db, model.EventFilter{
		TopicPrefix: "taskboard.task.", TaskID: "task-1", AfterID: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(evts) != 2 || evts[0].ID != 3 || evts[1].Payload != nil {
		t.Fatalf("got %+v", evts)
	}
}

func TestLikePrefix(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"", "%"},
		{"taskboard.task.", "taskboard.task.%"},
		{"a_b%", `a\_b\%%`},
	} {
		if got := likePrefix(tc.in); got != tc.want {
			t.Errorf("likePrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
