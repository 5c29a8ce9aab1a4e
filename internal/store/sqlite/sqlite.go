// Package sqlite implements store.Store on an embedded SQLite file, for
// single-user installs that have no PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// Store is a store.Store backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS board_columns (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS labels (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	column_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	due_date TEXT,
	reminder INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS task_labels (
	task_id TEXT NOT NULL,
	label_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (task_id, label_id)
);
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	topic TEXT NOT NULL,
	task_id TEXT NOT NULL DEFAULT '',
	label_id TEXT NOT NULL DEFAULT '',
	payload BLOB,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_task ON events (task_id, id);
`

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite: db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func dsn(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBoard replaces the stored board in one transaction.
func (s *Store) SaveBoard(ctx context.Context, b *model.Board) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := saveBoard(ctx, tx, b); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func saveBoard(ctx context.Context, tx *sql.Tx, b *model.Board) error {
	for _, table := range []string{"task_labels", "tasks", "labels", "board_columns"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, cr := range store.ColumnRows(b) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO board_columns (id, title, role, position) VALUES (?, ?, ?, ?)`,
			cr.Column.ID, cr.Column.Title, string(cr.Column.Role), cr.Position,
		); err != nil {
			return fmt.Errorf("insert column %s: %w", cr.Column.ID, err)
		}
	}
	for _, l := range store.SortedLabels(b) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO labels (id, name, color) VALUES (?, ?, ?)`, l.ID, l.Name, l.Color,
		); err != nil {
			return fmt.Errorf("insert label %s: %w", l.ID, err)
		}
	}
	for _, tr := range store.TaskRows(b) {
		t := tr.Task
		var due any
		if t.DueDate != nil && !t.DueDate.IsZero() {
			due = t.DueDate.String()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, column_id, position, title, description, priority, due_date, reminder)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, tr.ColumnID, tr.Position, t.Title, t.Description, string(t.Priority), due, t.Reminder,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
		for i, lid := range t.Labels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO task_labels (task_id, label_id, position) VALUES (?, ?, ?)`, t.ID, lid, i,
			); err != nil {
				return fmt.Errorf("insert label %s on task %s: %w", lid, t.ID, err)
			}
		}
	}
	return nil
}

// LoadBoard reads the stored board, or returns (nil, nil) when none is saved.
func (s *Store) LoadBoard(ctx context.Context) (*model.Board, error) {
	bb := store.NewBuilder()

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, role FROM board_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	for rows.Next() {
		var c model.Column
		var role string
		if err := rows.Scan(&c.ID, &c.Title, &role); err != nil {
			rows.Close()
			return nil, err
		}
		c.Role = model.ColumnRole(role)
		bb.AddColumn(c)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, color FROM labels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			rows.Close()
			return nil, err
		}
		bb.AddLabel(l)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, column_id, title, description, priority, due_date, reminder
		FROM tasks ORDER BY column_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	var pending []store.TaskRow
	for rows.Next() {
		var (
			tr       store.TaskRow
			priority string
			due      sql.NullString
		)
		if err := rows.Scan(&tr.Task.ID, &tr.ColumnID, &tr.Task.Title, &tr.Task.Description, &priority, &due, &tr.Task.Reminder); err != nil {
			rows.Close()
			return nil, err
		}
		tr.Task.Priority = model.Priority(priority)
		if due.Valid && due.String != "" {
			d, err := model.ParseDate(due.String)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("task %s: %w", tr.Task.ID, err)
			}
			tr.Task.DueDate = &d
		}
		pending = append(pending, tr)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	for _, tr := range pending {
		if err := bb.AddTask(tr.ColumnID, tr.Task); err != nil {
			return nil, fmt.Errorf("load board: %w", err)
		}
	}

	rows, err = s.db.QueryContext(ctx, `SELECT task_id, label_id FROM task_labels ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query task labels: %w", err)
	}
	var links [][2]string
	for rows.Next() {
		var p [2]string
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			rows.Close()
			return nil, err
		}
		links = append(links, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	for _, p := range links {
		if err := bb.AttachLabel(p[0], p[1]); err != nil {
			return nil, fmt.Errorf("load board: %w", err)
		}
	}

	return bb.Board()
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Store) RecordEvent(ctx context.Context, e *model.Event) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (topic, task_id, label_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Topic, e.TaskID, e.LabelID, []byte(e.Payload), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

func (s *Store) ListEvents(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, task_id, label_id, payload, created_at
		FROM events
		WHERE id > ? AND (? = '' OR task_id = ?) AND substr(topic, 1, ?) = ?
		ORDER BY id
		LIMIT ?`,
		f.AfterID, f.TaskID, f.TaskID, len(f.TopicPrefix), f.TopicPrefix, store.EventLimit(f.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := []*model.Event{}
	for rows.Next() {
		var (
			e       model.Event
			payload []byte
			created string
		)
		if err := rows.Scan(&e.ID, &e.Topic, &e.TaskID, &e.LabelID, &payload, &created); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(created)); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
