package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// clearStatements empty the board tables, children first.
var clearStatements = []string{
	`DELETE FROM task_labels`,
	`DELETE FROM tasks`,
	`DELETE FROM labels`,
	`DELETE FROM board_columns`,
}

func querySaveBoard(ctx context.Context, db executor, b *model.Board) error {
	for _, stmt := range clearStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear board: %w", err)
		}
	}

	for _, cr := range store.ColumnRows(b) {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO board_columns (id, title, role, position)
			VALUES ($1, $2, $3, $4)`,
			cr.Column.ID, cr.Column.Title, string(cr.Column.Role), cr.Position,
		); err != nil {
			return fmt.Errorf("insert column %s: %w", cr.Column.ID, err)
		}
	}

	for _, l := range store.SortedLabels(b) {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO labels (id, name, color) VALUES ($1, $2, $3)`,
			l.ID, l.Name, l.Color,
		); err != nil {
			return fmt.Errorf("insert label %s: %w", l.ID, err)
		}
	}

	for _, tr := range store.TaskRows(b) {
		t := tr.Task
		if _, err := db.ExecContext(ctx, `
			INSERT INTO tasks (id, column_id, position, title, description, priority, due_date, reminder)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, tr.ColumnID, tr.Position, t.Title, t.Description, string(t.Priority),
			dueDateArg(t.DueDate), t.Reminder,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
		for i, lid := range t.Labels {
			if _, err := db.ExecContext(ctx, `
				INSERT INTO task_labels (task_id, label_id, position) VALUES ($1, $2, $3)`,
				t.ID, lid, i,
			); err != nil {
				return fmt.Errorf("insert label %s on task %s: %w", lid, t.ID, err)
			}
		}
	}
	return nil
}

func queryLoadBoard(ctx context.Context, db executor) (*model.Board, error) {
	bb := store.NewBuilder()

	colRows, err := db.QueryContext(ctx, `
		SELECT id, title, role FROM board_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	cols, err := scanColumns(colRows)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		bb.AddColumn(c)
	}

	labelRows, err := db.QueryContext(ctx, `SELECT id, name, color FROM labels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	labels, err := scanLabels(labelRows)
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		bb.AddLabel(l)
	}

	taskRows, err := db.QueryContext(ctx, `
		SELECT id, column_id, title, description, priority, due_date, reminder
		FROM tasks
		ORDER BY column_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	tasks, err := scanTaskRows(taskRows)
	if err != nil {
		return nil, err
	}
	for _, tr := range tasks {
		if err := bb.AddTask(tr.ColumnID, tr.Task); err != nil {
			return nil, fmt.Errorf("load board: %w", err)
		}
	}

	linkRows, err := db.QueryContext(ctx, `
		SELECT task_id, label_id FROM task_labels ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query task labels: %w", err)
	}
	links, err := scanPairs(linkRows)
	if err != nil {
		return nil, err
	}
	for _, p := range links {
		if err := bb.AttachLabel(p[0], p[1]); err != nil {
			return nil, fmt.Errorf("load board: %w", err)
		}
	}

	return bb.Board()
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, task_id, label_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, e.TaskID, e.LabelID, []byte(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryListEvents(ctx context.Context, db executor, f model.EventFilter) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, task_id, label_id, payload, created_at
		FROM events
		WHERE id > $1 AND ($2 = '' OR task_id = $2) AND topic LIKE $3
		ORDER BY id
		LIMIT $4`,
		f.AfterID, f.TaskID, likePrefix(f.TopicPrefix), store.EventLimit(f.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return scanEvents(rows)
}
