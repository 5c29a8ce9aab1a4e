package postgres

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanColumns(rows *sql.Rows) ([]model.Column, error) {
	defer rows.Close()
	var out []model.Column
	for rows.Next() {
		var (
			c    model.Column
			role string
		)
		if err := rows.Scan(&c.ID, &c.Title, &role); err != nil {
			return nil, err
		}
		c.Role = model.ColumnRole(role)
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanLabels(rows *sql.Rows) ([]model.Label, error) {
	defer rows.Close()
	var out []model.Label
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// scanTask scans one row of (id, column_id, title, description, priority,
// due_date, reminder).
func scanTask(row scannable) (store.TaskRow, error) {
	var (
		tr          store.TaskRow
		description sql.NullString
		priority    string
		due         sql.NullTime
	)
	err := row.Scan(&tr.Task.ID, &tr.ColumnID, &tr.Task.Title, &description, &priority, &due, &tr.Task.Reminder)
	if err != nil {
		return tr, err
	}
	tr.Task.Description = description.String
	tr.Task.Priority = model.Priority(priority)
	if due.Valid {
		d := model.DateOf(due.Time)
		tr.Task.DueDate = &d
	}
	return tr, nil
}

func scanTaskRows(rows *sql.Rows) ([]store.TaskRow, error) {
	defer rows.Close()
	var out []store.TaskRow
	for rows.Next() {
		tr, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func scanPairs(rows *sql.Rows) ([][2]string, error) {
	defer rows.Close()
	var out [][2]string
	for rows.Next() {
		var p [2]string
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanEvent(row scannable) (*model.Event, error) {
	var (
		e       model.Event
		payload []byte
	)
	if err := row.Scan(&e.ID, &e.Topic, &e.TaskID, &e.LabelID, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	defer rows.Close()
	out := []*model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// dueDateArg converts an optional due date into a DATE parameter.
func dueDateArg(d *model.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

// likePrefix builds a LIKE pattern matching topics that start with prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
