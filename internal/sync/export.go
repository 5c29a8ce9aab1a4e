package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// FormatVersion is written into every export header.
const FormatVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ColumnCount int       `json:"column_count"`
	LabelCount  int       `json:"label_count"`
	TaskCount   int       `json:"task_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type columnRecord struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Role     model.ColumnRole `json:"role,omitempty"`
	Position int              `json:"position"`
}

type taskRecord struct {
	model.Task
	ColumnID string `json:"column_id"`
	Position int    `json:"position"`
}

// ExportJSONL writes the stored board to w as JSONL: a header, then columns in
// display order, labels by id and tasks in board order.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	b, err := s.LoadBoard(ctx)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	if b == nil {
		b = model.NewBoard()
	}
	return WriteBoard(b, w)
}

// WriteBoard encodes b as JSONL.
func WriteBoard(b *model.Board, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     FormatVersion,
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		ColumnCount: len(b.ColumnOrder),
		LabelCount:  len(b.Labels),
		TaskCount:   len(b.Tasks),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	emit := func(typ string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return enc.Encode(record{Type: typ, Data: data})
	}

	for _, cr := range store.ColumnRows(b) {
		c := cr.Column
		if err := emit("column", columnRecord{ID: c.ID, Title: c.Title, Role: c.Role, Position: cr.Position}); err != nil {
			return fmt.Errorf("encode column %s: %w", c.ID, err)
		}
	}
	for _, l := range store.SortedLabels(b) {
		if err := emit("label", l); err != nil {
			return fmt.Errorf("encode label %s: %w", l.ID, err)
		}
	}
	for _, tr := range store.TaskRows(b) {
		if err := emit("task", taskRecord{Task: tr.Task, ColumnID: tr.ColumnID, Position: tr.Position}); err != nil {
			return fmt.Errorf("encode task %s: %w", tr.Task.ID, err)
		}
	}
	return nil
}

// ReadBoard decodes a JSONL export back into a board and checks its
// invariants. Records must appear in the order WriteBoard emits them.
func ReadBoard(r io.Reader) (*model.Board, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	bb := store.NewBuilder()
	sawHeader := false
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !sawHeader {
			var h header
			if err := json.Unmarshal(raw, &h); err != nil {
				return nil, fmt.Errorf("line %d: decode header: %w", line, err)
			}
			if h.Type != "header" {
				return nil, fmt.Errorf("line %d: expected header, got %q", line, h.Type)
			}
			if h.Version != FormatVersion {
				return nil, fmt.Errorf("unsupported export version %q", h.Version)
			}
			sawHeader = true
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch rec.Type {
		case "column":
			var c columnRecord
			if err := json.Unmarshal(rec.Data, &c); err != nil {
				return nil, fmt.Errorf("line %d: decode column: %w", line, err)
			}
			bb.AddColumn(model.Column{ID: c.ID, Title: c.Title, Role: c.Role})
		case "label":
			var l model.Label
			if err := json.Unmarshal(rec.Data, &l); err != nil {
				return nil, fmt.Errorf("line %d: decode label: %w", line, err)
			}
			bb.AddLabel(l)
		case "task":
			var tr taskRecord
			if err := json.Unmarshal(rec.Data, &tr); err != nil {
				return nil, fmt.Errorf("line %d: decode task: %w", line, err)
			}
			if err := bb.AddTask(tr.ColumnID, tr.Task); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", line, rec.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, errors.New("empty export")
	}
	return bb.Board()
}
