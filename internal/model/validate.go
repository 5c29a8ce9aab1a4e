package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Add appends a field error.
func (e *ValidationError) Add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// Err returns e if it holds errors, otherwise nil.
func (e *ValidationError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Kind string // "task", "column" or "label"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvariantViolation reports an operation that would corrupt the board, or a
// board that is already inconsistent.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	if e.Op == "" {
		return "invariant violation: " + e.Detail
	}
	return e.Op + ": invariant violation: " + e.Detail
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvariant reports whether err wraps an *InvariantViolation.
func IsInvariant(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}

// MaxTitleLength bounds task titles and label names, in runes.
const MaxTitleLength = 500

// ValidateTask checks a Task's own fields. Label references are checked
// against a board by CheckInvariants.
func ValidateTask(t *Task) error {
	var ve ValidationError

	title := strings.TrimSpace(t.Title)
	if title == "" {
		ve.Add("title", "is required")
	} else if len([]rune(title)) > MaxTitleLength {
		ve.Add("title", fmt.Sprintf("must be %d characters or fewer", MaxTitleLength))
	}

	if !t.Priority.IsValid() {
		ve.Add("priority", fmt.Sprintf("invalid value %q", t.Priority))
	}

	return ve.Err()
}

// ValidateLabel checks a Label's own fields.
func ValidateLabel(l *Label) error {
	var ve ValidationError

	name := strings.TrimSpace(l.Name)
	if name == "" {
		ve.Add("name", "is required")
	} else if len([]rune(name)) > MaxTitleLength {
		ve.Add("name", fmt.Sprintf("must be %d characters or fewer", MaxTitleLength))
	}

	if !IsHexColor(l.Color) {
		ve.Add("color", fmt.Sprintf("must be a hex color like #3b82f6, got %q", l.Color))
	}

	return ve.Err()
}

// CheckInvariants verifies the structural consistency of b. It returns an
// *InvariantViolation describing the first problems found, or nil.
func CheckInvariants(b *Board) error {
	var problems []string

	if len(b.ColumnOrder) != len(b.Columns) {
		problems = append(problems, fmt.Sprintf("column order has %d entries for %d columns", len(b.ColumnOrder), len(b.Columns)))
	}
	seenCol := make(map[string]bool, len(b.ColumnOrder))
	intake := 0
	for _, cid := range b.ColumnOrder {
		c, ok := b.Columns[cid]
		if !ok {
			problems = append(problems, fmt.Sprintf("column order names unknown column %q", cid))
			continue
		}
		if seenCol[cid] {
			problems = append(problems, fmt.Sprintf("column %q appears twice in column order", cid))
		}
		seenCol[cid] = true
		if c.Role == RoleIntake {
			intake++
		}
	}
	if intake != 1 {
		problems = append(problems, fmt.Sprintf("board has %d intake columns, want 1", intake))
	}

	placed := make(map[string]string, len(b.Tasks))
	cids := make([]string, 0, len(b.Columns))
	for cid := range b.Columns {
		cids = append(cids, cid)
	}
	sort.Strings(cids)
	for _, cid := range cids {
		for _, tid := range b.Columns[cid].TaskIDs {
			if _, ok := b.Tasks[tid]; !ok {
				problems = append(problems, fmt.Sprintf("column %q references unknown task %q", cid, tid))
				continue
			}
			if prev, dup := placed[tid]; dup {
				problems = append(problems, fmt.Sprintf("task %q appears in %q and %q", tid, prev, cid))
				continue
			}
			placed[tid] = cid
		}
	}

	tids := make([]string, 0, len(b.Tasks))
	for tid := range b.Tasks {
		tids = append(tids, tid)
	}
	sort.Strings(tids)
	for _, tid := range tids {
		if _, ok := placed[tid]; !ok {
			problems = append(problems, fmt.Sprintf("task %q is in no column", tid))
		}
		for _, lid := range b.Tasks[tid].Labels {
			if _, ok := b.Labels[lid]; !ok {
				problems = append(problems, fmt.Sprintf("task %q references unknown label %q", tid, lid))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &InvariantViolation{Op: "check board", Detail: strings.Join(problems, "; ")}
}
