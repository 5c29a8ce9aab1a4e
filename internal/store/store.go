package store

import (
	"context"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// Store defines the persistence interface for the board.
//
// The board is persisted as a whole: SaveBoard replaces everything previously
// saved, atomically, so a reader never observes half of a mutation.
type Store interface {
	// LoadBoard returns the saved board, or (nil, nil) when nothing has been
	// saved yet.
	LoadBoard(ctx context.Context) (*model.Board, error)
	SaveBoard(ctx context.Context, b *model.Board) error

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)

	Close() error
}

// Event listing bounds.
const (
	DefaultEventLimit = 100
	MaxEventLimit     = 1000
)

// EventLimit normalizes a requested listing limit.
func EventLimit(n int) int {
	if n <= 0 {
		return DefaultEventLimit
	}
	if n > MaxEventLimit {
		return MaxEventLimit
	}
	return n
}
