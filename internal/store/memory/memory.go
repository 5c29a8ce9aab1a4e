// Package memory implements store.Store in process memory. Nothing survives
// a restart; it backs tests and throwaway servers.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu     sync.RWMutex
	board  *model.Board
	events []*model.Event
	nextID int64

	// SaveErr, when set, is returned by SaveBoard.
	SaveErr error
}

var _ store.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// LoadBoard returns a private copy of the saved board.
func (s *Store) LoadBoard(ctx context.Context) (*model.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.board == nil {
		return nil, nil
	}
	return s.board.Clone(), nil
}

// SaveBoard stores a private copy of b.
func (s *Store) SaveBoard(ctx context.Context, b *model.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.board = b.Clone()
	return nil
}

func (s *Store) RecordEvent(ctx context.Context, e *model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	e.CreatedAt = time.Now().UTC()
	cp := *e
	s.events = append(s.events, &cp)
	return nil
}

func (s *Store) ListEvents(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := store.EventLimit(f.Limit)
	out := []*model.Event{}
	for _, e := range s.events {
		if e.ID <= f.AfterID {
			continue
		}
		if f.TaskID != "" && e.TaskID != f.TaskID {
			continue
		}
		if !strings.HasPrefix(e.Topic, f.TopicPrefix) {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) Close() error {
	return nil
}
