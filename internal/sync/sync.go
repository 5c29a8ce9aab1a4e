package sync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// Destination is a place board exports are shipped to.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler periodically exports the board and ships the export to one or
// more destinations. An export identical to the previous one is skipped.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastHash [sha256.Size]byte
	synced   bool
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

// SyncOnce exports the board and writes it to every destination. It reports
// whether anything was written.
func (s *Scheduler) SyncOnce(ctx context.Context) (bool, error) {
	b, err := s.store.LoadBoard(ctx)
	if err != nil {
		return false, fmt.Errorf("load board: %w", err)
	}
	if b == nil {
		return false, nil
	}

	// The header timestamp changes on every export, so compare the body.
	var body bytes.Buffer
	if err := WriteBoard(b, &body); err != nil {
		return false, err
	}
	data := body.Bytes()
	sum := sha256.Sum256(data[bytes.IndexByte(data, '\n')+1:])

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synced && sum == s.lastHash {
		return false, nil
	}

	var errs []error
	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("destination %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	s.lastHash = sum
	s.synced = true
	return true, nil
}

func (s *Scheduler) syncOnce(ctx context.Context) {
	wrote, err := s.SyncOnce(ctx)
	if err != nil {
		s.logger.Error("sync failed", "err", err)
		return
	}
	if wrote {
		s.logger.Info("sync completed", "destinations", len(s.destinations))
	} else {
		s.logger.Debug("sync skipped, board unchanged")
	}
}
