package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// BoardSource returns the current board snapshot.
type BoardSource func() *model.Board

// Scheduler scans the board on start and then on every tick. Each task is
// notified at most once per kind per day.
type Scheduler struct {
	board    BoardSource
	notifier Notifier
	interval time.Duration
	today    func() model.Date
	logger   *slog.Logger

	mu   sync.Mutex
	sent map[sentKey]model.Date

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type sentKey struct {
	taskID string
	kind   Kind
}

// NewScheduler creates a scheduler. today supplies the current calendar day
// (in the board's time zone).
func NewScheduler(board BoardSource, n Notifier, interval time.Duration, today func() model.Date, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		board:    board,
		notifier: n,
		interval: interval,
		today:    today,
		logger:   logger,
		sent:     make(map[sentKey]model.Date),
	}
}

// Start begins periodic scanning. It scans once immediately, then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current scan (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.ScanOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ScanOnce(ctx)
		}
	}
}

// ScanOnce scans the current board and notifies reminders not yet sent today.
// It returns the number of notifications delivered.
func (s *Scheduler) ScanOnce(ctx context.Context) int {
	b := s.board()
	if b == nil {
		return 0
	}
	today := s.today()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, day := range s.sent {
		if day != today {
			delete(s.sent, k)
		}
	}

	sent := 0
	for _, r := range Scan(b, today) {
		key := sentKey{taskID: r.TaskID, kind: r.Kind}
		if _, done := s.sent[key]; done {
			continue
		}
		if err := s.notifier.Notify(ctx, r); err != nil {
			s.logger.Warn("reminder notify failed", "task_id", r.TaskID, "kind", r.Kind, "err", err)
			continue
		}
		s.sent[key] = today
		sent++
	}
	if sent > 0 {
		s.logger.Info("reminders sent", "count", sent)
	}
	return sent
}
