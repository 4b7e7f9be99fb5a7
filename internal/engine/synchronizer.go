package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

// Synchronizer keeps the engine's snapshot fresh: an immediate poll on
// start, then a fixed cadence, plus out-of-band refreshes on demand. The
// engine's own poll gate collapses overlapping polls, so a slow poll simply
// swallows the ticks that arrive while it runs. Responses the engine owes
// after a poll are answered off the loop and never hold up the cadence.
type Synchronizer struct {
	eng      *Engine
	interval time.Duration
	events   <-chan wallet.Event
	logger   *log.Logger

	mu      sync.Mutex
	done    chan struct{}
	kick    chan struct{}
	running bool
}

// NewSynchronizer builds a stopped synchronizer. events may be nil; when
// set, a wallet disconnect resets the engine's per-player local state.
func NewSynchronizer(eng *Engine, interval time.Duration, events <-chan wallet.Event, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Synchronizer{
		eng:      eng,
		interval: interval,
		events:   events,
		logger:   logger.WithPrefix("sync"),
	}
}

// Start begins polling. Calling Start on a running synchronizer is a no-op.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.kick = make(chan struct{}, 1)
	go s.loop(ctx, s.done, s.kick)
}

// Stop cancels the periodic timer. Idempotent; a poll already underway
// finishes on its own and its result is simply the last one recorded.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.done)
}

// RefreshNow requests one out-of-band poll. Coalesces: if a request is
// already queued this one merges with it.
func (s *Synchronizer) RefreshNow() {
	s.mu.Lock()
	kick := s.kick
	running := s.running
	s.mu.Unlock()
	if !running {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) loop(ctx context.Context, done <-chan struct{}, kick <-chan struct{}) {
	s.poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		case <-kick:
			s.poll(ctx)
		case evt, ok := <-s.events:
			if !ok {
				s.events = nil
				continue
			}
			if evt.Kind == wallet.EventDisconnected {
				s.logger.Info("wallet disconnected, dropping local game state")
				s.eng.ResetLocal()
			}
		}
	}
}

func (s *Synchronizer) poll(ctx context.Context) {
	if err := s.eng.Poll(ctx); err != nil {
		s.logger.Debug("poll failed", "error", err)
	}
}
