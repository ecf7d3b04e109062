package scheduler

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/usecase/commands"
)

// ReleaseSweeper periodically releases held payments whose hold window
// elapsed. Releases are driven by elapsed time against hold_until, never by
// checkout events.
type ReleaseSweeper struct {
	payments  commands.PaymentCommands
	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	stop chan struct{}
	done chan struct{}
}

func NewReleaseSweeper(payments commands.PaymentCommands, interval time.Duration, batchSize int, logger *slog.Logger) *ReleaseSweeper {
	return &ReleaseSweeper{
		payments:  payments,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately so a restart does
// not delay overdue releases by a full interval.
func (s *ReleaseSweeper) Start() {
	go s.run()
}

func (s *ReleaseSweeper) Stop(ctx context.Context) error {
	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReleaseSweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *ReleaseSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	released, err := s.payments.ReleaseDue(ctx, s.batchSize)
	if err != nil {
		// Partial sweeps still release what they can; log the failures next
		// to the count and let the next tick retry the rest.
		s.logger.Error("release sweep failed", "error", err, "released", released)
	}
	if released > 0 {
		s.logger.Info("released held payments", "count", released)
	}
}
