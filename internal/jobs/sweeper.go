// Package jobs runs the engine's periodic maintenance: a single
// low-frequency timer that auto-transitions overdue confirmed
// reservations to no_show and cancels pending reservations whose deposit
// window elapsed.  One sweeper serves all restaurants; per-reservation
// timers are deliberately avoided.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/engine"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Sweeper drives the two time-based transitions the state machine cannot
// wait for a request to trigger.
type Sweeper struct {
	Engine       *engine.Engine
	Reservations *repository.ReservationRepo
	Interval     time.Duration
}

// New returns a Sweeper with the default one-minute interval.
func New(eng *engine.Engine, reservations *repository.ReservationRepo) *Sweeper {
	return &Sweeper{Engine: eng, Reservations: reservations, Interval: time.Minute}
}

// Run ticks until the context is cancelled.  Higher layers drive it in a
// goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx, time.Now().UTC())
		}
	}
}

// Tick performs one sweep at the given instant.  Each reservation is
// transitioned in its own transaction, so one failure never blocks the
// rest of the batch; reservations that raced with a check-in or cancel
// simply fail their transition and are skipped.
func (s *Sweeper) Tick(ctx context.Context, now time.Time) {
	due, err := s.Reservations.DueNoShows(ctx, now)
	if err != nil {
		log.Printf("sweeper: listing due no-shows failed: %v", err)
	}
	for _, id := range due {
		if _, err := s.Engine.MarkNoShow(ctx, engine.System, id); err != nil {
			log.Printf("sweeper: no-show transition for reservation %d skipped: %v", id, err)
		}
	}

	expired, err := s.Reservations.ExpiredDeposits(ctx, now)
	if err != nil {
		log.Printf("sweeper: listing expired deposits failed: %v", err)
	}
	for _, id := range expired {
		if _, err := s.Engine.ExpireDeposit(ctx, id); err != nil {
			log.Printf("sweeper: deposit expiry for reservation %d skipped: %v", id, err)
		}
	}
}
