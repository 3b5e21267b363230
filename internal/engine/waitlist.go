package engine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/monitoring"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// queueLock returns the writer mutex serializing waitlist mutations for
// one restaurant.  A single writer per restaurant keeps the priority
// ranks a total order and applies concurrent reorders in arrival order.
func (e *Engine) queueLock(restaurantID uint64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.queueLocks[restaurantID]
	if !ok {
		l = &sync.Mutex{}
		e.queueLocks[restaurantID] = l
	}
	return l
}

// Enqueue registers a walk-in party at the back of the queue.
func (e *Engine) Enqueue(ctx context.Context, actor Actor, restaurantID uint64, name, phone string, partySize int) (*model.WaitlistEntry, error) {
	if actor.Role != RoleStaff {
		return nil, ErrForbidden
	}
	rest, err := e.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if partySize < 1 || partySize > rest.MaxPartySize {
		return nil, ErrInvalidPartySize
	}
	l := e.queueLock(restaurantID)
	l.Lock()
	defer l.Unlock()
	entry := &model.WaitlistEntry{
		RestaurantID: restaurantID,
		Name:         name,
		Phone:        phone,
		PartySize:    partySize,
	}
	err = e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return e.waitlist.CreateTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	e.publishDepth(ctx, restaurantID)
	return entry, nil
}

// Reorder swaps the entry with its neighbor above (up) or below (down).
// Swapping past the edge of the queue is a no-op that returns the entry
// unchanged.
func (e *Engine) Reorder(ctx context.Context, actor Actor, entryID uint64, up bool) (*model.WaitlistEntry, error) {
	if actor.Role != RoleStaff {
		return nil, ErrForbidden
	}
	// The restaurant is needed to take the queue lock before the
	// transaction; the entry is re-read with a row lock inside it.
	peek, err := e.waitlistEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	l := e.queueLock(peek.RestaurantID)
	l.Lock()
	defer l.Unlock()
	var entry *model.WaitlistEntry
	err = e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		entry, err = e.waitlist.GetByIDTx(ctx, tx, entryID)
		if err != nil {
			return mapNotFound(err)
		}
		if entry.Status == model.WaitlistRemoved {
			return ErrInvalidTransition
		}
		neighbor, err := e.waitlist.NeighborTx(ctx, tx, entry, up)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil // already at the edge
			}
			return err
		}
		return e.waitlist.SwapPrioritiesTx(ctx, tx, entry, neighbor)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveEntry strikes a party from the queue (seated elsewhere, gave up,
// or no-show'd at the counter).
func (e *Engine) RemoveEntry(ctx context.Context, actor Actor, entryID uint64) error {
	if actor.Role != RoleStaff {
		return ErrForbidden
	}
	peek, err := e.waitlistEntry(ctx, entryID)
	if err != nil {
		return err
	}
	l := e.queueLock(peek.RestaurantID)
	l.Lock()
	defer l.Unlock()
	err = e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		entry, err := e.waitlist.GetByIDTx(ctx, tx, entryID)
		if err != nil {
			return mapNotFound(err)
		}
		if entry.Status == model.WaitlistRemoved {
			return nil // idempotent
		}
		return e.waitlist.UpdateStatusTx(ctx, tx, entryID, model.WaitlistRemoved)
	})
	if err != nil {
		return err
	}
	e.publishDepth(ctx, peek.RestaurantID)
	return nil
}

// ListWaitlist returns the queue in priority order for the staff view.
func (e *Engine) ListWaitlist(ctx context.Context, restaurantID uint64) ([]model.WaitlistEntry, error) {
	if _, err := e.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, mapNotFound(err)
	}
	return e.waitlist.ListByRestaurant(ctx, restaurantID)
}

// offerNextMatchTx proposes a freed table to the first waiting party that
// fits its capacity, marking the entry assigned.  The queue only ever
// proposes; seating the party is a separate staff action.  Returns nil
// when nobody fits.
func (e *Engine) offerNextMatchTx(ctx context.Context, tx *sql.Tx, table *model.Table) (*offer, error) {
	entry, err := e.waitlist.FirstFitTx(ctx, tx, table.RestaurantID, table.Capacity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := e.waitlist.UpdateStatusTx(ctx, tx, entry.ID, model.WaitlistAssigned); err != nil {
		return nil, err
	}
	entry.Status = model.WaitlistAssigned
	return &offer{entry: entry, table: table}, nil
}

// waitlistEntry is a plain read used to locate an entry's restaurant
// before taking the queue lock.
func (e *Engine) waitlistEntry(ctx context.Context, entryID uint64) (*model.WaitlistEntry, error) {
	entry, err := e.waitlist.GetByID(ctx, entryID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return entry, nil
}

// publishDepth refreshes the queue-depth gauge after a mutation.  Metric
// failures must never affect the request, so errors are swallowed.
func (e *Engine) publishDepth(ctx context.Context, restaurantID uint64) {
	entries, err := e.waitlist.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return
	}
	waiting := 0
	for _, en := range entries {
		if en.Status == model.WaitlistWaiting {
			waiting++
		}
	}
	monitoring.SetWaitlistDepth(strconv.FormatUint(restaurantID, 10), waiting)
}
