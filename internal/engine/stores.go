package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// The engine consumes persistence through narrow store interfaces so the
// allocation and lifecycle logic can be exercised against in-memory
// fakes.  The repository package provides the MySQL implementations; a
// store's Tx methods run inside a caller-owned transaction and never
// commit or roll back themselves.

// RestaurantStore loads restaurant settings.
type RestaurantStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
}

// PolicyStore loads a restaurant's booking policy.
type PolicyStore interface {
	GetByRestaurant(ctx context.Context, restaurantID uint64) (*model.Policy, error)
	GetByRestaurantTx(ctx context.Context, tx *sql.Tx, restaurantID uint64) (*model.Policy, error)
}

// TableStore reads and mutates table rows.  The ForUpdate listing locks
// every table row of the restaurant for the booking transaction.
type TableStore interface {
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error)
	ListByRestaurantForUpdateTx(ctx context.Context, tx *sql.Tx, restaurantID uint64) ([]model.Table, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Table, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.TableStatus) error
}

// ReservationStore reads and mutates reservation rows.  DB exposes the
// handle the engine opens its transactions on.
type ReservationStore interface {
	DB() *sql.DB
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error)
	ListActiveInWindow(ctx context.Context, restaurantID uint64, from, to time.Time) ([]model.Reservation, error)
	ListActiveInWindowTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, from, to time.Time) ([]model.Reservation, error)
	HasBlockingForTableTx(ctx context.Context, tx *sql.Tx, tableID uint64, at time.Time) (bool, error)
	HasArrivedForTableTx(ctx context.Context, tx *sql.Tx, tableID, excludeID uint64) (bool, error)
	HasOtherActiveForTableTx(ctx context.Context, tx *sql.Tx, tableID, excludeID uint64) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error
	SetArrivedTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error
	SetDepositPaidTx(ctx context.Context, tx *sql.Tx, id uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
}

// WaitlistStore reads and mutates the walk-in queue.
type WaitlistStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, entry *model.WaitlistEntry) error
	GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.WaitlistEntry, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.WaitlistEntry, error)
	NeighborTx(ctx context.Context, tx *sql.Tx, entry *model.WaitlistEntry, up bool) (*model.WaitlistEntry, error)
	SwapPrioritiesTx(ctx context.Context, tx *sql.Tx, a, b *model.WaitlistEntry) error
	FirstFitTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, capacity int) (*model.WaitlistEntry, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.WaitlistStatus) error
}
