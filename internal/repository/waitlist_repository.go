package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// WaitlistRepo provides access to the walk-in waitlist.  Priority is a
// total order per restaurant; the engine holds a per-restaurant writer
// lock around every mutation so concurrent reorders apply in arrival
// order.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

const waitlistCols = `id, restaurant_id, name, phone, party_size, priority, status, created_at, updated_at`

func scanWaitlistEntry(scan func(dest ...interface{}) error) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	err := scan(&e.ID, &e.RestaurantID, &e.Name, &e.Phone, &e.PartySize,
		&e.Priority, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// CreateTx appends a walk-in party with the next priority rank.  The
// MAX(priority) read and the insert run in one transaction; the engine's
// per-restaurant lock keeps two enqueues from racing for the same rank.
func (r *WaitlistRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.WaitlistEntry) error {
	var maxPriority sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(priority) FROM waitlist_entries WHERE restaurant_id = ? FOR UPDATE`,
		e.RestaurantID).Scan(&maxPriority)
	if err != nil {
		return err
	}
	e.Priority = 1
	if maxPriority.Valid {
		e.Priority = int(maxPriority.Int64) + 1
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO waitlist_entries (restaurant_id, name, phone, party_size, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.RestaurantID, e.Name, e.Phone, e.PartySize, e.Priority, string(model.WaitlistWaiting))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries WHERE id = ?`, e.ID)
	got, err := scanWaitlistEntry(row.Scan)
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

// GetByID loads one entry without locking.
func (r *WaitlistRepo) GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries WHERE id = ?`, id)
	return scanWaitlistEntry(row.Scan)
}

// GetByIDTx loads and row-locks one entry.
func (r *WaitlistRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.WaitlistEntry, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries WHERE id = ? FOR UPDATE`, id)
	return scanWaitlistEntry(row.Scan)
}

// ListByRestaurant returns the queue in priority order, skipping removed
// entries.
func (r *WaitlistRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+waitlistCols+` FROM waitlist_entries
		 WHERE restaurant_id = ? AND status <> 'removed'
		 ORDER BY priority`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NeighborTx returns the adjacent non-removed entry above (up) or below
// (down) the given entry in priority order, locking it.  ErrNotFound means
// the entry is already at the edge of the queue.
func (r *WaitlistRepo) NeighborTx(ctx context.Context, tx *sql.Tx, e *model.WaitlistEntry, up bool) (*model.WaitlistEntry, error) {
	var q string
	if up {
		q = `SELECT ` + waitlistCols + ` FROM waitlist_entries
		     WHERE restaurant_id = ? AND status <> 'removed' AND priority < ?
		     ORDER BY priority DESC LIMIT 1 FOR UPDATE`
	} else {
		q = `SELECT ` + waitlistCols + ` FROM waitlist_entries
		     WHERE restaurant_id = ? AND status <> 'removed' AND priority > ?
		     ORDER BY priority ASC LIMIT 1 FOR UPDATE`
	}
	row := tx.QueryRowContext(ctx, q, e.RestaurantID, e.Priority)
	return scanWaitlistEntry(row.Scan)
}

// SwapPrioritiesTx exchanges the ranks of two entries.
func (r *WaitlistRepo) SwapPrioritiesTx(ctx context.Context, tx *sql.Tx, a, b *model.WaitlistEntry) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE waitlist_entries SET priority = ? WHERE id = ?`, b.Priority, a.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE waitlist_entries SET priority = ? WHERE id = ?`, a.Priority, b.ID); err != nil {
		return err
	}
	a.Priority, b.Priority = b.Priority, a.Priority
	return nil
}

// FirstFitTx returns the lowest-priority waiting entry whose party fits
// the given capacity, locking it.  Entries too large for the table are
// skipped, not dequeued.  ErrNotFound means nobody currently fits.
func (r *WaitlistRepo) FirstFitTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, capacity int) (*model.WaitlistEntry, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+waitlistCols+` FROM waitlist_entries
		 WHERE restaurant_id = ? AND status = 'waiting' AND party_size <= ?
		 ORDER BY priority LIMIT 1 FOR UPDATE`, restaurantID, capacity)
	return scanWaitlistEntry(row.Scan)
}

// UpdateStatusTx rewrites an entry's queue status.
func (r *WaitlistRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.WaitlistStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE waitlist_entries SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
