package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Rows are
// never deleted; lifecycle changes only rewrite the status column and the
// columns owned by that transition.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions that
// span several repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, restaurant_id, table_id, user_id, party_size, starts_at, ends_at,
       status, occasion, special_request, deposit_required, deposit_amount, deposit_paid,
       arrived_at, created_at, updated_at`

func scanReservation(scan func(dest ...interface{}) error) (*model.Reservation, error) {
	var m model.Reservation
	var tableID sql.NullInt64
	var occasion, special sql.NullString
	var arrivedAt sql.NullTime
	err := scan(&m.ID, &m.RestaurantID, &tableID, &m.UserID, &m.PartySize,
		&m.StartsAt, &m.EndsAt, &m.Status, &occasion, &special,
		&m.DepositRequired, &m.DepositAmount, &m.DepositPaid,
		&arrivedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tableID.Valid {
		id := uint64(tableID.Int64)
		m.TableID = &id
	}
	if occasion.Valid {
		s := occasion.String
		m.Occasion = &s
	}
	if special.Valid {
		s := special.String
		m.SpecialRequest = &s
	}
	if arrivedAt.Valid {
		at := arrivedAt.Time.UTC()
		m.ArrivedAt = &at
	}
	return &m, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		m, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction, populates the generated ID on the provided record and
// queries the row back so database defaults (timestamps) are reflected.
// The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (restaurant_id, table_id, user_id, party_size, starts_at, ends_at, status,
	            occasion, special_request, deposit_required, deposit_amount, deposit_paid)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RestaurantID, res.TableID, res.UserID, res.PartySize,
		res.StartsAt.UTC(), res.EndsAt.UTC(), string(res.Status),
		res.Occasion, res.SpecialRequest,
		res.DepositRequired, res.DepositAmount, res.DepositPaid)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID)
	got, err := scanReservation(row.Scan)
	if err != nil {
		return err
	}
	*res = *got
	return nil
}

// GetByID loads a reservation without locking.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row.Scan)
}

// GetByIDTx loads and row-locks a reservation inside the caller's
// transaction.  Every lifecycle transition starts here so two concurrent
// transitions on the same reservation serialize.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	return scanReservation(row.Scan)
}

const activeStatuses = `'pending','confirmed','arrived'`

// ListActiveInWindow returns the restaurant's active reservations whose
// occupied window overlaps [from, to).  Plain read used by the slot
// calculator; the authoritative check re-runs inside the booking
// transaction via the Tx variant.
func (r *ReservationRepo) ListActiveInWindow(ctx context.Context, restaurantID uint64, from, to time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE restaurant_id = ? AND status IN (`+activeStatuses+`)
		   AND starts_at < ? AND ends_at > ?
		 ORDER BY starts_at`, restaurantID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListActiveInWindowTx is ListActiveInWindow inside a caller-owned
// transaction.  Callers lock the restaurant's table rows first, so the
// result cannot change under the transaction.
func (r *ReservationRepo) ListActiveInWindowTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, from, to time.Time) ([]model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE restaurant_id = ? AND status IN (`+activeStatuses+`)
		   AND starts_at < ? AND ends_at > ?
		 ORDER BY starts_at`, restaurantID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// HasBlockingForTableTx reports whether the table carries a confirmed or
// arrived reservation whose window contains the given instant.  Used by
// the staff table-status override to refuse marking a claimed table
// available.
func (r *ReservationRepo) HasBlockingForTableTx(ctx context.Context, tx *sql.Tx, tableID uint64, at time.Time) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND status IN ('confirmed','arrived')
		   AND starts_at <= ? AND ends_at > ?`,
		tableID, at.UTC(), at.UTC()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasArrivedForTableTx reports whether a party other than reservation
// excludeID is checked in at the table.  An arrived reservation means
// the party is seated right now, whatever its booked window says.
func (r *ReservationRepo) HasArrivedForTableTx(ctx context.Context, tx *sql.Tx, tableID, excludeID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND id <> ? AND status = 'arrived'`,
		tableID, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasOtherActiveForTableTx reports whether the table carries any active
// reservation other than excludeID, in any window.  Used when releasing
// a table to decide whether it stays reserved for a later booking.
func (r *ReservationRepo) HasOtherActiveForTableTx(ctx context.Context, tx *sql.Tx, tableID, excludeID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND id <> ? AND status IN (`+activeStatuses+`)`,
		tableID, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatusTx rewrites the status column inside the caller's
// transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	return err
}

// SetArrivedTx marks a check-in: status arrived plus the arrival time.
func (r *ReservationRepo) SetArrivedTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = 'arrived', arrived_at = ? WHERE id = ?`, at.UTC(), id)
	return err
}

// SetDepositPaidTx records the payment collaborator's confirmation.
func (r *ReservationRepo) SetDepositPaidTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET deposit_paid = TRUE WHERE id = ?`, id)
	return err
}

// ListByUser returns a diner's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// DueNoShows returns confirmed reservations whose arrival tolerance has
// elapsed at the given instant.  Tolerance comes from the restaurant's
// policy row.  The sweeper transitions each one individually so a failure
// on one reservation never blocks the rest.
func (r *ReservationRepo) DueNoShows(ctx context.Context, now time.Time) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id FROM reservations r
		 JOIN policies p ON p.restaurant_id = r.restaurant_id
		 WHERE r.status = 'confirmed'
		   AND DATE_ADD(r.starts_at, INTERVAL p.tolerance_minutes MINUTE) <= ?`, now.UTC())
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ExpiredDeposits returns pending deposit-gated reservations whose payment
// window has elapsed without confirmation.
func (r *ReservationRepo) ExpiredDeposits(ctx context.Context, now time.Time) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id FROM reservations r
		 JOIN policies p ON p.restaurant_id = r.restaurant_id
		 WHERE r.status = 'pending' AND r.deposit_required AND NOT r.deposit_paid
		   AND DATE_ADD(r.created_at, INTERVAL p.deposit_expiry_minutes MINUTE) <= ?`, now.UTC())
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func collectIDs(rows *sql.Rows) ([]uint64, error) {
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
