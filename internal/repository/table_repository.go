package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides access to physical tables.  Status flips happen only
// through the allocation engine's transactions or the explicit staff
// override, never from plain reads.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, restaurant_id, label, capacity, shape, pos_x, pos_y, status, created_at, updated_at`

func scanTables(rows *sql.Rows) ([]model.Table, error) {
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		var shape sql.NullString
		var posX, posY sql.NullInt64
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity,
			&shape, &posX, &posY, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if shape.Valid {
			s := shape.String
			t.Shape = &s
		}
		if posX.Valid {
			v := int(posX.Int64)
			t.PosX = &v
		}
		if posY.Valid {
			v := int(posY.Int64)
			t.PosY = &v
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRestaurant returns all tables of a restaurant ordered by ID.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE restaurant_id = ? ORDER BY id`, restaurantID)
	if err != nil {
		return nil, err
	}
	return scanTables(rows)
}

// ListByRestaurantForUpdateTx loads and row-locks all tables of a
// restaurant.  Every booking/cancellation transaction goes through this
// lock, which serializes allocation per restaurant and closes the race
// between "slot looked free" and "slot got taken".  Independent
// restaurants never contend.
func (r *TableRepo) ListByRestaurantForUpdateTx(ctx context.Context, tx *sql.Tx, restaurantID uint64) ([]model.Table, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE restaurant_id = ? ORDER BY id FOR UPDATE`, restaurantID)
	if err != nil {
		return nil, err
	}
	return scanTables(rows)
}

// GetByIDTx loads and row-locks a single table.
func (r *TableRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Table, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE id = ? FOR UPDATE`, id)
	var t model.Table
	var shape sql.NullString
	var posX, posY sql.NullInt64
	err := row.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity,
		&shape, &posX, &posY, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if shape.Valid {
		s := shape.String
		t.Shape = &s
	}
	if posX.Valid {
		v := int(posX.Int64)
		t.PosX = &v
	}
	if posY.Valid {
		v := int(posY.Int64)
		t.PosY = &v
	}
	return &t, nil
}

// UpdateStatusTx flips a table's occupancy status inside the caller's
// transaction.
func (r *TableRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.TableStatus) error {
	res, err := tx.ExecContext(ctx, `UPDATE tables SET status = ? WHERE id = ?`, string(status), id)
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
