package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RestaurantRepo provides read access to restaurants.  Restaurants are
// created by onboarding tooling outside this service; the engine only
// reads them.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions that
// span several repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantCols = `id, name, open_minute, close_minute, slot_minutes, service_minutes, max_party_size, created_at, updated_at`

func scanRestaurant(row *sql.Row) (*model.Restaurant, error) {
	var m model.Restaurant
	err := row.Scan(&m.ID, &m.Name, &m.OpenMinute, &m.CloseMinute, &m.SlotMinutes,
		&m.ServiceMinutes, &m.MaxPartySize, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByID loads a restaurant.  Returns ErrNotFound when it does not exist.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id)
	return scanRestaurant(row)
}

// GetByIDTx is GetByID inside a caller-owned transaction.
func (r *RestaurantRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Restaurant, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id)
	return scanRestaurant(row)
}
