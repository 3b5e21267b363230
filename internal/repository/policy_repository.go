package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// PolicyRepo provides read access to per-restaurant booking policies.
// Peak windows live in a JSON column so operators can reshape them
// without schema changes.
type PolicyRepo struct {
	db *sql.DB
}

// NewPolicyRepo returns a new PolicyRepo bound to the given database.
func NewPolicyRepo(db *sql.DB) *PolicyRepo { return &PolicyRepo{db: db} }

func scanPolicy(scan func(dest ...interface{}) error) (*model.Policy, error) {
	var p model.Policy
	var peakJSON []byte
	err := scan(&p.RestaurantID, &peakJSON, &p.GraceMinutes, &p.ToleranceMinutes,
		&p.DepositExpiryMinutes, &p.MaxLeadDays, &p.AutoConfirm, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(peakJSON) > 0 {
		if err := json.Unmarshal(peakJSON, &p.PeakWindows); err != nil {
			return nil, fmt.Errorf("decode peak windows: %w", err)
		}
	}
	return &p, nil
}

const policyQ = `SELECT restaurant_id, peak_windows, grace_minutes, tolerance_minutes,
                        deposit_expiry_minutes, max_lead_days, auto_confirm, updated_at
                 FROM policies WHERE restaurant_id = ?`

// GetByRestaurant loads the policy row for a restaurant.  Every restaurant
// is expected to have one; ErrNotFound signals a provisioning gap.
func (r *PolicyRepo) GetByRestaurant(ctx context.Context, restaurantID uint64) (*model.Policy, error) {
	row := r.db.QueryRowContext(ctx, policyQ, restaurantID)
	return scanPolicy(row.Scan)
}

// GetByRestaurantTx is GetByRestaurant inside a caller-owned transaction.
func (r *PolicyRepo) GetByRestaurantTx(ctx context.Context, tx *sql.Tx, restaurantID uint64) (*model.Policy, error) {
	row := tx.QueryRowContext(ctx, policyQ, restaurantID)
	return scanPolicy(row.Scan)
}
