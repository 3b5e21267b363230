package engine

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// Role identifies who is driving a transition.  RoleSystem is reserved
// for the engine itself (auto-confirm, sweeps, payment callback) and is
// never accepted from a request.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleSystem   Role = "SYSTEM"
)

// Actor is the already-authenticated caller identity supplied by the
// identity provider.  The engine trusts it and only enforces role rules.
type Actor struct {
	UserID uint64
	Role   Role
}

// System is the actor used for sweeper and callback driven transitions.
var System = Actor{Role: RoleSystem}

type transition struct {
	from, to model.ReservationStatus
}

// transitions is the entire reservation state machine: any (from, to)
// pair absent from this map is invalid, which keeps every reachable
// status inside the defined set and makes terminal states final for
// free.  pending → no_show is deliberately absent: a never-confirmed
// reservation is cancelled, not no-show'd.
var transitions = map[transition][]Role{
	{model.ReservationPending, model.ReservationConfirmed}:   {RoleStaff, RoleSystem},
	{model.ReservationPending, model.ReservationCancelled}:   {RoleCustomer, RoleStaff, RoleSystem},
	{model.ReservationConfirmed, model.ReservationCancelled}: {RoleCustomer, RoleStaff},
	{model.ReservationConfirmed, model.ReservationArrived}:   {RoleStaff},
	{model.ReservationConfirmed, model.ReservationNoShow}:    {RoleStaff, RoleSystem},
	{model.ReservationArrived, model.ReservationCompleted}:   {RoleStaff},
}

// CanTransition validates a lifecycle step for the given role.  It
// returns ErrInvalidTransition when the step is not part of the machine
// and ErrForbidden when the step exists but the role may not drive it.
func CanTransition(from, to model.ReservationStatus, role Role) error {
	roles, ok := transitions[transition{from, to}]
	if !ok {
		return ErrInvalidTransition
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}
