package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

var allStatuses = []model.ReservationStatus{
	model.ReservationPending,
	model.ReservationConfirmed,
	model.ReservationArrived,
	model.ReservationCompleted,
	model.ReservationCancelled,
	model.ReservationNoShow,
}

var allRoles = []Role{RoleCustomer, RoleStaff, RoleSystem}

func TestTerminalStatesAreFinal(t *testing.T) {
	terminals := []model.ReservationStatus{
		model.ReservationCompleted,
		model.ReservationCancelled,
		model.ReservationNoShow,
	}
	for _, from := range terminals {
		for _, to := range allStatuses {
			for _, role := range allRoles {
				err := CanTransition(from, to, role)
				assert.ErrorIs(t, err, ErrInvalidTransition,
					"%s -> %s as %s must be rejected", from, to, role)
			}
		}
	}
}

func TestSelfTransitionsRejected(t *testing.T) {
	for _, s := range allStatuses {
		assert.ErrorIs(t, CanTransition(s, s, RoleStaff), ErrInvalidTransition)
	}
}

func TestPendingNoShowRejected(t *testing.T) {
	// A reservation nobody confirmed is cancelled, never no-show'd.
	for _, role := range allRoles {
		err := CanTransition(model.ReservationPending, model.ReservationNoShow, role)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestRoleGuards(t *testing.T) {
	cases := []struct {
		from, to model.ReservationStatus
		role     Role
		want     error
	}{
		{model.ReservationPending, model.ReservationConfirmed, RoleStaff, nil},
		{model.ReservationPending, model.ReservationConfirmed, RoleSystem, nil},
		{model.ReservationPending, model.ReservationConfirmed, RoleCustomer, ErrForbidden},

		{model.ReservationPending, model.ReservationCancelled, RoleCustomer, nil},
		{model.ReservationConfirmed, model.ReservationCancelled, RoleCustomer, nil},
		// The sweeper never cancels a confirmed reservation.
		{model.ReservationConfirmed, model.ReservationCancelled, RoleSystem, ErrForbidden},

		{model.ReservationConfirmed, model.ReservationArrived, RoleStaff, nil},
		{model.ReservationConfirmed, model.ReservationArrived, RoleCustomer, ErrForbidden},
		{model.ReservationConfirmed, model.ReservationArrived, RoleSystem, ErrForbidden},

		{model.ReservationConfirmed, model.ReservationNoShow, RoleStaff, nil},
		{model.ReservationConfirmed, model.ReservationNoShow, RoleSystem, nil},
		{model.ReservationConfirmed, model.ReservationNoShow, RoleCustomer, ErrForbidden},

		{model.ReservationArrived, model.ReservationCompleted, RoleStaff, nil},
		{model.ReservationArrived, model.ReservationCompleted, RoleCustomer, ErrForbidden},
		{model.ReservationArrived, model.ReservationCompleted, RoleSystem, ErrForbidden},
	}
	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to, tc.role)
		if tc.want == nil {
			assert.NoError(t, err, "%s -> %s as %s", tc.from, tc.to, tc.role)
		} else {
			assert.ErrorIs(t, err, tc.want, "%s -> %s as %s", tc.from, tc.to, tc.role)
		}
	}
}

func TestUnknownStepsRejected(t *testing.T) {
	// A sample of pairs absent from the machine entirely.
	cases := []struct{ from, to model.ReservationStatus }{
		{model.ReservationPending, model.ReservationArrived},
		{model.ReservationPending, model.ReservationCompleted},
		{model.ReservationConfirmed, model.ReservationCompleted},
		{model.ReservationArrived, model.ReservationCancelled},
		{model.ReservationArrived, model.ReservationNoShow},
	}
	for _, tc := range cases {
		for _, role := range allRoles {
			assert.ErrorIs(t, CanTransition(tc.from, tc.to, role), ErrInvalidTransition,
				"%s -> %s as %s", tc.from, tc.to, role)
		}
	}
}

func TestEveryTransitionStaysInStatusSet(t *testing.T) {
	valid := make(map[model.ReservationStatus]bool, len(allStatuses))
	for _, s := range allStatuses {
		valid[s] = true
	}
	for tr, roles := range transitions {
		assert.True(t, valid[tr.from], "unknown source status %s", tr.from)
		assert.True(t, valid[tr.to], "unknown target status %s", tr.to)
		assert.NotEmpty(t, roles, "%s -> %s has no permitted roles", tr.from, tr.to)
	}
}
