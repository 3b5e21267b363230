package engine

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// In-memory store fakes.  They honor the documented store contracts (row
// semantics, ErrNotFound, first-fit ordering) and ignore the *sql.Tx;
// sqlmock supplies the handle so Begin/Commit/Rollback still happen.

type fakeRestaurants struct{ rows map[uint64]*model.Restaurant }

func (f *fakeRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type fakePolicies struct{ rows map[uint64]*model.Policy }

func (f *fakePolicies) GetByRestaurant(_ context.Context, id uint64) (*model.Policy, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePolicies) GetByRestaurantTx(ctx context.Context, _ *sql.Tx, id uint64) (*model.Policy, error) {
	return f.GetByRestaurant(ctx, id)
}

type statusChange struct {
	tableID uint64
	status  model.TableStatus
}

type fakeTables struct {
	rows map[uint64]*model.Table
	log  []statusChange
}

func (f *fakeTables) list(restaurantID uint64) []model.Table {
	out := make([]model.Table, 0, len(f.rows))
	for _, t := range f.rows {
		if t.RestaurantID == restaurantID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTables) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.Table, error) {
	return f.list(restaurantID), nil
}

func (f *fakeTables) ListByRestaurantForUpdateTx(_ context.Context, _ *sql.Tx, restaurantID uint64) ([]model.Table, error) {
	return f.list(restaurantID), nil
}

func (f *fakeTables) GetByIDTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Table, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTables) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, status model.TableStatus) error {
	t, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	f.log = append(f.log, statusChange{tableID: id, status: status})
	return nil
}

type fakeReservations struct {
	db     *sql.DB
	nextID uint64
	rows   map[uint64]*model.Reservation
}

func (f *fakeReservations) DB() *sql.DB { return f.db }

func (f *fakeReservations) CreateTx(_ context.Context, _ *sql.Tx, res *model.Reservation) error {
	f.nextID++
	res.ID = f.nextID
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservations) GetByIDTx(ctx context.Context, _ *sql.Tx, id uint64) (*model.Reservation, error) {
	return f.GetByID(ctx, id)
}

func windowsOverlap(r *model.Reservation, from, to time.Time) bool {
	return r.StartsAt.Before(to) && from.Before(r.EndsAt)
}

func (f *fakeReservations) ListActiveInWindow(_ context.Context, restaurantID uint64, from, to time.Time) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if r.RestaurantID == restaurantID && r.Status.Active() && windowsOverlap(r, from, to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservations) ListActiveInWindowTx(ctx context.Context, _ *sql.Tx, restaurantID uint64, from, to time.Time) ([]model.Reservation, error) {
	return f.ListActiveInWindow(ctx, restaurantID, from, to)
}

func (f *fakeReservations) HasBlockingForTableTx(_ context.Context, _ *sql.Tx, tableID uint64, at time.Time) (bool, error) {
	for _, r := range f.rows {
		if r.TableID != nil && *r.TableID == tableID &&
			(r.Status == model.ReservationConfirmed || r.Status == model.ReservationArrived) &&
			!at.Before(r.StartsAt) && at.Before(r.EndsAt) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservations) HasArrivedForTableTx(_ context.Context, _ *sql.Tx, tableID, excludeID uint64) (bool, error) {
	for _, r := range f.rows {
		if r.ID != excludeID && r.TableID != nil && *r.TableID == tableID &&
			r.Status == model.ReservationArrived {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservations) HasOtherActiveForTableTx(_ context.Context, _ *sql.Tx, tableID, excludeID uint64) (bool, error) {
	for _, r := range f.rows {
		if r.ID != excludeID && r.TableID != nil && *r.TableID == tableID && r.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservations) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, status model.ReservationStatus) error {
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeReservations) SetArrivedTx(_ context.Context, _ *sql.Tx, id uint64, at time.Time) error {
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = model.ReservationArrived
	r.ArrivedAt = &at
	return nil
}

func (f *fakeReservations) SetDepositPaidTx(_ context.Context, _ *sql.Tx, id uint64) error {
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.DepositPaid = true
	return nil
}

func (f *fakeReservations) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeWaitlist struct {
	nextID uint64
	rows   map[uint64]*model.WaitlistEntry
}

func (f *fakeWaitlist) CreateTx(_ context.Context, _ *sql.Tx, entry *model.WaitlistEntry) error {
	f.nextID++
	entry.ID = f.nextID
	rank := 0
	for _, en := range f.rows {
		if en.RestaurantID == entry.RestaurantID && en.Priority > rank {
			rank = en.Priority
		}
	}
	entry.Priority = rank + 1
	entry.Status = model.WaitlistWaiting
	cp := *entry
	f.rows[entry.ID] = &cp
	return nil
}

func (f *fakeWaitlist) GetByID(_ context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeWaitlist) GetByIDTx(ctx context.Context, _ *sql.Tx, id uint64) (*model.WaitlistEntry, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeWaitlist) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.WaitlistEntry, error) {
	out := make([]model.WaitlistEntry, 0)
	for _, e := range f.rows {
		if e.RestaurantID == restaurantID && e.Status != model.WaitlistRemoved {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (f *fakeWaitlist) NeighborTx(_ context.Context, _ *sql.Tx, entry *model.WaitlistEntry, up bool) (*model.WaitlistEntry, error) {
	var best *model.WaitlistEntry
	for _, en := range f.rows {
		if en.RestaurantID != entry.RestaurantID || en.Status == model.WaitlistRemoved {
			continue
		}
		if up && en.Priority < entry.Priority && (best == nil || en.Priority > best.Priority) {
			best = en
		}
		if !up && en.Priority > entry.Priority && (best == nil || en.Priority < best.Priority) {
			best = en
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeWaitlist) SwapPrioritiesTx(_ context.Context, _ *sql.Tx, a, b *model.WaitlistEntry) error {
	ra, rb := f.rows[a.ID], f.rows[b.ID]
	ra.Priority, rb.Priority = rb.Priority, ra.Priority
	a.Priority, b.Priority = ra.Priority, rb.Priority
	return nil
}

func (f *fakeWaitlist) FirstFitTx(_ context.Context, _ *sql.Tx, restaurantID uint64, capacity int) (*model.WaitlistEntry, error) {
	var best *model.WaitlistEntry
	for _, e := range f.rows {
		if e.RestaurantID == restaurantID && e.Status == model.WaitlistWaiting && e.PartySize <= capacity {
			if best == nil || e.Priority < best.Priority {
				best = e
			}
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeWaitlist) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, status model.WaitlistStatus) error {
	e, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = status
	return nil
}

type fakeNotifier struct {
	booked, confirmed, cancelled []uint64
	offers                       []uint64
}

func (n *fakeNotifier) ReservationBooked(_ context.Context, res *model.Reservation) {
	n.booked = append(n.booked, res.ID)
}

func (n *fakeNotifier) ReservationConfirmed(_ context.Context, res *model.Reservation) {
	n.confirmed = append(n.confirmed, res.ID)
}

func (n *fakeNotifier) ReservationCancelled(_ context.Context, res *model.Reservation) {
	n.cancelled = append(n.cancelled, res.ID)
}

func (n *fakeNotifier) WaitlistOffered(_ context.Context, entry *model.WaitlistEntry, _ *model.Table) {
	n.offers = append(n.offers, entry.ID)
}

// testDay is a Monday; the default peak window sits on Friday evenings.
var testDay = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	eng          *Engine
	mock         sqlmock.Sqlmock
	tables       *fakeTables
	reservations *fakeReservations
	waitlist     *fakeWaitlist
	notifier     *fakeNotifier
	now          time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })

	env := &testEnv{
		mock:         mock,
		tables:       &fakeTables{rows: map[uint64]*model.Table{}},
		reservations: &fakeReservations{db: db, rows: map[uint64]*model.Reservation{}},
		waitlist:     &fakeWaitlist{rows: map[uint64]*model.WaitlistEntry{}},
		notifier:     &fakeNotifier{},
		now:          testDay.Add(9 * time.Hour),
	}
	restaurants := &fakeRestaurants{rows: map[uint64]*model.Restaurant{
		1: {ID: 1, Name: "Trattoria", OpenMinute: 10 * 60, CloseMinute: 22 * 60,
			SlotMinutes: 30, ServiceMinutes: 120, MaxPartySize: 12},
	}}
	policies := &fakePolicies{rows: map[uint64]*model.Policy{
		1: {RestaurantID: 1, GraceMinutes: 15, ToleranceMinutes: 15,
			DepositExpiryMinutes: 15, MaxLeadDays: 60, AutoConfirm: true,
			PeakWindows: []model.PeakWindow{{
				StartMinute: 18 * 60,
				EndMinute:   21 * 60,
				Weekdays:    1 << uint(time.Friday),
				Deposit:     decimal.NewFromInt(25),
			}}},
	}}
	env.eng = New(restaurants, policies, env.tables, env.reservations, env.waitlist,
		cache.NewMemoryStore(), env.notifier)
	env.eng.now = func() time.Time { return env.now }
	return env
}

func (env *testEnv) addTable(id uint64, capacity int, status model.TableStatus) {
	env.tables.rows[id] = &model.Table{ID: id, RestaurantID: 1, Label: "T", Capacity: capacity, Status: status}
}

func (env *testEnv) seedReservation(id, tableID uint64, status model.ReservationStatus, start time.Time) *model.Reservation {
	tid := tableID
	r := &model.Reservation{
		ID: id, RestaurantID: 1, TableID: &tid, UserID: 7, PartySize: 2,
		StartsAt: start, EndsAt: start.Add(2 * time.Hour), Status: status,
	}
	env.reservations.rows[id] = r
	if id > env.reservations.nextID {
		env.reservations.nextID = id
	}
	return r
}

func (env *testEnv) expectCommit() {
	env.mock.ExpectBegin()
	env.mock.ExpectCommit()
}

func (env *testEnv) expectRollback() {
	env.mock.ExpectBegin()
	env.mock.ExpectRollback()
}

func TestCreateReservationOffPeakAutoConfirms(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 8, model.TableAvailable)
	env.addTable(2, 4, model.TableAvailable)

	env.expectCommit()
	res, err := env.eng.CreateReservation(context.Background(),
		Actor{UserID: 7, Role: RoleCustomer},
		CreateParams{RestaurantID: 1, Date: "2026-03-16", Time: "12:00", PartySize: 2})
	require.NoError(t, err)

	assert.Equal(t, model.ReservationConfirmed, res.Reservation.Status)
	require.NotNil(t, res.Reservation.TableID)
	assert.Equal(t, uint64(2), *res.Reservation.TableID) // tightest fit wins
	assert.Empty(t, res.DepositRef)
	assert.Equal(t, model.TableReserved, env.tables.rows[2].Status)
	assert.Equal(t, []uint64{res.Reservation.ID}, env.notifier.confirmed)
}

func TestPeakBookingGatesOnDeposit(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableAvailable)

	env.expectCommit()
	res, err := env.eng.CreateReservation(context.Background(),
		Actor{UserID: 7, Role: RoleCustomer},
		CreateParams{RestaurantID: 1, Date: "2026-03-20", Time: "19:00", PartySize: 2})
	require.NoError(t, err)

	booking := res.Reservation
	assert.Equal(t, model.ReservationPending, booking.Status)
	assert.True(t, booking.DepositRequired)
	assert.True(t, decimal.NewFromInt(25).Equal(booking.DepositAmount))
	require.NotEmpty(t, res.DepositRef)

	// Staff cannot confirm past an unpaid deposit.
	env.expectRollback()
	_, err = env.eng.ConfirmReservation(context.Background(), Actor{UserID: 9, Role: RoleStaff}, booking.ID)
	assert.ErrorIs(t, err, ErrDepositUnpaid)
	assert.Equal(t, model.ReservationPending, env.reservations.rows[booking.ID].Status)

	// The payment callback does.
	env.expectCommit()
	confirmed, err := env.eng.ConfirmDeposit(context.Background(), res.DepositRef)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, confirmed.Status)
	assert.True(t, confirmed.DepositPaid)

	// The reference is single-use.
	_, err = env.eng.ConfirmDeposit(context.Background(), res.DepositRef)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReservationLastTableConflict(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableAvailable)
	ctx := context.Background()

	env.expectCommit()
	first, err := env.eng.CreateReservation(ctx,
		Actor{UserID: 7, Role: RoleCustomer},
		CreateParams{RestaurantID: 1, Date: "2026-03-16", Time: "12:00", PartySize: 2})
	require.NoError(t, err)

	// An overlapping window on the only table loses.
	env.expectRollback()
	_, err = env.eng.CreateReservation(ctx,
		Actor{UserID: 8, Role: RoleCustomer},
		CreateParams{RestaurantID: 1, Date: "2026-03-16", Time: "13:00", PartySize: 3})
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// A window after the first ends succeeds.
	env.expectCommit()
	second, err := env.eng.CreateReservation(ctx,
		Actor{UserID: 8, Role: RoleCustomer},
		CreateParams{RestaurantID: 1, Date: "2026-03-16", Time: "14:00", PartySize: 3})
	require.NoError(t, err)
	assert.NotEqual(t, first.Reservation.ID, second.Reservation.ID)
}

func TestReleaseIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableOccupied)
	env.seedReservation(1, 1, model.ReservationArrived, testDay.Add(19*time.Hour))
	staff := Actor{UserID: 9, Role: RoleStaff}

	env.expectCommit()
	res, err := env.eng.Release(context.Background(), staff, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCompleted, res.Status)
	assert.Equal(t, model.TableAvailable, env.tables.rows[1].Status)
	changes := len(env.tables.log)

	// A second tap at the register is a no-op on the same end state.
	env.expectCommit()
	res, err = env.eng.Release(context.Background(), staff, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCompleted, res.Status)
	assert.Len(t, env.tables.log, changes)
}

func TestCancelKeepsTableUnderSeatedParty(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableOccupied)
	// A party is seated at the table right now...
	env.seedReservation(1, 1, model.ReservationArrived, env.now.Add(-30*time.Minute))
	// ...and the same table is booked again for tomorrow evening.
	env.seedReservation(2, 1, model.ReservationConfirmed, testDay.Add(24*time.Hour).Add(19*time.Hour))

	env.expectCommit()
	_, err := env.eng.CancelReservation(context.Background(), Actor{UserID: 9, Role: RoleStaff}, 2)
	require.NoError(t, err)

	// Cancelling tomorrow's booking must not pull the table out from
	// under the seated party or fire a waitlist offer.
	assert.Equal(t, model.TableOccupied, env.tables.rows[1].Status)
	assert.Empty(t, env.tables.log)
	assert.Empty(t, env.notifier.offers)
}

func TestCancelKeepsTableReservedForLaterBooking(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableReserved)
	env.seedReservation(1, 1, model.ReservationConfirmed, testDay.Add(12*time.Hour))
	env.seedReservation(2, 1, model.ReservationConfirmed, testDay.Add(19*time.Hour))

	env.expectCommit()
	_, err := env.eng.CancelReservation(context.Background(), Actor{UserID: 7, Role: RoleCustomer}, 1)
	require.NoError(t, err)

	assert.Equal(t, model.TableReserved, env.tables.rows[1].Status)
	assert.Empty(t, env.notifier.offers)
}

func TestFreedTableOffersFirstFittingParty(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableReserved)
	env.seedReservation(1, 1, model.ReservationConfirmed, testDay.Add(19*time.Hour))
	env.waitlist.rows[1] = &model.WaitlistEntry{
		ID: 1, RestaurantID: 1, Name: "Big", PartySize: 6, Priority: 1, Status: model.WaitlistWaiting,
	}
	env.waitlist.rows[2] = &model.WaitlistEntry{
		ID: 2, RestaurantID: 1, Name: "Deuce", PartySize: 2, Priority: 2, Status: model.WaitlistWaiting,
	}
	env.waitlist.nextID = 2

	env.expectCommit()
	_, err := env.eng.CancelReservation(context.Background(), Actor{UserID: 7, Role: RoleCustomer}, 1)
	require.NoError(t, err)

	// The six-top does not fit a four-seat table; the deuce is proposed
	// even though it queued later.
	assert.Equal(t, model.TableAvailable, env.tables.rows[1].Status)
	assert.Equal(t, []uint64{2}, env.notifier.offers)
	assert.Equal(t, model.WaitlistAssigned, env.waitlist.rows[2].Status)
	assert.Equal(t, model.WaitlistWaiting, env.waitlist.rows[1].Status)
}

func TestCheckInEnforcesArrivalWindow(t *testing.T) {
	env := newTestEnv(t)
	env.addTable(1, 4, model.TableReserved)
	start := testDay.Add(13 * time.Hour)
	env.seedReservation(1, 1, model.ReservationConfirmed, start)
	staff := Actor{UserID: 9, Role: RoleStaff}

	// 20 minutes past start exceeds the 15-minute tolerance.
	env.now = start.Add(20 * time.Minute)
	env.expectRollback()
	_, err := env.eng.CheckIn(context.Background(), staff, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// 10 minutes past start is inside the window.
	env.now = start.Add(10 * time.Minute)
	env.expectCommit()
	res, err := env.eng.CheckIn(context.Background(), staff, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationArrived, res.Status)
	require.NotNil(t, res.ArrivedAt)
	assert.Equal(t, model.TableOccupied, env.tables.rows[1].Status)
}
