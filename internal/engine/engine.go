// Package engine implements the reservation and table allocation engine:
// slot availability, the reservation state machine, table occupancy and
// the walk-in waitlist.  Every read-check-write runs as one database
// transaction with the restaurant's table rows locked, so two concurrent
// bookings for the last table resolve to exactly one success.
package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/restaurant-table-reservation/internal/availability"
	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/monitoring"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/timeslot"
)

// Notifier hands finished engine events to the notification dispatcher.
// Implementations must be fire and forget: failures are logged by the
// implementation and never propagate back into engine transactions.
type Notifier interface {
	ReservationBooked(ctx context.Context, res *model.Reservation)
	ReservationConfirmed(ctx context.Context, res *model.Reservation)
	ReservationCancelled(ctx context.Context, res *model.Reservation)
	WaitlistOffered(ctx context.Context, entry *model.WaitlistEntry, table *model.Table)
}

// Engine composes the stores into the booking and check-in/release
// operations.  One instance serves all restaurants; locking granularity
// is per restaurant (table row locks in MySQL, a per-restaurant writer
// mutex for the waitlist), never global.
type Engine struct {
	restaurants  RestaurantStore
	policies     PolicyStore
	tables       TableStore
	reservations ReservationStore
	waitlist     WaitlistStore
	deposits     cache.Store
	notifier     Notifier
	now          func() time.Time

	mu         sync.Mutex
	queueLocks map[uint64]*sync.Mutex
}

// New constructs an Engine.  All dependencies must be non-nil.
func New(
	restaurants RestaurantStore,
	policies PolicyStore,
	tables TableStore,
	reservations ReservationStore,
	waitlist WaitlistStore,
	deposits cache.Store,
	notifier Notifier,
) *Engine {
	if restaurants == nil || policies == nil || tables == nil || reservations == nil ||
		waitlist == nil || deposits == nil || notifier == nil {
		panic("nil dependency passed to engine.New")
	}
	return &Engine{
		restaurants:  restaurants,
		policies:     policies,
		tables:       tables,
		reservations: reservations,
		waitlist:     waitlist,
		deposits:     deposits,
		notifier:     notifier,
		now:          time.Now,
		queueLocks:   make(map[uint64]*sync.Mutex),
	}
}

// txTimeout bounds how long a mutating operation may wait for its locks
// before failing with ErrBusy instead of blocking the caller.
const txTimeout = 5 * time.Second

// depositRefBytes sizes the random deposit reference (hex doubles it).
const depositRefBytes = 24

// maxDepositAttempts caps confirmation tries per deposit reference.
const maxDepositAttempts = 10

// withTx runs fn inside a transaction with a bounded timeout, rolling
// back unless fn succeeds and commit goes through.  MySQL lock-wait and
// deadlock failures surface as the retryable ErrBusy.
func (e *Engine) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	tx, err := e.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return mapBusy(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(ctx, tx); err != nil {
		return mapBusy(err)
	}
	if err := tx.Commit(); err != nil {
		return mapBusy(err)
	}
	committed = true
	return nil
}

// mapBusy converts transient contention failures into ErrBusy.
func mapBusy(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1205 lock wait timeout, 1213 deadlock
		if me.Number == 1205 || me.Number == 1213 {
			return ErrBusy
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBusy
	}
	return err
}

// GetSlots returns the slot list for one restaurant, day and party size.
// Pure read: it never blocks writers and may serve a slot that is claimed
// microseconds later; the authoritative conflict check happens inside
// CreateReservation.
func (e *Engine) GetSlots(ctx context.Context, restaurantID uint64, date string, partySize int) ([]availability.Slot, error) {
	rest, err := e.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if partySize < 1 || partySize > rest.MaxPartySize {
		return nil, ErrInvalidPartySize
	}
	day, err := timeslot.ParseDate(date)
	if err != nil {
		return nil, err
	}
	pol, err := e.policies.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	tables, err := e.tables.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	from := timeslot.At(day, rest.OpenMinute)
	to := timeslot.At(day, rest.CloseMinute)
	active, err := e.reservations.ListActiveInWindow(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	return availability.Compute(rest, pol, tables, active, day, partySize), nil
}

// CreateParams carries a booking request.
type CreateParams struct {
	RestaurantID   uint64
	Date           string // YYYY-MM-DD
	Time           string // HH:MM, aligned to the restaurant's granularity
	PartySize      int
	Occasion       *string
	SpecialRequest *string
}

// CreateResult is the outcome of a successful booking.  DepositRef is
// non-empty only for deposit-gated reservations; the external payment
// collaborator must echo it back on POST /v1/payments/confirm before the
// reservation can leave pending.
type CreateResult struct {
	Reservation *model.Reservation
	DepositRef  string
}

// CreateReservation books a table.  The table selection runs inside the
// same transaction that inserts the reservation row and flips the chosen
// table to reserved, with all of the restaurant's table rows locked, so
// a slot can never be sold twice.
func (e *Engine) CreateReservation(ctx context.Context, actor Actor, p CreateParams) (*CreateResult, error) {
	started := e.now()
	res, ref, err := e.createReservation(ctx, actor, p)
	monitoring.TrackBooking(bookingOutcome(err), e.now().Sub(started))
	if err != nil {
		return nil, err
	}
	if res.Status == model.ReservationConfirmed {
		e.notifier.ReservationConfirmed(ctx, res)
	} else {
		e.notifier.ReservationBooked(ctx, res)
	}
	return &CreateResult{Reservation: res, DepositRef: ref}, nil
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoTableAvailable):
		return "no_table"
	case errors.Is(err, ErrBusy):
		return "busy"
	default:
		return "error"
	}
}

func (e *Engine) createReservation(ctx context.Context, actor Actor, p CreateParams) (*model.Reservation, string, error) {
	rest, err := e.restaurants.GetByID(ctx, p.RestaurantID)
	if err != nil {
		return nil, "", mapNotFound(err)
	}
	pol, err := e.policies.GetByRestaurant(ctx, p.RestaurantID)
	if err != nil {
		return nil, "", err
	}
	if p.PartySize < 1 || p.PartySize > rest.MaxPartySize {
		return nil, "", ErrInvalidPartySize
	}
	day, err := timeslot.ParseDate(p.Date)
	if err != nil {
		return nil, "", err
	}
	minute, err := timeslot.ParseClock(p.Time)
	if err != nil {
		return nil, "", err
	}
	if minute < rest.OpenMinute || minute+rest.ServiceMinutes > rest.CloseMinute ||
		(minute-rest.OpenMinute)%rest.SlotMinutes != 0 {
		return nil, "", ErrOutsideOperatingHours
	}
	win := timeslot.NewWindow(timeslot.At(day, minute), rest.ServiceMinutes)
	now := e.now().UTC()
	if !win.Start.After(now) || win.Start.After(now.AddDate(0, 0, pol.MaxLeadDays)) {
		return nil, "", ErrOutsideBookingWindow
	}

	peak, isPeak := pol.PeakAt(day.Weekday(), minute)
	res := &model.Reservation{
		RestaurantID:   p.RestaurantID,
		UserID:         actor.UserID,
		PartySize:      p.PartySize,
		StartsAt:       win.Start,
		EndsAt:         win.End,
		Status:         model.ReservationPending,
		Occasion:       p.Occasion,
		SpecialRequest: p.SpecialRequest,
	}
	if isPeak {
		res.DepositRequired = true
		res.DepositAmount = peak.Deposit
	} else if pol.AutoConfirm {
		res.Status = model.ReservationConfirmed
	}

	err = e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tables, err := e.tables.ListByRestaurantForUpdateTx(ctx, tx, p.RestaurantID)
		if err != nil {
			return err
		}
		active, err := e.reservations.ListActiveInWindowTx(ctx, tx, p.RestaurantID, win.Start, win.End)
		if err != nil {
			return err
		}
		table, ok := availability.SelectTable(tables, active, win, p.PartySize)
		if !ok {
			return ErrNoTableAvailable
		}
		res.TableID = &table.ID
		if err := e.reservations.CreateTx(ctx, tx, res); err != nil {
			return err
		}
		return e.tables.UpdateStatusTx(ctx, tx, table.ID, model.TableReserved)
	})
	if err != nil {
		return nil, "", err
	}
	monitoring.TrackTransition(string(res.Status))

	var ref string
	if res.DepositRequired {
		ref, err = randomRef()
		if err == nil {
			ttl := time.Duration(pol.DepositExpiryMinutes) * time.Minute
			err = e.deposits.Set(ctx, depositKey(ref), strconv.FormatUint(res.ID, 10), ttl)
		}
		if err != nil {
			// The booking itself committed.  Without a reference the
			// deposit can never be confirmed, so the sweeper will expire
			// the pending reservation after the policy window.
			log.Printf("engine: storing deposit ref for reservation %d failed: %v", res.ID, err)
			ref = ""
		}
	}
	return res, ref, nil
}

func depositKey(ref string) string { return "deposit:" + ref }

func randomRef() (string, error) {
	b := make([]byte, depositRefBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// offer is a freed-table proposal collected during a transaction and
// dispatched after commit.
type offer struct {
	entry *model.WaitlistEntry
	table *model.Table
}

// freeTableTx re-derives a table's occupancy after the reservation
// excludeID stopped claiming it.  Blocked tables stay blocked.  A party
// seated at the table right now keeps it occupied; any other active
// reservation keeps it reserved.  Only a table with no remaining claim
// returns to available, and then the next fitting waitlist party is
// proposed.
func (e *Engine) freeTableTx(ctx context.Context, tx *sql.Tx, tableID, excludeID uint64) (*offer, error) {
	table, err := e.tables.GetByIDTx(ctx, tx, tableID)
	if err != nil {
		return nil, err
	}
	if table.Status == model.TableBlocked {
		return nil, nil
	}
	seated, err := e.reservations.HasArrivedForTableTx(ctx, tx, tableID, excludeID)
	if err != nil {
		return nil, err
	}
	if seated {
		if table.Status != model.TableOccupied {
			if err := e.tables.UpdateStatusTx(ctx, tx, tableID, model.TableOccupied); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	taken, err := e.reservations.HasOtherActiveForTableTx(ctx, tx, tableID, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		if table.Status != model.TableReserved {
			if err := e.tables.UpdateStatusTx(ctx, tx, tableID, model.TableReserved); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	if err := e.tables.UpdateStatusTx(ctx, tx, tableID, model.TableAvailable); err != nil {
		return nil, err
	}
	table.Status = model.TableAvailable
	return e.offerNextMatchTx(ctx, tx, table)
}

// dispatchOffer notifies the proposed party after the transaction
// committed.  Notification failures are logged by the notifier and never
// undo the assignment.
func (e *Engine) dispatchOffer(ctx context.Context, o *offer) {
	if o == nil {
		return
	}
	monitoring.TrackWaitlistOffer()
	e.notifier.WaitlistOffered(ctx, o.entry, o.table)
}

// CancelReservation withdraws a pending or confirmed reservation.
// Customers may cancel only their own; staff may cancel any.  On success
// the table is released and the freed window offered to the waitlist.
func (e *Engine) CancelReservation(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	var off *offer
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if actor.Role == RoleCustomer && res.UserID != actor.UserID {
			return ErrForbidden
		}
		if err := CanTransition(res.Status, model.ReservationCancelled, actor.Role); err != nil {
			return err
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationCancelled); err != nil {
			return err
		}
		res.Status = model.ReservationCancelled
		if res.TableID != nil {
			off, err = e.freeTableTx(ctx, tx, *res.TableID, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationCancelled))
	e.notifier.ReservationCancelled(ctx, res)
	e.dispatchOffer(ctx, off)
	return res, nil
}

// ConfirmReservation moves a pending reservation to confirmed.  Deposit
// gating applies: a peak reservation stays pending until the payment
// collaborator has confirmed its deposit.
func (e *Engine) ConfirmReservation(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := CanTransition(res.Status, model.ReservationConfirmed, actor.Role); err != nil {
			return err
		}
		if res.DepositRequired && !res.DepositPaid {
			return ErrDepositUnpaid
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationConfirmed); err != nil {
			return err
		}
		res.Status = model.ReservationConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationConfirmed))
	e.notifier.ReservationConfirmed(ctx, res)
	return res, nil
}

// ConfirmDeposit is the payment collaborator's callback.  The reference
// must match a live deposit key; the reservation then records the payment
// and is confirmed.  Attempts are counted per reference so a leaked value
// cannot be brute-forced against indefinitely.
func (e *Engine) ConfirmDeposit(ctx context.Context, ref string) (*model.Reservation, error) {
	if n, err := e.deposits.Incr(ctx, depositKey(ref), time.Hour); err == nil && n > maxDepositAttempts {
		return nil, ErrNotFound
	}
	val, err := e.deposits.Get(ctx, depositKey(ref))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	var res *model.Reservation
	err = e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := CanTransition(res.Status, model.ReservationConfirmed, RoleSystem); err != nil {
			return err
		}
		if err := e.reservations.SetDepositPaidTx(ctx, tx, id); err != nil {
			return err
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationConfirmed); err != nil {
			return err
		}
		res.DepositPaid = true
		res.Status = model.ReservationConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = e.deposits.Delete(ctx, depositKey(ref))
	monitoring.TrackTransition(string(model.ReservationConfirmed))
	e.notifier.ReservationConfirmed(ctx, res)
	return res, nil
}

// CheckIn marks a confirmed party as arrived.  Staff only, and only
// within the arrival window [start − grace, start + tolerance]; outside
// it the check-in is an invalid transition (a late party is the sweeper's
// business).
func (e *Engine) CheckIn(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := CanTransition(res.Status, model.ReservationArrived, actor.Role); err != nil {
			return err
		}
		pol, err := e.policies.GetByRestaurantTx(ctx, tx, res.RestaurantID)
		if err != nil {
			return err
		}
		now := e.now().UTC()
		earliest := res.StartsAt.Add(-time.Duration(pol.GraceMinutes) * time.Minute)
		latest := res.StartsAt.Add(time.Duration(pol.ToleranceMinutes) * time.Minute)
		if now.Before(earliest) || now.After(latest) {
			return ErrInvalidTransition
		}
		if err := e.reservations.SetArrivedTx(ctx, tx, id, now); err != nil {
			return err
		}
		res.Status = model.ReservationArrived
		res.ArrivedAt = &now
		if res.TableID != nil {
			if err := e.tables.UpdateStatusTx(ctx, tx, *res.TableID, model.TableOccupied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationArrived))
	return res, nil
}

// Release closes an arrived visit: the reservation completes and the
// table is freed.  Calling Release on an already completed reservation is
// a no-op returning the same end state, so a double tap at the register
// never double-frees a table.
func (e *Engine) Release(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	var off *offer
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if res.Status == model.ReservationCompleted {
			return nil // idempotent
		}
		if err := CanTransition(res.Status, model.ReservationCompleted, actor.Role); err != nil {
			return err
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationCompleted); err != nil {
			return err
		}
		res.Status = model.ReservationCompleted
		if res.TableID != nil {
			off, err = e.freeTableTx(ctx, tx, *res.TableID, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationCompleted))
	e.dispatchOffer(ctx, off)
	return res, nil
}

// MarkNoShow transitions a confirmed reservation whose tolerance elapsed.
// Driven by the sweeper with the system actor or by staff at the podium.
func (e *Engine) MarkNoShow(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	var off *offer
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := CanTransition(res.Status, model.ReservationNoShow, actor.Role); err != nil {
			return err
		}
		pol, err := e.policies.GetByRestaurantTx(ctx, tx, res.RestaurantID)
		if err != nil {
			return err
		}
		if e.now().UTC().Before(res.StartsAt.Add(time.Duration(pol.ToleranceMinutes) * time.Minute)) {
			return ErrInvalidTransition
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationNoShow); err != nil {
			return err
		}
		res.Status = model.ReservationNoShow
		if res.TableID != nil {
			off, err = e.freeTableTx(ctx, tx, *res.TableID, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationNoShow))
	e.dispatchOffer(ctx, off)
	return res, nil
}

// ExpireDeposit cancels a pending reservation whose deposit window ran
// out.  Sweeper only.
func (e *Engine) ExpireDeposit(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	var off *offer
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		res, err = e.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if res.Status != model.ReservationPending || !res.DepositRequired || res.DepositPaid {
			return ErrInvalidTransition
		}
		if err := e.reservations.UpdateStatusTx(ctx, tx, id, model.ReservationCancelled); err != nil {
			return err
		}
		res.Status = model.ReservationCancelled
		if res.TableID != nil {
			off, err = e.freeTableTx(ctx, tx, *res.TableID, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.TrackTransition(string(model.ReservationCancelled))
	e.notifier.ReservationCancelled(ctx, res)
	e.dispatchOffer(ctx, off)
	return res, nil
}

// GetReservation loads one reservation, enforcing that customers only
// see their own.
func (e *Engine) GetReservation(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	res, err := e.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if actor.Role == RoleCustomer && res.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return res, nil
}

// ListReservations returns the acting diner's reservations, newest first.
func (e *Engine) ListReservations(ctx context.Context, actor Actor) ([]model.Reservation, error) {
	return e.reservations.ListByUser(ctx, actor.UserID)
}

// ListTables returns a restaurant's tables for the staff floor map.
func (e *Engine) ListTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	if _, err := e.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, mapNotFound(err)
	}
	return e.tables.ListByRestaurant(ctx, restaurantID)
}

// SetTableStatus is the manual staff override (e.g. blocking a table for
// maintenance).  Marking a table available re-validates atomically that
// no confirmed or arrived reservation claims it right now, and a table
// that does become available is offered to the waitlist.
func (e *Engine) SetTableStatus(ctx context.Context, actor Actor, tableID uint64, status model.TableStatus) (*model.Table, error) {
	if actor.Role != RoleStaff {
		return nil, ErrForbidden
	}
	if !model.ValidTableStatus(status) {
		return nil, ErrInvalidTransition
	}
	var table *model.Table
	var off *offer
	err := e.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		table, err = e.tables.GetByIDTx(ctx, tx, tableID)
		if err != nil {
			return mapNotFound(err)
		}
		if status == model.TableAvailable {
			claimed, err := e.reservations.HasBlockingForTableTx(ctx, tx, tableID, e.now())
			if err != nil {
				return err
			}
			if claimed {
				return ErrTableClaimed
			}
		}
		if err := e.tables.UpdateStatusTx(ctx, tx, tableID, status); err != nil {
			return err
		}
		table.Status = status
		if status == model.TableAvailable {
			off, err = e.offerNextMatchTx(ctx, tx, table)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.dispatchOffer(ctx, off)
	return table, nil
}
