package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"qrhrm/internal/platform/clock"
)

// Observer is told the kind of every scan outcome.
type Observer interface {
	RecordScan(outcome string)
}

type Option func(*Reconciler)

func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		r.observer = o
	}
}

// Reconciler turns kiosk scans into attendance state transitions. A day moves
// from no record to open (time in) to closed (time out) and never back.
type Reconciler struct {
	store    StoreAPI
	clock    clock.Clock
	policy   Policy
	locks    *keyLock
	observer Observer
}

func NewReconciler(store StoreAPI, clk clock.Clock, policy Policy, opts ...Option) *Reconciler {
	if clk == nil {
		clk = clock.System{}
	}
	r := &Reconciler{
		store:  store,
		clock:  clk,
		policy: policy.withDefaults(),
		locks:  newKeyLock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Policy() Policy {
	return r.policy
}

// Today is the store-local calendar date of the reconciler's clock.
func (r *Reconciler) Today() time.Time {
	return clock.DateOf(r.clock.Now(), r.policy.Location)
}

// HandleScan applies one scan for the employee with the given badge code.
// Only an unknown code is an error; every rejection is an Outcome.
func (r *Reconciler) HandleScan(ctx context.Context, code string) (Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		r.observe(KindUnknownEmployee)
		return nil, ErrEmployeeNotFound
	}
	emp, err := r.store.FindEmployeeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			r.observe(KindUnknownEmployee)
		}
		return nil, err
	}

	unlock := r.locks.Lock(emp.ID)
	defer unlock()

	now := r.clock.Now()
	day := clock.DateOf(now, r.policy.Location)

	rec, found, err := r.store.TodaysRecord(ctx, emp.ID, day)
	if err != nil {
		return nil, fmt.Errorf("load today's record: %w", err)
	}
	if !found {
		timeIn := now
		created, inserted, err := r.store.InsertIfAbsent(ctx, Record{
			EmployeeID: emp.ID,
			Date:       day,
			TimeIn:     &timeIn,
			Status:     StatusPresent,
		})
		if err != nil {
			return nil, fmt.Errorf("clock in: %w", err)
		}
		if inserted {
			return r.done(ClockedIn{Rec: created}), nil
		}
		// Another writer created today's record first.
		rec = created
	}

	outcome, err := r.decide(ctx, rec, now)
	if err != nil {
		return nil, err
	}
	return r.done(outcome), nil
}

func (r *Reconciler) decide(ctx context.Context, rec Record, now time.Time) (Outcome, error) {
	if rec.TimeIn == nil {
		// A manual absent or leave entry; the scan is the day's clock-in.
		updated, ok, err := r.store.ClockInExisting(ctx, rec.ID, now)
		if err != nil {
			return nil, fmt.Errorf("clock in: %w", err)
		}
		if ok {
			return ClockedIn{Rec: updated}, nil
		}
		if updated.TimeIn == nil {
			return nil, fmt.Errorf("clock in: record %s has no time in after update", rec.ID)
		}
		rec = updated
	}

	if rec.TimeOut != nil {
		return AlreadyClockedOut{Rec: rec}, nil
	}

	elapsed := now.Sub(*rec.TimeIn)
	if elapsed < r.policy.Cooldown {
		return TooSoon{Rec: rec, RemainingMinutes: remainingMinutes(r.policy.Cooldown, elapsed)}, nil
	}

	closed, ok, err := r.store.CloseRecord(ctx, rec.ID, now)
	if err != nil {
		return nil, fmt.Errorf("clock out: %w", err)
	}
	if ok {
		return ClockedOut{Rec: closed}, nil
	}
	return AlreadyClockedOut{Rec: closed}, nil
}

// remainingMinutes is the whole number of minutes, rounded up, until the
// cool-down has passed.
func remainingMinutes(cooldown, elapsed time.Duration) int {
	minutes := int(math.Ceil((cooldown - elapsed).Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ManualBackfill records attendance for a specific date without a scan.
// Present entries get the default shift. Existing records are never
// overwritten.
func (r *Reconciler) ManualBackfill(ctx context.Context, code string, status Status, date time.Time) (Row, error) {
	status, err := ParseStatus(string(status))
	if err != nil {
		return Row{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Row{}, ErrEmployeeNotFound
	}
	emp, err := r.store.FindEmployeeByCode(ctx, code)
	if err != nil {
		return Row{}, err
	}

	unlock := r.locks.Lock(emp.ID)
	defer unlock()

	day := calendarDate(date, r.policy.Location)
	exists, err := r.store.RecordExists(ctx, emp.ID, day)
	if err != nil {
		return Row{}, fmt.Errorf("check existing record: %w", err)
	}
	if exists {
		return Row{}, ErrDuplicateRecord
	}

	rec := Record{EmployeeID: emp.ID, Date: day, Status: status}
	if status == StatusPresent {
		timeIn := clock.At(day, r.policy.ShiftStart, r.policy.Location)
		timeOut := clock.At(day, r.policy.ShiftEnd, r.policy.Location)
		rec.TimeIn = &timeIn
		rec.TimeOut = &timeOut
	}

	created, inserted, err := r.store.InsertIfAbsent(ctx, rec)
	if err != nil {
		return Row{}, fmt.Errorf("insert record: %w", err)
	}
	if !inserted {
		return Row{}, ErrDuplicateRecord
	}
	return NewRow(created, emp), nil
}

// Query lists attendance rows matching every non-empty filter field.
func (r *Reconciler) Query(ctx context.Context, filter Filter) ([]Row, error) {
	if filter.Status != "" {
		status, err := ParseStatus(string(filter.Status))
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.Date != nil {
		day := calendarDate(*filter.Date, r.policy.Location)
		filter.Date = &day
	}
	return r.store.Query(ctx, filter)
}

// History lists one employee's records, newest first.
func (r *Reconciler) History(ctx context.Context, employeeID string, limit int) ([]Row, error) {
	return r.store.Query(ctx, Filter{EmployeeID: employeeID, Limit: limit})
}

// TodayFor returns the employee's record for the current day, if any.
func (r *Reconciler) TodayFor(ctx context.Context, employeeID string) (Record, bool, error) {
	return r.store.TodaysRecord(ctx, employeeID, r.Today())
}

func (r *Reconciler) done(o Outcome) Outcome {
	r.observe(o.Kind())
	return o
}

func (r *Reconciler) observe(kind string) {
	if r.observer != nil {
		r.observer.RecordScan(kind)
	}
}

// calendarDate keeps the year, month and day of t as written and anchors it
// at midnight in loc.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
