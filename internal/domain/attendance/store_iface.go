package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindEmployeeByCode(ctx context.Context, code string) (Employee, error)
	FindEmployeeByID(ctx context.Context, id string) (Employee, error)
	// TodaysRecord returns the record for (employee, day), preferring the
	// latest time in if more than one exists.
	TodaysRecord(ctx context.Context, employeeID string, day time.Time) (Record, bool, error)
	RecordExists(ctx context.Context, employeeID string, day time.Time) (bool, error)
	// InsertIfAbsent inserts rec unless a record for the same employee and
	// day exists, in which case the existing record is returned with false.
	InsertIfAbsent(ctx context.Context, rec Record) (Record, bool, error)
	// ClockInExisting sets time_in on a record that has none.
	ClockInExisting(ctx context.Context, recordID string, at time.Time) (Record, bool, error)
	// CloseRecord sets time_out on a record that has none.
	CloseRecord(ctx context.Context, recordID string, at time.Time) (Record, bool, error)
	Query(ctx context.Context, filter Filter) ([]Row, error)
}

var _ StoreAPI = (*Store)(nil)
