package reports

import (
	"context"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"qrhrm/internal/domain/attendance"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/domain/leave"
	"qrhrm/internal/domain/payroll"
)

const (
	recentAttendanceLimit = 5
	recentPayslipLimit    = 3
)

type Aggregates interface {
	TotalEmployees(ctx context.Context) (int, error)
	AttendanceCounts(ctx context.Context, employeeID string) (present, total int, err error)
	TotalPayroll(ctx context.Context) (decimal.Decimal, error)
	TimeOffCounts(ctx context.Context) (TimeOffCounts, error)
	EmployeeCategories(ctx context.Context) (Categories, error)
}

type ProfileSource interface {
	Get(ctx context.Context, id string) (employees.Employee, error)
}

type AttendanceSource interface {
	History(ctx context.Context, employeeID string, limit int) ([]attendance.Row, error)
	TodayFor(ctx context.Context, employeeID string) (attendance.Record, bool, error)
}

type LeaveSource interface {
	ListForEmployee(ctx context.Context, employeeID string) ([]leave.Request, error)
}

type PayrollSource interface {
	Recent(ctx context.Context, employeeID string, limit int) ([]payroll.Record, error)
}

var _ Aggregates = (*Store)(nil)

type Service struct {
	Store      Aggregates
	Profiles   ProfileSource
	Attendance AttendanceSource
	Leave      LeaveSource
	Payroll    PayrollSource
}

// AdminDashboard gathers the organisation-wide figures concurrently. A
// failure to count time-off requests degrades to zero counts.
func (s *Service) AdminDashboard(ctx context.Context) (AdminDashboard, error) {
	out := AdminDashboard{Messages: []string{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.Store.TotalEmployees(gctx)
		out.TotalEmployees = total
		return err
	})
	g.Go(func() error {
		present, total, err := s.Store.AttendanceCounts(gctx, "")
		out.OverallAttendancePercent = percent(present, total)
		return err
	})
	g.Go(func() error {
		total, err := s.Store.TotalPayroll(gctx)
		out.TotalPayroll = total
		return err
	})
	g.Go(func() error {
		counts, err := s.Store.TimeOffCounts(gctx)
		if err != nil {
			slog.Warn("time off counts unavailable", "error", err)
			return nil
		}
		out.TotalTimeOff = counts
		return nil
	})
	g.Go(func() error {
		categories, err := s.Store.EmployeeCategories(gctx)
		out.TotalEmployeeCategories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}
	return out, nil
}

// EmployeeDashboard gathers one employee's own figures. Payroll history is
// optional and degrades to an empty list.
func (s *Service) EmployeeDashboard(ctx context.Context, employeeID string) (EmployeeDashboard, error) {
	var (
		out      EmployeeDashboard
		requests []leave.Request
		payslips []payroll.Record
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.Profiles.Get(gctx, employeeID)
		out.Profile = profile
		return err
	})
	g.Go(func() error {
		present, total, err := s.Store.AttendanceCounts(gctx, employeeID)
		out.Metrics.AttendanceRate = percent(present, total)
		return err
	})
	g.Go(func() error {
		rows, err := s.Attendance.History(gctx, employeeID, recentAttendanceLimit)
		out.RecentAttendance = rows
		return err
	})
	g.Go(func() error {
		rec, ok, err := s.Attendance.TodayFor(gctx, employeeID)
		if err != nil || !ok {
			return err
		}
		out.Today = TodayStatus{
			ClockedIn:  rec.TimeIn != nil,
			ClockedOut: rec.TimeOut != nil,
			TimeIn:     rec.TimeIn,
			TimeOut:    rec.TimeOut,
		}
		return nil
	})
	g.Go(func() error {
		var err error
		requests, err = s.Leave.ListForEmployee(gctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		payslips, err = s.Payroll.Recent(gctx, employeeID, recentPayslipLimit)
		if err != nil {
			slog.Warn("employee payroll unavailable", "employeeId", employeeID, "error", err)
			payslips = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return EmployeeDashboard{}, err
	}

	balance := leave.SummarizeBalance(requests, leave.AnnualAllowance)
	out.Metrics.UsedLeaveDays = balance.Used
	out.Metrics.RemainingLeaveDays = balance.Remaining
	out.Metrics.TotalAllowedLeaveDays = balance.TotalAllowed

	if requests == nil {
		requests = []leave.Request{}
	}
	for _, req := range requests {
		out.LeaveRequestsSummary.add(req.Status, 1)
	}
	out.IndividualLeaveRequests = requests

	if payslips == nil {
		payslips = []payroll.Record{}
	}
	out.RecentPayslips = payslips
	out.Metrics.RecentPayroll = decimal.Zero
	if len(payslips) > 0 {
		out.Metrics.RecentPayroll = payslips[0].FinalSalary
	}
	if out.RecentAttendance == nil {
		out.RecentAttendance = []attendance.Row{}
	}
	return out, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
