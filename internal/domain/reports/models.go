package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"qrhrm/internal/domain/attendance"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/domain/leave"
	"qrhrm/internal/domain/payroll"
)

type TimeOffCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
}

type Categories struct {
	FullTime    int `json:"fullTime"`
	PartTime    int `json:"partTime"`
	Contractors int `json:"contractors"`
}

type AdminDashboard struct {
	TotalEmployees           int             `json:"totalEmployees"`
	OverallAttendancePercent int             `json:"overallAttendancePercent"`
	TotalPayroll             decimal.Decimal `json:"totalPayroll"`
	TotalTimeOff             TimeOffCounts   `json:"totalTimeOff"`
	TotalEmployeeCategories  Categories      `json:"totalEmployeeCategories"`
	Messages                 []string        `json:"messages"`
}

type EmployeeMetrics struct {
	AttendanceRate        int             `json:"attendanceRate"`
	UsedLeaveDays         float64         `json:"usedLeaveDays"`
	RemainingLeaveDays    float64         `json:"remainingLeaveDays"`
	TotalAllowedLeaveDays int             `json:"totalAllowedLeaveDays"`
	RecentPayroll         decimal.Decimal `json:"recentPayroll"`
}

type TodayStatus struct {
	ClockedIn  bool       `json:"clockedIn"`
	ClockedOut bool       `json:"clockedOut"`
	TimeIn     *time.Time `json:"timeIn,omitempty"`
	TimeOut    *time.Time `json:"timeOut,omitempty"`
}

type EmployeeDashboard struct {
	Profile                 employees.Employee `json:"profile"`
	Metrics                 EmployeeMetrics    `json:"metrics"`
	Today                   TodayStatus        `json:"today"`
	RecentAttendance        []attendance.Row   `json:"recentAttendance"`
	LeaveRequestsSummary    TimeOffCounts      `json:"leaveRequestsSummary"`
	IndividualLeaveRequests []leave.Request    `json:"individualLeaveRequests"`
	RecentPayslips          []payroll.Record   `json:"recentPayslips"`
}
