package leave

import (
	"testing"
	"time"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}

	end = time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	days, err = CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
}

func TestCalculateDaysInvalid(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)

	_, err := CalculateDays(start, end)
	if err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSummarizeBalance(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	requests := []Request{
		{StartDate: day(1), EndDate: day(3), Status: StatusApproved},
		{StartDate: day(10), EndDate: day(10), Status: StatusApproved},
		{StartDate: day(14), EndDate: day(20), Status: StatusPending},
		{StartDate: day(21), EndDate: day(22), Status: StatusDenied},
	}

	got := SummarizeBalance(requests, AnnualAllowance)
	if got.Used != 4 || got.Remaining != 16 || got.TotalAllowed != 20 {
		t.Fatalf("unexpected balance: %+v", got)
	}

	got = SummarizeBalance(requests, 2)
	if got.Remaining != 0 {
		t.Fatalf("remaining must not go negative: %+v", got)
	}
}

func TestParseDecision(t *testing.T) {
	if _, ok := ParseDecision(StatusApproved); !ok {
		t.Fatal("approved should be accepted")
	}
	if _, ok := ParseDecision(StatusPending); ok {
		t.Fatal("pending is not a decision")
	}
	if _, ok := ParseDecision("approved"); ok {
		t.Fatal("decisions are case-sensitive")
	}
}
