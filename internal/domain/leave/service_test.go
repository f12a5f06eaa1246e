package leave

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/domain/auth"
)

type fakeStore struct {
	requests []Request
	nextID   int
}

func (f *fakeStore) Create(_ context.Context, employeeID string, start, end time.Time, reason string) (Request, error) {
	f.nextID++
	req := Request{
		ID:           strconv.Itoa(f.nextID),
		EmployeeID:   employeeID,
		EmployeeName: "Name " + employeeID,
		EmployeeMail: employeeID + "@example.com",
		StartDate:    start,
		EndDate:      end,
		Reason:       reason,
		Status:       StatusPending,
		SubmittedAt:  time.Date(2025, 5, 1, 0, 0, f.nextID, 0, time.UTC),
	}
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeStore) List(_ context.Context, employeeID string) ([]Request, error) {
	out := []Request{}
	for i := len(f.requests) - 1; i >= 0; i-- {
		if employeeID == "" || f.requests[i].EmployeeID == employeeID {
			out = append(out, f.requests[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Request, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return Request{}, ErrRequestNotFound
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, status string) (Request, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			return f.requests[i], nil
		}
	}
	return Request{}, ErrRequestNotFound
}

func (f *fakeStore) DeleteAll(context.Context) (int64, error) {
	n := int64(len(f.requests))
	f.requests = nil
	return n, nil
}

type recordingNotifier struct {
	sent []Request
}

func (r *recordingNotifier) SendDecision(_ context.Context, req Request) {
	r.sent = append(r.sent, req)
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestSubmitRejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	_, err := svc.Submit(context.Background(), "e1", day(5), day(4), "trip")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestListScopesByRole(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "e1", day(1), day(2), " trip ")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "e2", day(3), day(3), "doctor")
	require.NoError(t, err)

	all, err := svc.List(ctx, auth.RoleAdmin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "e2", all[0].EmployeeID, "newest first")

	own, err := svc.List(ctx, auth.RoleEmployee, "e1")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "trip", own[0].Reason)
}

func TestDecide(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)
	ctx := context.Background()

	req, err := svc.Submit(ctx, "e1", day(1), day(2), "trip")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = svc.Decide(ctx, "missing", StatusApproved)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	decision, err := svc.Decide(ctx, req.ID, StatusApproved)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, StatusApproved, decision.Request.Status)
	require.Len(t, notifier.sent, 1)

	decision, err = svc.Decide(ctx, req.ID, StatusApproved)
	require.NoError(t, err)
	assert.False(t, decision.Changed)
	assert.Len(t, notifier.sent, 1, "unchanged status sends nothing")
}

func TestBalanceAndClear(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)
	ctx := context.Background()

	req, err := svc.Submit(ctx, "e1", day(1), day(5), "holiday")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, req.ID, StatusApproved)
	require.NoError(t, err)

	bal, err := svc.Balance(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, Balance{Used: 5, Remaining: 15, TotalAllowed: AnnualAllowance}, bal)

	n, err := svc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDecisionMessage(t *testing.T) {
	msg := DecisionMessage("hr@example.com", Request{
		EmployeeName: "Ana <b>",
		EmployeeMail: "ana@example.com",
		StartDate:    day(1),
		EndDate:      day(2),
		Status:       StatusDenied,
	})
	assert.Equal(t, "Your Leave Request Status Update: Denied", msg.Subject)
	assert.Equal(t, "ana@example.com", msg.To)
	assert.True(t, strings.Contains(msg.Body, "Ana &lt;b&gt;"))
	assert.Contains(t, msg.Body, "2025-06-01")
}
