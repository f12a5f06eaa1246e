package payrollhandler

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/payroll"
	"qrhrm/internal/platform/clock"
	"qrhrm/internal/transport/http/handlers/handlertest"
)

type fakePayroll struct {
	records []payroll.Record
	created []payroll.CreateInput
}

func (f *fakePayroll) Create(_ context.Context, input payroll.CreateInput) (payroll.Record, error) {
	if input.EmployeeCode != "EMP-1" {
		return payroll.Record{}, payroll.ErrEmployeeNotFound
	}
	f.created = append(f.created, input)
	rec := payroll.Record{ID: "p9", EmployeeCode: input.EmployeeCode, FinalSalary: input.FinalSalary}
	return rec, nil
}

func (f *fakePayroll) List(context.Context) ([]payroll.Record, error) {
	return f.records, nil
}

func (f *fakePayroll) Update(_ context.Context, id string, input payroll.UpdateInput) (payroll.Record, error) {
	if input.Empty() {
		return payroll.Record{}, payroll.ErrNoChanges
	}
	for _, rec := range f.records {
		if rec.ID == id {
			if input.FinalSalary != nil {
				rec.FinalSalary = *input.FinalSalary
			}
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (f *fakePayroll) Delete(_ context.Context, id string) error {
	for _, rec := range f.records {
		if rec.ID == id {
			return nil
		}
	}
	return payroll.ErrRecordNotFound
}

func (f *fakePayroll) Latest(_ context.Context, employeeID string) (payroll.Record, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrNoPayslip
}

func seeded() *fakePayroll {
	return &fakePayroll{records: []payroll.Record{
		{ID: "p1", EmployeeID: "e1", EmployeeCode: "EMP-1", Name: "Ana", FinalSalary: decimal.RequireFromString("1200.50"), CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", EmployeeID: "e2", EmployeeCode: "EMP-2", Name: "Ben", FinalSalary: decimal.RequireFromString("800")},
	}}
}

func newRouter(svc *fakePayroll, aud *handlertest.Audit) http.Handler {
	h := NewHandler(svc, aud, clock.NewManual(time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)))
	return handlertest.Router(func(r chi.Router) { h.RegisterRoutes(r) })
}

func TestListIncludesTotal(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})

	rec := handlertest.Do(t, router, http.MethodGet, "/payroll", "", handlertest.Token(t, "e1", auth.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = handlertest.Do(t, router, http.MethodGet, "/payroll", "", handlertest.Token(t, "a1", auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	handlertest.Decode(t, rec, &resp)
	assert.Len(t, resp.Records, 2)
	assert.Equal(t, "2000.5", resp.Total.String())
}

func TestCreate(t *testing.T) {
	svc := seeded()
	aud := &handlertest.Audit{}
	router := newRouter(svc, aud)
	admin := handlertest.Token(t, "a1", auth.RoleAdmin)

	rec := handlertest.Do(t, router, http.MethodPost, "/payroll", `{"employee_code":"EMP-1","hours_worked":"160","leave_deductions":0,"final_salary":"15000"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "160", svc.created[0].HoursWorked.String())
	assert.Equal(t, []string{"payroll.create"}, aud.Actions())

	rec = handlertest.Do(t, router, http.MethodPost, "/payroll", `{"hours_worked":"160"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", handlertest.ErrorCode(t, rec))

	rec = handlertest.Do(t, router, http.MethodPost, "/payroll", `{"employee_code":"EMP-404"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "employee_not_found", handlertest.ErrorCode(t, rec))
}

func TestUpdateAndDelete(t *testing.T) {
	aud := &handlertest.Audit{}
	router := newRouter(seeded(), aud)
	admin := handlertest.Token(t, "a1", auth.RoleAdmin)

	rec := handlertest.Do(t, router, http.MethodPut, "/payroll/p1", `{"final_salary":"1300"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var got payroll.Record
	handlertest.Decode(t, rec, &got)
	assert.Equal(t, "1300", got.FinalSalary.String())

	rec = handlertest.Do(t, router, http.MethodPut, "/payroll/p1", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = handlertest.Do(t, router, http.MethodPut, "/payroll/nope", `{"final_salary":"1"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = handlertest.Do(t, router, http.MethodDelete, "/payroll/p2", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = handlertest.Do(t, router, http.MethodDelete, "/payroll/nope", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"payroll.update", "payroll.delete"}, aud.Actions())
}

func TestMyPayslip(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})

	rec := handlertest.Do(t, router, http.MethodGet, "/payroll/my-payslip", "", handlertest.Token(t, "e1", auth.RoleEmployee))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=payslip.pdf", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = handlertest.Do(t, router, http.MethodGet, "/payroll/my-payslip", "", handlertest.Token(t, "e7", auth.RoleEmployee))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = handlertest.Do(t, router, http.MethodGet, "/payroll/my-payslip", "", handlertest.Token(t, "a1", auth.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
