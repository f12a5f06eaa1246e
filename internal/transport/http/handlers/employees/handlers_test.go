package employeeshandler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/transport/http/handlers/handlertest"
)

type fakeDirectory struct {
	list      []employees.Employee
	lastInput employees.UpdateInput
	deleted   []string
}

func (f *fakeDirectory) List(context.Context) ([]employees.Employee, error) {
	return f.list, nil
}

func (f *fakeDirectory) find(id string) (employees.Employee, bool) {
	for _, emp := range f.list {
		if emp.ID == id {
			return emp, true
		}
	}
	return employees.Employee{}, false
}

func (f *fakeDirectory) Update(_ context.Context, id string, input employees.UpdateInput) (employees.Employee, error) {
	f.lastInput = input
	if input.Empty() {
		return employees.Employee{}, employees.ErrNoChanges
	}
	emp, ok := f.find(id)
	if !ok {
		return employees.Employee{}, employees.ErrEmployeeNotFound
	}
	if input.Email != nil {
		emp.Email = *input.Email
	}
	return emp, nil
}

func (f *fakeDirectory) Delete(_ context.Context, id string) error {
	if _, ok := f.find(id); !ok {
		return employees.ErrEmployeeNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDirectory) Badge(_ context.Context, id string, _ int) (employees.Employee, []byte, error) {
	emp, ok := f.find(id)
	if !ok {
		return employees.Employee{}, nil, employees.ErrEmployeeNotFound
	}
	return emp, []byte("\x89PNG"), nil
}

func newRouter(dir *fakeDirectory, aud *handlertest.Audit) http.Handler {
	h := NewHandler(dir, aud)
	return handlertest.Router(func(r chi.Router) { h.RegisterRoutes(r) })
}

func seeded() *fakeDirectory {
	return &fakeDirectory{list: []employees.Employee{
		{ID: "1", Code: "EMP-1", Name: "Ana", Email: "ana@example.com", Position: "Clerk", Type: employees.TypeFullTime, Salary: decimal.NewFromInt(20000)},
		{ID: "2", Code: "EMP-2", Name: "Ben", Email: "ben@example.com", Position: "Driver", Type: employees.TypeContractor},
	}}
}

func TestListRequiresAdmin(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})

	rec := handlertest.Do(t, router, http.MethodGet, "/employees", "", handlertest.Token(t, "1", auth.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = handlertest.Do(t, router, http.MethodGet, "/employees", "", handlertest.Token(t, "a1", auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	handlertest.Decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "EMP-1", resp.Employees[0].Code)
}

func TestDirectoryProjectsContact(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})
	rec := handlertest.Do(t, router, http.MethodGet, "/all/employees", "", handlertest.Token(t, "a1", auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	handlertest.Decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana@example.com", rows[0]["contact"])
	assert.NotContains(t, rows[0], "email")
}

func TestUpdateAcceptsDirectoryAliases(t *testing.T) {
	dir := seeded()
	aud := &handlertest.Audit{}
	router := newRouter(dir, aud)
	admin := handlertest.Token(t, "a1", auth.RoleAdmin)

	rec := handlertest.Do(t, router, http.MethodPut, "/employees/1", `{"contact":"ana.new@example.com","employmentType":"Part-Time"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, dir.lastInput.Email)
	assert.Equal(t, "ana.new@example.com", *dir.lastInput.Email)
	require.NotNil(t, dir.lastInput.Type)
	assert.Equal(t, employees.TypePartTime, *dir.lastInput.Type)
	assert.Equal(t, []string{"employee.update"}, aud.Actions())
	assert.Equal(t, map[string]any{"fields": []string{"email", "type"}}, aud.Details[0])
}

func TestUpdateErrors(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})
	admin := handlertest.Token(t, "a1", auth.RoleAdmin)

	rec := handlertest.Do(t, router, http.MethodPut, "/employees/1", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_changes", handlertest.ErrorCode(t, rec))

	rec = handlertest.Do(t, router, http.MethodPut, "/employees/9", `{"name":"Zed"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = handlertest.Do(t, router, http.MethodPut, "/employees/1", `{"type":"Intern"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", handlertest.ErrorCode(t, rec))
}

func TestDelete(t *testing.T) {
	dir := seeded()
	aud := &handlertest.Audit{}
	router := newRouter(dir, aud)
	admin := handlertest.Token(t, "a1", auth.RoleAdmin)

	rec := handlertest.Do(t, router, http.MethodDelete, "/employees/2", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2"}, dir.deleted)
	assert.Equal(t, []string{"employee.delete"}, aud.Actions())

	rec = handlertest.Do(t, router, http.MethodDelete, "/employees/9", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadgeAccess(t *testing.T) {
	router := newRouter(seeded(), &handlertest.Audit{})

	rec := handlertest.Do(t, router, http.MethodGet, "/employees/1/qrcode", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = handlertest.Do(t, router, http.MethodGet, "/employees/2/qrcode", "", handlertest.Token(t, "1", auth.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = handlertest.Do(t, router, http.MethodGet, "/employees/1/qrcode", "", handlertest.Token(t, "1", auth.RoleEmployee))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "EMP-1.png")

	rec = handlertest.Do(t, router, http.MethodGet, "/employees/1/qrcode?size=5", "", handlertest.Token(t, "a1", auth.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
