package attendance

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/platform/clock"
	"qrhrm/internal/platform/config"
	"qrhrm/internal/platform/db"
)

func integrationStore(t *testing.T) (*Store, Employee) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))

	suffix := uuid.NewString()[:8]
	emp := Employee{Code: "EMP-IT-" + suffix, Name: "Integration " + suffix, Position: "Tester_" + suffix}
	require.NoError(t, pool.QueryRow(ctx, `
    INSERT INTO employees (employee_code, name, email, password_hash, position)
    VALUES ($1,$2,$3,'x',$4)
    RETURNING id
  `, emp.Code, emp.Name, suffix+"@example.com", emp.Position).Scan(&emp.ID))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM employees WHERE id = $1", emp.ID)
	})
	return NewStore(pool), emp
}

func TestStoreConcurrentClockInIsUnique(t *testing.T) {
	store, emp := integrationStore(t)
	ctx := context.Background()
	clk := clock.NewManual(time.Now())

	replicas := make([]*Reconciler, 8)
	for i := range replicas {
		replicas[i] = NewReconciler(store, clk, Policy{Location: time.UTC})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		clockedIn int
	)
	for _, r := range replicas {
		wg.Add(1)
		go func(r *Reconciler) {
			defer wg.Done()
			out, err := r.HandleScan(ctx, emp.Code)
			if !assert.NoError(t, err) {
				return
			}
			if _, ok := out.(ClockedIn); ok {
				mu.Lock()
				clockedIn++
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()
	assert.Equal(t, 1, clockedIn)

	rows, err := store.Query(ctx, Filter{EmployeeID: emp.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStoreQueryFilters(t *testing.T) {
	store, emp := integrationStore(t)
	ctx := context.Background()
	r := NewReconciler(store, clock.NewManual(time.Now()), Policy{Location: time.UTC})

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := r.ManualBackfill(ctx, emp.Code, StatusPresent, day)
	require.NoError(t, err)
	_, err = r.ManualBackfill(ctx, emp.Code, StatusLeave, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	_, err = r.ManualBackfill(ctx, emp.Code, StatusAbsent, day)
	require.ErrorIs(t, err, ErrDuplicateRecord)

	rows, err := r.Query(ctx, Filter{Position: emp.Position, Status: StatusPresent})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-15", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, StatusPresent, rows[0].Status)

	rows, err = r.Query(ctx, Filter{Position: emp.Position, Status: StatusLeave})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].TimeIn)

	// Wildcards in a filter value match literally.
	rows, err = r.Query(ctx, Filter{Position: "Tester%"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
