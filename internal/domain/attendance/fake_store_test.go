package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory StoreAPI with the same uniqueness guarantee as the
// (employee_id, work_date) index.
type memStore struct {
	mu        sync.Mutex
	employees map[string]Employee
	records   map[string]*Record
	seq       int

	beforeInsert func()
	beforeClose  func(recordID string)
	inserts      int
	closes       int
}

func newMemStore(employees ...Employee) *memStore {
	s := &memStore{employees: map[string]Employee{}, records: map[string]*Record{}}
	for _, e := range employees {
		s.employees[e.Code] = e
	}
	return s
}

func dayKey(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format("2006-01-02")
}

func (s *memStore) FindEmployeeByCode(_ context.Context, code string) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[code]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *memStore) FindEmployeeByID(_ context.Context, id string) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (s *memStore) TodaysRecord(_ context.Context, employeeID string, day time.Time) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[dayKey(employeeID, day)]
	if !ok {
		return Record{}, false, nil
	}
	return *rec, true, nil
}

func (s *memStore) RecordExists(_ context.Context, employeeID string, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[dayKey(employeeID, day)]
	return ok, nil
}

func (s *memStore) InsertIfAbsent(_ context.Context, rec Record) (Record, bool, error) {
	if s.beforeInsert != nil {
		s.beforeInsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey(rec.EmployeeID, rec.Date)
	if existing, ok := s.records[key]; ok {
		return *existing, false, nil
	}
	s.seq++
	rec.ID = fmt.Sprintf("rec-%d", s.seq)
	stored := rec
	s.records[key] = &stored
	s.inserts++
	return stored, true, nil
}

func (s *memStore) put(rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("rec-%d", s.seq)
	stored := rec
	s.records[dayKey(rec.EmployeeID, rec.Date)] = &stored
	return stored
}

func (s *memStore) byID(id string) *Record {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *memStore) ClockInExisting(_ context.Context, recordID string, at time.Time) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.byID(recordID)
	if rec == nil {
		return Record{}, false, ErrRecordNotFound
	}
	if rec.TimeIn != nil {
		return *rec, false, nil
	}
	t := at
	rec.TimeIn = &t
	rec.Status = StatusPresent
	return *rec, true, nil
}

func (s *memStore) CloseRecord(_ context.Context, recordID string, at time.Time) (Record, bool, error) {
	if s.beforeClose != nil {
		s.beforeClose(recordID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.byID(recordID)
	if rec == nil {
		return Record{}, false, ErrRecordNotFound
	}
	if rec.TimeOut != nil {
		return *rec, false, nil
	}
	t := at
	rec.TimeOut = &t
	s.closes++
	return *rec, true, nil
}

// Query mirrors buildQuery's filter semantics in memory.
func (s *memStore) Query(_ context.Context, filter Filter) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := map[string]Employee{}
	for _, e := range s.employees {
		byID[e.ID] = e
	}
	out := []Row{}
	for _, rec := range s.records {
		emp := byID[rec.EmployeeID]
		if filter.Name != "" && !strings.Contains(strings.ToLower(emp.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Position != "" && !strings.Contains(strings.ToLower(emp.Position), strings.ToLower(filter.Position)) {
			continue
		}
		if filter.Date != nil && !rec.Date.Equal(*filter.Date) {
			continue
		}
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		switch filter.Status {
		case "":
		case StatusPresent:
			if rec.TimeIn == nil && rec.Status != StatusPresent {
				continue
			}
		default:
			if rec.TimeIn != nil || rec.Status != filter.Status {
				continue
			}
		}
		out = append(out, NewRow(*rec, emp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type scanCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *scanCounter) RecordScan(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[outcome]++
}
