package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"qrhrm/internal/app/server"
	"qrhrm/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func journeyConfig(t *testing.T) config.Config {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return config.Config{
		DatabaseURL:            dbURL,
		JWTSecret:              "test-secret",
		DataEncryptionKey:      "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		FrontendDir:            "frontend/dist",
		Environment:            "test",
		SeedAdminName:          "Test Admin",
		SeedAdminEmail:         "admin@test.local",
		SeedAdminPassword:      "ChangeMe123!",
		EmailFrom:              "no-reply@test.local",
		RunMigrations:          true,
		RunSeed:                true,
		MaxBodyBytes:           1048576,
		RateLimitPerMinute:     1000,
		ScanRateLimitPerMinute: 1000,
		AccessTokenTTL:         time.Hour,
		PasswordResetTTL:       time.Hour,
		ResetCleanupInterval:   time.Hour,
		AttendanceCooldown:     2 * time.Minute,
		AttendanceShiftStart:   "09:00",
		AttendanceShiftEnd:     "17:00",
		AttendanceTimezone:     "UTC",
	}
}

func startApp(t *testing.T, cfg config.Config) (*httptest.Server, func()) {
	t.Helper()
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	return ts, func() {
		ts.Close()
		app.Close()
	}
}

func TestAttendanceLeaveAndPayrollJourney(t *testing.T) {
	cfg := journeyConfig(t)
	ts, stop := startApp(t, cfg)
	defer stop()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, "admin", cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	created := createEmployee(t, client, ts.URL, adminToken, employeeEmail)
	if created.EmployeeCode == "" {
		t.Fatal("expected a generated employee code")
	}
	employeeToken := login(t, client, ts.URL, "employee", employeeEmail, "Employee123!")

	status, scan := scanBadge(t, client, ts.URL, created.EmployeeCode)
	if status != http.StatusOK || scan.Outcome != "clocked_in" {
		t.Fatalf("expected clock in, got %d %+v", status, scan)
	}
	status, scan = scanBadge(t, client, ts.URL, created.EmployeeCode)
	if status != http.StatusBadRequest || scan.Outcome != "too_soon" {
		t.Fatalf("expected cool-down rejection, got %d %+v", status, scan)
	}
	if scan.RemainingMinutes < 1 || scan.RemainingMinutes > 2 {
		t.Fatalf("expected 1-2 remaining minutes, got %d", scan.RemainingMinutes)
	}

	requestID := submitLeave(t, client, ts.URL, employeeToken)
	decision := decideLeave(t, client, ts.URL, adminToken, requestID, "Approved")
	if decision != "Leave request status updated successfully." {
		t.Fatalf("unexpected decision message %q", decision)
	}
	decision = decideLeave(t, client, ts.URL, adminToken, requestID, "Approved")
	if decision != "Leave request is already Approved." {
		t.Fatalf("expected unchanged decision, got %q", decision)
	}

	postJSON(t, client, ts.URL+"/api/payroll", adminToken, map[string]any{
		"employee_code":    created.EmployeeCode,
		"hours_worked":     "160",
		"leave_deductions": "0",
	})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/payroll/my-payslip", nil)
	req.Header.Set("Authorization", "Bearer "+employeeToken)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("payslip request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected pdf payslip, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	events := getJSON(t, client, ts.URL+"/api/audit/events?action=leave.decision", adminToken)
	var list []map[string]any
	if err := json.Unmarshal(events.Data, &list); err != nil {
		t.Fatalf("decode audit events: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected leave decision to be audited")
	}
}

func TestEmployeeCannotFetchAnotherBadge(t *testing.T) {
	cfg := journeyConfig(t)
	ts, stop := startApp(t, cfg)
	defer stop()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, "admin", cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	stamp := time.Now().UnixNano()
	first := createEmployee(t, client, ts.URL, adminToken, fmt.Sprintf("first-%d@example.com", stamp))
	second := createEmployee(t, client, ts.URL, adminToken, fmt.Sprintf("second-%d@example.com", stamp))
	token := login(t, client, ts.URL, "employee", first.Email, "Employee123!")

	getJSONStatus(t, client, ts.URL+"/api/employees/"+second.ID+"/qrcode", token, http.StatusForbidden)

	status, scan := scanBadge(t, client, ts.URL, "EMP-does-not-exist")
	if status != http.StatusBadRequest || scan.Outcome != "unknown_employee" {
		t.Fatalf("expected unknown employee, got %d %+v", status, scan)
	}
}

type createdEmployee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Email        string `json:"email"`
}

type scanResult struct {
	Message          string `json:"message"`
	Outcome          string `json:"outcome"`
	RemainingMinutes int    `json:"remainingMinutes"`
}

func login(t *testing.T, client *http.Client, baseURL, accountType, email, password string) string {
	t.Helper()
	env := postJSON(t, client, baseURL+"/api/login/"+accountType, "", map[string]string{
		"email":    email,
		"password": password,
	})
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil || resp.Token == "" {
		t.Fatalf("login returned no token: %v", err)
	}
	return resp.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) createdEmployee {
	t.Helper()
	env := postJSON(t, client, baseURL+"/api/signup", token, map[string]any{
		"name":       "Journey Employee",
		"email":      email,
		"password":   "Employee123!",
		"position":   "Engineer",
		"department": "Platform",
		"type":       "Full-Time",
		"salary":     "17300",
	})
	var resp struct {
		Created createdEmployee `json:"created"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode created employee: %v", err)
	}
	return resp.Created
}

func scanBadge(t *testing.T, client *http.Client, baseURL, code string) (int, scanResult) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"employeeId": code})
	resp, err := client.Post(baseURL+"/api/attendance", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	defer resp.Body.Close()
	var out scanResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode scan: %v", err)
	}
	return resp.StatusCode, out
}

func submitLeave(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	start := time.Now().AddDate(0, 0, 7)
	env := postJSON(t, client, baseURL+"/api/leave-requests", token, map[string]string{
		"startDate": start.Format("2006-01-02"),
		"endDate":   start.AddDate(0, 0, 2).Format("2006-01-02"),
		"reason":    "Family visit",
	})
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil || resp.ID == "" {
		t.Fatalf("leave request missing id: %v", err)
	}
	return resp.ID
}

func decideLeave(t *testing.T, client *http.Client, baseURL, token, id, status string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPut, baseURL+"/api/leave-requests/"+id, token, map[string]string{"status": status})
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	return resp.Message
}

func postJSON(t *testing.T, client *http.Client, url, token string, payload any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, payload)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any) envelope {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, client, req, 0)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return getJSONStatus(t, client, url, token, 0)
}

// getJSONStatus fails the test unless the status matches want. A zero want
// accepts any non-error status.
func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, client, req, want)
}

func send(t *testing.T, client *http.Client, req *http.Request, want int) envelope {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if want != 0 && resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
	if want == 0 && resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
