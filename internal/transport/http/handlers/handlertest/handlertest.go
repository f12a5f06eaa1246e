// Package handlertest holds helpers shared by the HTTP handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/transport/http/middleware"
)

const Secret = "test-secret"

// Router mounts routes behind the token decoding middleware.
func Router(register func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(Secret))
	register(r)
	return r
}

func Token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(Secret, auth.Claims{UserID: userID, Email: userID + "@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func Do(t *testing.T, h http.Handler, method, path, body, tok string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decode reads the response envelope and unmarshals its data into out when
// out is not nil.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// ErrorCode returns the envelope error code or "".
func ErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := Decode(t, rec, nil)
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

// Audit records events in memory.
type Audit struct {
	mu      sync.Mutex
	Events  []audit.Event
	Details []any
}

func (a *Audit) Record(_ context.Context, evt audit.Event, details any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, evt)
	a.Details = append(a.Details, details)
	return nil
}

func (a *Audit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Events))
	for _, evt := range a.Events {
		out = append(out, evt.Action)
	}
	return out
}
