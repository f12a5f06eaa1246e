package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"qrhrm/internal/platform/clock"
	"qrhrm/internal/transport/http/api"
)

// sweepThreshold is the bucket count above which expired buckets are
// dropped on the next request.
const sweepThreshold = 4096

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*limiter)

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(l *limiter) {
		if fn != nil {
			l.key = fn
		}
	}
}

func WithClock(clk clock.Clock) RateLimitOption {
	return func(l *limiter) {
		if clk != nil {
			l.clock = clk
		}
	}
}

// limiter is a fixed window counter per key.
type limiter struct {
	limit  int
	window time.Duration
	key    RateLimitKeyFunc
	clock  clock.Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	hits    int
	resetAt time.Time
}

type verdict struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func newLimiter(limit int, window time.Duration, key RateLimitKeyFunc, opts ...RateLimitOption) *limiter {
	l := &limiter{
		limit:   limit,
		window:  window,
		key:     key,
		clock:   clock.System{},
		buckets: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.key == nil {
		l.key = actorOrIPKey
	}
	return l
}

func (l *limiter) take(key string) verdict {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) > sweepThreshold {
		for k, b := range l.buckets {
			if !now.Before(b.resetAt) {
				delete(l.buckets, k)
			}
		}
	}
	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.hits++
	return verdict{
		allowed:   b.hits <= l.limit,
		remaining: max(l.limit-b.hits, 0),
		resetIn:   b.resetAt.Sub(now),
	}
}

// admit writes the rate headers and a 429 envelope when the key is over its
// budget. It reports whether the request may proceed.
func (l *limiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	if key == "" {
		key = ClientIPKey(r)
	}
	v := l.take(key)

	resetSec := ceilSeconds(v.resetIn)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if v.allowed {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", l.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// RateLimit throttles every request. Keys default to the signed-in user and
// fall back to the client address.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	l := newLimiter(limit, window, actorOrIPKey, opts...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

type rateScope int

const (
	scopeNone rateScope = iota
	// scopeCredentials covers routes that accept passwords, reset tokens or
	// MFA codes. Both the client address and the submitted email are limited.
	scopeCredentials
	// scopeWrite covers administrative and employee writes, keyed on the actor.
	scopeWrite
)

type routeRule struct {
	path   string
	prefix bool
	scope  rateScope
}

var sensitiveRoutes = []routeRule{
	{path: "/login/", prefix: true, scope: scopeCredentials},
	{path: "/forgot-password", scope: scopeCredentials},
	{path: "/reset-password/", prefix: true, scope: scopeCredentials},
	{path: "/signup", scope: scopeCredentials},
	{path: "/admin/mfa/", prefix: true, scope: scopeCredentials},
	{path: "/attendance/manual", scope: scopeWrite},
	{path: "/leave-requests", prefix: true, scope: scopeWrite},
	{path: "/payroll", prefix: true, scope: scopeWrite},
	{path: "/employees/", prefix: true, scope: scopeWrite},
}

func scopeFor(r *http.Request) rateScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return scopeNone
	}
	path := strings.TrimPrefix(r.URL.Path, "/api")
	for _, rule := range sensitiveRoutes {
		if path == rule.path || (rule.prefix && strings.HasPrefix(path, rule.path)) {
			return rule.scope
		}
	}
	return scopeNone
}

// SensitiveMutationRateLimit applies tighter budgets to credential routes
// (a quarter of baseLimit) and to writes (half of baseLimit). Reads and the
// public scan endpoint pass through.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	credentialLimit := max(baseLimit/4, 1)
	byIP := newLimiter(credentialLimit, window, ClientIPKey, opts...)
	byEmail := newLimiter(credentialLimit, window, AuthEmailOrIPKey("email"), opts...)
	byActor := newLimiter(max(baseLimit/2, 1), window, actorOrIPKey, opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch scopeFor(r) {
			case scopeCredentials:
				if !byIP.admit(w, r) || !byEmail.admit(w, r) {
					return
				}
			case scopeWrite:
				if !byActor.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthEmailOrIPKey keys on the email submitted in a JSON body. The body is
// restored for the next handler.
func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	if strings.TrimSpace(field) == "" {
		field = "email"
	}
	return func(r *http.Request) string {
		if email := peekJSONString(r, field); email != "" {
			return "email:" + strings.ToLower(email)
		}
		return ClientIPKey(r)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.ID != "" {
		return "user:" + user.Role + ":" + user.ID
	}
	return ClientIPKey(r)
}

// ClientIPKey keys on the first X-Forwarded-For hop, else the peer address.
func ClientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}

func peekJSONString(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	body := r.Body
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), body), body}
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]any
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
