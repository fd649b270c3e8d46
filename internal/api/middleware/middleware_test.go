package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/session"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type stubParser struct {
	identity domain.Identity
	err      error
	got      string
}

func (p *stubParser) Parse(raw string) (domain.Identity, error) {
	p.got = raw
	return p.identity, p.err
}

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(identity.Name))
	})
}

func TestAuth(t *testing.T) {
	alice := domain.Identity{Name: "alice", ExternalID: "ext-1"}

	tests := []struct {
		name       string
		header     string
		parser     *stubParser
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			header:     "Bearer abc",
			parser:     &stubParser{identity: alice},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "lowercase scheme",
			header:     "bearer abc",
			parser:     &stubParser{identity: alice},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "missing header",
			parser:     &stubParser{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   msgMissingToken,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			parser:     &stubParser{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   msgMissingToken,
		},
		{
			name:       "expired",
			header:     "Bearer abc",
			parser:     &stubParser{err: session.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
			wantBody:   msgTokenExpired,
		},
		{
			name:       "invalid",
			header:     "Bearer abc",
			parser:     &stubParser{err: errors.New("bad signature")},
			wantStatus: http.StatusUnauthorized,
			wantBody:   msgInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Auth(tt.parser, logger.Nop())(identityEcho(t))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestAuth_PassesRawToken(t *testing.T) {
	parser := &stubParser{identity: domain.Identity{Name: "bob", ExternalID: "ext-2"}}
	h := Auth(parser, logger.Nop())(identityEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  token-value ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "token-value", parser.got)
}

func TestAdminToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "matching token", configured: "secret", header: "secret", wantStatus: http.StatusNoContent},
		{name: "wrong token", configured: "secret", header: "guess", wantStatus: http.StatusForbidden},
		{name: "missing header", configured: "secret", wantStatus: http.StatusForbidden},
		{name: "admin disabled", configured: "", header: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AdminToken(tt.configured, logger.Nop())(ok)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lottery/force", nil)
			if tt.header != "" {
				req.Header.Set(AdminTokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLimiterStore_AllowAndCleanup(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := NewLimiterStore(1, 2)
	store.now = func() time.Time { return now }

	assert.True(t, store.Allow("alice"))
	assert.True(t, store.Allow("alice"))
	assert.False(t, store.Allow("alice"))
	assert.True(t, store.Allow("bob"))
	assert.Equal(t, 2, store.Len())

	now = now.Add(time.Second)
	assert.True(t, store.Allow("alice"))

	now = now.Add(time.Hour)
	store.Cleanup()
	assert.Equal(t, 0, store.Len())
}

func TestRateLimit_PerRequester(t *testing.T) {
	store := NewLimiterStore(0.001, 1)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h := RateLimit(store, logger.Nop())(ok)

	send := func(name string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
		req = req.WithContext(WithIdentity(req.Context(), domain.Identity{Name: name, ExternalID: "x"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusCreated, send("bob"))
}

func TestRateKey_FallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "ip:10.0.0.7", rateKey(req))
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type httpMetricsRecorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (m *httpMetricsRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = append(m.reqs, recordedRequest{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &httpMetricsRecorder{}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(rec))
	r.HandleFunc("/api/v1/admin/subscribers/{subscriptionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/subscribers/sub-42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, rec.reqs, 1)
	assert.Equal(t, recordedRequest{
		method: http.MethodDelete,
		route:  "/api/v1/admin/subscribers/{subscriptionId}",
		status: http.StatusNotFound,
	}, rec.reqs[0])
}
