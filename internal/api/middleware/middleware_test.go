package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShareItService/pkg/logger"
	"github.com/m04kA/SMC-ShareItService/pkg/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	var seen int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"abc", http.StatusUnauthorized},
		{"0", http.StatusUnauthorized},
		{"-3", http.StatusUnauthorized},
		{"17", http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		if tt.header != "" {
			req.Header.Set(UserIDHeader, tt.header)
		}
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, tt.header)
	}
	assert.Equal(t, int64(17), seen)
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, existing)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, existing, seen)

	// Мусор в заголовке заменяется новым ID
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{bookingId}", okHandler).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/bookings/{bookingId}", "200")))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	call := func(userID int64) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(1))
	assert.Equal(t, http.StatusOK, call(1))
	assert.Equal(t, http.StatusTooManyRequests, call(1))

	// У другого пользователя свой лимит
	assert.Equal(t, http.StatusOK, call(2))
}

func TestRateLimiter_EvictsIdleKeys(t *testing.T) {
	clock := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1)
	limiter.now = func() time.Time { return clock }
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	call := func(userID int64) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Каждый новый ID заводит свой ключ
	for id := int64(1); id <= 100; id++ {
		call(id)
	}
	require.Equal(t, 100, limiter.Size())

	clock = clock.Add(5 * time.Minute)
	call(7)

	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, 99, limiter.Evict(DefaultLimiterIdleTTL))
	assert.Equal(t, 1, limiter.Size())

	_, kept := limiter.limiters.Load("user:7")
	assert.True(t, kept)
}

func TestRateLimiter_RunEvictionStops(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.getLimiter("user:1")

	stopCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		limiter.RunEviction(5*time.Millisecond, 0, stopCh)
		close(done)
	}()

	assert.Eventually(t, func() bool { return limiter.Size() == 0 }, time.Second, 5*time.Millisecond)

	close(stopCh)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("eviction loop did not stop")
	}
}

func TestRateLimiter_KeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "ip:10.0.0.1", limitKey(req))

	req = req.WithContext(WithUserID(req.Context(), 9))
	assert.Equal(t, "user:9", limitKey(req))
}

func TestLogging(t *testing.T) {
	h := Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
