package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов"

const (
	// DefaultLimiterIdleTTL ключ без запросов дольше этого срока удаляется
	DefaultLimiterIdleTTL = 10 * time.Minute

	// DefaultEvictionInterval период очистки простаивающих ключей
	DefaultEvictionInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

// RateLimiter ограничивает частоту запросов отдельно для каждого пользователя.
// Ключ: ID из X-Sharer-User-Id (после Auth), иначе IP клиента.
// Простаивающие ключи удаляет RunEviction.
type RateLimiter struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter создает лимитер. burst <= 0 заменяется на 5
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now().UnixNano()

	if v, ok := l.limiters.Load(key); ok {
		entry := v.(*limiterEntry)
		entry.lastSeen.Store(now)
		return entry.limiter
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
	entry.lastSeen.Store(now)
	actual, _ := l.limiters.LoadOrStore(key, entry)

	stored := actual.(*limiterEntry)
	stored.lastSeen.Store(now)
	return stored.limiter
}

// Evict удаляет ключи, к которым не обращались дольше idle. Возвращает число удаленных
func (l *RateLimiter) Evict(idle time.Duration) int {
	deadline := l.now().Add(-idle).UnixNano()
	removed := 0

	l.limiters.Range(func(key, value interface{}) bool {
		if value.(*limiterEntry).lastSeen.Load() < deadline {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunEviction периодически вызывает Evict, пока не закрыт stopCh
func (l *RateLimiter) RunEviction(interval, idle time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			l.Evict(idle)
		}
	}
}

// Size число отслеживаемых ключей
func (l *RateLimiter) Size() int {
	n := 0
	l.limiters.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Middleware отвечает 429, когда ключ исчерпал лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(limitKey(r)).Allow() {
			handlers.RespondTooManyRequests(w, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
