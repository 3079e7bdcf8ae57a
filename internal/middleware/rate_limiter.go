package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana tracks requests from one IP within a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

// Limiter is a fixed-window per-IP request limiter.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*ventana
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{limit: limit, window: window, now: time.Now, entries: make(map[string]*ventana)}
}

// Permitir counts one request from ip and reports whether it is within the limit.
func (l *Limiter) Permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &ventana{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

// Middleware rejects requests over the limit with 429 and msg.
func (l *Limiter) Middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, hasta := l.Permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", hasta.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// Purgar drops expired windows and returns how many were removed.
func (l *Limiter) Purgar() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			n++
		}
	}
	return n
}

const purgeInterval = 5 * time.Minute

// PurgarPeriodicamente runs Purgar on every limiter until ctx is done.
func PurgarPeriodicamente(ctx context.Context, limiters ...*Limiter) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged := 0
			for _, l := range limiters {
				purged += l.Purgar()
			}
			if purged > 0 {
				log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
			}
		}
	}
}
