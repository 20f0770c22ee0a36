package fetch

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// HostLimiter implements per-host rate limiting. Limiters for hosts that
// have not been seen for idleTTL are evicted.
type HostLimiter struct {
	limiters *gocache.Cache
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond to each host.
// A non-positive rate disables limiting.
func NewHostLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HostLimiter{
		limiters: gocache.New(idleTTL, 2*idleTTL),
		rate:     limit,
		burst:    burst,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}

// Len returns the number of hosts currently tracked.
func (l *HostLimiter) Len() int {
	return l.limiters.ItemCount()
}

func (l *HostLimiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if cached, ok := l.limiters.Get(host); ok {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.rate, l.burst)
	}
	// Refresh the expiry on every use.
	l.limiters.SetDefault(host, limiter)
	return limiter
}
