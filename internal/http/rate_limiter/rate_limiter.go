package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 1 // requests per second
	burst            = 3
)

// Configure sets the rate applied to visitors seen from now on and forgets existing visitors.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	limit = rate.Limit(rps)
	burst = b
	visitors = make(map[string]*clientLimiter)
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Allow consumes one token for ip.
func Allow(ip string) bool {
	return GetVisitor(ip).Allow()
}

// StartVisitorCleanupLoop drops visitors idle for longer than idle, checking every interval, until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removeIdle(idle)
		}
	}
}

func removeIdle(idle time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > idle {
			delete(visitors, ip)
		}
	}
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}

func VisitorCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(visitors)
}
