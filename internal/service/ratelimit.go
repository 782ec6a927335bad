package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// RateLimiter is an in-memory per-key rate limiter backed by token-bucket
// limiters from golang.org/x/time/rate. It is safe for concurrent use.
// Idle keys are swept periodically until Close is called.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int

	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewRateLimiter creates a limiter that allows up to burst events per key,
// refilling at perSecond events per second.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow reports whether key may proceed now, consuming one event if so.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.last = time.Now()
	rl.mu.Unlock()

	return e.limiter.Allow()
}

// Close stops the background sweeper.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			cutoff := now.Add(-limiterIdleTTL)
			for key, e := range rl.limiters {
				if e.last.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
