package redisserver

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimiter holds one token bucket per client IP.
type rateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newRateLimiter returns a limiter allowing perSecond commands per client IP,
// or nil when perSecond is not positive.
func newRateLimiter(perSecond int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    perSecond,
	}
}

// allow reports whether a command from addr may run now.
func (rl *rateLimiter) allow(addr net.Addr) bool {
	if rl == nil {
		return true
	}
	return rl.get(clientIP(addr)).Allow()
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.RLock()
	l, ok := rl.limiters[ip]
	rl.mu.RUnlock()
	if ok {
		return l
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.limiters[ip]; ok {
		return l
	}
	l = rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[ip] = l
	return l
}

// forget drops the bucket for addr's IP once it is full again, so idle
// clients do not accumulate state.
func (rl *rateLimiter) forget(addr net.Addr) {
	if rl == nil {
		return
	}
	ip := clientIP(addr)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.limiters[ip]; ok && l.Tokens() >= float64(rl.burst) {
		delete(rl.limiters, ip)
	}
}

func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	s := addr.String()
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}
	return s
}
