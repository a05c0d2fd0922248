package handlers

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"
)

// rateLimiter allows each client at most limit requests per sliding window.
// Clients are keyed by their connection address; X-Forwarded-For is only
// believed when the connection comes from a trusted proxy.
type rateLimiter struct {
	mu        sync.Mutex
	clients   map[string][]time.Time
	limit     int
	window    time.Duration
	trusted   []netip.Prefix
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(limit int, window time.Duration, trusted []netip.Prefix) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		trusted: trusted,
		now:     time.Now,
	}
}

// ParseTrustedProxies parses a list of proxy addresses or CIDR ranges
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", e, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", e, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// allow records a request from key and reports whether it is within the limit.
// A non-positive limit disables limiting.
func (rl *rateLimiter) allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(now)
	}

	recent := rl.inWindow(rl.clients[key], now)
	if len(recent) >= rl.limit {
		rl.clients[key] = recent
		return false
	}
	rl.clients[key] = append(recent, now)
	return true
}

// inWindow keeps only the requests inside the window
func (rl *rateLimiter) inWindow(times []time.Time, now time.Time) []time.Time {
	var recent []time.Time
	for _, t := range times {
		if now.Sub(t) < rl.window {
			recent = append(recent, t)
		}
	}
	return recent
}

// sweep forgets clients without requests in the current window
func (rl *rateLimiter) sweep(now time.Time) {
	for key, times := range rl.clients {
		if recent := rl.inWindow(times, now); len(recent) == 0 {
			delete(rl.clients, key)
		} else {
			rl.clients[key] = recent
		}
	}
	rl.lastSweep = now
}

// tracked returns the number of clients currently remembered
func (rl *rateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address the request came from. Behind trusted
// proxies it walks X-Forwarded-For from the right and returns the first
// hop that is not itself a trusted proxy.
func (rl *rateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !rl.isTrusted(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !rl.isTrusted(hop) {
			return hop
		}
		host = hop
	}
	return host
}

func (rl *rateLimiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
