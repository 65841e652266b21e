package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// CheckoutRateLimiter limits how often one client may start a checkout
type CheckoutRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

// NewCheckoutRateLimiter creates a rate limiter allowing maxAttempts per window
func NewCheckoutRateLimiter(maxAttempts int, window time.Duration) *CheckoutRateLimiter {
	rl := &CheckoutRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		done:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow records a checkout attempt from ip when it is within the limit.
// Checking and recording happen under one lock, so concurrent attempts
// cannot overshoot maxAttempts. A refused attempt is not recorded and the
// returned duration is the wait until the oldest attempt leaves the window.
func (rl *CheckoutRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	valid := rl.prune(rl.attempts[ip], now)
	if len(valid) >= rl.maxAttempts {
		rl.attempts[ip] = valid
		return false, valid[0].Add(rl.window).Sub(now)
	}

	rl.attempts[ip] = append(valid, now)
	return true, 0
}

// Stop ends the cleanup goroutine
func (rl *CheckoutRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *CheckoutRateLimiter) prune(attempts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	return valid
}

// cleanup removes old entries periodically
func (rl *CheckoutRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mutex.Lock()
			now := time.Now()
			for ip, attempts := range rl.attempts {
				valid := rl.prune(attempts, now)
				if len(valid) == 0 {
					delete(rl.attempts, ip)
				} else {
					rl.attempts[ip] = valid
				}
			}
			rl.mutex.Unlock()
		}
	}
}

// CheckoutRateLimit limits POST requests to checkout endpoints
func CheckoutRateLimit(rateLimiter *CheckoutRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			allowed, wait := rateLimiter.Allow(getClientIP(r))
			if !allowed {
				timeUntil := wait.Round(time.Second)
				w.Header().Set("Retry-After", formatSeconds(timeUntil))

				if IsHTMXRequest(r) {
					w.Header().Set("Content-Type", "text/html")
					w.WriteHeader(http.StatusTooManyRequests)
					w.Write([]byte(`<div class="alert alert-error"><p>Too many checkout attempts. Please try again in ` + timeUntil.String() + `.</p></div>`))
				} else {
					http.Error(w, "Too many checkout attempts. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func formatSeconds(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
