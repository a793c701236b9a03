package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/campsite/pkg/clientip"
	"golang.org/x/time/rate"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerReferrerPolicy          = "Referrer-Policy"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// contentSecurityPolicy allows hosted images from any https origin and the
// Bootstrap stylesheet CDN.
const contentSecurityPolicy = "default-src 'self'; img-src 'self' https: data:; style-src 'self' https://cdn.jsdelivr.net; form-action 'self'; frame-ancestors 'none'"

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerReferrerPolicy, "same-origin")
		w.Header().Set(headerContentSecurityPolicy, contentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}

// StrictTransportSecurity is only enabled in production where TLS terminates in front of us.
func StrictTransportSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// --- Login route rate limiting (1 req/5s, burst 5) ---

const (
	loginRateLimitEvery  = 5 * time.Second
	loginRateLimitBurst  = 5
	loginCleanupInterval = 5 * time.Minute
	loginLimiterTTL      = 30 * time.Minute
)

var loginPaths = map[string]bool{
	"/login":    true,
	"/register": true,
	"/forgot":   true,
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// LoginLimiter throttles credential-bearing POSTs per client IP.
type LoginLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	every   time.Duration
	burst   int
	now     func() time.Time
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		entries: make(map[string]*limiterEntry),
		every:   loginRateLimitEvery,
		burst:   loginRateLimitBurst,
		now:     time.Now,
	}
}

func (l *LoginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = l.now()
	return e.limiter
}

// Cleanup drops limiters idle for longer than the TTL.
func (l *LoginLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, e := range l.entries {
		if now.Sub(e.lastUse) > loginLimiterTTL {
			delete(l.entries, ip)
		}
	}
}

// Run calls Cleanup periodically until stop is closed.
func (l *LoginLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(loginCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-stop:
			return
		}
	}
}

// Middleware applies the limit to POSTs on sign-in style routes only.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !loginPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if !l.get(clientip.LimiterKey(r)).Allow() {
			w.Header().Set("Retry-After", "5")
			http.Error(w, "Too many attempts. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MethodOverride lets HTML forms issue PUT, PATCH and DELETE by posting to
// a URL with a _method query parameter.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := r.URL.Query().Get("_method"); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete, "put", "patch", "delete":
				r.Method = strings.ToUpper(m)
			}
		}
		next.ServeHTTP(w, r)
	})
}
