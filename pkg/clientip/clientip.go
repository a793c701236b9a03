package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr. The router runs
// chi's RealIP first, so this already reflects X-Forwarded-For when the app
// sits behind a proxy.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// LimiterKey is the identity used for per-client rate limits. IPv6 clients
// are grouped by their /64 since a single host usually controls the whole
// prefix.
func LimiterKey(r *http.Request) string {
	ip := RealClientIP(r)
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	addr = addr.Unmap()
	if addr.Is4() {
		return addr.String()
	}
	prefix, err := addr.Prefix(64)
	if err != nil {
		return ip
	}
	return prefix.String()
}
