// Package security applies response hardening headers and resolves real
// client addresses behind trusted proxies.
package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// HeadersConfig holds the security headers applied to every response.
type HeadersConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	CacheControl        string
}

// DefaultHeadersConfig returns defaults for a JSON API: nothing embeddable,
// nothing cacheable.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                 "default-src 'none'; frame-ancestors 'none'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		CacheControl:        "no-store",
	}
}

// HeadersMiddleware applies security headers to responses.
type HeadersMiddleware struct {
	config HeadersConfig
}

// NewHeadersMiddleware creates a headers middleware with the given config.
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{config: config}
}

// Middleware returns HTTP middleware setting the configured headers.
func (m *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if m.config.CSP != "" {
			h.Set("Content-Security-Policy", m.config.CSP)
		}
		if m.config.XFrameOptions != "" {
			h.Set("X-Frame-Options", m.config.XFrameOptions)
		}
		if m.config.XContentTypeOptions != "" {
			h.Set("X-Content-Type-Options", m.config.XContentTypeOptions)
		}
		if m.config.ReferrerPolicy != "" {
			h.Set("Referrer-Policy", m.config.ReferrerPolicy)
		}
		if m.config.CacheControl != "" {
			h.Set("Cache-Control", m.config.CacheControl)
		}

		next.ServeHTTP(w, r)
	})
}

// Resolver resolves the real client address, trusting forwarding headers
// only from known proxy ranges.
type Resolver struct {
	trustedProxies []*net.IPNet
}

// NewResolver creates a resolver trusting loopback and private networks.
func NewResolver() *Resolver {
	return &Resolver{
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),
			parseCIDR("10.0.0.0/8"),
			parseCIDR("172.16.0.0/12"),
			parseCIDR("192.168.0.0/16"),
		},
	}
}

func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// ClientIP returns the client address for r. X-Forwarded-For and X-Real-IP
// are honored only when the direct peer is a trusted proxy.
func (re *Resolver) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	if !re.isTrustedProxy(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// Leftmost entry is the originating client
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" && net.ParseIP(real) != nil {
		return real
	}
	return peer
}

func (re *Resolver) isTrustedProxy(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range re.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
