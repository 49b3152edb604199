package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeadersMiddlewareSetsDefaults(t *testing.T) {
	m := NewHeadersMiddleware(DefaultHeadersConfig())
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}
	for header, value := range want {
		if got := rr.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestClientIP(t *testing.T) {
	re := NewResolver()

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"direct peer", "203.0.113.9:4312", "", "", "203.0.113.9"},
		{"untrusted peer with forwarded header", "203.0.113.9:4312", "198.51.100.1", "", "203.0.113.9"},
		{"trusted proxy with forwarded header", "10.0.0.5:4312", "198.51.100.1", "", "198.51.100.1"},
		{"trusted proxy with forwarded chain", "127.0.0.1:4312", "198.51.100.1, 10.0.0.5", "", "198.51.100.1"},
		{"trusted proxy with real ip", "192.168.1.1:4312", "", "198.51.100.2", "198.51.100.2"},
		{"trusted proxy with garbage header", "10.0.0.5:4312", "not-an-ip", "", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := re.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
