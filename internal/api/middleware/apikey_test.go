package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	t.Setenv("CARLY_API_KEYS", "")
	auth := NewAPIKeyAuth()

	if auth.Enabled() {
		t.Fatal("auth enabled with empty CARLY_API_KEYS")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth disabled", rr.Code)
	}
}

func TestAPIKeyAuth_Enforced(t *testing.T) {
	t.Setenv("CARLY_API_KEYS", "alpha-key, beta-key")
	auth := NewAPIKeyAuth()

	if !auth.Enabled() {
		t.Fatal("auth not enabled")
	}

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no key", "", "", http.StatusUnauthorized},
		{"bearer valid", "Authorization", "Bearer alpha-key", http.StatusOK},
		{"bearer second key", "Authorization", "Bearer beta-key", http.StatusOK},
		{"bearer invalid", "Authorization", "Bearer wrong-key", http.StatusUnauthorized},
		{"x-api-key valid", "X-API-Key", "alpha-key", http.StatusOK},
		{"x-api-key invalid", "X-API-Key", "nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/traces", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rr := httptest.NewRecorder()
			auth.Middleware(okHandler()).ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth_UnauthorizedResponse(t *testing.T) {
	t.Setenv("CARLY_API_KEYS", "alpha-key")
	auth := NewAPIKeyAuth()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != `Bearer realm="carlycompare"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
