package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"tourify/internal/config"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserIDFromContext(r.Context())))
	})
}

func TestJWTAuth(t *testing.T) {
	valid := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	expired := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
	noSub := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	hs512 := signed(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u1"})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSub, http.StatusUnauthorized},
		{"wrong alg", "Bearer " + hs512, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	h := JWTAuth(testSecret)(echoUser())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d got %d (%s)", tt.status, w.Code, w.Body.String())
			}
			if tt.status == http.StatusOK {
				if w.Body.String() != "u1" {
					t.Fatalf("expected user in context, got %q", w.Body.String())
				}
				return
			}
			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != "unauthorized" {
				t.Fatalf("unexpected body %v", resp)
			}
		})
	}
}

func TestRateLimitPassthroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	h := RateLimit(cfg, nil)(echoUser())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected passthrough, got %d", w.Code)
		}
	}
}

func TestRateKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if got := rateKey("tourify:rl", req); got != "tourify:rl:ip:10.0.0.7:user:anon" {
		t.Fatalf("unexpected key %s", got)
	}

	req = req.WithContext(WithUserID(req.Context(), "u9"))
	if got := rateKey("tourify:rl", req); got != "tourify:rl:ip:10.0.0.7:user:u9" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := map[int64]int{0: 0, 1: 1, 999: 1, 1000: 1, 1001: 2, -5: 0}
	for in, want := range cases {
		if got := retryAfterSeconds(in); got != want {
			t.Errorf("retryAfterSeconds(%d) = %d, want %d", in, got, want)
		}
	}
}
