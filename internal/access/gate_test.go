// internal/access/gate_test.go
//
// Unit-tests for the access gate and the JWT viewer checker.
//
// Run: go test ./internal/access -v

package access

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vitrinemed/vitrine/internal/tenant"
)

func record(status, owner string) *tenant.Record {
	return &tenant.Record{Status: status, OwnerID: owner}
}

func TestEvaluate(t *testing.T) {
	owner := Viewer{Authenticated: true, UserID: "u-owner"}
	admin := Viewer{Authenticated: true, UserID: "u-admin", Admin: true}
	stranger := Viewer{Authenticated: true, UserID: "u-other"}
	anon := Viewer{}

	cases := []struct {
		name   string
		status string
		viewer Viewer
		want   Decision
	}{
		{"published anonymous", tenant.StatusPublished, anon, Allow},
		{"published stranger", tenant.StatusPublished, stranger, Allow},
		{"draft owner", tenant.StatusDraft, owner, Allow},
		{"draft admin", tenant.StatusDraft, admin, Allow},
		{"draft stranger", tenant.StatusDraft, stranger, Deny},
		{"draft anonymous", tenant.StatusDraft, anon, Deferred},
		{"archived owner", tenant.StatusArchived, owner, Allow},
		{"archived stranger", tenant.StatusArchived, stranger, Deny},
		{"archived anonymous", tenant.StatusArchived, anon, Deferred},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(record(tc.status, "u-owner"), tc.viewer)
			if got != tc.want {
				t.Fatalf("Evaluate(%s, %+v) = %s, want %s",
					tc.status, tc.viewer, got, tc.want)
			}
		})
	}
}

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWTChecker_BearerHeader(t *testing.T) {
	c := NewJWTChecker(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))

	v := c.Viewer(req)
	if !v.Authenticated || v.UserID != "u-1" || v.Admin {
		t.Fatalf("unexpected viewer: %+v", v)
	}
}

func TestJWTChecker_Cookie_AdminRole(t *testing.T) {
	c := NewJWTChecker(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signedToken(t, jwt.MapClaims{
		"sub":  "u-2",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})})

	v := c.Viewer(req)
	if !v.Authenticated || !v.Admin {
		t.Fatalf("unexpected viewer: %+v", v)
	}
}

func TestJWTChecker_InvalidToken(t *testing.T) {
	c := NewJWTChecker(testSecret)

	cases := map[string]func(*http.Request){
		"no credentials": func(r *http.Request) {},
		"garbage bearer": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.jwt")
		},
		"wrong secret": func(r *http.Request) {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-3"})
			s, _ := tok.SignedString([]byte("other-secret"))
			r.Header.Set("Authorization", "Bearer "+s)
		},
		"expired": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{
				"sub": "u-4",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}))
		},
		"missing sub": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}))
		},
	}

	for name, arm := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			arm(req)
			if v := c.Viewer(req); v.Authenticated {
				t.Fatalf("viewer unexpectedly authenticated: %+v", v)
			}
		})
	}
}
