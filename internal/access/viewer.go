// internal/access/viewer.go
//
// Viewer identification from request credentials.
//
// Context
// -------
// Sessions are issued by an external auth collaborator; this process only
// verifies the access token it hands out.  The token is an HS256 JWT
// arriving either as `Authorization: Bearer <token>` or as the
// `vitrine-access-token` cookie.  A missing, malformed, or expired token
// yields the anonymous Viewer, never an error: the gate's Deferred branch
// handles the "credentials the server cannot see" case.
//
// Checker is an interface so the dispatcher can be tested with a canned
// viewer, and so the deferred re-check endpoint shares the same
// verification path.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package access

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie name the auth collaborator sets.
const TokenCookie = "vitrine-access-token"

// Checker resolves the Viewer for a request.
type Checker interface {
	Viewer(r *http.Request) Viewer
}

// JWTChecker verifies HS256 access tokens with a shared secret.
type JWTChecker struct {
	secret []byte
}

// NewJWTChecker returns a Checker for the given signing secret.
func NewJWTChecker(secret string) *JWTChecker {
	return &JWTChecker{secret: []byte(secret)}
}

// Viewer parses and verifies the request's access token.  Invalid or
// absent tokens return the anonymous viewer.
func (c *JWTChecker) Viewer(r *http.Request) Viewer {
	raw := bearerToken(r)
	if raw == "" {
		if ck, err := r.Cookie(TokenCookie); err == nil {
			raw = ck.Value
		}
	}
	if raw == "" {
		return Viewer{}
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return Viewer{}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Viewer{}
	}
	return Viewer{
		Authenticated: true,
		UserID:        sub,
		Admin:         adminClaim(claims),
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// adminClaim accepts either `role: "admin"` or `is_admin: true`.
func adminClaim(claims jwt.MapClaims) bool {
	if role, _ := claims["role"].(string); role == "admin" {
		return true
	}
	isAdmin, _ := claims["is_admin"].(bool)
	return isAdmin
}
