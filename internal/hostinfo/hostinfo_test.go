// internal/hostinfo/hostinfo_test.go
//
// Unit-tests for the tenant-key resolver.
//
// Context
// -------
// The resolver is the first decision point of every request, so the tests
// enumerate the full property set:
//
//   • hosts outside the root domain                → no tenant
//   • bare root domain and reserved labels        → no tenant
//   • ports, case, and whitespace                  → normalised away
//   • forwarded-host header priority chain         → first non-empty wins
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package hostinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const root = "vitrinemed.com"

func TestSubdomain(t *testing.T) {
	cases := []struct {
		name string
		host string
		want string
		ok   bool
	}{
		{"plain tenant", "drsilva.vitrinemed.com", "drsilva", true},
		{"uppercase host", "DrSilva.VitrineMed.COM", "drsilva", true},
		{"port stripped", "drsilva.vitrinemed.com:443", "drsilva", true},
		{"leading space", " drsilva.vitrinemed.com", "drsilva", true},
		{"nested label keys on leftmost", "a.b.vitrinemed.com", "a", true},
		{"bare root", "vitrinemed.com", "", false},
		{"bare root with port", "vitrinemed.com:8080", "", false},
		{"www reserved", "www.vitrinemed.com", "", false},
		{"platform name reserved", "vitrine.vitrinemed.com", "", false},
		{"foreign domain", "drsilva.example.com", "", false},
		{"suffix without dot", "evilvitrinemed.com", "", false},
		{"empty host", "", "", false},
		{"dot only prefix", ".vitrinemed.com", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Subdomain(tc.host, root)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Subdomain(%q) = (%q, %v), want (%q, %v)",
					tc.host, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFromRequest_HeaderPriority(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = ""
	req.Header.Set("X-Original-Host", "original.vitrinemed.com")
	req.Header.Set("X-Host", "override.vitrinemed.com")

	// No Host, no X-Forwarded-Host: the original-host header wins.
	if got := FromRequest(req); got != "original.vitrinemed.com" {
		t.Fatalf("FromRequest = %q, want original-host header", got)
	}

	req.Header.Set("X-Forwarded-Host", "forwarded.vitrinemed.com")
	if got := FromRequest(req); got != "forwarded.vitrinemed.com" {
		t.Fatalf("FromRequest = %q, want forwarded-host header", got)
	}

	req.Host = "direct.vitrinemed.com"
	if got := FromRequest(req); got != "direct.vitrinemed.com" {
		t.Fatalf("FromRequest = %q, want Host header", got)
	}
}

func TestSecondaryHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "www.vitrinemed.com"

	if got := SecondaryHost(req); got != "" {
		t.Fatalf("SecondaryHost with no forwarded headers = %q, want empty", got)
	}

	req.Header.Set("X-Forwarded-Host", "drsilva.vitrinemed.com")
	if got := SecondaryHost(req); got != "drsilva.vitrinemed.com" {
		t.Fatalf("SecondaryHost = %q, want forwarded host", got)
	}

	// A forwarded header equal to the primary host is not a retry candidate.
	req.Header.Set("X-Forwarded-Host", "www.vitrinemed.com")
	req.Header.Set("X-Original-Host", "drcosta.vitrinemed.com")
	if got := SecondaryHost(req); got != "drcosta.vitrinemed.com" {
		t.Fatalf("SecondaryHost = %q, want first differing header", got)
	}
}

func TestStripPort(t *testing.T) {
	if got := StripPort("host.example:8080"); got != "host.example" {
		t.Fatalf("StripPort = %q", got)
	}
	if got := StripPort("host.example"); got != "host.example" {
		t.Fatalf("StripPort without port mutated: %q", got)
	}
}
