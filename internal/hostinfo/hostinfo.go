// internal/hostinfo/hostinfo.go
//
// Tenant-key resolution from request host information.
//
// Context
// -------
// Every tenant page is reachable at `{subdomain}.{rootDomain}` (or a custom
// domain that the edge rewrites onto a forwarded-host header).  The resolver
// derives that subdomain from the request without touching the network or
// the database, so it is safe to call anywhere, any number of times.
//
// Header priority
// ---------------
// Proxies and edge rewrites hide the true host under different names, so
// FromRequest consults, in order:
//
//  1. Host (r.Host)
//  2. X-Forwarded-Host
//  3. X-Original-Host
//  4. X-Host
//
// The first non-empty value wins.  Subdomain() itself is pure and total:
// port stripped, lowercased, must end in ".{rootDomain}" with at least one
// extra label, and the reserved labels ("www", the bare platform name) are
// rejected.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package hostinfo

import (
	"net/http"
	"strings"
)

// Reserved leftmost labels that never map to a tenant.
var reservedLabels = map[string]struct{}{
	"www":     {},
	"vitrine": {},
}

// FromRequest returns the effective host string using the header priority
// chain.  May be empty when the client sent no host at all.
func FromRequest(r *http.Request) string {
	if h := r.Host; h != "" {
		return h
	}
	for _, name := range []string{"X-Forwarded-Host", "X-Original-Host", "X-Host"} {
		if h := r.Header.Get(name); h != "" {
			return h
		}
	}
	return ""
}

// SecondaryHost returns the first forwarded-host header that differs from
// the primary host.  The dispatcher retries bare "/" requests against it
// once before falling back to the application shell, covering proxies that
// rewrite Host but preserve the original in a forwarded header.
func SecondaryHost(r *http.Request) string {
	primary := FromRequest(r)
	for _, name := range []string{"X-Forwarded-Host", "X-Original-Host", "X-Host"} {
		if h := r.Header.Get(name); h != "" && h != primary {
			return h
		}
	}
	return ""
}

// Subdomain extracts the tenant key from host, given the platform root
// domain.  Returns ("", false) when the host does not name a tenant.
func Subdomain(host, rootDomain string) (string, bool) {
	host = strings.ToLower(StripPort(strings.TrimSpace(host)))
	rootDomain = strings.ToLower(rootDomain)
	if host == "" || rootDomain == "" {
		return "", false
	}

	// The bare root domain has no tenant label.
	if host == rootDomain {
		return "", false
	}
	if !strings.HasSuffix(host, "."+rootDomain) {
		return "", false
	}

	prefix := strings.TrimSuffix(host, "."+rootDomain)
	if prefix == "" {
		return "", false
	}

	// Multi-level prefixes take the leftmost label; "a.b.root" keys on "a".
	labels := strings.Split(prefix, ".")
	sub := labels[0]
	if sub == "" {
		return "", false
	}
	if _, reserved := reservedLabels[sub]; reserved {
		return "", false
	}
	return sub, true
}

// StripPort removes the :port suffix from a host string when present.
func StripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
