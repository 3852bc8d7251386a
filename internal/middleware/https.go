// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/vitrinemed/vitrine/internal/hostinfo"
)

// ForceHTTPS wraps h.  If the request is plain HTTP and the host is not
// "localhost", the wrapper issues a 308 Permanent Redirect to the HTTPS
// version of the same URL for any host the platform serves: a tenant
// subdomain or the bare root domain.  Unknown hosts keep the normal flow
// (the dispatcher will show the shell or 404 later).
func ForceHTTPS(rootDomain string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := hostinfo.StripPort(r.Host)

		// Already HTTPS or dev host → continue.
		if r.TLS != nil || host == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		_, isTenant := hostinfo.Subdomain(host, rootDomain)
		if isTenant || host == rootDomain || host == "www."+rootDomain {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		h.ServeHTTP(w, r)
	})
}
