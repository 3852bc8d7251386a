// internal/access/gate.go
//
// Access decision for tenant records that are not publicly published.
//
// Context
// -------
// The gate is a pure state machine over (lifecycle status, viewer):
//
//	published                      → Allow, viewer or not.
//	draft|archived, viewer = owner → Allow.
//	draft|archived, viewer = admin → Allow.
//	draft|archived, other viewer   → Deny (terminal 403, no content).
//	draft|archived, no viewer      → Deferred.
//
// Deferred exists because viewer authenticity cannot always be established
// from request headers alone: the session token may live in client-side
// storage the server never sees.  In that case the document is rendered
// with content hidden and a client-side script re-checks authorization with
// the browser-held credentials before revealing anything.  A definitively
// identified non-owner, by contrast, is denied strictly with no tenant
// content embedded.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package access

import (
	"github.com/vitrinemed/vitrine/internal/tenant"
)

// Decision is the gate's verdict.
type Decision int

const (
	Allow Decision = iota
	Deny
	Deferred
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Viewer is the identity derived from request credentials.  The zero value
// is an anonymous viewer.
type Viewer struct {
	Authenticated bool
	UserID        string
	Admin         bool
}

// Evaluate runs the state machine.  Pure and total.
func Evaluate(rec *tenant.Record, v Viewer) Decision {
	if rec.Published() {
		return Allow
	}
	if !v.Authenticated {
		return Deferred
	}
	if v.Admin || v.UserID == rec.OwnerID {
		return Allow
	}
	return Deny
}
