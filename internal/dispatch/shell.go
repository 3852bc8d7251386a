package dispatch

import (
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Shell serves the single-page application entry document for hosts
// that do not resolve to a tenant.  The file is probed once at startup
// from a list of candidate paths and held in memory; if none exists a
// minimal placeholder keeps the apex from erroring.
type Shell struct {
	body []byte
}

// NewShell probes candidates relative to root and loads the first that
// exists.
func NewShell(root string, candidates []string) *Shell {
	for _, c := range candidates {
		p := filepath.Join(root, c)
		b, err := os.ReadFile(p)
		if err == nil {
			zap.S().Infow("application shell loaded", "path", p, "bytes", len(b))
			return &Shell{body: b}
		}
	}
	zap.S().Warnw("no application shell found, using placeholder", "candidates", candidates)
	return &Shell{body: []byte(placeholderShell)}
}

const placeholderShell = `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>VitrineMed</title></head>
<body><main><h1>VitrineMed</h1><p>Professional pages for health practitioners.</p></main></body>
</html>
`

// Serve writes the shell with dynamic cache headers.  The shell is an
// application entry, not a tenant page, so it must never stick in a
// shared cache keyed without the host.
func (s *Shell) Serve(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", dynamicCacheControl)
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.body)
}
