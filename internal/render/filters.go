// internal/render/filters.go
//
// Small pure predicates and string helpers used across SEO generation.
//
// Context
// -------
// Two filters guard the metadata precedence rules:
//
//   - IsGenericPlatformText rejects platform-boilerplate copy so a tenant
//     page never ships marketing phrases as its own SEO text.
//   - IsInlineEncodedImage rejects data-URI images, which sharing platforms
//     cannot fetch, from every social-image fallback chain.
//
// Both are total over empty input and return false for it.  Escape and
// Unescape cover the five HTML-reserved characters; Escape is the single
// injection defence of the renderer and is applied to every interpolated
// value.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package render

import (
	"html"
	"strings"
)

// genericPhrases is the fixed platform-boilerplate list.  Matching is
// case-insensitive and substring-based.
var genericPhrases = []string{
	"vitrinemed",
	"vitrine med",
	"this platform",
	"create your page",
	"try free",
	"try it free",
	"seo optimized",
	"landing page builder",
	"sign up today",
}

// IsGenericPlatformText reports whether s contains platform marketing
// boilerplate.  Empty input is not generic.
func IsGenericPlatformText(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, p := range genericPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsInlineEncodedImage reports whether s is a data-URI image, which cannot
// be fetched by external sharing crawlers.
func IsInlineEncodedImage(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// Escape entity-escapes the five HTML-reserved characters (& < > " ').
func Escape(s string) string { return html.EscapeString(s) }

// Unescape reverses Escape.  Exposed for tests and for callers that store
// pre-escaped legacy values.
func Unescape(s string) string { return html.UnescapeString(s) }

// Truncate shortens s to at most max runes, appending an ellipsis when it
// had to cut.  The result including the ellipsis never exceeds max.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
