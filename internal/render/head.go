// internal/render/head.go
//
// The headBuilder collects everything that should appear inside a page's
// <head> element.  It is scoped to a single render call.  The SEO layer
// pushes tags into the builder, then the document assembler decides where
// to emit each slice.
//
// Features
// --------
//   - SetTitle        – single <title> tag (last call wins).
//   - Meta, Link      – arbitrary tags with deduplication.
//   - JSONLD          – stores raw JSON-LD strings and wraps them in
//     <script type="application/ld+json">…</script>.
//   - Render helpers  – concat methods returning raw markup.
package render

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// headBuilder is used by one goroutine per render call; no locking needed.
type headBuilder struct {
	title string

	metas  []string
	links  []string
	jsonLD []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func newHead() *headBuilder {
	return &headBuilder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.  The value
// is escaped here, exactly once.
func (b *headBuilder) SetTitle(t string) { b.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (b *headBuilder) Title() string {
	if b.title == "" {
		return ""
	}
	return "<title>" + Escape(b.title) + "</title>"
}

func (b *headBuilder) Meta(tag string)  { b.add("meta:"+tag, &b.metas, tag) }
func (b *headBuilder) Link(tag string)  { b.add("link:"+tag, &b.links, tag) }
func (b *headBuilder) JSONLD(js string) { b.add("jsonld:"+hashKey(js), &b.jsonLD, js) }

func (b *headBuilder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hashKey creates a short, stable key covering the whole JSON-LD string.
// Distinct blocks share long common prefixes, so the key must depend on
// every byte.
func hashKey(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return strconv.FormatUint(h.Sum64(), 16)
}

func (b *headBuilder) Metas() string { return strings.Join(b.metas, "\n") }
func (b *headBuilder) Links() string { return strings.Join(b.links, "\n") }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *headBuilder) JSON() string {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return sb.String()
}
