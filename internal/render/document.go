// internal/render/document.go
//
// Pure document renderer: tenant record (+ render context) → complete HTML.
//
// Context
// -------
// One function, Render, replaces what used to be several near-identical
// HTML generators across entry points.  It is deterministic: the same
// record and the same Context produce byte-identical output.  Nothing here
// reads the clock, the network, or global state; the copyright year is the
// only date-like value and arrives in the Context.
//
// The document embeds, in order: the SEO/meta block, Open Graph and
// Twitter cards, Schema.org JSON-LD, a server-rendered content tree, a
// serialized copy of the record for client-side hydration (a typed
// hand-off under a fixed element id, not a window global), and the bundled
// client entry script.  When ctx.Deferred is set the content tree is
// hidden by default and an access re-check script is appended; the client
// reveals the page only after the re-check allows it.
//
// Every interpolated value passes through Escape exactly once.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vitrinemed/vitrine/internal/tenant"
)

// StateElementID is the hydration hand-off element consumed by the client
// bundle.
const StateElementID = "__VITRINE_STATE__"

// ErrIncompleteRecord is returned for records that cannot form a document.
var ErrIncompleteRecord = errors.New("render: record missing subdomain")

// Context carries the request-independent inputs of one render call.
type Context struct {
	RootDomain     string // platform apex, e.g. "vitrinemed.com"
	PlatformName   string // for the footer attribution
	DefaultOGImage string // platform fallback share image
	AssetPath      string // bundled client entry, e.g. "/assets/index.js"
	RecheckURL     string // access re-check endpoint path
	Year           int    // copyright year
	Deferred       bool   // hide content, append re-check script
}

// Render produces the full HTML document for rec.
func Render(rec *tenant.Record, ctx Context) (string, error) {
	if rec == nil || rec.Subdomain == "" {
		return "", ErrIncompleteRecord
	}

	meta := BuildMeta(rec, ctx)

	head := newHead()
	head.SetTitle(meta.Title)
	head.Meta(`<meta charset="utf-8">`)
	head.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	head.Meta(metaTag("description", meta.Description))
	if len(meta.Keywords) > 0 {
		head.Meta(metaTag("keywords", strings.Join(meta.Keywords, ", ")))
	}
	head.Link(`<link rel="canonical" href="` + Escape(meta.CanonicalURL) + `">`)

	// Open Graph and Twitter cards.
	head.Meta(propTag("og:type", "website"))
	head.Meta(propTag("og:title", meta.Title))
	head.Meta(propTag("og:description", meta.Description))
	head.Meta(propTag("og:url", meta.CanonicalURL))
	head.Meta(propTag("og:image", meta.SocialImage))
	head.Meta(metaTag("twitter:card", "summary_large_image"))
	head.Meta(metaTag("twitter:title", meta.Title))
	head.Meta(metaTag("twitter:description", meta.Description))
	head.Meta(metaTag("twitter:image", meta.SocialImage))

	// Structured data.
	physician, err := physicianJSON(rec, meta)
	if err != nil {
		return "", fmt.Errorf("render: physician json-ld: %w", err)
	}
	head.JSONLD(physician)
	business, err := medicalBusinessJSON(rec, meta)
	if err != nil {
		return "", fmt.Errorf("render: business json-ld: %w", err)
	}
	if business != "" {
		head.JSONLD(business)
	}

	state, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("render: hydration state: %w", err)
	}

	var sb strings.Builder
	sb.Grow(8 << 10)

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n")
	sb.WriteString(head.Title())
	sb.WriteString("\n")
	sb.WriteString(head.Metas())
	sb.WriteString("\n")
	sb.WriteString(head.Links())
	sb.WriteString("\n")
	sb.WriteString(head.JSON())
	sb.WriteString("\n")
	sb.WriteString(designStyle(rec))
	sb.WriteString("\n</head>\n")

	sb.WriteString(fmt.Sprintf(`<body class="layout-%d palette-%s">`,
		layoutVariant(rec), Escape(paletteClass(rec))))
	sb.WriteString("\n")

	if ctx.Deferred {
		sb.WriteString(`<main id="page-root" data-access="pending" hidden>`)
	} else {
		sb.WriteString(`<main id="page-root">`)
	}
	sb.WriteString("\n")
	writeContent(&sb, rec)
	sb.WriteString("</main>\n")

	if ctx.Deferred {
		sb.WriteString(`<div id="page-unavailable" hidden><h1>`)
		sb.WriteString(Escape("This page is not published yet."))
		sb.WriteString(`</h1><p>`)
		sb.WriteString(Escape("If this is your page, sign in to preview it."))
		sb.WriteString(`</p></div>`)
		sb.WriteString("\n")
	}

	writeFooter(&sb, ctx)

	// Hydration hand-off.  json.Marshal escapes "<" so the payload can
	// never terminate the script element early.
	sb.WriteString(`<script id="` + StateElementID + `" type="application/json">`)
	sb.Write(state)
	sb.WriteString("</script>\n")

	if ctx.Deferred {
		sb.WriteString(recheckScript(rec.Subdomain, ctx.RecheckURL))
		sb.WriteString("\n")
	}

	sb.WriteString(`<script type="module" src="` + Escape(ctx.AssetPath) + `"></script>`)
	sb.WriteString("\n</body>\n</html>\n")

	return sb.String(), nil
}

//
// body sections
//

func writeContent(sb *strings.Builder, rec *tenant.Record) {
	b := rec.Briefing
	c := rec.Content
	vis := rec.Visibility

	// Hero.
	if vis.Visible("hero") {
		sb.WriteString(`<section class="hero">`)
		if c.Headline != "" {
			sb.WriteString("<h1>" + Escape(c.Headline) + "</h1>")
		} else if b.Name != "" {
			sb.WriteString("<h1>" + Escape(b.Name) + "</h1>")
		}
		if c.Subheadline != "" {
			sb.WriteString("<h2>" + Escape(c.Subheadline) + "</h2>")
		}
		if b.Specialty != "" {
			sb.WriteString(`<p class="specialty">` + Escape(b.Specialty) + "</p>")
		}
		if lic := licenseLine(b); lic != "" {
			sb.WriteString(`<p class="license">` + Escape(lic) + "</p>")
		}
		if photo := deref(rec.PhotoURL); photo != "" && !IsInlineEncodedImage(photo) {
			sb.WriteString(`<img class="portrait" src="` + Escape(photo) +
				`" alt="` + Escape(b.Name) + `">`)
		}
		if c.CTAText != "" {
			sb.WriteString(`<a class="cta" href="#contact">` + Escape(c.CTAText) + "</a>")
		}
		sb.WriteString("</section>\n")
	}

	// Services.
	if vis.Visible("services") && len(c.Services) > 0 {
		sb.WriteString(`<section class="services"><h2>Services</h2><ul>`)
		for _, s := range c.Services {
			sb.WriteString("<li>" + Escape(s) + "</li>")
		}
		sb.WriteString("</ul></section>\n")
	}

	// About.
	if vis.Visible("about") && c.About != "" {
		sb.WriteString(`<section class="about"><h2>About</h2>`)
		if photo := deref(rec.AboutPhotoURL); photo != "" && !IsInlineEncodedImage(photo) {
			sb.WriteString(`<img src="` + Escape(photo) + `" alt="">`)
		}
		sb.WriteString("<p>" + Escape(c.About) + "</p></section>\n")
	}

	// Testimonials.
	if vis.Visible("testimonials") && len(c.Testimonials) > 0 {
		sb.WriteString(`<section class="testimonials"><h2>Testimonials</h2>`)
		for _, tm := range c.Testimonials {
			sb.WriteString(`<blockquote><p>` + Escape(tm.Quote) + `</p><cite>` +
				Escape(tm.Author) + `</cite></blockquote>`)
		}
		sb.WriteString("</section>\n")
	}

	// Contact.
	if vis.Visible("contact") {
		phone := firstNonEmpty(c.ContactPhone, b.Phone)
		email := firstNonEmpty(c.ContactEmail, b.Email)
		sb.WriteString(`<section class="contact" id="contact"><h2>Contact</h2>`)
		if phone != "" {
			sb.WriteString(`<p class="phone">` + Escape(phone) + "</p>")
		}
		if email != "" {
			sb.WriteString(`<p class="email">` + Escape(email) + "</p>")
		}
		for _, a := range b.Addresses {
			sb.WriteString(`<address>` + Escape(addressLine(a)) + `</address>`)
		}
		sb.WriteString("</section>\n")
	}
}

func writeFooter(sb *strings.Builder, ctx Context) {
	sb.WriteString(`<footer><p>© ` + fmt.Sprintf("%d", ctx.Year))
	if ctx.PlatformName != "" {
		sb.WriteString(" · " + Escape(ctx.PlatformName))
	}
	sb.WriteString("</p></footer>\n")
}

//
// helpers
//

func metaTag(name, content string) string {
	return `<meta name="` + Escape(name) + `" content="` + Escape(content) + `">`
}

func propTag(prop, content string) string {
	return `<meta property="` + Escape(prop) + `" content="` + Escape(content) + `">`
}

func licenseLine(b tenant.Briefing) string {
	if b.LicenseNumber == "" {
		return ""
	}
	if b.LicenseRegion != "" {
		return "License " + b.LicenseNumber + "-" + b.LicenseRegion
	}
	return "License " + b.LicenseNumber
}

func addressLine(a tenant.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.Region, a.Postal, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func layoutVariant(rec *tenant.Record) int {
	if rec.Layout < 1 || rec.Layout > 5 {
		return 1
	}
	return rec.Layout
}

func paletteClass(rec *tenant.Record) string {
	if rec.Design.Palette == "" {
		return "default"
	}
	return rec.Design.Palette
}

// designStyle emits the editor's visual knobs as CSS custom properties.
func designStyle(rec *tenant.Record) string {
	d := rec.Design
	var sb strings.Builder
	sb.WriteString("<style>:root{")
	if d.CornerRadius != "" {
		sb.WriteString("--corner-radius:" + Escape(d.CornerRadius) + ";")
	}
	if d.FontPairing != "" {
		sb.WriteString("--font-pairing:" + Escape(d.FontPairing) + ";")
	}
	if d.PhotoTreatment != "" {
		sb.WriteString("--photo-treatment:" + Escape(d.PhotoTreatment) + ";")
	}
	sb.WriteString("}</style>")
	return sb.String()
}

// recheckScript is the post-render contract of the Deferred branch: probe
// the re-check endpoint with browser-held credentials, reveal the hidden
// content on Allow, otherwise show the not-published notice.
func recheckScript(subdomain, recheckURL string) string {
	sub, _ := json.Marshal(subdomain)
	url, _ := json.Marshal(recheckURL)
	return `<script>(function(){` +
		`var root=document.getElementById("page-root");` +
		`var notice=document.getElementById("page-unavailable");` +
		`var headers={};` +
		`try{var t=window.localStorage.getItem("` + TokenStorageKey + `");` +
		`if(t){headers["Authorization"]="Bearer "+t;}}catch(e){}` +
		`fetch(` + string(url) + `+"?subdomain="+encodeURIComponent(` + string(sub) + `),` +
		`{credentials:"include",headers:headers})` +
		`.then(function(res){return res.ok?res.json():{allow:false};})` +
		`.then(function(body){if(body.allow){root.hidden=false;}else{notice.hidden=false;}})` +
		`.catch(function(){notice.hidden=false;});` +
		`})();</script>`
}

// TokenStorageKey is where the auth collaborator's client SDK keeps the
// access token.
const TokenStorageKey = "vitrine-access-token"
