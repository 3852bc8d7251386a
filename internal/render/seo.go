// internal/render/seo.go
//
// Deterministic SEO metadata from a mutable tenant record.
//
// Context
// -------
// Tenant-authored overrides win over generated templates, but only when
// they pass the genericness filter: platform boilerplate that leaked into
// an override must never beat the deterministic template built from the
// professional's name, specialty, and license fields.  The social preview
// image walks a fallback chain that excludes inline-encoded images at
// every step, because sharing crawlers cannot fetch a data URI.
//
// Everything here is pure; the same record and context always produce the
// same Meta value.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package render

import (
	"strings"

	"github.com/vitrinemed/vitrine/internal/tenant"
)

// descriptionLimit is the longest description emitted, ellipsis included.
const descriptionLimit = 160

// Meta is the computed SEO block for one render.
type Meta struct {
	Title        string
	Description  string
	Keywords     []string
	CanonicalURL string
	SocialImage  string
}

// BuildMeta computes the metadata for rec under ctx.
func BuildMeta(rec *tenant.Record, ctx Context) Meta {
	return Meta{
		Title:        metaTitle(rec),
		Description:  Truncate(metaDescription(rec), descriptionLimit),
		Keywords:     metaKeywords(rec),
		CanonicalURL: CanonicalURL(rec, ctx),
		SocialImage:  socialImage(rec, ctx),
	}
}

// CanonicalURL prefers the custom domain over the platform subdomain.
func CanonicalURL(rec *tenant.Record, ctx Context) string {
	if rec.CustomDomain != nil && *rec.CustomDomain != "" {
		return "https://" + *rec.CustomDomain
	}
	return "https://" + rec.Subdomain + "." + ctx.RootDomain
}

// metaTitle prefers the tenant override, else "Name | Specialty".
func metaTitle(rec *tenant.Record) string {
	if t := deref(rec.MetaTitle); t != "" && !IsGenericPlatformText(t) {
		return t
	}
	b := rec.Briefing
	switch {
	case b.Name != "" && b.Specialty != "":
		return b.Name + " | " + b.Specialty
	case b.Name != "":
		return b.Name
	default:
		return rec.Subdomain
	}
}

// metaDescription prefers the tenant override, else a template from the
// briefing fields.  The caller truncates.
func metaDescription(rec *tenant.Record) string {
	if d := deref(rec.MetaDescription); d != "" && !IsGenericPlatformText(d) {
		return d
	}
	b := rec.Briefing
	var parts []string
	if b.Name != "" {
		if b.Specialty != "" {
			parts = append(parts, b.Name+", "+strings.ToLower(b.Specialty)+".")
		} else {
			parts = append(parts, b.Name+".")
		}
	}
	if b.LicenseNumber != "" {
		lic := "Professional license " + b.LicenseNumber
		if b.LicenseRegion != "" {
			lic += "-" + b.LicenseRegion
		}
		parts = append(parts, lic+".")
	}
	parts = append(parts, "Book your appointment online.")
	return strings.Join(parts, "  ")
}

// metaKeywords keeps non-generic override entries, else falls back to a
// deterministic set from the briefing.
func metaKeywords(rec *tenant.Record) []string {
	kept := make([]string, 0, len(rec.MetaKeywords))
	for _, k := range rec.MetaKeywords {
		if k != "" && !IsGenericPlatformText(k) {
			kept = append(kept, k)
		}
	}
	if len(kept) > 0 {
		return kept
	}

	b := rec.Briefing
	var out []string
	if b.Name != "" {
		out = append(out, b.Name)
	}
	if b.Specialty != "" {
		out = append(out, b.Specialty)
	}
	if b.LicenseRegion != "" {
		out = append(out, b.LicenseRegion)
	}
	out = append(out, "appointment")
	return out
}

// socialImage picks the first shareable image:
// og override → about photo → profile photo → platform default.  Inline-
// encoded images are skipped everywhere, and an og override equal to the
// platform default asset counts as unset.
func socialImage(rec *tenant.Record, ctx Context) string {
	if img := deref(rec.OGImageURL); img != "" &&
		img != ctx.DefaultOGImage && !IsInlineEncodedImage(img) {
		return img
	}
	if img := deref(rec.AboutPhotoURL); img != "" && !IsInlineEncodedImage(img) {
		return img
	}
	if img := deref(rec.PhotoURL); img != "" && !IsInlineEncodedImage(img) {
		return img
	}
	return ctx.DefaultOGImage
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
