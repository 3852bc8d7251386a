// internal/render/document_test.go
//
// Scenario tests for the document renderer and the SEO precedence rules.
//
// Context
// -------
// The renderer is pure, so the tests are plain input → output assertions:
//
//   • byte-identical output for repeated renders (idempotence)
//   • override vs. template precedence under the genericness filter
//   • social-image fallback chain skipping inline-encoded images
//   • description truncation to ≤160 runes with trailing ellipsis
//   • deferred renders hide content and append the re-check script
//   • hostile record values never reach the markup unescaped
//
// Run: go test ./internal/render -v

package render

import (
	"strings"
	"testing"

	"github.com/vitrinemed/vitrine/internal/tenant"
)

func strptr(s string) *string { return &s }

func testCtx() Context {
	return Context{
		RootDomain:     "vitrinemed.com",
		PlatformName:   "VitrineMed",
		DefaultOGImage: "https://vitrinemed.com/assets/og-default.png",
		AssetPath:      "/assets/index.js",
		RecheckURL:     "/api/access/check",
		Year:           2026,
	}
}

func testRecord() *tenant.Record {
	return &tenant.Record{
		ID:        "t-1",
		Subdomain: "drsilva",
		OwnerID:   "u-1",
		Status:    tenant.StatusPublished,
		Layout:    3,
		Briefing: tenant.Briefing{
			Name:          "Dra. Ana Silva",
			LicenseNumber: "12345",
			LicenseRegion: "SP",
			Specialty:     "Dermatologia",
			Phone:         "+55 11 99999-0000",
			Email:         "contato@drsilva.med.br",
			Addresses: []tenant.Address{{
				Street: "Av. Paulista 1000", City: "São Paulo",
				Region: "SP", Postal: "01310-100", Country: "BR",
			}},
		},
		Content: tenant.Content{
			Headline:    "Pele saudável em todas as fases",
			Subheadline: "Dermatologia clínica e estética",
			CTAText:     "Agendar consulta",
			Services:    []string{"Consulta clínica", "Peeling"},
			About:       "Atendimento humanizado há 15 anos.",
		},
	}
}

func TestRender_Idempotent(t *testing.T) {
	rec := testRecord()
	ctx := testCtx()

	a, err := Render(rec, ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := Render(rec, ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if a != b {
		t.Fatal("two renders of the same inputs differ")
	}
}

func TestRender_CoreBlocks(t *testing.T) {
	rec := testRecord()
	out, err := Render(rec, testCtx())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"<title>Dra. Ana Silva | Dermatologia</title>",
		`<link rel="canonical" href="https://drsilva.vitrinemed.com">`,
		`<meta property="og:url" content="https://drsilva.vitrinemed.com">`,
		`"@type":"Physician"`,
		`"@type":"MedicalBusiness"`,
		`"identifier":"12345-SP"`,
		`<script id="` + StateElementID + `" type="application/json">`,
		`<script type="module" src="/assets/index.js"></script>`,
		`class="layout-3`,
		"© 2026",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}

	if strings.Contains(out, "hidden") {
		t.Error("public render must not hide content")
	}
}

func TestRender_CustomDomainCanonical(t *testing.T) {
	rec := testRecord()
	rec.CustomDomain = strptr("www.drasilva.com.br")

	out, err := Render(rec, testCtx())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<link rel="canonical" href="https://www.drasilva.com.br">`) {
		t.Error("canonical URL must prefer the custom domain")
	}
}

func TestRender_GenericOverridesFallBack(t *testing.T) {
	rec := testRecord()
	rec.MetaTitle = strptr("Built with VitrineMed – try free!")
	rec.MetaDescription = strptr("SEO optimized landing page builder")

	out, err := Render(rec, testCtx())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// The hydration payload carries the raw record, rejected overrides
	// included, so only the head block must be free of them.
	head, _, found := strings.Cut(out, "</head>")
	if !found {
		t.Fatal("document has no head")
	}
	if strings.Contains(head, "try free") {
		t.Error("generic title override leaked into the head")
	}
	if strings.Contains(head, "SEO optimized") {
		t.Error("generic description override leaked into the head")
	}
	if !strings.Contains(head, "<title>Dra. Ana Silva | Dermatologia</title>") {
		t.Error("template title not used after generic override was rejected")
	}
	if !strings.Contains(head, "Professional license 12345-SP.") {
		t.Error("template description not used after generic override was rejected")
	}
}

func TestRender_HonestOverridesWin(t *testing.T) {
	rec := testRecord()
	rec.MetaTitle = strptr("Dermatologista em São Paulo – Dra. Ana Silva")

	out, err := Render(rec, testCtx())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<title>Dermatologista em São Paulo – Dra. Ana Silva</title>") {
		t.Error("tenant-authored title override was not used")
	}
}

func TestSocialImage_FallbackChain(t *testing.T) {
	ctx := testCtx()

	rec := testRecord()
	rec.OGImageURL = strptr("data:image/png;base64,AAA")
	rec.AboutPhotoURL = strptr("https://cdn.vitrinemed.com/x.png")
	rec.PhotoURL = strptr("https://cdn.vitrinemed.com/face.png")

	if got := BuildMeta(rec, ctx).SocialImage; got != "https://cdn.vitrinemed.com/x.png" {
		t.Fatalf("inline og image not skipped: %q", got)
	}

	rec.AboutPhotoURL = strptr("data:image/jpeg;base64,BBB")
	if got := BuildMeta(rec, ctx).SocialImage; got != "https://cdn.vitrinemed.com/face.png" {
		t.Fatalf("inline about photo not skipped: %q", got)
	}

	rec.PhotoURL = nil
	if got := BuildMeta(rec, ctx).SocialImage; got != ctx.DefaultOGImage {
		t.Fatalf("default image not used at chain end: %q", got)
	}

	// An og override equal to the platform default counts as unset.
	rec = testRecord()
	rec.OGImageURL = strptr(ctx.DefaultOGImage)
	rec.AboutPhotoURL = strptr("https://cdn.vitrinemed.com/about.png")
	if got := BuildMeta(rec, ctx).SocialImage; got != "https://cdn.vitrinemed.com/about.png" {
		t.Fatalf("default-valued og override not skipped: %q", got)
	}
}

func TestDescription_TemplateAndTruncation(t *testing.T) {
	rec := testRecord()
	rec.MetaDescription = nil

	meta := BuildMeta(rec, testCtx())
	if !strings.HasPrefix(meta.Description, "Dra. Ana Silva, dermatologia.") {
		t.Fatalf("template description unexpected: %q", meta.Description)
	}

	rec.MetaDescription = strptr(strings.Repeat("Consulta dermatológica completa. ", 20))
	meta = BuildMeta(rec, testCtx())
	if r := []rune(meta.Description); len(r) > 160 {
		t.Fatalf("description length %d > 160", len(r))
	}
	if !strings.HasSuffix(meta.Description, "…") {
		t.Fatalf("long description missing ellipsis: %q", meta.Description)
	}
}

func TestRender_Deferred(t *testing.T) {
	rec := testRecord()
	rec.Status = tenant.StatusDraft

	ctx := testCtx()
	ctx.Deferred = true

	out, err := Render(rec, ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<main id="page-root" data-access="pending" hidden>`,
		`id="page-unavailable"`,
		"not published yet",
		`/api/access/check`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("deferred document missing %q", want)
		}
	}
}

func TestRender_EscapesHostileValues(t *testing.T) {
	rec := testRecord()
	rec.Content.Headline = `<script>alert("x")</script>`
	rec.Briefing.Name = `Dr. "Mal" & <Sons>`

	out, err := Render(rec, testCtx())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, `<script>alert`) {
		t.Error("script tag from record reached the markup unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("hostile headline was not entity-escaped")
	}
}

func TestRender_IncompleteRecord(t *testing.T) {
	if _, err := Render(nil, testCtx()); err == nil {
		t.Fatal("nil record must fail")
	}
	if _, err := Render(&tenant.Record{}, testCtx()); err == nil {
		t.Fatal("record without subdomain must fail")
	}
}
