package render

import (
	"strings"
	"testing"
)

func TestHeadBuilder_Dedup(t *testing.T) {
	b := newHead()

	b.Meta(`<meta name="description" content="a">`)
	b.Meta(`<meta name="description" content="a">`)
	if got := strings.Count(b.Metas(), "description"); got != 1 {
		t.Errorf("duplicate meta kept: %d occurrences", got)
	}

	// Distinct JSON-LD blocks share a long common prefix; both must
	// survive deduplication.
	physician := `{"@context":"https://schema.org","@type":"Physician","name":"A"}`
	business := `{"@context":"https://schema.org","@type":"MedicalBusiness","name":"A"}`
	b.JSONLD(physician)
	b.JSONLD(business)
	b.JSONLD(physician) // true duplicate, dropped

	out := b.JSON()
	if !strings.Contains(out, `"@type":"Physician"`) {
		t.Error("Physician block missing")
	}
	if !strings.Contains(out, `"@type":"MedicalBusiness"`) {
		t.Error("MedicalBusiness block missing")
	}
	if got := strings.Count(out, `"@type":"Physician"`); got != 1 {
		t.Errorf("Physician block kept %d times, want 1", got)
	}
}
