// internal/tenant/model.go
//
// `tenant` table row model.
//
// Context
// -------
// The Record struct mirrors one row in the persistent **tenant** table: one
// published professional's page, keyed by its immutable subdomain.  It is
// scanned by the repository (sqlx), cached by the record cache, and handed
// to the document renderer and the access gate.  It carries no behaviour
// beyond SQL/JSON marshalling.
//
// Schema reference (2026-07-12)
//
//	CREATE TABLE tenant (
//	    id                 UUID PRIMARY KEY,
//	    subdomain          VARCHAR(63)  NOT NULL UNIQUE,
//	    custom_domain      VARCHAR(255),
//	    owner_id           UUID         NOT NULL,
//	    status             VARCHAR(10)  NOT NULL DEFAULT 'draft',
//	    briefing_data      JSONB        NOT NULL DEFAULT '{}',
//	    content_data       JSONB        NOT NULL DEFAULT '{}',
//	    design_settings    JSONB        NOT NULL DEFAULT '{}',
//	    section_visibility JSONB        NOT NULL DEFAULT '{}',
//	    layout_variant     SMALLINT     NOT NULL DEFAULT 1,
//	    photo_url          TEXT,
//	    about_photo_url    TEXT,
//	    meta_title         TEXT,
//	    meta_description   TEXT,
//	    meta_keywords      JSONB        NOT NULL DEFAULT '[]',
//	    og_image_url       TEXT,
//	    view_count         BIGINT       NOT NULL DEFAULT 0,
//	    last_viewed_at     TIMESTAMPTZ,
//	    created_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
//	    updated_at         TIMESTAMPTZ  NOT NULL DEFAULT now()
//	);
//
// Row-level security allows the anon role to read only rows with
// status = 'published'; the service role bypasses the policy.
//
// Notes
// -----
// • Nullable columns are pointers; callers must nil-check before use.
// • JSONB columns scan through the json* wrapper types below.
// • `ViewCount` and `LastViewedAt` are mutated by the view-tracking
//   collaborator, never by this process.
// • Oxford commas, two spaces after periods.
package tenant

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Lifecycle states.  `published` is the sole state with anonymous public
// visibility; everything else needs an access decision.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Record mirrors one row in the `tenant` table.
type Record struct {
	ID           string  `db:"id" json:"id"`
	Subdomain    string  `db:"subdomain" json:"subdomain"`
	CustomDomain *string `db:"custom_domain" json:"customDomain,omitempty"`
	OwnerID      string  `db:"owner_id" json:"ownerId"`
	Status       string  `db:"status" json:"status"`

	Briefing   Briefing          `db:"briefing_data" json:"briefingData"`
	Content    Content           `db:"content_data" json:"contentData"`
	Design     DesignSettings    `db:"design_settings" json:"designSettings"`
	Visibility SectionVisibility `db:"section_visibility" json:"sectionVisibility"`
	Layout     int               `db:"layout_variant" json:"layoutVariant"`

	PhotoURL      *string `db:"photo_url" json:"photoUrl,omitempty"`
	AboutPhotoURL *string `db:"about_photo_url" json:"aboutPhotoUrl,omitempty"`

	MetaTitle       *string  `db:"meta_title" json:"metaTitle,omitempty"`
	MetaDescription *string  `db:"meta_description" json:"metaDescription,omitempty"`
	MetaKeywords    Keywords `db:"meta_keywords" json:"metaKeywords,omitempty"`
	OGImageURL      *string  `db:"og_image_url" json:"ogImageUrl,omitempty"`

	ViewCount    int64      `db:"view_count" json:"viewCount"`
	LastViewedAt *time.Time `db:"last_viewed_at" json:"lastViewedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Published reports whether the record is publicly visible to anyone.
func (r *Record) Published() bool { return r.Status == StatusPublished }

//
// JSONB payloads
//

// Briefing holds the professional-identity intake data.
type Briefing struct {
	Name          string    `json:"name"`
	LicenseNumber string    `json:"licenseNumber"`
	LicenseRegion string    `json:"licenseRegion"`
	Specialty     string    `json:"specialty"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Addresses     []Address `json:"addresses,omitempty"`
}

// Address is one service location.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Postal  string `json:"postal"`
	Country string `json:"country"`
}

// Content holds the page copy authored in the (external) editor.
type Content struct {
	Headline     string        `json:"headline"`
	Subheadline  string        `json:"subheadline"`
	CTAText      string        `json:"ctaText"`
	Services     []string      `json:"services,omitempty"`
	Testimonials []Testimonial `json:"testimonials,omitempty"`
	About        string        `json:"about"`
	ContactPhone string        `json:"contactPhone"`
	ContactEmail string        `json:"contactEmail"`
}

// Testimonial is one patient quote.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
}

// DesignSettings holds the visual knobs chosen in the editor.
type DesignSettings struct {
	Palette        string `json:"palette"`
	FontPairing    string `json:"fontPairing"`
	CornerRadius   string `json:"cornerRadius"`
	PhotoTreatment string `json:"photoTreatment"`
}

// SectionVisibility toggles page sections by name.
type SectionVisibility map[string]bool

// Visible reports whether a section should render.  Unknown sections
// default to visible so new sections never vanish on old records.
func (v SectionVisibility) Visible(section string) bool {
	if v == nil {
		return true
	}
	on, ok := v[section]
	return !ok || on
}

// Keywords is the meta_keywords JSONB array.
type Keywords []string

//
// sql.Scanner / driver.Valuer plumbing for JSONB columns
//

func scanJSON(dst any, src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("tenant: unsupported JSONB source type")
	}
}

func valueJSON(src any) (driver.Value, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Briefing) Scan(src any) error            { return scanJSON(b, src) }
func (b Briefing) Value() (driver.Value, error)   { return valueJSON(b) }
func (c *Content) Scan(src any) error             { return scanJSON(c, src) }
func (c Content) Value() (driver.Value, error)    { return valueJSON(c) }
func (d *DesignSettings) Scan(src any) error      { return scanJSON(d, src) }
func (d DesignSettings) Value() (driver.Value, error) { return valueJSON(d) }
func (v *SectionVisibility) Scan(src any) error   { return scanJSON(v, src) }
func (v SectionVisibility) Value() (driver.Value, error) { return valueJSON(v) }
func (k *Keywords) Scan(src any) error            { return scanJSON(k, src) }
func (k Keywords) Value() (driver.Value, error)   { return valueJSON(k) }
