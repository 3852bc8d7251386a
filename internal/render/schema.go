// internal/render/schema.go
//
// Schema.org structured-data blocks.
//
// Context
// -------
// Every tenant page embeds a Physician record; pages with at least one
// service address additionally embed a MedicalBusiness record.  Field
// values follow the same precedence rules as the visible metadata, so the
// JSON-LD never disagrees with the meta tags.  Marshalling goes through
// structs with a fixed field order, keeping the output byte-stable for the
// idempotence guarantee.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package render

import (
	"encoding/json"

	"github.com/vitrinemed/vitrine/internal/tenant"
)

const schemaContext = "https://schema.org"

type physicianLD struct {
	Context          string `json:"@context"`
	Type             string `json:"@type"`
	Name             string `json:"name"`
	MedicalSpecialty string `json:"medicalSpecialty,omitempty"`
	Identifier       string `json:"identifier,omitempty"`
	URL              string `json:"url"`
	Image            string `json:"image,omitempty"`
	Telephone        string `json:"telephone,omitempty"`
	Email            string `json:"email,omitempty"`
	Description      string `json:"description,omitempty"`
}

type postalAddressLD struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

type medicalBusinessLD struct {
	Context   string            `json:"@context"`
	Type      string            `json:"@type"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Image     string            `json:"image,omitempty"`
	Telephone string            `json:"telephone,omitempty"`
	Address   []postalAddressLD `json:"address"`
}

// physicianJSON builds the Physician block from the computed metadata.
func physicianJSON(rec *tenant.Record, meta Meta) (string, error) {
	b := rec.Briefing
	identifier := ""
	if b.LicenseNumber != "" {
		identifier = b.LicenseNumber
		if b.LicenseRegion != "" {
			identifier += "-" + b.LicenseRegion
		}
	}

	ld := physicianLD{
		Context:          schemaContext,
		Type:             "Physician",
		Name:             firstNonEmpty(b.Name, rec.Subdomain),
		MedicalSpecialty: b.Specialty,
		Identifier:       identifier,
		URL:              meta.CanonicalURL,
		Image:            meta.SocialImage,
		Telephone:        firstNonEmpty(rec.Content.ContactPhone, b.Phone),
		Email:            firstNonEmpty(rec.Content.ContactEmail, b.Email),
		Description:      meta.Description,
	}
	out, err := json.Marshal(ld)
	return string(out), err
}

// medicalBusinessJSON builds the MedicalBusiness block, or "" when the
// record has no service addresses.
func medicalBusinessJSON(rec *tenant.Record, meta Meta) (string, error) {
	b := rec.Briefing
	if len(b.Addresses) == 0 {
		return "", nil
	}

	addrs := make([]postalAddressLD, 0, len(b.Addresses))
	for _, a := range b.Addresses {
		addrs = append(addrs, postalAddressLD{
			Type:            "PostalAddress",
			StreetAddress:   a.Street,
			AddressLocality: a.City,
			AddressRegion:   a.Region,
			PostalCode:      a.Postal,
			AddressCountry:  a.Country,
		})
	}

	ld := medicalBusinessLD{
		Context:   schemaContext,
		Type:      "MedicalBusiness",
		Name:      firstNonEmpty(b.Name, rec.Subdomain),
		URL:       meta.CanonicalURL,
		Image:     meta.SocialImage,
		Telephone: firstNonEmpty(rec.Content.ContactPhone, b.Phone),
		Address:   addrs,
	}
	out, err := json.Marshal(ld)
	return string(out), err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
