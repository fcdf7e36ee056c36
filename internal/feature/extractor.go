// Package feature normalizes heterogeneous entity records into the canonical
// feature set the rest of the engine works with. Extraction is total: every
// input yields a feature set, with missing fields degrading to empty values.
package feature

import (
	"strings"

	"github.com/dcraven/sift/internal/domain"
)

// Extract derives the canonical feature set from an entity record.
// Per-type extractors handle the fields specific to people, companies and
// talent signals; unknown types fall back to the generic path.
func Extract(in domain.EntityInput) domain.EntityFeatures {
	f := domain.EntityFeatures{
		ID:   resolveID(in),
		Type: in.Type,
		Tags: map[string][]string{},
	}

	switch in.Type {
	case domain.EntityTypePerson:
		extractPerson(in, &f)
	case domain.EntityTypeCompany:
		extractCompany(in, &f)
	case domain.EntityTypeSignal:
		extractSignal(in, &f)
	default:
		extractPerson(in, &f)
		extractCompany(in, &f)
		extractSignal(in, &f)
	}

	f.DisplayName = resolveName(in)
	f.TextBlob = buildTextBlob(f.DisplayName, f.Tags)
	return f
}

func extractPerson(in domain.EntityInput, f *domain.EntityFeatures) {
	addTag(f, domain.CategorySeniority, firstNonEmpty(in.Seniority, in.LevelOfSeniority))
	addTag(f, domain.CategoryRegion, in.Region)

	highlights := in.PeopleHighlights
	if len(highlights) == 0 {
		highlights = in.Highlights
	}
	for _, h := range highlights {
		addTag(f, domain.CategoryHighlight, h)
	}

	for _, exp := range in.Experience {
		addTag(f, domain.CategoryIndustry, exp.Industry)
		addTag(f, domain.CategoryCompany, exp.CompanyName)
	}
}

func extractCompany(in domain.EntityInput, f *domain.EntityFeatures) {
	addTag(f, domain.CategoryRegion, in.Region)
	for _, h := range in.Highlights {
		addTag(f, domain.CategoryHighlight, h)
	}
	for _, exp := range in.Experience {
		addTag(f, domain.CategoryIndustry, exp.Industry)
	}
}

func extractSignal(in domain.EntityInput, f *domain.EntityFeatures) {
	addTag(f, domain.CategorySignal, in.SignalType)
	addTag(f, domain.CategorySeniority, firstNonEmpty(in.Seniority, in.LevelOfSeniority))
	addTag(f, domain.CategoryRegion, in.Region)
	for _, h := range in.Highlights {
		addTag(f, domain.CategoryHighlight, h)
	}
}

func resolveID(in domain.EntityInput) string {
	return firstNonEmpty(in.ID, in.PersonID, in.CompanyID)
}

func resolveName(in domain.EntityInput) string {
	if name := firstNonEmpty(in.FullName, in.OrganizationName, in.Name); name != "" {
		return name
	}
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}

func addTag(f *domain.EntityFeatures, category, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	for _, existing := range f.Tags[category] {
		if strings.EqualFold(existing, value) {
			return
		}
	}
	f.Tags[category] = append(f.Tags[category], value)
}

func buildTextBlob(name string, tags map[string][]string) string {
	parts := make([]string, 0, 8)
	if name != "" {
		parts = append(parts, name)
	}
	// Fixed category order keeps the blob stable for identical inputs.
	for _, cat := range []string{
		domain.CategorySeniority,
		domain.CategoryRegion,
		domain.CategorySignal,
		domain.CategoryHighlight,
		domain.CategoryIndustry,
		domain.CategoryCompany,
	} {
		parts = append(parts, tags[cat]...)
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
