package feature

import (
	"testing"

	"github.com/dcraven/sift/internal/domain"
)

func TestExtract_Person(t *testing.T) {
	f := Extract(domain.EntityInput{
		Type:             domain.EntityTypePerson,
		PersonID:         "p-42",
		FullName:         "Ada Moreno",
		Seniority:        "Founder",
		Region:           "Europe",
		PeopleHighlights: []string{"Serial Entrepreneur", "Top University"},
		Experience: []domain.Experience{
			{CompanyName: "Stripe", Industry: "Fintech"},
			{CompanyName: "Monzo", Industry: "Fintech"},
		},
	})

	if f.ID != "p-42" {
		t.Fatalf("expected id p-42, got %q", f.ID)
	}
	if f.DisplayName != "Ada Moreno" {
		t.Fatalf("expected display name Ada Moreno, got %q", f.DisplayName)
	}
	if got := f.Tags[domain.CategorySeniority]; len(got) != 1 || got[0] != "Founder" {
		t.Fatalf("unexpected seniority tags: %v", got)
	}
	// Duplicate industry collapses to one value.
	if got := f.Tags[domain.CategoryIndustry]; len(got) != 1 || got[0] != "Fintech" {
		t.Fatalf("unexpected industry tags: %v", got)
	}
	if got := f.Tags[domain.CategoryCompany]; len(got) != 2 {
		t.Fatalf("expected 2 company tags, got %v", got)
	}
	if f.TextBlob == "" {
		t.Fatal("expected non-empty text blob")
	}
}

func TestExtract_IDFallbackOrder(t *testing.T) {
	if f := Extract(domain.EntityInput{CompanyID: "c-1"}); f.ID != "c-1" {
		t.Fatalf("expected company_id fallback, got %q", f.ID)
	}
	if f := Extract(domain.EntityInput{PersonID: "p-1", CompanyID: "c-1"}); f.ID != "p-1" {
		t.Fatalf("expected person_id before company_id, got %q", f.ID)
	}
	if f := Extract(domain.EntityInput{ID: "e-1", PersonID: "p-1"}); f.ID != "e-1" {
		t.Fatalf("expected id before person_id, got %q", f.ID)
	}
}

func TestExtract_NameFallbacks(t *testing.T) {
	if f := Extract(domain.EntityInput{OrganizationName: "Acme"}); f.DisplayName != "Acme" {
		t.Fatalf("expected organization_name, got %q", f.DisplayName)
	}
	if f := Extract(domain.EntityInput{FirstName: "Ada", LastName: "Moreno"}); f.DisplayName != "Ada Moreno" {
		t.Fatalf("expected first+last name, got %q", f.DisplayName)
	}
	if f := Extract(domain.EntityInput{FirstName: "Ada"}); f.DisplayName != "Ada" {
		t.Fatalf("expected bare first name, got %q", f.DisplayName)
	}
}

func TestExtract_EmptyInputIsTotal(t *testing.T) {
	f := Extract(domain.EntityInput{})

	if f.ID != "" || f.DisplayName != "" {
		t.Fatalf("expected empty id and name, got %q / %q", f.ID, f.DisplayName)
	}
	if f.Tags == nil {
		t.Fatal("expected non-nil tag map")
	}
	if len(f.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", f.Tags)
	}
}

func TestExtract_SignalType(t *testing.T) {
	f := Extract(domain.EntityInput{
		Type:       domain.EntityTypeSignal,
		ID:         "s-1",
		SignalType: "new_fund_raised",
	})

	if got := f.Tags[domain.CategorySignal]; len(got) != 1 || got[0] != "new_fund_raised" {
		t.Fatalf("unexpected signal tags: %v", got)
	}
}

func TestExtract_SeniorityAlias(t *testing.T) {
	f := Extract(domain.EntityInput{
		Type:             domain.EntityTypePerson,
		ID:               "p-9",
		LevelOfSeniority: "C-Level",
	})

	if got := f.Tags[domain.CategorySeniority]; len(got) != 1 || got[0] != "C-Level" {
		t.Fatalf("expected level_of_seniority alias to resolve, got %v", got)
	}
}

func TestExtract_HighlightsAliasForPeople(t *testing.T) {
	f := Extract(domain.EntityInput{
		Type:       domain.EntityTypePerson,
		ID:         "p-3",
		Highlights: []string{"YC Alum"},
	})

	if got := f.Tags[domain.CategoryHighlight]; len(got) != 1 || got[0] != "YC Alum" {
		t.Fatalf("expected highlights fallback, got %v", got)
	}
}
