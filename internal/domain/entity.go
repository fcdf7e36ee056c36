package domain

type EntityType string

const (
	EntityTypePerson  EntityType = "person"
	EntityTypeCompany EntityType = "company"
	EntityTypeSignal  EntityType = "signal"
)

func ValidEntityType(t string) bool {
	switch EntityType(t) {
	case EntityTypePerson, EntityTypeCompany, EntityTypeSignal:
		return true
	}
	return false
}

// Experience is a single employment entry on a person record.
type Experience struct {
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// EntityInput is the loosely-shaped record upstream search hands us. Every
// field except Type is optional; which identifier and name fields are filled
// depends on the entity type.
type EntityInput struct {
	Type EntityType `json:"type"`

	ID        string `json:"id,omitempty"`
	PersonID  string `json:"person_id,omitempty"`
	CompanyID string `json:"company_id,omitempty"`

	FullName         string `json:"full_name,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	Name             string `json:"name,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`

	Seniority        string `json:"seniority,omitempty"`
	LevelOfSeniority string `json:"level_of_seniority,omitempty"`
	Region           string `json:"region,omitempty"`

	PeopleHighlights []string     `json:"people_highlights,omitempty"`
	Highlights       []string     `json:"highlights,omitempty"`
	Experience       []Experience `json:"experience,omitempty"`

	SignalType string `json:"signal_type,omitempty"`
}

// Tag categories produced by feature extraction. CategoryFreeform holds
// user-supplied feedback tags and persona recipe tags; it has no source field
// on the entity itself.
const (
	CategorySeniority = "seniority"
	CategoryRegion    = "region"
	CategorySignal    = "signal"
	CategoryHighlight = "highlight"
	CategoryIndustry  = "industry"
	CategoryCompany   = "company"
	CategoryFreeform  = "tag"
)

// EntityFeatures is the canonical feature set derived from an EntityInput.
// It is never persisted as-is; the ledger stores the tag map alongside each
// feedback record so reversals can be replayed exactly.
type EntityFeatures struct {
	ID          string              `json:"id"`
	Type        EntityType          `json:"type"`
	DisplayName string              `json:"display_name"`
	Tags        map[string][]string `json:"tags"`
	TextBlob    string              `json:"text_blob"`
}
