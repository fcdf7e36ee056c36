package domain

import "time"

// ExportMetadata summarizes the state an export was taken from.
type ExportMetadata struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Pairs    int `json:"pairs"`
	Weights  int `json:"weights"`
}

// Export is the JSON export document for one persona.
type Export struct {
	Persona         string             `json:"persona"`
	GeneratedAt     time.Time          `json:"generated_at"`
	Metadata        ExportMetadata     `json:"metadata"`
	PreferencePairs []PreferencePair   `json:"preference_pairs"`
	LearnedWeights  []PreferenceWeight `json:"learned_weights"`
}

// DPORecord is one line of the line-delimited preference-pair training
// format.
type DPORecord struct {
	Prompt   string `json:"prompt"`
	Chosen   string `json:"chosen"`
	Rejected string `json:"rejected"`
	Persona  string `json:"persona"`
	EntityID string `json:"entityId"`
}
