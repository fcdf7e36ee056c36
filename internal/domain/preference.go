package domain

import "time"

// MaxReasons bounds the provenance log kept per weight.
const MaxReasons = 10

// TagKey identifies a learned weight within a persona.
type TagKey struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// PreferenceWeight is the learned opinion about one (category, value) tag
// within a persona. Weight is always derived from the like/dislike counts and
// is never mutated independently.
type PreferenceWeight struct {
	Persona      string    `json:"persona"`
	Category     string    `json:"category"`
	Value        string    `json:"value"`
	Positive     float32   `json:"positive"`
	Negative     float32   `json:"negative"`
	Weight       float32   `json:"weight"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	Reasons      []string  `json:"reasons,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Recompute rederives Weight from the counters:
// (likes - dislikes) / max(likes + dislikes, 1), always in [-1, 1].
func (w *PreferenceWeight) Recompute() {
	total := w.LikeCount + w.DislikeCount
	if total < 1 {
		total = 1
	}
	w.Weight = float32(w.LikeCount-w.DislikeCount) / float32(total)
}

// AddReason appends a reason if it is non-empty, not already recorded, and
// the log is below MaxReasons.
func (w *PreferenceWeight) AddReason(reason string) {
	if reason == "" || len(w.Reasons) >= MaxReasons {
		return
	}
	for _, r := range w.Reasons {
		if r == reason {
			return
		}
	}
	w.Reasons = append(w.Reasons, reason)
}

// RemoveReason drops a reason from the log. Used when a feedback record is
// replaced and its contribution reversed.
func (w *PreferenceWeight) RemoveReason(reason string) {
	for i, r := range w.Reasons {
		if r == reason {
			w.Reasons = append(w.Reasons[:i], w.Reasons[i+1:]...)
			return
		}
	}
}

// Snapshot is a read-only view of a persona's weights used for scoring.
type Snapshot map[TagKey]PreferenceWeight
