package domain

import (
	"time"

	"github.com/google/uuid"
)

// PreferencePair is an explicit "chosen over rejected, because reason"
// comparison. Pairs accumulate; there is no uniqueness constraint.
type PreferencePair struct {
	ID         uuid.UUID `json:"id"`
	Persona    string    `json:"persona"`
	ChosenID   string    `json:"chosen_entity_id"`
	RejectedID string    `json:"rejected_entity_id"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
