package domain

import (
	"time"

	"github.com/google/uuid"
)

// Persona is a named learning scope. Each persona has its own isolated weight
// namespace plus a recipe of tags that seed and shape scoring. Exactly one
// persona is active at a time.
type Persona struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PositiveTags []string  `json:"positive_tags,omitempty"`
	NegativeTags []string  `json:"negative_tags,omitempty"`
	RedFlagTags  []string  `json:"red_flag_tags,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
