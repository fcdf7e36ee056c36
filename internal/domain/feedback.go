package domain

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
	ActionViewed  Action = "viewed"
)

func ValidAction(a string) bool {
	switch Action(a) {
	case ActionLike, ActionDislike, ActionViewed:
		return true
	}
	return false
}

// FeedbackRecord is the durable record of one like/dislike event. At most one
// live record exists per (persona, entity); a later event replaces the
// earlier one. Categories snapshots the categorical tags the event was
// learned from, so a replacement can reverse the prior contribution exactly.
type FeedbackRecord struct {
	ID              uuid.UUID           `json:"id"`
	Persona         string              `json:"persona"`
	EntityID        string              `json:"entity_id"`
	EntityType      EntityType          `json:"entity_type"`
	Action          Action              `json:"action"`
	Tags            []string            `json:"tags,omitempty"`
	Categories      map[string][]string `json:"categories,omitempty"`
	Note            string              `json:"note,omitempty"`
	PriorScore      *int                `json:"prior_score,omitempty"`
	AgreedWithScore *bool               `json:"agreed_with_score,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type FeedbackStats struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Total    int `json:"total"`
	Pairs    int `json:"pairs"`
}
