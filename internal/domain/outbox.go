package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxDispatchAttempts is the retry cap for outbox entries. Entries that fail
// this many times are excluded from dispatch but kept for inspection.
const MaxDispatchAttempts = 3

// OutboxEntry is one locally-committed action awaiting confirmation from the
// remote system of record.
type OutboxEntry struct {
	ID         uuid.UUID  `json:"id"`
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Action     Action     `json:"action"`
	Attempts   int        `json:"attempts"`
	LastError  string     `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Parked reports whether the entry has exhausted its dispatch attempts.
func (e *OutboxEntry) Parked() bool {
	return e.Attempts >= MaxDispatchAttempts
}
