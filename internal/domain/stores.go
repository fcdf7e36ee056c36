package domain

import (
	"context"

	"github.com/google/uuid"
)

type WeightStore interface {
	Get(ctx context.Context, persona, category, value string) (*PreferenceWeight, error)
	Upsert(ctx context.Context, w *PreferenceWeight) error
	ListByPersona(ctx context.Context, persona string) ([]PreferenceWeight, error)
}

type FeedbackStore interface {
	Get(ctx context.Context, persona, entityID string) (*FeedbackRecord, error)
	Upsert(ctx context.Context, rec *FeedbackRecord) error
	ListByPersona(ctx context.Context, persona string) ([]FeedbackRecord, error)
	Stats(ctx context.Context, persona string) (*FeedbackStats, error)
}

type PairStore interface {
	Create(ctx context.Context, p *PreferencePair) error
	ListByPersona(ctx context.Context, persona string) ([]PreferencePair, error)
	CountByPersona(ctx context.Context, persona string) (int, error)
}

type OutboxStore interface {
	Enqueue(ctx context.Context, e *OutboxEntry) error
	// ListDispatchable returns up to limit entries with fewer than maxAttempts
	// failed attempts, oldest first.
	ListDispatchable(ctx context.Context, maxAttempts, limit int) ([]OutboxEntry, error)
	List(ctx context.Context, limit int) ([]OutboxEntry, error)
	RecordFailure(ctx context.Context, id uuid.UUID, lastError string) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type PersonaStore interface {
	Create(ctx context.Context, p *Persona) error
	GetByName(ctx context.Context, name string) (*Persona, error)
	List(ctx context.Context) ([]Persona, error)
	// SetActive marks the named persona active and every other persona
	// inactive in one statement.
	SetActive(ctx context.Context, name string) error
	GetActive(ctx context.Context) (*Persona, error)
}

// LikedEmbedding is the stored lexical embedding of a liked entity.
type LikedEmbedding struct {
	EntityID  string    `json:"entity_id"`
	Embedding []float32 `json:"embedding"`
}

// SimilarEntity is a liked entity ranked by cosine similarity.
type SimilarEntity struct {
	EntityID   string  `json:"entity_id"`
	Similarity float32 `json:"similarity"`
}

type LikedEmbeddingStore interface {
	Upsert(ctx context.Context, persona, entityID string, embedding []float32) error
	Remove(ctx context.Context, persona, entityID string) error
	ListByPersona(ctx context.Context, persona string) ([]LikedEmbedding, error)
	FindSimilar(ctx context.Context, persona string, embedding []float32, limit int) ([]SimilarEntity, error)
}

// Stores bundles every store bound to one database handle, either the shared
// pool or a single transaction.
type Stores struct {
	Weights    WeightStore
	Feedback   FeedbackStore
	Pairs      PairStore
	Outbox     OutboxStore
	Personas   PersonaStore
	Embeddings LikedEmbeddingStore
}

// TxRunner runs fn against a transaction-bound Stores. The ledger uses this
// as its atomicity boundary: record upsert, weight mutation and outbox
// enqueue either all commit or none do.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

// RemoteClient mirrors local actions to the remote system of record. Liked
// and disliked are mutually exclusive and always sent together; viewed is
// independent and never sent alongside a like/dislike mutation.
type RemoteClient interface {
	SendStatus(ctx context.Context, entityType EntityType, entityID string, liked, disliked bool) error
	SendViewed(ctx context.Context, entityType EntityType, entityID string) error
}
