package service

import (
	"context"
	"sort"
	"time"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/embedding"
	"github.com/dcraven/sift/internal/store"
	"github.com/google/uuid"
)

// In-memory store implementations used across the service tests.

type mockWeightStore struct {
	weights map[[3]string]domain.PreferenceWeight
}

func newMockWeightStore() *mockWeightStore {
	return &mockWeightStore{weights: make(map[[3]string]domain.PreferenceWeight)}
}

func (m *mockWeightStore) Get(ctx context.Context, persona, category, value string) (*domain.PreferenceWeight, error) {
	w, ok := m.weights[[3]string{persona, category, value}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := w
	cp.Reasons = append([]string(nil), w.Reasons...)
	return &cp, nil
}

func (m *mockWeightStore) Upsert(ctx context.Context, w *domain.PreferenceWeight) error {
	w.UpdatedAt = time.Now()
	cp := *w
	cp.Reasons = append([]string(nil), w.Reasons...)
	m.weights[[3]string{w.Persona, w.Category, w.Value}] = cp
	return nil
}

func (m *mockWeightStore) ListByPersona(ctx context.Context, persona string) ([]domain.PreferenceWeight, error) {
	var out []domain.PreferenceWeight
	for k, w := range m.weights {
		if k[0] == persona {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

type mockFeedbackStore struct {
	records map[[2]string]domain.FeedbackRecord
}

func newMockFeedbackStore() *mockFeedbackStore {
	return &mockFeedbackStore{records: make(map[[2]string]domain.FeedbackRecord)}
}

func (m *mockFeedbackStore) Get(ctx context.Context, persona, entityID string) (*domain.FeedbackRecord, error) {
	rec, ok := m.records[[2]string{persona, entityID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (m *mockFeedbackStore) Upsert(ctx context.Context, rec *domain.FeedbackRecord) error {
	key := [2]string{rec.Persona, rec.EntityID}
	if prior, ok := m.records[key]; ok {
		rec.ID = prior.ID
		rec.CreatedAt = prior.CreatedAt
	} else {
		rec.ID = uuid.New()
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()
	m.records[key] = *rec
	return nil
}

func (m *mockFeedbackStore) ListByPersona(ctx context.Context, persona string) ([]domain.FeedbackRecord, error) {
	var out []domain.FeedbackRecord
	for k, rec := range m.records {
		if k[0] == persona {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockFeedbackStore) Stats(ctx context.Context, persona string) (*domain.FeedbackStats, error) {
	stats := &domain.FeedbackStats{}
	for k, rec := range m.records {
		if k[0] != persona {
			continue
		}
		stats.Total++
		switch rec.Action {
		case domain.ActionLike:
			stats.Likes++
		case domain.ActionDislike:
			stats.Dislikes++
		}
	}
	return stats, nil
}

type mockPairStore struct {
	pairs []domain.PreferencePair
}

func newMockPairStore() *mockPairStore {
	return &mockPairStore{}
}

func (m *mockPairStore) Create(ctx context.Context, p *domain.PreferencePair) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().Add(time.Duration(len(m.pairs)) * time.Millisecond)
	m.pairs = append(m.pairs, *p)
	return nil
}

func (m *mockPairStore) ListByPersona(ctx context.Context, persona string) ([]domain.PreferencePair, error) {
	var out []domain.PreferencePair
	for _, p := range m.pairs {
		if p.Persona == persona {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPairStore) CountByPersona(ctx context.Context, persona string) (int, error) {
	out, _ := m.ListByPersona(ctx, persona)
	return len(out), nil
}

type mockOutboxStore struct {
	entries []domain.OutboxEntry
	seq     int
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{}
}

func (m *mockOutboxStore) Enqueue(ctx context.Context, e *domain.OutboxEntry) error {
	m.seq++
	e.ID = uuid.New()
	e.CreatedAt = time.Unix(int64(m.seq), 0)
	e.UpdatedAt = e.CreatedAt
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockOutboxStore) ListDispatchable(ctx context.Context, maxAttempts, limit int) ([]domain.OutboxEntry, error) {
	var out []domain.OutboxEntry
	for _, e := range m.entries {
		if e.Attempts < maxAttempts {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockOutboxStore) List(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	return append([]domain.OutboxEntry(nil), m.entries[:limit]...), nil
}

func (m *mockOutboxStore) RecordFailure(ctx context.Context, id uuid.UUID, lastError string) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Attempts++
			m.entries[i].LastError = lastError
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockOutboxStore) Remove(ctx context.Context, id uuid.UUID) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockPersonaStore struct {
	personas map[string]domain.Persona
}

func newMockPersonaStore() *mockPersonaStore {
	return &mockPersonaStore{personas: make(map[string]domain.Persona)}
}

func (m *mockPersonaStore) Create(ctx context.Context, p *domain.Persona) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.personas[p.Name] = *p
	return nil
}

func (m *mockPersonaStore) GetByName(ctx context.Context, name string) (*domain.Persona, error) {
	p, ok := m.personas[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *mockPersonaStore) List(ctx context.Context) ([]domain.Persona, error) {
	var out []domain.Persona
	for _, p := range m.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockPersonaStore) SetActive(ctx context.Context, name string) error {
	if len(m.personas) == 0 {
		return store.ErrNotFound
	}
	for n, p := range m.personas {
		p.Active = n == name
		m.personas[n] = p
	}
	return nil
}

func (m *mockPersonaStore) GetActive(ctx context.Context) (*domain.Persona, error) {
	for _, p := range m.personas {
		if p.Active {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

type mockEmbeddingStore struct {
	vectors map[[2]string][]float32
}

func newMockEmbeddingStore() *mockEmbeddingStore {
	return &mockEmbeddingStore{vectors: make(map[[2]string][]float32)}
}

func (m *mockEmbeddingStore) Upsert(ctx context.Context, persona, entityID string, vec []float32) error {
	m.vectors[[2]string{persona, entityID}] = append([]float32(nil), vec...)
	return nil
}

func (m *mockEmbeddingStore) Remove(ctx context.Context, persona, entityID string) error {
	delete(m.vectors, [2]string{persona, entityID})
	return nil
}

func (m *mockEmbeddingStore) ListByPersona(ctx context.Context, persona string) ([]domain.LikedEmbedding, error) {
	var out []domain.LikedEmbedding
	for k, v := range m.vectors {
		if k[0] == persona {
			out = append(out, domain.LikedEmbedding{EntityID: k[1], Embedding: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

func (m *mockEmbeddingStore) FindSimilar(ctx context.Context, persona string, vec []float32, limit int) ([]domain.SimilarEntity, error) {
	liked, _ := m.ListByPersona(ctx, persona)
	out := make([]domain.SimilarEntity, 0, len(liked))
	for _, l := range liked {
		out = append(out, domain.SimilarEntity{
			EntityID:   l.EntityID,
			Similarity: embedding.Similarity(vec, l.Embedding),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockTxRunner executes the callback directly against the shared mock
// stores. Rollback semantics are not simulated; the tests that need failure
// paths assert on store errors instead.
type mockTxRunner struct {
	stores domain.Stores
}

func (m *mockTxRunner) InTx(ctx context.Context, fn func(domain.Stores) error) error {
	return fn(m.stores)
}

func newMockStores() (domain.Stores, *mockTxRunner) {
	stores := domain.Stores{
		Weights:    newMockWeightStore(),
		Feedback:   newMockFeedbackStore(),
		Pairs:      newMockPairStore(),
		Outbox:     newMockOutboxStore(),
		Personas:   newMockPersonaStore(),
		Embeddings: newMockEmbeddingStore(),
	}
	return stores, &mockTxRunner{stores: stores}
}
