package service

import (
	"context"
	"errors"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/embedding"
	"github.com/dcraven/sift/internal/feature"
	"github.com/dcraven/sift/internal/store"
	"go.uber.org/zap"
)

// ScoringService resolves the persona's weight snapshot and liked corpus and
// hands them to the pure scorer. It never mutates learned state.
type ScoringService struct {
	stores domain.Stores
	logger *zap.Logger
}

func NewScoringService(stores domain.Stores, logger *zap.Logger) *ScoringService {
	return &ScoringService{stores: stores, logger: logger}
}

type EntityScore struct {
	EntityID    string `json:"entity_id"`
	DisplayName string `json:"display_name,omitempty"`
	Persona     string `json:"persona"`
	ScoreResult
}

// ScoreEntity scores one entity against a persona's learned preferences.
// An empty persona resolves to the active one.
func (s *ScoringService) ScoreEntity(ctx context.Context, persona string, input domain.EntityInput) (*EntityScore, error) {
	persona, err := s.resolvePersona(ctx, persona)
	if err != nil {
		return nil, err
	}

	features := feature.Extract(input)
	if features.ID == "" {
		return nil, ErrEntityIDMissing
	}

	weights, err := s.stores.Weights.ListByPersona(ctx, persona)
	if err != nil {
		return nil, err
	}
	corpus, err := s.stores.Embeddings.ListByPersona(ctx, persona)
	if err != nil {
		return nil, err
	}

	opts := ScoreOptions{LikedCorpus: corpus}
	if p, err := s.stores.Personas.GetByName(ctx, persona); err == nil {
		opts.RedFlagTags = p.RedFlagTags
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	result := Score(features, snapshotFromWeights(weights), opts)
	return &EntityScore{
		EntityID:    features.ID,
		DisplayName: features.DisplayName,
		Persona:     persona,
		ScoreResult: result,
	}, nil
}

// SimilarLiked returns previously liked entities ranked by embedding
// similarity to the given entity.
func (s *ScoringService) SimilarLiked(ctx context.Context, persona string, input domain.EntityInput, limit int) ([]domain.SimilarEntity, error) {
	persona, err := s.resolvePersona(ctx, persona)
	if err != nil {
		return nil, err
	}

	features := feature.Extract(input)
	if features.ID == "" && features.TextBlob == "" {
		return nil, ErrEntityIDMissing
	}

	return s.stores.Embeddings.FindSimilar(ctx, persona, embedding.Embed(features.TextBlob), limit)
}

func (s *ScoringService) resolvePersona(ctx context.Context, persona string) (string, error) {
	if persona != "" {
		return persona, nil
	}
	active, err := s.stores.Personas.GetActive(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrPersonaMissing
		}
		return "", err
	}
	return active.Name, nil
}
