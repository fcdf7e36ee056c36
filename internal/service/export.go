package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dcraven/sift/internal/domain"
)

// ExportService projects the ledger and weight store into training-data
// formats. Both projections are read-only and use stable ordering (pairs by
// creation time, weights by category then value) so exports diff cleanly
// across runs.
type ExportService struct {
	stores domain.Stores
	now    func() time.Time
}

func NewExportService(stores domain.Stores) *ExportService {
	return &ExportService{stores: stores, now: time.Now}
}

// SetClock overrides the generated-at timestamp source. Callers that want
// byte-identical exports for identical state pin the clock.
func (s *ExportService) SetClock(now func() time.Time) {
	s.now = now
}

// ExportScope builds the full JSON export document for one persona.
func (s *ExportService) ExportScope(ctx context.Context, persona string) (*domain.Export, error) {
	if persona == "" {
		return nil, ErrPersonaMissing
	}

	pairs, err := s.stores.Pairs.ListByPersona(ctx, persona)
	if err != nil {
		return nil, err
	}
	weights, err := s.stores.Weights.ListByPersona(ctx, persona)
	if err != nil {
		return nil, err
	}
	stats, err := s.stores.Feedback.Stats(ctx, persona)
	if err != nil {
		return nil, err
	}

	if pairs == nil {
		pairs = []domain.PreferencePair{}
	}
	if weights == nil {
		weights = []domain.PreferenceWeight{}
	}

	return &domain.Export{
		Persona:     persona,
		GeneratedAt: s.now().UTC(),
		Metadata: domain.ExportMetadata{
			Likes:    stats.Likes,
			Dislikes: stats.Dislikes,
			Pairs:    len(pairs),
			Weights:  len(weights),
		},
		PreferencePairs: pairs,
		LearnedWeights:  weights,
	}, nil
}

// WriteDPO streams the persona's preference pairs as line-delimited JSON, one
// record per pair in creation order.
func (s *ExportService) WriteDPO(ctx context.Context, persona string, w io.Writer) error {
	if persona == "" {
		return ErrPersonaMissing
	}

	pairs, err := s.stores.Pairs.ListByPersona(ctx, persona)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for _, p := range pairs {
		rec := domain.DPORecord{
			Prompt:   dpoPrompt(persona, p),
			Chosen:   p.ChosenID,
			Rejected: p.RejectedID,
			Persona:  persona,
			EntityID: p.ChosenID,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func dpoPrompt(persona string, p domain.PreferencePair) string {
	if p.Reason != "" {
		return fmt.Sprintf("Which entity better fits the %q persona? Consider: %s", persona, p.Reason)
	}
	return fmt.Sprintf("Which entity better fits the %q persona?", persona)
}
