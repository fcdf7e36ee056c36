package service

import (
	"context"
	"errors"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/store"
	"go.uber.org/zap"
)

var (
	ErrPersonaNameMissing = errors.New("persona name is required")
	ErrPersonaNotFound    = errors.New("persona not found")
)

const recipeReason = "persona recipe"

// PersonaService manages learning scopes. Creating a persona seeds its weight
// namespace from the recipe tags; activating one deactivates every other
// without touching any learned weights.
type PersonaService struct {
	stores domain.Stores
	tx     domain.TxRunner
	logger *zap.Logger
}

func NewPersonaService(stores domain.Stores, tx domain.TxRunner, logger *zap.Logger) *PersonaService {
	return &PersonaService{stores: stores, tx: tx, logger: logger}
}

// Create stores the persona and seeds one freeform weight per recipe tag, so
// a fresh persona scores entities according to its recipe before any
// explicit feedback arrives.
func (s *PersonaService) Create(ctx context.Context, p *domain.Persona) error {
	if p.Name == "" {
		return ErrPersonaNameMissing
	}

	err := s.tx.InTx(ctx, func(st domain.Stores) error {
		if err := st.Personas.Create(ctx, p); err != nil {
			return err
		}
		if err := seedRecipe(ctx, st.Weights, p.Name, p.PositiveTags, domain.ActionLike); err != nil {
			return err
		}
		return seedRecipe(ctx, st.Weights, p.Name, p.NegativeTags, domain.ActionDislike)
	})
	if err != nil {
		return err
	}

	s.logger.Info("persona created",
		zap.String("name", p.Name),
		zap.Int("positive_tags", len(p.PositiveTags)),
		zap.Int("negative_tags", len(p.NegativeTags)),
	)
	return nil
}

func seedRecipe(ctx context.Context, weights domain.WeightStore, persona string, tags []string, action domain.Action) error {
	if len(tags) == 0 {
		return nil
	}
	categories := map[string][]string{domain.CategoryFreeform: tags}
	return applyFeedback(ctx, weights, persona, categories, action, recipeReason)
}

// Activate makes the named persona the single active scope.
func (s *PersonaService) Activate(ctx context.Context, name string) (*domain.Persona, error) {
	if name == "" {
		return nil, ErrPersonaNameMissing
	}

	p, err := s.stores.Personas.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPersonaNotFound
		}
		return nil, err
	}

	if err := s.stores.Personas.SetActive(ctx, name); err != nil {
		return nil, err
	}
	p.Active = true

	s.logger.Info("persona activated", zap.String("name", name))
	return p, nil
}

func (s *PersonaService) GetByName(ctx context.Context, name string) (*domain.Persona, error) {
	p, err := s.stores.Personas.GetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPersonaNotFound
	}
	return p, err
}

func (s *PersonaService) GetActive(ctx context.Context) (*domain.Persona, error) {
	p, err := s.stores.Personas.GetActive(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPersonaNotFound
	}
	return p, err
}

func (s *PersonaService) List(ctx context.Context) ([]domain.Persona, error) {
	return s.stores.Personas.List(ctx)
}
