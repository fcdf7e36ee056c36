package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PersonaStore struct {
	db DBTX
}

func NewPersonaStore(db DBTX) *PersonaStore {
	return &PersonaStore{db: db}
}

func (s *PersonaStore) Create(ctx context.Context, p *domain.Persona) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO personas (name, description, positive_tags, negative_tags, red_flag_tags, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.Name, p.Description, nonNil(p.PositiveTags), nonNil(p.NegativeTags), nonNil(p.RedFlagTags), p.Active,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *PersonaStore) GetByName(ctx context.Context, name string) (*domain.Persona, error) {
	return s.getBy(ctx, `WHERE name = $1`, name)
}

func (s *PersonaStore) GetActive(ctx context.Context) (*domain.Persona, error) {
	return s.getBy(ctx, `WHERE active`)
}

func (s *PersonaStore) getBy(ctx context.Context, where string, args ...any) (*domain.Persona, error) {
	p := &domain.Persona{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, positive_tags, negative_tags, red_flag_tags, active, created_at
		 FROM personas `+where,
		args...,
	).Scan(&p.ID, &p.Name, &p.Description, &p.PositiveTags, &p.NegativeTags, &p.RedFlagTags, &p.Active, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PersonaStore) List(ctx context.Context) ([]domain.Persona, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, positive_tags, negative_tags, red_flag_tags, active, created_at
		 FROM personas
		 ORDER BY created_at, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []domain.Persona
	for rows.Next() {
		var p domain.Persona
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PositiveTags, &p.NegativeTags, &p.RedFlagTags, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

// SetActive flips the named persona active and all others inactive in a
// single statement, so there is never a moment with two active personas.
func (s *PersonaStore) SetActive(ctx context.Context, name string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE personas SET active = (name = $1)`,
		name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
