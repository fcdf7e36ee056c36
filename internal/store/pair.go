package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
)

type PairStore struct {
	db DBTX
}

func NewPairStore(db DBTX) *PairStore {
	return &PairStore{db: db}
}

func (s *PairStore) Create(ctx context.Context, p *domain.PreferencePair) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO preference_pairs (persona, chosen_id, rejected_id, reason)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.Persona, p.ChosenID, p.RejectedID, p.Reason,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *PairStore) ListByPersona(ctx context.Context, persona string) ([]domain.PreferencePair, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, persona, chosen_id, rejected_id, reason, created_at
		 FROM preference_pairs
		 WHERE persona = $1
		 ORDER BY created_at, id`,
		persona,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []domain.PreferencePair
	for rows.Next() {
		var p domain.PreferencePair
		if err := rows.Scan(&p.ID, &p.Persona, &p.ChosenID, &p.RejectedID, &p.Reason, &p.CreatedAt); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func (s *PairStore) CountByPersona(ctx context.Context, persona string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM preference_pairs WHERE persona = $1`,
		persona,
	).Scan(&count)
	return count, err
}
