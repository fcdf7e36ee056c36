package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
	"github.com/jackc/pgx/v5"
)

type WeightStore struct {
	db DBTX
}

func NewWeightStore(db DBTX) *WeightStore {
	return &WeightStore{db: db}
}

func (s *WeightStore) Get(ctx context.Context, persona, category, value string) (*domain.PreferenceWeight, error) {
	w := &domain.PreferenceWeight{}
	err := s.db.QueryRow(ctx,
		`SELECT persona, category, value, positive, negative, weight, like_count, dislike_count, reasons, updated_at
		 FROM preference_weights
		 WHERE persona = $1 AND category = $2 AND value = $3`,
		persona, category, value,
	).Scan(&w.Persona, &w.Category, &w.Value, &w.Positive, &w.Negative, &w.Weight, &w.LikeCount, &w.DislikeCount, &w.Reasons, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *WeightStore) Upsert(ctx context.Context, w *domain.PreferenceWeight) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO preference_weights (persona, category, value, positive, negative, weight, like_count, dislike_count, reasons, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (persona, category, value) DO UPDATE SET
			positive = EXCLUDED.positive,
			negative = EXCLUDED.negative,
			weight = EXCLUDED.weight,
			like_count = EXCLUDED.like_count,
			dislike_count = EXCLUDED.dislike_count,
			reasons = EXCLUDED.reasons,
			updated_at = NOW()
		 RETURNING updated_at`,
		w.Persona, w.Category, w.Value, w.Positive, w.Negative, w.Weight, w.LikeCount, w.DislikeCount, nonNil(w.Reasons),
	).Scan(&w.UpdatedAt)
}

func (s *WeightStore) ListByPersona(ctx context.Context, persona string) ([]domain.PreferenceWeight, error) {
	rows, err := s.db.Query(ctx,
		`SELECT persona, category, value, positive, negative, weight, like_count, dislike_count, reasons, updated_at
		 FROM preference_weights
		 WHERE persona = $1
		 ORDER BY category, value`,
		persona,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weights []domain.PreferenceWeight
	for rows.Next() {
		var w domain.PreferenceWeight
		if err := rows.Scan(&w.Persona, &w.Category, &w.Value, &w.Positive, &w.Negative, &w.Weight, &w.LikeCount, &w.DislikeCount, &w.Reasons, &w.UpdatedAt); err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}
	return weights, rows.Err()
}
