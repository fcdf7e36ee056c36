package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FeedbackStore struct {
	db DBTX
}

func NewFeedbackStore(db DBTX) *FeedbackStore {
	return &FeedbackStore{db: db}
}

func (s *FeedbackStore) Get(ctx context.Context, persona, entityID string) (*domain.FeedbackRecord, error) {
	rec := &domain.FeedbackRecord{}
	err := s.db.QueryRow(ctx,
		`SELECT id, persona, entity_id, entity_type, action, tags, categories, note, prior_score, agreed_with_score, created_at, updated_at
		 FROM feedback_records
		 WHERE persona = $1 AND entity_id = $2`,
		persona, entityID,
	).Scan(&rec.ID, &rec.Persona, &rec.EntityID, &rec.EntityType, &rec.Action, &rec.Tags, &rec.Categories, &rec.Note, &rec.PriorScore, &rec.AgreedWithScore, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Upsert replaces any existing record for the same (persona, entity).
func (s *FeedbackStore) Upsert(ctx context.Context, rec *domain.FeedbackRecord) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO feedback_records (persona, entity_id, entity_type, action, tags, categories, note, prior_score, agreed_with_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (persona, entity_id) DO UPDATE SET
			entity_type = EXCLUDED.entity_type,
			action = EXCLUDED.action,
			tags = EXCLUDED.tags,
			categories = EXCLUDED.categories,
			note = EXCLUDED.note,
			prior_score = EXCLUDED.prior_score,
			agreed_with_score = EXCLUDED.agreed_with_score,
			updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		rec.Persona, rec.EntityID, rec.EntityType, rec.Action, nonNil(rec.Tags), rec.Categories, rec.Note, rec.PriorScore, rec.AgreedWithScore,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (s *FeedbackStore) ListByPersona(ctx context.Context, persona string) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, persona, entity_id, entity_type, action, tags, categories, note, prior_score, agreed_with_score, created_at, updated_at
		 FROM feedback_records
		 WHERE persona = $1
		 ORDER BY created_at DESC`,
		persona,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.FeedbackRecord
	for rows.Next() {
		var rec domain.FeedbackRecord
		if err := rows.Scan(&rec.ID, &rec.Persona, &rec.EntityID, &rec.EntityType, &rec.Action, &rec.Tags, &rec.Categories, &rec.Note, &rec.PriorScore, &rec.AgreedWithScore, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *FeedbackStore) Stats(ctx context.Context, persona string) (*domain.FeedbackStats, error) {
	stats := &domain.FeedbackStats{}
	err := s.db.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE action = 'like'),
			COUNT(*) FILTER (WHERE action = 'dislike'),
			COUNT(*)
		 FROM feedback_records WHERE persona = $1`,
		persona,
	).Scan(&stats.Likes, &stats.Dislikes, &stats.Total)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
