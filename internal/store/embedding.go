package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
	pgvector "github.com/pgvector/pgvector-go"
)

type LikedEmbeddingStore struct {
	db DBTX
}

func NewLikedEmbeddingStore(db DBTX) *LikedEmbeddingStore {
	return &LikedEmbeddingStore{db: db}
}

func (s *LikedEmbeddingStore) Upsert(ctx context.Context, persona, entityID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	_, err := s.db.Exec(ctx,
		`INSERT INTO liked_embeddings (persona, entity_id, embedding)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (persona, entity_id) DO UPDATE SET embedding = EXCLUDED.embedding`,
		persona, entityID, vec,
	)
	return err
}

func (s *LikedEmbeddingStore) Remove(ctx context.Context, persona, entityID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM liked_embeddings WHERE persona = $1 AND entity_id = $2`,
		persona, entityID,
	)
	return err
}

func (s *LikedEmbeddingStore) ListByPersona(ctx context.Context, persona string) ([]domain.LikedEmbedding, error) {
	rows, err := s.db.Query(ctx,
		`SELECT entity_id, embedding
		 FROM liked_embeddings
		 WHERE persona = $1
		 ORDER BY entity_id`,
		persona,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var embeddings []domain.LikedEmbedding
	for rows.Next() {
		var e domain.LikedEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&e.EntityID, &vec); err != nil {
			return nil, err
		}
		e.Embedding = vec.Slice()
		embeddings = append(embeddings, e)
	}
	return embeddings, rows.Err()
}

// FindSimilar ranks liked entities by cosine similarity to the given
// embedding using pgvector's distance operator.
func (s *LikedEmbeddingStore) FindSimilar(ctx context.Context, persona string, embedding []float32, limit int) ([]domain.SimilarEntity, error) {
	if limit <= 0 {
		limit = 10
	}
	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT entity_id, 1 - (embedding <=> $2) AS similarity
		 FROM liked_embeddings
		 WHERE persona = $1
		 ORDER BY embedding <=> $2
		 LIMIT $3`,
		persona, vec, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.SimilarEntity
	for rows.Next() {
		var m domain.SimilarEntity
		if err := rows.Scan(&m.EntityID, &m.Similarity); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
