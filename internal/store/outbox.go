package store

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
	"github.com/google/uuid"
)

type OutboxStore struct {
	db DBTX
}

func NewOutboxStore(db DBTX) *OutboxStore {
	return &OutboxStore{db: db}
}

func (s *OutboxStore) Enqueue(ctx context.Context, e *domain.OutboxEntry) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO outbox_entries (entity_id, entity_type, action)
		 VALUES ($1, $2, $3)
		 RETURNING id, attempts, created_at, updated_at`,
		e.EntityID, e.EntityType, e.Action,
	).Scan(&e.ID, &e.Attempts, &e.CreatedAt, &e.UpdatedAt)
}

func (s *OutboxStore) ListDispatchable(ctx context.Context, maxAttempts, limit int) ([]domain.OutboxEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, entity_id, entity_type, action, attempts, COALESCE(last_error, ''), created_at, updated_at
		 FROM outbox_entries
		 WHERE attempts < $1
		 ORDER BY created_at, id
		 LIMIT $2`,
		maxAttempts, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOutboxEntries(rows)
}

func (s *OutboxStore) List(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, entity_id, entity_type, action, attempts, COALESCE(last_error, ''), created_at, updated_at
		 FROM outbox_entries
		 ORDER BY created_at, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOutboxEntries(rows)
}

// RecordFailure bumps the attempt counter and stores the dispatch error.
// Entries are never deleted on failure; a parked entry stays visible via
// List with its last_error for diagnostics.
func (s *OutboxStore) RecordFailure(ctx context.Context, id uuid.UUID, lastError string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE outbox_entries
		 SET attempts = attempts + 1, last_error = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, lastError,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *OutboxStore) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM outbox_entries WHERE id = $1`, id)
	return err
}

type outboxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanOutboxEntries(rows outboxRows) ([]domain.OutboxEntry, error) {
	var entries []domain.OutboxEntry
	for rows.Next() {
		var e domain.OutboxEntry
		if err := rows.Scan(&e.ID, &e.EntityID, &e.EntityType, &e.Action, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
