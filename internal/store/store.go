package store

import (
	"context"
	"errors"

	"github.com/dcraven/sift/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DBTX is the queryable surface shared by pgxpool.Pool and pgx.Tx, so the
// same store code serves both pool-bound reads and transactional writes.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New returns all stores bound to the given handle.
func New(db DBTX) domain.Stores {
	return domain.Stores{
		Weights:    NewWeightStore(db),
		Feedback:   NewFeedbackStore(db),
		Pairs:      NewPairStore(db),
		Outbox:     NewOutboxStore(db),
		Personas:   NewPersonaStore(db),
		Embeddings: NewLikedEmbeddingStore(db),
	}
}

// nonNil normalizes a nil slice to an empty one before binding. pgx encodes
// a nil slice as SQL NULL, which would override the columns' array defaults
// and trip their NOT NULL constraints.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// TxRunner implements domain.TxRunner over a pgx pool.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(domain.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
