package service

import (
	"context"
	"errors"
	"sync"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/embedding"
	"github.com/dcraven/sift/internal/feature"
	"github.com/dcraven/sift/internal/store"
	"go.uber.org/zap"
)

var (
	ErrPersonaMissing    = errors.New("persona is required")
	ErrEntityIDMissing   = errors.New("entity id is required")
	ErrInvalidAction     = errors.New("action must be like or dislike")
	ErrPairEntityMissing = errors.New("chosen and rejected entity ids are required")
)

// LedgerService owns the durable feedback record and everything derived from
// it. Record is the engine's single write path: the feedback upsert, the
// weight mutation, the outbox enqueue and the liked-embedding update commit
// in one transaction, with writes per persona serialized by a mutex.
type LedgerService struct {
	stores domain.Stores
	tx     domain.TxRunner
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedgerService(stores domain.Stores, tx domain.TxRunner, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		stores: stores,
		tx:     tx,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

type RecordRequest struct {
	Persona         string             `json:"persona"`
	Entity          domain.EntityInput `json:"entity"`
	Action          domain.Action      `json:"action"`
	Tags            []string           `json:"tags,omitempty"`
	Note            string             `json:"note,omitempty"`
	PriorScore      *int               `json:"prior_score,omitempty"`
	AgreedWithScore *bool              `json:"agreed_with_score,omitempty"`
}

// Record upserts the feedback record for (persona, entity). If a prior record
// exists its weight contribution is reversed before the new action is
// applied, so flipping like to dislike nets a full swing instead of
// accumulating both. Completes entirely against local storage; the remote
// mirror happens later via the outbox.
func (s *LedgerService) Record(ctx context.Context, req RecordRequest) (*domain.FeedbackRecord, error) {
	if req.Persona == "" {
		return nil, ErrPersonaMissing
	}
	if req.Action != domain.ActionLike && req.Action != domain.ActionDislike {
		return nil, ErrInvalidAction
	}

	features := feature.Extract(req.Entity)
	if features.ID == "" {
		return nil, ErrEntityIDMissing
	}

	categories := mergeCategories(features.Tags, req.Tags)

	lock := s.personaLock(req.Persona)
	lock.Lock()
	defer lock.Unlock()

	rec := &domain.FeedbackRecord{
		Persona:         req.Persona,
		EntityID:        features.ID,
		EntityType:      features.Type,
		Action:          req.Action,
		Tags:            req.Tags,
		Categories:      categories,
		Note:            req.Note,
		PriorScore:      req.PriorScore,
		AgreedWithScore: req.AgreedWithScore,
	}

	err := s.tx.InTx(ctx, func(st domain.Stores) error {
		prior, err := st.Feedback.Get(ctx, req.Persona, features.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if prior != nil {
			retained, err := sharedNoteKeys(ctx, st.Feedback, prior)
			if err != nil {
				return err
			}
			if err := reverseFeedback(ctx, st.Weights, req.Persona, prior.Categories, prior.Action, prior.Note, retained); err != nil {
				return err
			}
		}

		if err := st.Feedback.Upsert(ctx, rec); err != nil {
			return err
		}
		if err := applyFeedback(ctx, st.Weights, req.Persona, categories, req.Action, req.Note); err != nil {
			return err
		}
		if err := st.Outbox.Enqueue(ctx, &domain.OutboxEntry{
			EntityID:   features.ID,
			EntityType: features.Type,
			Action:     req.Action,
		}); err != nil {
			return err
		}

		if req.Action == domain.ActionLike {
			return st.Embeddings.Upsert(ctx, req.Persona, features.ID, embedding.Embed(features.TextBlob))
		}
		return st.Embeddings.Remove(ctx, req.Persona, features.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback recorded",
		zap.String("persona", req.Persona),
		zap.String("entity_id", features.ID),
		zap.String("action", string(req.Action)),
	)
	return rec, nil
}

// RecordView enqueues a viewed notification for the remote system. Views are
// not feedback: they touch neither the ledger nor the learned weights.
func (s *LedgerService) RecordView(ctx context.Context, input domain.EntityInput) (*domain.OutboxEntry, error) {
	features := feature.Extract(input)
	if features.ID == "" {
		return nil, ErrEntityIDMissing
	}

	entry := &domain.OutboxEntry{
		EntityID:   features.ID,
		EntityType: features.Type,
		Action:     domain.ActionViewed,
	}
	if err := s.stores.Outbox.Enqueue(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordPair appends a "chosen over rejected" comparison. Pairs accumulate
// and never replace one another.
func (s *LedgerService) RecordPair(ctx context.Context, persona, chosenID, rejectedID, reason string) (*domain.PreferencePair, error) {
	if persona == "" {
		return nil, ErrPersonaMissing
	}
	if chosenID == "" || rejectedID == "" {
		return nil, ErrPairEntityMissing
	}

	pair := &domain.PreferencePair{
		Persona:    persona,
		ChosenID:   chosenID,
		RejectedID: rejectedID,
		Reason:     reason,
	}
	if err := s.stores.Pairs.Create(ctx, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *LedgerService) ListByPersona(ctx context.Context, persona string) ([]domain.FeedbackRecord, error) {
	if persona == "" {
		return nil, ErrPersonaMissing
	}
	return s.stores.Feedback.ListByPersona(ctx, persona)
}

func (s *LedgerService) Stats(ctx context.Context, persona string) (*domain.FeedbackStats, error) {
	if persona == "" {
		return nil, ErrPersonaMissing
	}
	stats, err := s.stores.Feedback.Stats(ctx, persona)
	if err != nil {
		return nil, err
	}
	stats.Pairs, err = s.stores.Pairs.CountByPersona(ctx, persona)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *LedgerService) personaLock(persona string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[persona]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[persona] = lock
	}
	return lock
}

// sharedNoteKeys reports the tag keys whose reason log must keep prior's
// note through a reversal: keys also touched by another entity's live record
// that carries the same note.
func sharedNoteKeys(ctx context.Context, feedback domain.FeedbackStore, prior *domain.FeedbackRecord) (map[domain.TagKey]bool, error) {
	if prior.Note == "" {
		return nil, nil
	}
	records, err := feedback.ListByPersona(ctx, prior.Persona)
	if err != nil {
		return nil, err
	}

	retained := make(map[domain.TagKey]bool)
	for _, rec := range records {
		if rec.EntityID == prior.EntityID || rec.Note != prior.Note {
			continue
		}
		for cat, vals := range rec.Categories {
			for _, v := range vals {
				retained[domain.TagKey{Category: cat, Value: v}] = true
			}
		}
	}
	return retained, nil
}

// mergeCategories copies the extracted tag map and folds user-supplied
// feedback tags in under the freeform category.
func mergeCategories(tags map[string][]string, freeform []string) map[string][]string {
	merged := make(map[string][]string, len(tags)+1)
	for cat, vals := range tags {
		merged[cat] = append([]string(nil), vals...)
	}
	for _, t := range freeform {
		if t == "" {
			continue
		}
		if !containsFold(merged[domain.CategoryFreeform], t) {
			merged[domain.CategoryFreeform] = append(merged[domain.CategoryFreeform], t)
		}
	}
	return merged
}
