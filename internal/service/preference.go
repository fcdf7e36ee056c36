package service

import (
	"context"
	"errors"
	"sort"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/store"
)

// LearningIncrement is the fixed accumulator step applied per feedback event
// to every (category, value) weight the entity carries.
const LearningIncrement float32 = 0.15

// applyFeedback locates-or-creates the weight for every (category, value)
// pair in categories and moves it toward the action. Runs inside the ledger
// transaction.
func applyFeedback(ctx context.Context, weights domain.WeightStore, persona string, categories map[string][]string, action domain.Action, reason string) error {
	return forEachTag(categories, func(category, value string) error {
		w, err := getOrNewWeight(ctx, weights, persona, category, value)
		if err != nil {
			return err
		}

		switch action {
		case domain.ActionLike:
			w.Positive += LearningIncrement
			w.LikeCount++
		case domain.ActionDislike:
			w.Negative += LearningIncrement
			w.DislikeCount++
		default:
			return nil
		}

		w.AddReason(reason)
		w.Recompute()
		return weights.Upsert(ctx, w)
	})
}

// reverseFeedback exactly undoes a prior applyFeedback, so replacing a
// feedback record never double-counts. A weight that no longer exists is
// skipped rather than treated as an error. Keys in retained keep prevReason
// in their log because another live record still carries the same note.
func reverseFeedback(ctx context.Context, weights domain.WeightStore, persona string, categories map[string][]string, prevAction domain.Action, prevReason string, retained map[domain.TagKey]bool) error {
	return forEachTag(categories, func(category, value string) error {
		w, err := weights.Get(ctx, persona, category, value)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}

		switch prevAction {
		case domain.ActionLike:
			w.Positive -= LearningIncrement
			w.LikeCount--
		case domain.ActionDislike:
			w.Negative -= LearningIncrement
			w.DislikeCount--
		default:
			return nil
		}
		if w.Positive < 0 {
			w.Positive = 0
		}
		if w.Negative < 0 {
			w.Negative = 0
		}
		if w.LikeCount < 0 {
			w.LikeCount = 0
		}
		if w.DislikeCount < 0 {
			w.DislikeCount = 0
		}

		if !retained[domain.TagKey{Category: category, Value: value}] {
			w.RemoveReason(prevReason)
		}
		w.Recompute()
		return weights.Upsert(ctx, w)
	})
}

func getOrNewWeight(ctx context.Context, weights domain.WeightStore, persona, category, value string) (*domain.PreferenceWeight, error) {
	w, err := weights.Get(ctx, persona, category, value)
	if err == nil {
		return w, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return &domain.PreferenceWeight{Persona: persona, Category: category, Value: value}, nil
	}
	return nil, err
}

// forEachTag visits (category, value) pairs in sorted order so repeated runs
// touch the store in a stable sequence.
func forEachTag(categories map[string][]string, fn func(category, value string) error) error {
	cats := make([]string, 0, len(categories))
	for c := range categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		for _, v := range categories[c] {
			if v == "" {
				continue
			}
			if err := fn(c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func snapshotFromWeights(weights []domain.PreferenceWeight) domain.Snapshot {
	snap := make(domain.Snapshot, len(weights))
	for _, w := range weights {
		snap[domain.TagKey{Category: w.Category, Value: w.Value}] = w
	}
	return snap
}
