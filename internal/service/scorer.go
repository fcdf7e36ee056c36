package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/embedding"
)

// Scoring constants. These are fixed for every entity scored in one run so
// scores stay comparable and reproducible.
const (
	// BaseScore is the neutral starting point before any learned weight
	// applies.
	BaseScore = 50

	// PositiveWeightThreshold / NegativeWeightThreshold gate how confident a
	// learned weight must be before it moves the score.
	PositiveWeightThreshold float32 = 0.1
	NegativeWeightThreshold float32 = -0.1

	// PositiveGain / NegativeGain scale a matching weight's contribution.
	PositiveGain float32 = 25
	NegativeGain float32 = 20

	// SimilarityThreshold / SimilarityGain control the liked-corpus bonus.
	SimilarityThreshold float32 = 0.3
	SimilarityGain      float32 = 20
)

type ScoreResult struct {
	Score    int      `json:"score"`
	Matches  []string `json:"matches"`
	Warnings []string `json:"warnings"`
}

type ScoreOptions struct {
	// LikedCorpus enables the similarity bonus when non-empty.
	LikedCorpus []domain.LikedEmbedding

	// RedFlagTags always produce a warning annotation when present on the
	// entity, independent of any learned weight.
	RedFlagTags []string
}

// Score is a pure function: entity features plus a weight snapshot in, a
// bounded score plus annotations out. No I/O, no hidden state.
//
// Tag matching is case-insensitive substring in either direction ("founder"
// matches "Founder & CEO" and vice versa). That is a recall-over-precision
// choice: a learned opinion about a tag should fire on close variants of it.
// Weights learned under the freeform category match against every tag value
// on the entity, since scored entities carry no freeform tags of their own.
func Score(f domain.EntityFeatures, snap domain.Snapshot, opts ScoreOptions) ScoreResult {
	score := float64(BaseScore)
	result := ScoreResult{Matches: []string{}, Warnings: []string{}}

	// Sorted key order keeps float accumulation and annotations reproducible.
	keys := make([]domain.TagKey, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Value < keys[j].Value
	})

	for _, key := range keys {
		matched, matchedValue := matchTag(f, key)
		if !matched {
			continue
		}
		w := snap[key]
		switch {
		case w.Weight >= PositiveWeightThreshold:
			score += float64(w.Weight * PositiveGain)
			result.Matches = append(result.Matches,
				fmt.Sprintf("%s %q matches learned preference %q (%+.2f)", key.Category, matchedValue, key.Value, w.Weight))
		case w.Weight <= NegativeWeightThreshold:
			score -= float64(-w.Weight * NegativeGain)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %q matches learned dislike %q (%+.2f)", key.Category, matchedValue, key.Value, w.Weight))
		}
	}

	for _, rf := range opts.RedFlagTags {
		if value, ok := anyTagMatches(f, rf); ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("red flag: %q matches %q", value, rf))
		}
	}

	if len(opts.LikedCorpus) > 0 {
		vec := embedding.Embed(f.TextBlob)
		bestSim, bestID := float32(0), ""
		for _, liked := range opts.LikedCorpus {
			if sim := embedding.Similarity(vec, liked.Embedding); sim > bestSim {
				bestSim, bestID = sim, liked.EntityID
			}
		}
		if bestSim >= SimilarityThreshold {
			score += float64(bestSim * SimilarityGain)
			result.Matches = append(result.Matches,
				fmt.Sprintf("similar to liked entity %s (%.2f)", bestID, bestSim))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	result.Score = int(math.Round(score))
	return result
}

// matchTag reports whether the weight's (category, value) matches a tag on
// the entity, returning the matched tag value for annotation.
func matchTag(f domain.EntityFeatures, key domain.TagKey) (bool, string) {
	if key.Category == domain.CategoryFreeform {
		v, ok := anyTagMatches(f, key.Value)
		return ok, v
	}
	for _, v := range f.Tags[key.Category] {
		if substringFold(v, key.Value) {
			return true, v
		}
	}
	return false, ""
}

func anyTagMatches(f domain.EntityFeatures, value string) (string, bool) {
	cats := make([]string, 0, len(f.Tags))
	for c := range f.Tags {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		for _, v := range f.Tags[c] {
			if substringFold(v, value) {
				return v, true
			}
		}
	}
	return "", false
}

// substringFold is the engine's single tag-matching rule: true when either
// string contains the other, ignoring case.
func substringFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}
