// Package embedding provides a fixed-width bag-of-words embedding used for
// coarse similarity between entities. It is not semantic: tokens are hashed
// into a bounded number of slots, so distinct tokens can collide. This is a
// deliberate trade-off that keeps the vector width fixed regardless of how
// much text the engine sees. Embeddings are fully deterministic, including
// across process restarts, because slot assignment is a pure hash.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const (
	// Dim is the fixed embedding width.
	Dim = 50

	// minTokenLen drops short noise tokens ("a", "of", "in").
	minTokenLen = 3
)

// Embed tokenizes text (lower-cased, non-alphanumerics stripped), hashes each
// token of at least minTokenLen runes into one of Dim slots, accumulates
// per-slot counts and L2-normalizes. Empty or all-noise text embeds to the
// zero vector.
func Embed(text string) []float32 {
	vec := make([]float32, Dim)

	for _, tok := range tokenize(text) {
		vec[slot(tok)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// Similarity returns the dot product of two embeddings. Both inputs are unit
// vectors (or zero), so this is cosine similarity.
func Similarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func slot(token string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % Dim)
}
