// Package ranker scores indexed snippets against a query vector.
package ranker

import (
	"math"
	"sort"

	"github.com/dshills/codesense-mcp/pkg/types"
)

// Match is a snippet together with its similarity to the query
type Match struct {
	Snippet *types.Snippet
	Score   float64
}

// Rank scores every snippet by cosine similarity to query and returns at
// most topK matches in descending score order. Ties keep the input order.
// A negative topK is treated as zero.
func Rank(query []float32, snippets []*types.Snippet, topK int) []Match {
	if topK <= 0 || len(snippets) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(snippets))
	for i, s := range snippets {
		matches[i] = Match{Snippet: s, Score: CosineSimilarity(query, s.Embedding)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|), clamped to [-1, 1].
// Vectors of different length or zero norm score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, score))
}
