// Package similarity ranks candidate text chunks against a query embedding
// using cosine similarity. Ranking is a pure function over in-memory vectors
// so it can be tested without any store or embedding service.
package similarity

import (
	"math"
	"sort"
)

// Candidate is one scorable chunk, fetched from either vector partition.
type Candidate struct {
	Content  string
	Vector   []float32
	Index    int    // chunk ordinal within its source, used for tie-breaking
	Source   string // human-readable provenance label
	Category string // knowledge-base category, empty for patient chunks
}

// Result is a scored candidate.
type Result struct {
	Content    string
	Similarity float64
	Index      int
	Source     string
	Category   string
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths or a
// zero-magnitude vector yield 0, never NaN.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every candidate against query and returns at most topK
// results ordered by similarity descending, ties broken by chunk index
// ascending so identical inputs always produce identical output.
func Rank(query []float32, candidates []Candidate, topK int) []Result {
	if topK <= 0 || len(candidates) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Result{
			Content:    c.Content,
			Similarity: Cosine(query, c.Vector),
			Index:      c.Index,
			Source:     c.Source,
			Category:   c.Category,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Index < results[j].Index
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
