// Package cosine ranks records by exact cosine distance.
// It is shared by the sqlite and memory collections.
package cosine

import (
	"cmp"
	"math"
	"slices"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Similarity returns the cosine similarity of a and b, in [-1, 1].
// Mismatched lengths or a zero vector give 0.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Distance returns 1 - Similarity(a, b), in [0, 2].
func Distance(a, b []float32) float64 {
	d := 1 - Similarity(a, b)
	// Rounding can push identical vectors slightly below zero.
	return max(0, d)
}

// Ranker keeps the n nearest records seen so far.
type Ranker struct {
	query []float32
	n     int
	hits  []domain.VectorHit
}

// NewRanker ranks records against query, keeping at most n.
func NewRanker(query []float32, n int) *Ranker {
	return &Ranker{query: query, n: n}
}

// Add scores a record and keeps it if it is among the n nearest.
func (r *Ranker) Add(rec domain.Record) {
	if r.n <= 0 {
		return
	}
	d := Distance(r.query, rec.Embedding)
	if math.IsNaN(d) {
		return
	}
	r.hits = append(r.hits, domain.VectorHit{
		ID:        rec.ID,
		Content:   rec.Document,
		Metadata:  rec.Metadata,
		Distance:  d,
		Relevance: domain.RelevanceFromDistance(d),
	})
	// Trim lazily so Add stays amortised O(1).
	if len(r.hits) >= 2*r.n+64 {
		r.trim()
	}
}

// Hits returns the kept records ordered by increasing distance.
// Ties are broken by ID so results are deterministic.
func (r *Ranker) Hits() []domain.VectorHit {
	r.trim()
	if r.hits == nil {
		return []domain.VectorHit{}
	}
	return r.hits
}

func (r *Ranker) trim() {
	slices.SortFunc(r.hits, func(a, b domain.VectorHit) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(r.hits) > r.n {
		r.hits = r.hits[:r.n]
	}
}
