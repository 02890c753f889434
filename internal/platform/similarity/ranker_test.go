package similarity

import (
	"math"
	"reflect"
	"testing"
)

func TestCosine_Bounds(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.IsNaN(got) {
				t.Fatal("cosine returned NaN")
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCosine_ScaleInvariant(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.9}
	b := []float32{0.1, 0.4, -0.5, 0.6}
	scaled := make([]float32, len(b))
	for i, v := range b {
		scaled[i] = v * 7.5
	}
	if diff := math.Abs(Cosine(a, b) - Cosine(a, scaled)); diff > 1e-6 {
		t.Errorf("cosine not scale invariant, diff %v", diff)
	}
}

func TestRank_Order(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Content: "orthogonal", Vector: []float32{0, 1}, Index: 0},
		{Content: "aligned", Vector: []float32{2, 0}, Index: 1},
		{Content: "diagonal", Vector: []float32{1, 1}, Index: 2},
	}
	got := Rank(query, candidates, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Content != "aligned" || got[1].Content != "diagonal" || got[2].Content != "orthogonal" {
		t.Errorf("unexpected order: %q, %q, %q", got[0].Content, got[1].Content, got[2].Content)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestRank_TieBreakByIndex(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Content: "later", Vector: []float32{3, 0}, Index: 7},
		{Content: "earlier", Vector: []float32{5, 0}, Index: 2},
	}
	got := Rank(query, candidates, 2)
	if got[0].Content != "earlier" || got[1].Content != "later" {
		t.Errorf("tie not broken by chunk index: %q before %q", got[0].Content, got[1].Content)
	}
}

func TestRank_TopKCap(t *testing.T) {
	query := []float32{1}
	var candidates []Candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Candidate{Vector: []float32{float32(i + 1)}, Index: i})
	}
	if got := Rank(query, candidates, 5); len(got) != 5 {
		t.Errorf("expected 5 results, got %d", len(got))
	}
	if got := Rank(query, candidates[:3], 5); len(got) != 3 {
		t.Errorf("expected 3 results for 3 candidates, got %d", len(got))
	}
	if got := Rank(query, candidates, 0); len(got) != 0 {
		t.Errorf("expected no results for topK=0, got %d", len(got))
	}
}

func TestRank_Deterministic(t *testing.T) {
	query := []float32{0.2, 0.8, -0.1}
	candidates := []Candidate{
		{Content: "a", Vector: []float32{0.1, 0.9, 0.0}, Index: 0, Source: "report.pdf"},
		{Content: "b", Vector: []float32{0.5, 0.5, 0.5}, Index: 1, Source: "report.pdf"},
		{Content: "c", Vector: []float32{-0.3, 0.2, 0.9}, Index: 2, Source: "guidelines", Category: "diabetes"},
	}
	first := Rank(query, candidates, 3)
	second := Rank(query, candidates, 3)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different rankings")
	}
}

func TestRank_CarriesProvenance(t *testing.T) {
	query := []float32{1, 0}
	got := Rank(query, []Candidate{
		{Content: "chunk", Vector: []float32{1, 0}, Index: 3, Source: "labs.pdf", Category: ""},
	}, 1)
	if got[0].Source != "labs.pdf" || got[0].Index != 3 {
		t.Errorf("provenance not carried through: %+v", got[0])
	}
}

func TestRank_ZeroVectorCandidate(t *testing.T) {
	query := []float32{1, 0}
	got := Rank(query, []Candidate{
		{Content: "empty", Vector: []float32{0, 0}, Index: 0},
		{Content: "real", Vector: []float32{1, 0}, Index: 1},
	}, 2)
	if got[0].Content != "real" {
		t.Errorf("zero vector should rank last, got %q first", got[0].Content)
	}
	if got[1].Similarity != 0 {
		t.Errorf("zero vector similarity = %v, want 0", got[1].Similarity)
	}
}
