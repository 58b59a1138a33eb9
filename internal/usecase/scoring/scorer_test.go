package scoring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

const epsilon = 1e-9

func report(vec []float32, category, description string, at time.Time) domain.ItemReport {
	return domain.ItemReport{
		Vector:      vec,
		Category:    category,
		Description: description,
		ReportedAt:  at,
	}
}

func TestCosine_Identical(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0.5, 0.5},
		{3, -4, 12, 0.001},
	}
	for _, v := range vecs {
		cos, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("Cosine(v, v): %v", err)
		}
		if math.Abs(cos-1) > 1e-12 {
			t.Errorf("Cosine(v, v) = %v, want 1", cos)
		}
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float32{0.2, 0.7, -0.1, 0.4}
	b := []float32{0.9, -0.3, 0.5, 0.1}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("Cosine(a, b): %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("Cosine(b, a): %v", err)
	}
	if ab != ba {
		t.Errorf("Cosine not symmetric: %v vs %v", ab, ba)
	}
}

func TestCosine_InvalidVectors(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"empty a", nil, []float32{1}},
		{"empty b", []float32{1}, nil},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"zero magnitude a", []float32{0, 0, 0}, []float32{1, 2, 3}},
		{"zero magnitude b", []float32{1, 2, 3}, []float32{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Cosine(tt.a, tt.b); !errors.Is(err, domain.ErrInvalidVector) {
				t.Errorf("Cosine() error = %v, want ErrInvalidVector", err)
			}
		})
	}
}

func TestScore_SelfMatchVectorTerm(t *testing.T) {
	// Identical vector, no metadata: the vector term alone contributes 100.
	a := report([]float32{1, 0, 0}, "", "", time.Time{})
	got, err := Score(a, a)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(got-100) > epsilon {
		t.Errorf("Score(a, a) = %v, want 100", got)
	}
}

func TestScore_Symmetric(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := report([]float32{0.1, 0.9, 0.2}, "backpack", "black north face bag with stickers", at)
	b := report([]float32{0.3, 0.8, 0.1}, "backpack", "found black bag near library", at.AddDate(0, 0, 3))

	ab, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score(a, b): %v", err)
	}
	ba, err := Score(b, a)
	if err != nil {
		t.Fatalf("Score(b, a): %v", err)
	}
	if ab != ba {
		t.Errorf("Score not symmetric: %v vs %v", ab, ba)
	}
}

func TestScore_ClampedAt100(t *testing.T) {
	// All four terms maximal: 100 + 15 + 10 + 10 = 135 before clamping.
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := report([]float32{0, 1}, "wallet", "brown leather wallet monogram", at)
	b := report([]float32{0, 1}, "wallet", "brown leather wallet monogram", at)

	got, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 100 {
		t.Errorf("Score = %v, want exactly 100", got)
	}
}

func TestScore_ExactMatchScenario(t *testing.T) {
	at := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	lost := report([]float32{0.4, 0.2, 0.8}, "backpack", "black north face bag", at)
	lost.Type = domain.TypeLost
	found := report([]float32{0.4, 0.2, 0.8}, "backpack", "black bag north face", at)
	found.Type = domain.TypeFound

	got, err := Score(lost, found)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// 100 (vector) + 15 (category) + 10 (same day) + 7.5 (3 shared long
	// tokens of 4) = 132.5 before clamping.
	if got != 100 {
		t.Errorf("Score = %v, want exactly 100", got)
	}
}

func TestScore_CategoryCaseSensitive(t *testing.T) {
	a := report([]float32{1, 0}, "Backpack", "", time.Time{})
	b := report([]float32{1, 0}, "backpack", "", time.Time{})

	got, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(got-100) > epsilon {
		t.Errorf("Score = %v, want 100 (no category bonus for case mismatch)", got)
	}
}

func TestTemporalBonus(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b time.Time
		want float64
	}{
		{"same instant", base, base, 10},
		{"3.5 days apart", base, base.Add(84 * time.Hour), 5},
		{"exactly 7 days", base, base.AddDate(0, 0, 7), 0},
		{"8 days apart", base, base.AddDate(0, 0, 8), 0},
		{"order independent", base.AddDate(0, 0, 2), base, 10 * (1 - 2.0/7)},
		{"missing date", time.Time{}, base, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := temporalBonus(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("temporalBonus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescriptionBonus(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"no descriptions", "", "", 0},
		{"one side missing", "black bag", "", 0},
		{"no shared long tokens", "red cap", "blue coat", 0},
		// shared long tokens: black, north, face; max token count 4.
		{"word order ignored", "black north face bag", "black bag north face", 10 * 3.0 / 4},
		{"case insensitive", "BLACK Jacket", "black jacket", 10 * 2.0 / 2},
		{"short tokens excluded", "bag bag bag", "bag bag bag", 0},
		{"duplicates counted once", "phone phone phone", "phone", 10 * 1.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := descriptionBonus(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("descriptionBonus(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			rev := descriptionBonus(tt.b, tt.a)
			if math.Abs(got-rev) > epsilon {
				t.Errorf("descriptionBonus not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	at := time.Date(2026, 4, 5, 8, 0, 0, 0, time.UTC)
	a := report([]float32{0.11, 0.52, 0.31}, "keys", "silver keychain with bottle opener", at)
	b := report([]float32{0.15, 0.48, 0.29}, "keys", "keychain silver", at.AddDate(0, 0, 1))

	first, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Score(a, b)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if again != first {
			t.Fatalf("Score not deterministic: %v vs %v", again, first)
		}
	}
}
