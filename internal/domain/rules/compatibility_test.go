package rules

import "testing"

func TestCompatibilityScoreFullMatch(t *testing.T) {
	a := CompatibilityInput{Age: 28, City: "Pune", Religion: "Hindu", Education: "Masters"}
	b := CompatibilityInput{Age: 27, City: "pune", Religion: "hindu", Education: "masters"}

	if got := CompatibilityScore(a, b); got != 100 {
		t.Fatalf("score: got %d want 100", got)
	}
}

func TestCompatibilityScoreAgeGapBands(t *testing.T) {
	base := CompatibilityInput{Age: 30}

	cases := []struct {
		name string
		age  int
		want int
	}{
		{"within two years", 32, 30},
		{"within five years", 35, 20},
		{"within ten years", 40, 10},
		{"beyond ten years", 45, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CompatibilityScore(base, CompatibilityInput{Age: tc.age})
			if got != tc.want {
				t.Fatalf("score: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestCompatibilityScoreIgnoresEmptyFields(t *testing.T) {
	a := CompatibilityInput{Age: 28, City: "", Religion: "Hindu"}
	b := CompatibilityInput{Age: 28, City: "", Religion: "Hindu"}

	// Empty city on both sides must not count as a match: age (30) +
	// religion (25) only.
	if got := CompatibilityScore(a, b); got != 55 {
		t.Fatalf("score: got %d want 55", got)
	}
}

func TestCompatibilityScoreIsSymmetric(t *testing.T) {
	a := CompatibilityInput{Age: 25, City: "Delhi", Religion: "Sikh", Education: "Bachelors"}
	b := CompatibilityInput{Age: 33, City: "Mumbai", Religion: "Sikh", Education: "Masters"}

	if CompatibilityScore(a, b) != CompatibilityScore(b, a) {
		t.Fatal("score must be symmetric")
	}
}
