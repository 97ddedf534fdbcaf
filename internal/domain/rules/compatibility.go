package rules

import "strings"

// CompatibilityInput carries the profile fields the score compares.
type CompatibilityInput struct {
	Age       int
	City      string
	Religion  string
	Education string
}

const (
	ageWeight       = 30
	cityWeight      = 30
	religionWeight  = 25
	educationWeight = 15
)

// CompatibilityScore rates how well two profiles fit on a 0..100 scale.
// Closer ages score higher; city, religion and education award fixed
// weights on a match.
func CompatibilityScore(a, b CompatibilityInput) int {
	score := 0

	gap := a.Age - b.Age
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap <= 2:
		score += ageWeight
	case gap <= 5:
		score += ageWeight * 2 / 3
	case gap <= 10:
		score += ageWeight / 3
	}

	if equalFold(a.City, b.City) {
		score += cityWeight
	}
	if equalFold(a.Religion, b.Religion) {
		score += religionWeight
	}
	if equalFold(a.Education, b.Education) {
		score += educationWeight
	}

	return score
}

func equalFold(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
