package domain

import "testing"

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Errorf("AverageRating(nil) = %v", got)
	}
	ratings := []Rating{{Score: 5}, {Score: 4}, {Score: 3.5}}
	want := (5 + 4 + 3.5) / 3.0
	if got := AverageRating(ratings); got != want {
		t.Errorf("AverageRating = %v, want %v", got, want)
	}
}
