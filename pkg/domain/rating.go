package domain

import "time"

// Rating is one user's rating of another (an "interaction" in the
// backend). Each source user holds at most one rating per target.
type Rating struct {
	ID        int64     `json:"id"`
	TargetID  int64     `json:"interaction_target_user"`
	SourceID  int64     `json:"interaction_source_user"`
	Score     float64   `json:"interaction_rating"`
	Comment   string    `json:"interaction_comment,omitempty"`
	CreatedAt time.Time `json:"interaction_created_at"`
}

// Rating score bounds enforced by the backend; the client keeps its
// picker inside them.
const (
	RatingMin  = 0.5
	RatingMax  = 5.0
	RatingStep = 0.5
)

// AverageRating returns the mean score of the given ratings, or 0 when
// there are none.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Score
	}
	return sum / float64(len(ratings))
}
