package models

import (
	"math"
	"time"
)

const (
	MinStars = 0.0
	MaxStars = 5.0
	// starsTolerance absorbs float noise when checking half-star steps
	starsTolerance = 0.01
)

// Rating is a participant's score for one media file
type Rating struct {
	ID          int       `json:"id"`
	TestUserID  int       `json:"test_user_id"`
	MediaFileID int       `json:"media_file_id"`
	Stars       float64   `json:"stars"`
	Comment     *string   `json:"comment,omitempty"`
	RatedAt     time.Time `json:"rated_at"`
}

// SubmitRatingRequest is the request body for rating submission
type SubmitRatingRequest struct {
	MediaFileID int     `json:"media_file_id"`
	Stars       float64 `json:"stars"`
	Comment     *string `json:"comment,omitempty"`
}

// ValidStars reports whether s lies in [0,5] and is a multiple of 0.5.
func ValidStars(s float64) bool {
	if math.IsNaN(s) || s < MinStars || s > MaxStars {
		return false
	}
	rounded := math.Round(s*2) / 2
	return math.Abs(rounded-s) <= starsTolerance
}
