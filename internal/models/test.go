package models

import "time"

// TestStatus is the lifecycle state of a test. The only transition is open to closed.
type TestStatus string

const (
	TestStatusOpen   TestStatus = "open"
	TestStatusClosed TestStatus = "closed"
)

// Test is a survey bound to one category of media
type Test struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      TestStatus `json:"status"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	LoopMedia   bool       `json:"loop_media"`
	CategoryID  *int       `json:"category_id,omitempty"`
}

// IsClosed reports whether the test no longer accepts participant activity
func (t *Test) IsClosed() bool {
	return t.Status == TestStatusClosed
}

// CreateTestRequest is the request body for test creation
type CreateTestRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CategoryID  int     `json:"category_id"`
	LoopMedia   *bool   `json:"loop_media,omitempty"`
}

// AggregatedResult is the per-media summary of a test's ratings
type AggregatedResult struct {
	MediaFile    MediaFile `json:"media_file"`
	AverageStars float64   `json:"average_stars"`
	TotalRatings int       `json:"total_ratings"`
}

// IndividualRating is one rating joined with its participant and media file
type IndividualRating struct {
	Rating    Rating    `json:"rating"`
	UserEmail string    `json:"user_email"`
	MediaFile MediaFile `json:"media_file"`
}

// TestResults is the full result report of a test
type TestResults struct {
	Test       Test               `json:"test"`
	Aggregated []AggregatedResult `json:"aggregated"`
	Individual []IndividualRating `json:"individual"`
}
