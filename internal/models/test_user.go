package models

import "time"

// TestUser is a participant session identified by its one-time token
type TestUser struct {
	ID           int        `json:"id"`
	TestID       int        `json:"test_id"`
	Email        string     `json:"email"`
	OneTimeToken string     `json:"one_time_token"`
	AccessedAt   *time.Time `json:"accessed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted reports whether the session reached its terminal state
func (u *TestUser) IsCompleted() bool {
	return u.CompletedAt != nil
}

// AddTestUserRequest is the request body for participant invitation
type AddTestUserRequest struct {
	Email string `json:"email"`
}

// AddTestUserResponse is returned after a participant has been invited
type AddTestUserResponse struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

// TestSession is what a participant sees after opening their link
type TestSession struct {
	Test       Test        `json:"test"`
	MediaFiles []MediaFile `json:"media_files"`
}
