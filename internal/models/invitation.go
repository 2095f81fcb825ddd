package models

// Invitation is the payload of a participant invitation email
type Invitation struct {
	Email           string  `json:"email"`
	TestName        string  `json:"test_name"`
	TestDescription *string `json:"test_description,omitempty"`
	Link            string  `json:"link"`
}
