package models

import (
	"encoding/json"
	"time"
)

// Activity actions recorded in the audit trail
const (
	ActionLogin          = "login"
	ActionCreateAdmin    = "create_admin"
	ActionDeleteAdmin    = "delete_admin"
	ActionChangePassword = "change_password"
	ActionCreateCategory = "create_category"
	ActionDeleteCategory = "delete_category"
	ActionUploadMedia    = "upload_media"
	ActionDeleteMedia    = "delete_media"
	ActionUpdateMediaCat = "update_media_categories"
	ActionCreateTest     = "create_test"
	ActionCloseTest      = "close_test"
	ActionDeleteTest     = "delete_test"
	ActionAddTestUser    = "add_test_user"
	ActionDeleteTestUser = "delete_test_user"
	ActionAccessTest     = "access_test"
	ActionSubmitRating   = "submit_rating"
	ActionCompleteTest   = "complete_test"
)

// Entity types referenced by activity log entries
const (
	EntityAdmin    = "admin"
	EntityCategory = "category"
	EntityMedia    = "media"
	EntityTest     = "test"
	EntityTestUser = "test_user"
	EntityRating   = "rating"
)

// ActivityLog is a single audit trail entry
type ActivityLog struct {
	ID            int             `json:"id"`
	AdminUsername *string         `json:"admin_username,omitempty"`
	UserEmail     *string         `json:"user_email,omitempty"`
	Action        string          `json:"action"`
	EntityType    *string         `json:"entity_type,omitempty"`
	EntityID      *int            `json:"entity_id,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	IPAddress     *string         `json:"ip_address,omitempty"`
	UserAgent     *string         `json:"user_agent,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Actor identifies who performed an action and from where.
// Admin is set for authenticated admins, Email for participants.
type Actor struct {
	Admin        string
	IsSuperAdmin bool
	Email        string
	IPAddress    string
	UserAgent    string
}

// ActivityEntry is what services hand to the activity logger
type ActivityEntry struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   *int
	Details    map[string]any
}

const (
	DefaultActivityLogLimit = 50
	MaxActivityLogLimit     = 200
)

// ActivityLogFilter holds the optional filters for activity log listing
type ActivityLogFilter struct {
	Admin      string
	UserEmail  string
	Action     string
	EntityType string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// Normalize clamps paging values into their allowed range
func (f *ActivityLogFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultActivityLogLimit
	}
	if f.Limit > MaxActivityLogLimit {
		f.Limit = MaxActivityLogLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ActivityLogPage is one page of activity log entries
type ActivityLogPage struct {
	Logs   []ActivityLog `json:"logs"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
