package models

import "time"

// MediaFile represents an uploaded blob and its metadata
type MediaFile struct {
	ID          int       `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	MediaType   MediaType `json:"media_type"`
	MimeType    string    `json:"mime_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// MediaFileWithCategories is a media file listed together with its categories
type MediaFileWithCategories struct {
	MediaFile
	Categories []Category `json:"categories"`
}

// MediaFilter holds optional filters for media listing
type MediaFilter struct {
	MediaType  *MediaType
	CategoryID *int
}

// RejectedFile describes a file part that was not stored during upload
type RejectedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadResult is the outcome of a multi-file upload
type UploadResult struct {
	Uploaded []MediaFile    `json:"uploaded"`
	Rejected []RejectedFile `json:"rejected,omitempty"`
}

// UpdateMediaCategoriesRequest replaces the category links of a media file
type UpdateMediaCategoriesRequest struct {
	CategoryIDs []int `json:"category_ids"`
}
