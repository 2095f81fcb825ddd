package models

import (
	"strings"
	"time"
)

// MediaType is the kind of content a media file or category holds
type MediaType string

const (
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
	MediaTypeImage MediaType = "image"
	MediaTypeText  MediaType = "text"
	MediaTypeOther MediaType = "other"
)

// IsCategoryType reports whether a category may be created with this media type
func (t MediaType) IsCategoryType() bool {
	switch t {
	case MediaTypeAudio, MediaTypeVideo, MediaTypeImage, MediaTypeText:
		return true
	default:
		return false
	}
}

// MediaTypeFromMime derives the media type from a MIME type by its top-level prefix.
func MediaTypeFromMime(mimeType string) MediaType {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return MediaTypeAudio
	case strings.HasPrefix(mimeType, "video/"):
		return MediaTypeVideo
	case strings.HasPrefix(mimeType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(mimeType, "text/"):
		return MediaTypeText
	default:
		return MediaTypeOther
	}
}

// Category groups media files of a single media type
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	MediaType MediaType `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCategoryRequest is the request body for category creation
type CreateCategoryRequest struct {
	Name      string    `json:"name"`
	MediaType MediaType `json:"media_type"`
}
