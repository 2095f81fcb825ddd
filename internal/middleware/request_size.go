package middleware

import (
	"mime"
	"net/http"
)

// RequestSizeLimitMiddleware caps request bodies. Multipart uploads may use up to maxUploadSize,
// every other body is held to maxBodySize.
func RequestSizeLimitMiddleware(maxBodySize, maxUploadSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := maxBodySize
			if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
				limit = maxUploadSize
			}

			if r.ContentLength > limit {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
