package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/middleware"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its HTTP status.
// Unclassified errors are logged and answered with the generic message.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, message string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err))
		h.respondError(w, status, message)
		return
	}
	h.respondError(w, status, models.PublicMessage(err))
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrGone):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// intParam parses a positive integer URL parameter
func (h *BaseHandler) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// actorFromRequest builds the acting identity from the admin claims and client info in context
func actorFromRequest(r *http.Request) models.Actor {
	info := middleware.GetClientInfo(r.Context())
	actor := models.Actor{
		IPAddress: info.IPAddress,
		UserAgent: info.UserAgent,
	}
	if claims, ok := middleware.GetClaims(r.Context()); ok {
		actor.Admin = claims.Subject
		actor.IsSuperAdmin = claims.IsSuperAdmin
	}
	return actor
}
