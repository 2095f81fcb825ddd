package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// dateLayout is accepted for from_date/to_date besides RFC 3339
const dateLayout = "2006-01-02"

// ActivityLogService is the interface that wraps methods for audit trail retrieval.
type ActivityLogService interface {
	// Method List retrieves a page of entries newest first.
	//
	// The limit defaults to 50 and is capped at 200.
	List(ctx context.Context, filter models.ActivityLogFilter) (*models.ActivityLogPage, error)
}

// ActivityLogHandler handles HTTP requests for the activity log
type ActivityLogHandler struct {
	BaseHandler
	service ActivityLogService
}

// NewActivityLogHandler creates a new activity log handler
func NewActivityLogHandler(svc ActivityLogService, logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all activity log routes
func (h *ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/activity-logs", h.List)
}

// List handles GET /api/admin/activity-logs
// @Summary List activity logs
// @Tags activity-logs
// @Produce json
// @Security BearerAuth
// @Param admin query string false "Admin username"
// @Param user_email query string false "Participant email"
// @Param action query string false "Action"
// @Param entity_type query string false "Entity type"
// @Param from_date query string false "Lower bound, RFC 3339 or YYYY-MM-DD"
// @Param to_date query string false "Upper bound, RFC 3339 or YYYY-MM-DD (whole day)"
// @Param limit query int false "Page size, default 50, max 200"
// @Param offset query int false "Offset"
// @Success 200 {object} models.ActivityLogPage
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/activity-logs [get]
func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseActivityLogFilter(r.URL.Query())
	if err != nil {
		h.respondServiceError(w, err, "invalid filter")
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, err, "failed to list activity logs")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

func parseActivityLogFilter(q url.Values) (models.ActivityLogFilter, error) {
	filter := models.ActivityLogFilter{
		Admin:      q.Get("admin"),
		UserEmail:  q.Get("user_email"),
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
	}

	var err error
	if filter.FromDate, err = parseDate(q.Get("from_date"), false); err != nil {
		return filter, models.BadRequestf("invalid from_date")
	}
	if filter.ToDate, err = parseDate(q.Get("to_date"), true); err != nil {
		return filter, models.BadRequestf("invalid to_date")
	}
	if raw := q.Get("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil {
			return filter, models.BadRequestf("invalid limit")
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if filter.Offset, err = strconv.Atoi(raw); err != nil || filter.Offset < 0 {
			return filter, models.BadRequestf("invalid offset")
		}
	}

	return filter, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain upper bound covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
