package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// maxCategoryIDsField bounds the size of the category_ids form value
const maxCategoryIDsField = 4096

const errCategoriesFirst = "category_ids must be provided before file fields"

// MediaService is the interface that wraps methods for media file business logic.
type MediaService interface {
	// Method ParseCategoryIDs parses the comma separated category_ids form value.
	ParseCategoryIDs(raw string) ([]int, error)
	// Method ResolveCategories loads the categories for the given ids.
	//
	// An unknown id returns an error wrapping models.ErrBadRequest.
	ResolveCategories(ctx context.Context, ids []int) ([]models.Category, error)
	// Method Upload stores one file and links it to every category.
	//
	// The media type derived from "mimeType" must equal the media type of every category,
	// otherwise an error wrapping models.ErrBadRequest is returned and nothing is stored.
	Upload(ctx context.Context, actor models.Actor, categories []models.Category, filename, mimeType string, r io.Reader) (*models.MediaFile, error)
	// Method List retrieves media files with their categories, optionally filtered.
	List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error)
	// Method UpdateCategories replaces the categories of a media file.
	UpdateCategories(ctx context.Context, actor models.Actor, id int, req *models.UpdateMediaCategoriesRequest) error
	// Method Delete removes a media file and its blob.
	Delete(ctx context.Context, actor models.Actor, id int) error
	// Method Open returns the media file record and a reader over its content. The caller closes the reader.
	Open(ctx context.Context, id int) (*models.MediaFile, io.ReadCloser, error)
}

// MediaHandler handles HTTP requests for media files
type MediaHandler struct {
	BaseHandler
	service MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(svc MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterPublicRoutes registers the media streaming route
func (h *MediaHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/media/{id}/serve", h.Serve)
}

// RegisterRoutes registers the admin media routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/media", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/upload", h.Upload)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/categories", h.UpdateCategories)
	})
}

// uploadFailure is returned when no file of an upload could be stored
type uploadFailure struct {
	Error    string                `json:"error"`
	Rejected []models.RejectedFile `json:"rejected,omitempty"`
}

// Upload handles POST /api/admin/media/upload
// @Summary Upload media files
// @Description Upload one or more files into categories. The category_ids field must precede the file fields.
// @Description Every category must hold the media type of every file.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param category_ids formData string true "Comma separated category ids"
// @Param file formData file true "File to upload, may be repeated"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} uploadFailure
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/media/upload [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "expected multipart/form-data request")
		return
	}

	actor := actorFromRequest(r)
	result := models.UploadResult{Uploaded: make([]models.MediaFile, 0)}
	var categories []models.Category

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.logger.Warn("failed to read multipart part", zap.Error(err))
			h.respondError(w, http.StatusBadRequest, "failed to parse multipart body")
			return
		}

		switch part.FormName() {
		case "category_ids":
			categories, err = h.readCategories(r.Context(), part)
			part.Close()
			if err != nil {
				h.respondServiceError(w, err, "failed to resolve categories")
				return
			}
		case "file":
			if categories == nil {
				part.Close()
				h.respondError(w, http.StatusBadRequest, errCategoriesFirst)
				return
			}
			h.uploadPart(r.Context(), actor, categories, part, &result)
			part.Close()
		default:
			part.Close()
		}
	}

	if len(result.Uploaded) == 0 {
		msg := "no files were uploaded"
		if len(result.Rejected) == 1 {
			msg = result.Rejected[0].Reason
		}
		h.respondJSON(w, http.StatusBadRequest, uploadFailure{Error: msg, Rejected: result.Rejected})
		return
	}

	h.respondJSON(w, http.StatusCreated, result)
}

func (h *MediaHandler) readCategories(ctx context.Context, part *multipart.Part) ([]models.Category, error) {
	raw, err := io.ReadAll(io.LimitReader(part, maxCategoryIDsField+1))
	if err != nil {
		return nil, models.BadRequestf("failed to read category_ids field")
	}
	if len(raw) > maxCategoryIDsField {
		return nil, models.BadRequestf("category_ids field is too large")
	}
	ids, err := h.service.ParseCategoryIDs(string(raw))
	if err != nil {
		return nil, err
	}
	return h.service.ResolveCategories(ctx, ids)
}

func (h *MediaHandler) uploadPart(ctx context.Context, actor models.Actor, categories []models.Category, part *multipart.Part, result *models.UploadResult) {
	filename := part.FileName()
	media, err := h.service.Upload(ctx, actor, categories, filename, part.Header.Get("Content-Type"), part)
	if err != nil {
		reason := "failed to store file"
		if errors.Is(err, models.ErrBadRequest) {
			reason = models.PublicMessage(err)
		} else {
			h.logger.Error("failed to upload file", zap.String("filename", filename), zap.Error(err))
		}
		result.Rejected = append(result.Rejected, models.RejectedFile{Filename: filename, Reason: reason})
		return
	}
	result.Uploaded = append(result.Uploaded, *media)
}

// List handles GET /api/admin/media
// @Summary List media files
// @Description List media files newest first with their categories
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param media_type query string false "audio, video, image, text or other"
// @Param category_id query int false "Category ID"
// @Success 200 {array} models.MediaFileWithCategories
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter models.MediaFilter
	if raw := r.URL.Query().Get("media_type"); raw != "" {
		mediaType := models.MediaType(raw)
		filter.MediaType = &mediaType
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil || categoryID <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid category_id parameter")
			return
		}
		filter.CategoryID = &categoryID
	}

	media, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, err, "failed to list media files")
		return
	}

	h.respondJSON(w, http.StatusOK, media)
}

// UpdateCategories handles PUT /api/admin/media/{id}/categories
// @Summary Replace media categories
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Media file ID"
// @Param request body models.UpdateMediaCategoriesRequest true "New category ids"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/media/{id}/categories [put]
func (h *MediaHandler) UpdateCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateMediaCategoriesRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateCategories(r.Context(), actorFromRequest(r), id, &req); err != nil {
		h.respondServiceError(w, err, "failed to update media categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "categories updated"})
}

// Delete handles DELETE /api/admin/media/{id}
// @Summary Delete media file
// @Tags media
// @Security BearerAuth
// @Param id path int true "Media file ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/media/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		h.respondServiceError(w, err, "failed to delete media file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Serve handles GET /api/media/{id}/serve
// @Summary Stream media file
// @Description Stream the file content with its stored MIME type. Local files support range requests.
// @Tags media
// @Produce application/octet-stream
// @Param id path int true "Media file ID"
// @Param Range header string false "Range"
// @Success 200 "File content"
// @Success 206 "Partial file content"
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /media/{id}/serve [get]
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	media, rc, err := h.service.Open(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to open media file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", media.MimeType)

	if seeker, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, media.Filename, media.UploadedAt, seeker)
		return
	}

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("failed to copy file to response", zap.Int("id", id), zap.Error(err))
	}
}
