package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionHandler_GetTest(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "open session", expectedStatus: http.StatusOK},
		{name: "unknown token", err: models.ErrSessionNotFound, expectedStatus: http.StatusNotFound, expectedError: "invalid or expired link"},
		{name: "completed", err: models.ErrSessionCompleted, expectedStatus: http.StatusGone, expectedError: "you have already completed this test"},
		{name: "closed test", err: models.ErrTestClosed, expectedStatus: http.StatusForbidden, expectedError: "this test has been closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				session: &models.TestSession{Test: models.Test{ID: 1, Name: "Survey"}, MediaFiles: []models.MediaFile{{ID: 3}}},
				err:     tt.err,
			}
			h := NewSessionHandler(svc, zap.NewNop())
			req := jsonRequest(t, http.MethodGet, "/test/tok-123", nil)
			req.Header.Set("User-Agent", "Mozilla/5.0")

			w := serve(h.RegisterRoutes, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "tok-123", svc.lastToken)
			assert.Equal(t, "Mozilla/5.0", svc.lastActor.UserAgent)
			assert.Empty(t, svc.lastActor.Admin)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			var session models.TestSession
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
			assert.Len(t, session.MediaFiles, 1)
		})
	}
}

func TestSessionHandler_SubmitRating(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		err            error
		expectedStatus int
	}{
		{name: "accepted", body: models.SubmitRatingRequest{MediaFileID: 3, Stars: 4.5}, expectedStatus: http.StatusOK},
		{name: "invalid stars", body: models.SubmitRatingRequest{MediaFileID: 3, Stars: 7}, err: models.BadRequestf("stars must be between 0 and 5 in 0.5 steps"), expectedStatus: http.StatusBadRequest},
		{name: "invalid token", body: models.SubmitRatingRequest{MediaFileID: 3, Stars: 4}, err: models.ErrInvalidToken, expectedStatus: http.StatusUnauthorized},
		{name: "closed test", body: models.SubmitRatingRequest{MediaFileID: 3, Stars: 4}, err: models.ErrTestClosed, expectedStatus: http.StatusForbidden},
		{name: "malformed body", body: []int{1}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{rating: &models.Rating{ID: 1, MediaFileID: 3, Stars: 4.5}, err: tt.err}
			h := NewSessionHandler(svc, zap.NewNop())

			w := serve(h.RegisterRoutes, jsonRequest(t, http.MethodPost, "/test/tok-123/ratings", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionHandler_ListRatingsAndComplete(t *testing.T) {
	svc := &mockSessionService{ratings: []models.Rating{{ID: 1, Stars: 3}}}
	h := NewSessionHandler(svc, zap.NewNop())

	w := serve(h.RegisterRoutes, jsonRequest(t, http.MethodGet, "/test/tok-123/ratings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var ratings []models.Rating
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ratings))
	assert.Len(t, ratings, 1)

	w = serve(h.RegisterRoutes, jsonRequest(t, http.MethodPost, "/test/tok-123/complete", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", svc.lastToken)

	svc.err = models.ErrSessionNotFound
	w = serve(h.RegisterRoutes, jsonRequest(t, http.MethodPost, "/test/nope/complete", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.err = models.ErrInvalidToken
	w = serve(h.RegisterRoutes, jsonRequest(t, http.MethodGet, "/test/nope/ratings", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
