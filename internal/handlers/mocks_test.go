package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/middleware"
	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/require"
)

// serve runs the request through a chi router configured by register
func serve(register func(chi.Router), req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(middleware.ClientInfoMiddleware)
	register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asAdmin(req *http.Request, username string, super bool) *http.Request {
	claims := &models.Claims{Subject: username, IsSuperAdmin: super}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

// mockAdminService is a mock implementation of AdminService
type mockAdminService struct {
	loginResp *models.LoginResponse
	admin     *models.Admin
	admins    []models.Admin
	err       error
	lastActor models.Actor
	deletedID int
}

func (m *mockAdminService) Login(ctx context.Context, actor models.Actor, req *models.LoginRequest) (*models.LoginResponse, error) {
	m.lastActor = actor
	return m.loginResp, m.err
}

func (m *mockAdminService) Create(ctx context.Context, actor models.Actor, req *models.CreateAdminRequest) (*models.Admin, error) {
	m.lastActor = actor
	return m.admin, m.err
}

func (m *mockAdminService) List(ctx context.Context, actor models.Actor) ([]models.Admin, error) {
	m.lastActor = actor
	return m.admins, m.err
}

func (m *mockAdminService) Delete(ctx context.Context, actor models.Actor, id int) error {
	m.lastActor = actor
	m.deletedID = id
	return m.err
}

func (m *mockAdminService) ChangePassword(ctx context.Context, actor models.Actor, req *models.ChangePasswordRequest) error {
	m.lastActor = actor
	return m.err
}

// mockCategoryService is a mock implementation of CategoryService
type mockCategoryService struct {
	category   *models.Category
	categories []models.Category
	err        error
}

func (m *mockCategoryService) Create(ctx context.Context, actor models.Actor, req *models.CreateCategoryRequest) (*models.Category, error) {
	return m.category, m.err
}

func (m *mockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	return m.categories, m.err
}

func (m *mockCategoryService) Delete(ctx context.Context, actor models.Actor, id int) error {
	return m.err
}

// mockMediaService is a mock implementation of MediaService.
// Upload rejects files whose mime type does not start with allowedPrefix.
type mockMediaService struct {
	categories    []models.Category
	resolveErr    error
	allowedPrefix string
	uploadErr     error
	uploaded      map[string]string
	media         *models.MediaFile
	content       io.ReadCloser
	openErr       error
	listed        []models.MediaFileWithCategories
	lastFilter    models.MediaFilter
	err           error
}

func (m *mockMediaService) ParseCategoryIDs(raw string) ([]int, error) {
	if raw == "" {
		return nil, models.BadRequestf("at least one valid category id is required")
	}
	return []int{1}, nil
}

func (m *mockMediaService) ResolveCategories(ctx context.Context, ids []int) ([]models.Category, error) {
	return m.categories, m.resolveErr
}

func (m *mockMediaService) Upload(ctx context.Context, actor models.Actor, categories []models.Category, filename, mimeType string, r io.Reader) (*models.MediaFile, error) {
	if len(categories) == 0 {
		return nil, models.BadRequestf("category_ids must be provided before file fields")
	}
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	if len(mimeType) < len(m.allowedPrefix) || mimeType[:len(m.allowedPrefix)] != m.allowedPrefix {
		return nil, models.BadRequestf("cannot add %s files here", mimeType)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if m.uploaded == nil {
		m.uploaded = map[string]string{}
	}
	m.uploaded[filename] = string(data)
	return &models.MediaFile{ID: len(m.uploaded), Filename: filename, MimeType: mimeType}, nil
}

func (m *mockMediaService) List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error) {
	m.lastFilter = filter
	return m.listed, m.err
}

func (m *mockMediaService) UpdateCategories(ctx context.Context, actor models.Actor, id int, req *models.UpdateMediaCategoriesRequest) error {
	return m.err
}

func (m *mockMediaService) Delete(ctx context.Context, actor models.Actor, id int) error {
	return m.err
}

func (m *mockMediaService) Open(ctx context.Context, id int) (*models.MediaFile, io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, nil, m.openErr
	}
	return m.media, m.content, nil
}

// mockTestService is a mock implementation of TestService
type mockTestService struct {
	test          *models.Test
	tests         []models.Test
	users         []models.TestUser
	addResp       *models.AddTestUserResponse
	results       *models.TestResults
	err           error
	lastActor     models.Actor
	lastTestID    int
	lastUserID    int
	lastCreateReq *models.CreateTestRequest
}

func (m *mockTestService) Create(ctx context.Context, actor models.Actor, req *models.CreateTestRequest) (*models.Test, error) {
	m.lastActor = actor
	m.lastCreateReq = req
	return m.test, m.err
}

func (m *mockTestService) List(ctx context.Context) ([]models.Test, error) {
	return m.tests, m.err
}

func (m *mockTestService) AddUser(ctx context.Context, actor models.Actor, testID int, req *models.AddTestUserRequest) (*models.AddTestUserResponse, error) {
	m.lastTestID = testID
	return m.addResp, m.err
}

func (m *mockTestService) ListUsers(ctx context.Context, testID int) ([]models.TestUser, error) {
	m.lastTestID = testID
	return m.users, m.err
}

func (m *mockTestService) Close(ctx context.Context, actor models.Actor, id int) error {
	m.lastTestID = id
	return m.err
}

func (m *mockTestService) Delete(ctx context.Context, actor models.Actor, id int) error {
	m.lastActor = actor
	m.lastTestID = id
	return m.err
}

func (m *mockTestService) DeleteUser(ctx context.Context, actor models.Actor, testID, userID int) error {
	m.lastTestID = testID
	m.lastUserID = userID
	return m.err
}

func (m *mockTestService) Results(ctx context.Context, testID int) (*models.TestResults, error) {
	m.lastTestID = testID
	return m.results, m.err
}

// mockSessionService is a mock implementation of SessionService
type mockSessionService struct {
	session   *models.TestSession
	rating    *models.Rating
	ratings   []models.Rating
	err       error
	lastToken string
	lastActor models.Actor
	lastReq   *models.SubmitRatingRequest
}

func (m *mockSessionService) GetTest(ctx context.Context, actor models.Actor, token string) (*models.TestSession, error) {
	m.lastToken = token
	m.lastActor = actor
	return m.session, m.err
}

func (m *mockSessionService) SubmitRating(ctx context.Context, actor models.Actor, token string, req *models.SubmitRatingRequest) (*models.Rating, error) {
	m.lastToken = token
	m.lastReq = req
	return m.rating, m.err
}

func (m *mockSessionService) ListRatings(ctx context.Context, token string) ([]models.Rating, error) {
	m.lastToken = token
	return m.ratings, m.err
}

func (m *mockSessionService) Complete(ctx context.Context, actor models.Actor, token string) error {
	m.lastToken = token
	return m.err
}

// mockActivityLogService is a mock implementation of ActivityLogService
type mockActivityLogService struct {
	page       *models.ActivityLogPage
	err        error
	lastFilter models.ActivityLogFilter
}

func (m *mockActivityLogService) List(ctx context.Context, filter models.ActivityLogFilter) (*models.ActivityLogPage, error) {
	m.lastFilter = filter
	return m.page, m.err
}

// mockPinger is a mock implementation of Pinger
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}
