package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/mediarating/backend/internal/models"
)

// mockActivity collects recorded entries
type mockActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (m *mockActivity) Record(ctx context.Context, entry models.ActivityEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockActivity) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]string, len(m.entries))
	for i, e := range m.entries {
		actions[i] = e.Action
	}
	return actions
}

// mockActivityLogRepository is a mock implementation of ActivityLogRepository
type mockActivityLogRepository struct {
	created    []*models.ActivityLog
	logs       []models.ActivityLog
	total      int
	removed    int
	lastFilter models.ActivityLogFilter
	lastCutoff time.Time
	err        error
}

func (m *mockActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, entry)
	return nil
}

func (m *mockActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLog, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.logs, m.total, nil
}

func (m *mockActivityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.lastCutoff = cutoff
	if m.err != nil {
		return 0, m.err
	}
	return m.removed, nil
}

// mockAdminRepository is a mock implementation of AdminRepository
type mockAdminRepository struct {
	admins      map[string]*models.Admin
	createErr   error
	err         error
	updatedHash string
	deletedID   int
}

func (m *mockAdminRepository) byID(id int) *models.Admin {
	for _, a := range m.admins {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if m.createErr != nil {
		return m.createErr
	}
	admin.ID = len(m.admins) + 1
	if m.admins == nil {
		m.admins = map[string]*models.Admin{}
	}
	stored := *admin
	m.admins[admin.Username] = &stored
	return nil
}

func (m *mockAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.admins[username]; ok {
		return a, nil
	}
	return nil, models.ErrAdminNotFound
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	if a := m.byID(id); a != nil {
		return a, nil
	}
	return nil, models.ErrAdminNotFound
}

func (m *mockAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	admins := make([]models.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		admins = append(admins, *a)
	}
	return admins, nil
}

func (m *mockAdminRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if m.err != nil {
		return m.err
	}
	m.updatedHash = passwordHash
	return nil
}

func (m *mockAdminRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

func (m *mockAdminRepository) Bootstrap(ctx context.Context, admin *models.Admin) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if existing, ok := m.admins[admin.Username]; ok {
		*admin = *existing
		return false, nil
	}
	admin.IsSuperAdmin = len(m.admins) == 0
	return true, m.Create(ctx, admin)
}

// mockTokens is a mock implementation of TokenIssuer
type mockTokens struct {
	token string
	err   error
}

func (m *mockTokens) GenerateToken(subject string, isSuperAdmin bool) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

// mockCategoryRepository is a mock implementation of CategoryRepository
type mockCategoryRepository struct {
	categories map[int]models.Category
	createErr  error
	err        error
	deletedID  int
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	category.ID = 1
	category.CreatedAt = time.Now()
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.categories[id]; ok {
		return &c, nil
	}
	return nil, models.ErrCategoryNotFound
}

func (m *mockCategoryRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[int]models.Category)
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			found[id] = c
		}
	}
	return found, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

// mockMediaRepository is a mock implementation of MediaRepository
type mockMediaRepository struct {
	media          map[int]*models.MediaFile
	listed         []models.MediaFileWithCategories
	testMedia      []models.MediaFile
	belongs        bool
	createErr      error
	err            error
	created        []*models.MediaFile
	createdCats    [][]int
	replacedCats   []int
	replaceCalled  bool
	deletedID      int
	lastListFilter models.MediaFilter
}

func (m *mockMediaRepository) CreateWithCategories(ctx context.Context, media *models.MediaFile, categoryIDs []int) error {
	if m.createErr != nil {
		return m.createErr
	}
	media.ID = len(m.created) + 1
	media.UploadedAt = time.Now()
	m.created = append(m.created, media)
	m.createdCats = append(m.createdCats, categoryIDs)
	return nil
}

func (m *mockMediaRepository) GetByID(ctx context.Context, id int) (*models.MediaFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if media, ok := m.media[id]; ok {
		return media, nil
	}
	return nil, models.ErrMediaNotFound
}

func (m *mockMediaRepository) List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error) {
	m.lastListFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockMediaRepository) ListByTest(ctx context.Context, testID int) ([]models.MediaFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.testMedia, nil
}

func (m *mockMediaRepository) BelongsToTest(ctx context.Context, testID, mediaID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.belongs, nil
}

func (m *mockMediaRepository) ReplaceCategories(ctx context.Context, mediaID int, categoryIDs []int) error {
	if m.err != nil {
		return m.err
	}
	m.replaceCalled = true
	m.replacedCats = categoryIDs
	return nil
}

func (m *mockMediaRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

// mockStorage is an in-memory implementation of BlobStorage
type mockStorage struct {
	objects   map[string][]byte
	saveErr   error
	deleteErr error
	openErr   error
	deleted   []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string][]byte{}}
}

func (m *mockStorage) Save(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *mockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return io.NopCloser(bytes.NewReader(m.objects[key])), nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

// mockTestRepository is a mock implementation of TestRepository
type mockTestRepository struct {
	tests     map[int]*models.Test
	createErr error
	err       error
	closedID  int
	deletedID int
	boundTo   int
}

func (m *mockTestRepository) CreateWithCategory(ctx context.Context, test *models.Test, categoryID int) error {
	if m.createErr != nil {
		return m.createErr
	}
	test.ID = 1
	test.Status = models.TestStatusOpen
	test.CreatedAt = time.Now()
	test.CategoryID = &categoryID
	m.boundTo = categoryID
	return nil
}

func (m *mockTestRepository) GetByID(ctx context.Context, id int) (*models.Test, error) {
	if m.err != nil {
		return nil, m.err
	}
	if t, ok := m.tests[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, models.ErrTestNotFound
}

func (m *mockTestRepository) List(ctx context.Context) ([]models.Test, error) {
	if m.err != nil {
		return nil, m.err
	}
	tests := make([]models.Test, 0, len(m.tests))
	for _, t := range m.tests {
		tests = append(tests, *t)
	}
	return tests, nil
}

func (m *mockTestRepository) Close(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.closedID = id
	return nil
}

func (m *mockTestRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

// mockTestUserRepository is a mock implementation of TestUserRepository
type mockTestUserRepository struct {
	mu          sync.Mutex
	users       map[int]*models.TestUser
	exists      bool
	createErr   error
	err         error
	created     *models.TestUser
	completedID int
	deletedID   int
}

func (m *mockTestUserRepository) Create(ctx context.Context, user *models.TestUser) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 42
	m.created = user
	return nil
}

func (m *mockTestUserRepository) ExistsByTestAndEmail(ctx context.Context, testID int, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func (m *mockTestUserRepository) GetByToken(ctx context.Context, token string) (*models.TestUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.OneTimeToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrSessionNotFound
}

func (m *mockTestUserRepository) GetByID(ctx context.Context, id int) (*models.TestUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrTestUserNotFound
}

func (m *mockTestUserRepository) ListByTest(ctx context.Context, testID int) ([]models.TestUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]models.TestUser, 0)
	for _, u := range m.users {
		if u.TestID == testID {
			users = append(users, *u)
		}
	}
	return users, nil
}

// MarkAccessed behaves like the conditional update: only the first caller stamps
func (m *mockTestUserRepository) MarkAccessed(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.AccessedAt != nil {
		return false, nil
	}
	now := time.Now()
	u.AccessedAt = &now
	return true, nil
}

func (m *mockTestUserRepository) MarkCompleted(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if u, ok := m.users[id]; ok {
		u.CompletedAt = &now
	}
	m.completedID = id
	return nil
}

func (m *mockTestUserRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

// mockRatingRepository keeps one rating per participant and media file
type mockRatingRepository struct {
	ratings    map[[2]int]*models.Rating
	individual []models.IndividualRating
	upsertErr  error
	err        error
	nextID     int
}

func (m *mockRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.ratings == nil {
		m.ratings = map[[2]int]*models.Rating{}
	}
	key := [2]int{rating.TestUserID, rating.MediaFileID}
	stored, ok := m.ratings[key]
	if !ok {
		m.nextID++
		stored = &models.Rating{ID: m.nextID, TestUserID: rating.TestUserID, MediaFileID: rating.MediaFileID}
		m.ratings[key] = stored
	}
	stored.Stars = rating.Stars
	stored.Comment = rating.Comment
	stored.RatedAt = time.Now()
	*rating = *stored
	return nil
}

func (m *mockRatingRepository) ListByTestUser(ctx context.Context, testUserID int) ([]models.Rating, error) {
	if m.err != nil {
		return nil, m.err
	}
	ratings := make([]models.Rating, 0)
	for _, r := range m.ratings {
		if r.TestUserID == testUserID {
			ratings = append(ratings, *r)
		}
	}
	return ratings, nil
}

func (m *mockRatingRepository) ListByTest(ctx context.Context, testID int) ([]models.IndividualRating, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.individual, nil
}

// mockQueue is a mock implementation of InvitationQueue
type mockQueue struct {
	queued []models.Invitation
	err    error
}

func (m *mockQueue) Enqueue(ctx context.Context, inv models.Invitation) error {
	if m.err != nil {
		return m.err
	}
	m.queued = append(m.queued, inv)
	return nil
}
