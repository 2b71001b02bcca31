package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fittrack/fitness-app/internal/api"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository/memory"
	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testSecret = "api-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// fakeStorage hands out deterministic URLs and remembers uploaded keys.
type fakeStorage struct {
	objects map[string]bool
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + objectKey, nil
}

func (s *fakeStorage) ObjectExists(_ context.Context, objectKey string) (bool, error) {
	return s.objects[objectKey], nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

type testAPI struct {
	t       *testing.T
	store   *memory.Store
	storage *fakeStorage
	router  *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	fileStorage := newFakeStorage()
	services := api.Services{
		Auth:      service.NewAuthService(store.Users(), testSecret, time.Hour),
		Movements: service.NewMovementService(store.Movements()),
		Workouts:  service.NewWorkoutService(store.Workouts(), store.Movements(), store.Favorites(), store.Users(), 10),
		Favorites: service.NewFavoriteService(store.Favorites(), store.Movements()),
		Users:     service.NewUserService(store.Users(), store.Workouts(), fileStorage, 10),
	}
	router := gin.New()
	api.SetupRoutes(router, testSecret, services)
	return &testAPI{t: t, store: store, storage: fileStorage, router: router}
}

type session struct {
	ID    string
	Token string
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	return a.serve(req)
}

func (a *testAPI) signUp(username string) session {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.LoginResponse
	decode(a.t, rec, &resp)
	return session{ID: resp.User.ID, Token: resp.Token}
}

func (a *testAPI) libraryMovement(name string, movementType domain.MovementType, muscles ...string) string {
	a.t.Helper()
	if muscles == nil {
		muscles = []string{}
	}
	id, err := a.store.Movements().Create(context.Background(), &domain.Movement{
		Name:          name,
		Type:          movementType,
		MusclesWorked: muscles,
	})
	require.NoError(a.t, err)
	return id.Hex()
}

func (a *testAPI) befriend(x, y session) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/users/"+y.ID+"/friend-request", x.Token, nil)
	require.Equal(a.t, http.StatusNoContent, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/v1/friends/requests/"+x.ID+"/accept", y.Token, nil)
	require.Equal(a.t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

