package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ldap-seeder/api/swagger"
	"ldap-seeder/internal/adapter/gin/handler"
	domain "ldap-seeder/internal/domain/directory"
	"ldap-seeder/pkg/logger"
)

type fakeReader struct {
	people []domain.Person
}

func (f *fakeReader) ListUsers(ctx context.Context, search string) ([]domain.Person, error) {
	return f.people, nil
}

func (f *fakeReader) GetUser(ctx context.Context, uid string) (*domain.Person, error) {
	return &f.people[0], nil
}

func setupRouter(t *testing.T) http.Handler {
	log := zaptest.NewLogger(t)
	reader := &fakeReader{people: []domain.Person{{UID: "user1", CN: "user1"}}}
	return SetupRouter(handler.NewDirectoryHandler(reader, log), nil, log)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"ldap-directory-api"}`, w.Body.String())
}

func TestRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/users", http.StatusOK},
		{"/v1/users/user1", http.StatusOK},
		{"/v1/users/user1/photo", http.StatusNotFound},
		{"/v1/groups", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSwaggerDoc(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", swagger.DocPath, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	for _, path := range []string{"/health", "/v1/users", "/v1/users/{uid}", "/v1/users/{uid}/photo"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestSwaggerUI(t *testing.T) {
	r := setupRouter(t)

	t.Run("Index", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "directory.swagger.json")
	})

	t.Run("RedirectsToIndex", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/", nil))

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "index.html")
	})
}

func TestRequestIDHeader(t *testing.T) {
	r := setupRouter(t)

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		_, err := uuid.Parse(w.Header().Get(logger.RequestIDHeader))
		require.NoError(t, err)
	})

	t.Run("Propagated", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set(logger.RequestIDHeader, id)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get(logger.RequestIDHeader))
	})
}
