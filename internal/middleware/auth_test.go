package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicosmin02/furniture-store-api/internal/config"
	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/middleware"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
)

// singleUserStore holds one registered user, enough to mint tokens
type singleUserStore struct {
	user *models.User
}

func (s *singleUserStore) Create(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = uuid.New()
	s.user = &user
	return &user, nil
}

func (s *singleUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *singleUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *singleUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.user == nil {
		return nil, nil
	}
	return []models.User{*s.user}, nil
}

func (s *singleUserStore) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UserUpdateRequest) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (s *singleUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ErrNotFound
}

func (s *singleUserStore) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	if s.user != nil && s.user.Role == role {
		return 1, nil
	}
	return 0, nil
}

func newAuthServiceWithUser(t *testing.T, role models.UserRole) (*service.AuthService, string, *models.User) {
	t.Helper()

	authService := service.NewAuthService(&singleUserStore{}, config.JWT{
		Secret:            "test-secret",
		StaffExpiresIn:    1,
		CustomerExpiresIn: 24,
	})

	user, err := authService.Register(context.Background(), models.RegisterRequest{
		Email:    "someone@example.com",
		Password: "secret123",
		Role:     role,
	}, false)
	require.NoError(t, err)

	token, _, err := authService.Login(context.Background(), user.Email, "secret123")
	require.NoError(t, err)

	return authService, token, user
}

func TestAuth_AttachesActor(t *testing.T) {
	authService, token, user := newAuthServiceWithUser(t, models.RoleEmployee)

	var got service.Actor
	handler := middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		require.True(t, ok)
		got = actor
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, models.RoleEmployee, got.Role)
}

func TestAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	authService, _, _ := newAuthServiceWithUser(t, models.RoleEmployee)

	handler := middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer bad.token.here"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)

		// Rejections use the same JSON envelope as the handlers.
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "header %q", header)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "header %q", header)
		assert.NotEmpty(t, body["error"], "header %q", header)
	}
}

func TestRequireAdmin(t *testing.T) {
	run := func(t *testing.T, role models.UserRole) int {
		authService, token, _ := newAuthServiceWithUser(t, role)

		handler := middleware.Auth(authService)(middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(t, models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(t, models.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, run(t, models.RoleCustomer))
}

func TestRequireAdmin_ForbiddenIsJSON(t *testing.T) {
	authService, token, _ := newAuthServiceWithUser(t, models.RoleCustomer)

	handler := middleware.Auth(authService)(middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a non-admin")
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body["error"])
}

func TestRequireAdmin_NoActor(t *testing.T) {
	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an actor")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
