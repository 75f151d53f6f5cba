package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wassalni/covoiturage-backend/internal/auth"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

func newMiddleware(t *testing.T) (*AuthMiddleware, *auth.Service) {
	t.Helper()
	service, err := auth.NewService()
	require.NoError(t, err)
	return NewAuthMiddleware(service), service
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatePassesClaims(t *testing.T) {
	m, service := newMiddleware(t)
	user := &models.User{ID: primitive.NewObjectID(), Email: "amine@wassalni.tn"}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	var got *models.Claims
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		require.True(t, ok)
		got = claims
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID.Hex(), got.UserID)
}

func TestAuthenticateSkipsPublicEndpoints(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	public := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/trips"},
		{http.MethodGet, "/api/trips/estimate"},
		{http.MethodGet, "/api/trips/65b0c1d2e3f4a5b6c7d8e9f0"},
	}
	for _, c := range public {
		r := httptest.NewRequest(c.method, c.path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equalf(t, http.StatusOK, w.Code, "%s %s should be public", c.method, c.path)
	}
}

func TestAuthenticateProtectsTripMutations(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/trips"},
		{http.MethodPatch, "/api/trips/65b0c1d2e3f4a5b6c7d8e9f0"},
		{http.MethodDelete, "/api/trips/65b0c1d2e3f4a5b6c7d8e9f0"},
		{http.MethodGet, "/api/trips/65b0c1d2e3f4a5b6c7d8e9f0/reservations"},
	}
	for _, c := range protected {
		r := httptest.NewRequest(c.method, c.path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", c.method, c.path)
	}
}
