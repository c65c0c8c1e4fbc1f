package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspire/backend/internal/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminProtected(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	return AdminOnly(testSecret, logger.New("test"))(next), &reached
}

func TestAdminOnly_MissingToken(t *testing.T) {
	handler, reached := adminProtected(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached)
}

func TestAdminOnly_MalformedToken(t *testing.T) {
	handler, reached := adminProtected(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached)
}

func TestAdminOnly_WrongSecret(t *testing.T) {
	handler, reached := adminProtected(t)

	token := signToken(t, "other-secret", jwt.MapClaims{"role": "admin"})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached)
}

func TestAdminOnly_ExpiredToken(t *testing.T) {
	handler, reached := adminProtected(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached)
}

func TestAdminOnly_NonAdminRole(t *testing.T) {
	handler, reached := adminProtected(t)

	token := signToken(t, testSecret, jwt.MapClaims{"role": "customer"})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *reached)
}

func TestAdminOnly_AdminPasses(t *testing.T) {
	handler, reached := adminProtected(t)

	token := signToken(t, testSecret, jwt.MapClaims{"role": "admin"})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, *reached)
}
