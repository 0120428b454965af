package verify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

func TestVerifyHandler(t *testing.T) {
	user := &models.User{UUID: "u1", Name: "Ann", Email: "ann@example.com", PasswordHash: "secret-hash"}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()

	verify.New(sl.NewDiscardLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, true, got["isAuthenticated"])
	assert.Equal(t, map[string]any{"id": "u1", "name": "Ann", "email": "ann@example.com"}, got["user"])
}

func TestVerifyHandler_NoSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()

	verify.New(sl.NewDiscardLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
