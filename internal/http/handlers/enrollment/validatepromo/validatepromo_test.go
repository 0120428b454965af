package validatepromo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/validatepromo"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/promo"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/metrics"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/enrollment"
)

const paidCourseID = "22222222-2222-2222-2222-222222222222"

type stubCourses struct{}

func (stubCourses) Get(_ context.Context, courseID string) (*models.Course, error) {
	if courseID == paidCourseID {
		return &models.Course{ID: paidCourseID, Price: 199.99, IsActive: true}, nil
	}
	return nil, apperr.New(apperr.NotFound, "Course not found")
}

func newHandler(t *testing.T) *validatepromo.Handler {
	t.Helper()
	ev, err := promo.NewEvaluator("BFSALE25", 50)
	require.NoError(t, err)
	svc := enrollment.NewService(sl.NewDiscardLogger(), stubCourses{}, nil, ev, nil, metrics.Noop{})
	return validatepromo.New(sl.NewDiscardLogger(), svc)
}

func post(t *testing.T, h http.Handler, body string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/validate-promo", bytes.NewBufferString(body)))
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return rec.Code, got
}

func TestValidatePromoHandler(t *testing.T) {
	h := newHandler(t)

	t.Run("lowercase code with course", func(t *testing.T) {
		code, got := post(t, h, `{"promoCode":"bfsale25","courseId":"`+paidCourseID+`"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, got["success"])
		assert.Equal(t, true, got["isValid"])
		assert.Equal(t, 50.0, got["discount"])
		assert.Equal(t, "50% discount applied!", got["message"])
		assert.Equal(t, 199.99, got["originalPrice"])
		assert.Equal(t, 100.0, got["discountedPrice"])
	})

	t.Run("valid code without course", func(t *testing.T) {
		code, got := post(t, h, `{"promoCode":"BFSALE25"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, got["isValid"])
		assert.Contains(t, got, "originalPrice")
		assert.Nil(t, got["originalPrice"])
		assert.Nil(t, got["discountedPrice"])
	})

	t.Run("unknown code", func(t *testing.T) {
		code, got := post(t, h, `{"promoCode":"FOO10"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, got["success"])
		assert.Equal(t, false, got["isValid"])
		assert.Equal(t, "Invalid promo code", got["message"])
		assert.NotContains(t, got, "discount")
	})

	t.Run("missing code", func(t *testing.T) {
		code, got := post(t, h, `{"courseId":"`+paidCourseID+`"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, got["success"])
		assert.Equal(t, "Promo code is required", got["message"])
	})
}
