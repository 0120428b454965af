package subscribe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/subscribe"
	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Subscribe(ctx context.Context, user *models.User, courseID, promoCode string) (*models.SubscriptionWithCourse, error) {
	args := m.Called(ctx, user, courseID, promoCode)
	sub, _ := args.Get(0).(*models.SubscriptionWithCourse)
	return sub, args.Error(1)
}

func TestSubscribeHandler(t *testing.T) {
	user := &models.User{UUID: "u1", Email: "ann@example.com", Name: "Ann"}
	code := "BFSALE25"
	created := &models.SubscriptionWithCourse{
		Subscription: models.Subscription{
			ID:              "s1",
			UserUID:         "u1",
			CourseID:        "c1",
			PricePaid:       100,
			OriginalPrice:   199.99,
			DiscountApplied: 50,
			PromoCodeUsed:   &code,
			SubscribedAt:    time.Date(2025, 11, 28, 10, 0, 0, 0, time.UTC),
		},
		Course: models.Course{ID: "c1", Title: "Red Teaming", Price: 199.99, IsActive: true},
	}

	tests := []struct {
		name       string
		body       string
		withUser   bool
		mockSub    *models.SubscriptionWithCourse
		mockErr    error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "subscribed with promo",
			body:       `{"courseId":"c1","promoCode":"bfsale25"}`,
			withUser:   true,
			mockSub:    created,
			wantStatus: http.StatusCreated,
			wantMsg:    "Successfully subscribed to course",
		},
		{
			name:       "already subscribed",
			body:       `{"courseId":"c1","promoCode":"bfsale25"}`,
			withUser:   true,
			mockErr:    apperr.New(apperr.Conflict, "You are already subscribed to this course"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "You are already subscribed to this course",
		},
		{
			name:       "course not found",
			body:       `{"courseId":"c1","promoCode":"bfsale25"}`,
			withUser:   true,
			mockErr:    apperr.New(apperr.NotFound, "Course not found"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Course not found",
		},
		{
			name:       "no session",
			body:       `{"courseId":"c1"}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized, no token provided",
		},
		{
			name:       "broken body",
			body:       `{"courseId":`,
			withUser:   true,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.mockSub != nil || tt.mockErr != nil {
				svc.On("Subscribe", mock.Anything, user, "c1", "bfsale25").Return(tt.mockSub, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewBufferString(tt.body))
			if tt.withUser {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
			}
			rec := httptest.NewRecorder()

			subscribe.New(sl.NewDiscardLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMsg, got["message"])

			if tt.mockSub != nil {
				sub, ok := got["subscription"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "s1", sub["id"])
				assert.Equal(t, 100.0, sub["pricePaid"])
				assert.Equal(t, 199.99, sub["originalPrice"])
				assert.Equal(t, 50.0, sub["discountApplied"])
				assert.Equal(t, "BFSALE25", sub["promoCodeUsed"])
				assert.Equal(t, "2025-11-28T10:00:00Z", sub["subscribedAt"])
				course := sub["course"].(map[string]any)
				assert.Equal(t, "Red Teaming", course["title"])
			}
			svc.AssertExpectations(t)
		})
	}
}
