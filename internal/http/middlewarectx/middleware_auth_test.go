package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Мок для SessionResolver
type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

var ann = &models.User{UUID: "11111111-1111-1111-1111-111111111111", Email: "ann@example.com", Name: "Ann"}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "nothing", want: ""},
		{name: "cookie only", cookie: "c-token", want: "c-token"},
		{name: "bearer only", header: "Bearer h-token", want: "h-token"},
		{name: "cookie wins over header", cookie: "c-token", header: "Bearer h-token", want: "c-token"},
		{name: "non bearer scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "empty cookie falls back to header", cookie: "", header: "Bearer h-token", want: "h-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.Name, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, middlewarectx.ExtractToken(req))
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		cookie      string
		header      string
		resolveWith string
		resolveUser *models.User
		resolveErr  error
		wantStatus  int
		wantMsg     string
		wantCalled  bool
	}{
		{
			name:       "no token",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    auth.MsgNoToken,
		},
		{
			name:        "invalid token",
			header:      "Bearer bad",
			resolveWith: "bad",
			resolveErr:  apperr.New(apperr.Unauthenticated, auth.MsgInvalidToken),
			wantStatus:  http.StatusUnauthorized,
			wantMsg:     auth.MsgInvalidToken,
		},
		{
			name:        "expired token",
			cookie:      "old",
			resolveWith: "old",
			resolveErr:  apperr.New(apperr.Unauthenticated, auth.MsgExpiredToken),
			wantStatus:  http.StatusUnauthorized,
			wantMsg:     auth.MsgExpiredToken,
		},
		{
			name:        "storage failure",
			cookie:      "tok",
			resolveWith: "tok",
			resolveErr:  errors.New("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMsg:     "internal server error",
		},
		{
			name:        "cookie is preferred over header",
			cookie:      "from-cookie",
			header:      "Bearer from-header",
			resolveWith: "from-cookie",
			resolveUser: ann,
			wantStatus:  http.StatusOK,
			wantCalled:  true,
		},
		{
			name:        "bearer header",
			header:      "Bearer from-header",
			resolveWith: "from-header",
			resolveUser: ann,
			wantStatus:  http.StatusOK,
			wantCalled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(ResolverMock)
			if tt.resolveWith != "" {
				resolver.On("ResolveToken", mock.Anything, tt.resolveWith).Return(tt.resolveUser, tt.resolveErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				user, ok := middlewarectx.UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, ann.UUID, user.UUID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/my-courses", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.Name, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middlewarectx.SessionMiddleware(sl.NewDiscardLogger(), resolver)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantMsg != "" {
				var got map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantMsg, got["message"])
			}
			resolver.AssertExpectations(t)
		})
	}
}

func TestOptionalSessionMiddleware(t *testing.T) {
	resolver := new(ResolverMock)
	resolver.On("ResolveToken", mock.Anything, "good").Return(ann, nil)
	resolver.On("ResolveToken", mock.Anything, "bad").
		Return(nil, apperr.New(apperr.Unauthenticated, auth.MsgInvalidToken))

	tests := []struct {
		name     string
		header   string
		wantUser bool
	}{
		{name: "anonymous", wantUser: false},
		{name: "valid session", header: "Bearer good", wantUser: true},
		{name: "invalid session continues anonymously", header: "Bearer bad", wantUser: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, gotUser = middlewarectx.UserFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/validate-promo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middlewarectx.OptionalSessionMiddleware(sl.NewDiscardLogger(), resolver)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := middlewarectx.UserFromContext(context.Background())
	assert.False(t, ok)
}
