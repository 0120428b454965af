package signup_test

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

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

type SignupServiceMock struct {
	mock.Mock
}

func (m *SignupServiceMock) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestSignupHandler(t *testing.T) {
	created := &models.User{UUID: "11111111-1111-1111-1111-111111111111", Email: "ann@example.com", Name: "Ann"}

	tests := []struct {
		name        string
		body        string
		mockErr     error
		callService bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "успешная регистрация",
			body:        `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			callService: true,
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered successfully",
		},
		{
			name:        "missing name",
			body:        `{"email":"ann@example.com","password":"Secret123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: auth.MsgSignupFieldsRequired,
		},
		{
			name:        "invalid email",
			body:        `{"name":"Ann","email":"ann-at-example","password":"Secret123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: auth.MsgInvalidEmail,
		},
		{
			name:        "weak password",
			body:        `{"name":"Ann","email":"ann@example.com","password":"secret123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must contain uppercase, lowercase, and numbers",
		},
		{
			name:        "email taken",
			body:        `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			mockErr:     apperr.New(apperr.Conflict, auth.MsgEmailTaken),
			callService: true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: auth.MsgEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SignupServiceMock)
			if tt.callService {
				user := created
				token := "tok"
				if tt.mockErr != nil {
					user, token = nil, ""
				}
				svc.On("Signup", mock.Anything, "Ann", "ann@example.com", "Secret123").Return(user, token, tt.mockErr).Once()
			}
			handler := signup.New(sl.NewDiscardLogger(), svc, cookie.Options{MaxAge: 7 * 24 * time.Hour})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, true, got["success"])
				assert.Equal(t, "tok", got["token"])
				require.Len(t, rec.Result().Cookies(), 1)
				assert.Equal(t, cookie.Name, rec.Result().Cookies()[0].Name)
			} else {
				assert.Equal(t, false, got["success"])
			}
			svc.AssertExpectations(t)
		})
	}
}
