package sender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect(ctx context.Context) (smtp.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) From() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	return m.Called().Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const eventJSON = `{"subscription_id":"s1","user_uid":"u1","email":"learner@example.com","name":"Ann",` +
	`"course_id":"c1","course_title":"Cloud Security Essentials","price_paid":90,"promo_code_used":"BFSALE25",` +
	`"subscribed_at":"2025-11-28T12:00:00Z"}`

func TestSenderService_HandleEnrollment(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
	}{
		{
			name: "success",
			body: []byte(eventJSON),
			setupMocks: func(tr *MockTransport) {
				client := new(MockSMTPClient)
				writer := new(MockSMTPWriter)
				tr.On("From").Return("no-reply@coursehub.local")
				tr.On("Connect", mock.Anything).Return(client, nil).Once()
				client.On("Mail", "no-reply@coursehub.local").Return(nil).Once()
				client.On("Rcpt", "learner@example.com").Return(nil).Once()
				client.On("Data").Return(writer, nil).Once()
				writer.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				writer.On("Close").Return(nil).Once()
				client.On("Quit").Return(nil).Once()
				client.On("Close").Return(nil).Once()
			},
		},
		{
			name:       "malformed json is dropped",
			body:       []byte(`{invalid`),
			setupMocks: func(_ *MockTransport) {},
		},
		{
			name:       "missing email is dropped",
			body:       []byte(`{"course_title":"x"}`),
			setupMocks: func(_ *MockTransport) {},
		},
		{
			name: "connect failure is retried",
			body: []byte(eventJSON),
			setupMocks: func(tr *MockTransport) {
				tr.On("From").Return("no-reply@coursehub.local")
				tr.On("Connect", mock.Anything).Return(nil, errors.New("dial tcp: refused")).Once()
			},
			expectedError: true,
		},
		{
			name: "rcpt failure",
			body: []byte(eventJSON),
			setupMocks: func(tr *MockTransport) {
				client := new(MockSMTPClient)
				tr.On("From").Return("no-reply@coursehub.local")
				tr.On("Connect", mock.Anything).Return(client, nil).Once()
				client.On("Mail", "no-reply@coursehub.local").Return(nil).Once()
				client.On("Rcpt", "learner@example.com").Return(errors.New("550 no such user")).Once()
				client.On("Close").Return(nil).Once()
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			tt.setupMocks(tr)
			s := NewSenderService(newNoopLogger(), tr)

			err := s.HandleEnrollment(context.Background(), tt.body)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			tr.AssertExpectations(t)
		})
	}
}

func TestSenderService_MessageContent(t *testing.T) {
	tr := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockSMTPWriter)
	tr.On("From").Return("no-reply@coursehub.local")
	tr.On("Connect", mock.Anything).Return(client, nil)
	client.On("Mail", mock.Anything).Return(nil)
	client.On("Rcpt", mock.Anything).Return(nil)
	client.On("Data").Return(writer, nil)
	writer.On("Write", mock.Anything).Return(0, nil)
	writer.On("Close").Return(nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	s := NewSenderService(newNoopLogger(), tr)
	require.NoError(t, s.HandleEnrollment(context.Background(), []byte(eventJSON)))

	msg := string(writer.written)
	assert.Contains(t, msg, "To: learner@example.com")
	assert.Contains(t, msg, "Subject: You are enrolled in Cloud Security Essentials")
	assert.Contains(t, msg, "Amount paid: $90.00 (promo code BFSALE25 applied)")
}

func TestEnrollmentBody_FreeCourse(t *testing.T) {
	body := EnrollmentBody(models.EnrollmentEvent{
		Name:         "Ann",
		CourseTitle:  "Cybersecurity Fundamentals",
		SubscribedAt: time.Date(2025, 11, 28, 12, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, body, "This course is free.")
	assert.Contains(t, body, "2025-11-28 12:00 UTC")
}
