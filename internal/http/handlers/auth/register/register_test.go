package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyRegister{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "supersecret",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Успешная регистрация",
			requestBody: validReq,
			setupMocks: func(s *MockService) {
				s.On("Register", mock.Anything, validReq).Return("uid-7", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"member_uid":"uid-7","username":"alice"}}`,
		},
		{
			name:           "Некорректный JSON",
			requestBody:    "not a json",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "Слишком короткий пароль",
			requestBody: models.DummyRegister{
				Email:    "alice@example.com",
				Username: "alice",
				Password: "short",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Password is too short"}`,
		},
		{
			name: "Некорректная почта",
			requestBody: models.DummyRegister{
				Email:    "not-an-email",
				Username: "alice",
				Password: "supersecret",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email must be a valid email address"}`,
		},
		{
			name:        "Ошибка сервиса",
			requestBody: validReq,
			setupMocks: func(s *MockService) {
				s.On("Register", mock.Anything, validReq).Return("", errors.New("duplicate username")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register member"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)

			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				_ = json.NewEncoder(&body).Encode(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/register", &body)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
