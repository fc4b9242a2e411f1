package paymentcheckout

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

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Checkout(ctx context.Context, memberUID string, req models.DummyCheckout) (int, error) {
	args := m.Called(ctx, memberUID, req)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckoutHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyCheckout{PlanID: 2, Amount: 50, ReceiptReference: "rcpt-1"}

	tests := []struct {
		name           string
		requestBody    interface{}
		memberUID      string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Успешное создание платежа",
			requestBody: validReq,
			memberUID:   "uid-7",
			setupMocks: func(s *MockService) {
				s.On("Checkout", mock.Anything, "uid-7", validReq).Return(11, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"payment_id":11,"status":"pending"}}`,
		},
		{
			name:           "Некорректный JSON",
			requestBody:    "not a json",
			memberUID:      "uid-7",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "Нулевая сумма не проходит валидацию",
			requestBody:    models.DummyCheckout{PlanID: 2},
			memberUID:      "uid-7",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Amount is a required field"}`,
		},
		{
			name:           "UID отсутствует в контексте",
			requestBody:    validReq,
			memberUID:      "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "Ошибка сервиса",
			requestBody: validReq,
			memberUID:   "uid-7",
			setupMocks: func(s *MockService) {
				s.On("Checkout", mock.Anything, "uid-7", validReq).Return(0, errors.New("plan not found")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to create payment"}`,
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

			req := httptest.NewRequest(http.MethodPost, "/payments", &body)
			if tt.memberUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.MemberUID, tt.memberUID)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
