package planlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Хранилище обязано удовлетворять интерфейсу обработчика.
var _ Service = (*repository.Storage)(nil)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPlanListHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Успешное получение списка планов",
			setupMocks: func(s *MockService) {
				s.On("ListPlans", mock.Anything).Return([]*models.Plan{
					{ID: 1, Name: "Monthly", Price: 2500, DurationDays: 30},
					{ID: 2, Name: "Annual", Price: 20000, DurationDays: 365},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":[{"id":1,"name":"Monthly","price":2500,"duration_days":30},{"id":2,"name":"Annual","price":20000,"duration_days":365}]}`,
		},
		{
			name: "Пустой справочник планов",
			setupMocks: func(s *MockService) {
				s.On("ListPlans", mock.Anything).Return([]*models.Plan{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":[]}`,
		},
		{
			name: "Ошибка хранилища",
			setupMocks: func(s *MockService) {
				s.On("ListPlans", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to list plans"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)

			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodGet, "/plans", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
