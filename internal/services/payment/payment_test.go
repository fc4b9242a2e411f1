package payment

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

	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *RepoMock) GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error) {
	args := m.Called(ctx, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *RepoMock) GetMemberByID(ctx context.Context, id int) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *RepoMock) ApprovePayment(ctx context.Context, paymentID int, endDate time.Time) error {
	args := m.Called(ctx, paymentID, endDate)
	return args.Error(0)
}

func (m *RepoMock) RejectPayment(ctx context.Context, paymentID int) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *RepoMock) ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *RepoMock) ListAllPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckout(t *testing.T) {
	member := &models.Member{ID: 7, UID: "uid-7", Username: "alice"}
	plan := &models.Plan{ID: 2, Name: "Monthly", Price: 50, DurationDays: 30}

	tests := []struct {
		name       string
		req        models.DummyCheckout
		setupMocks func(repo *RepoMock)
		wantID     int
		wantErr    bool
	}{
		{
			name: "Успешное создание платежа",
			req:  models.DummyCheckout{PlanID: 2, Amount: 50, ReceiptReference: "rcpt-1"},
			setupMocks: func(repo *RepoMock) {
				repo.On("GetMemberByUID", mock.Anything, "uid-7").Return(member, nil)
				repo.On("ReadPlan", mock.Anything, 2).Return(plan, nil)
				repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
					return p.MemberID == 7 && p.Status == models.PaymentStatusPending &&
						p.PlanID != nil && *p.PlanID == 2 && p.ReceiptReference == "rcpt-1"
				})).Return(11, nil)
			},
			wantID: 11,
		},
		{
			name: "Ссылка на чек генерируется при пустом значении",
			req:  models.DummyCheckout{PlanID: 2, Amount: 50},
			setupMocks: func(repo *RepoMock) {
				repo.On("GetMemberByUID", mock.Anything, "uid-7").Return(member, nil)
				repo.On("ReadPlan", mock.Anything, 2).Return(plan, nil)
				repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
					return p.ReceiptReference != ""
				})).Return(12, nil)
			},
			wantID: 12,
		},
		{
			name: "Ошибка при неизвестном плане",
			req:  models.DummyCheckout{PlanID: 99, Amount: 50},
			setupMocks: func(repo *RepoMock) {
				repo.On("GetMemberByUID", mock.Anything, "uid-7").Return(member, nil)
				repo.On("ReadPlan", mock.Anything, 99).Return(nil, errors.New("plan not found"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, discardLogger())
			id, err := svc.Checkout(context.Background(), "uid-7", tt.req)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestApprove(t *testing.T) {
	planID := 2
	paidAt := time.Date(2025, 7, 30, 15, 42, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	pending := &models.Payment{
		ID: 5, MemberID: 7, PlanID: &planID, Amount: 50,
		PaidAt: paidAt, Status: models.PaymentStatusPending,
	}
	plan := &models.Plan{ID: 2, Name: "Monthly", DurationDays: 30}
	member := &models.Member{ID: 7, UID: "uid-7"}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock)
		wantUID    string
		wantErr    error
	}{
		{
			name: "Успешное подтверждение с расчетом даты окончания",
			setupMocks: func(repo *RepoMock) {
				repo.On("ReadPayment", mock.Anything, 5).Return(pending, nil)
				repo.On("ReadPlan", mock.Anything, 2).Return(plan, nil)
				repo.On("ApprovePayment", mock.Anything, 5, wantEnd).Return(nil)
				repo.On("GetMemberByID", mock.Anything, 7).Return(member, nil)
			},
			wantUID: "uid-7",
		},
		{
			name: "Платеж без плана не подтверждается",
			setupMocks: func(repo *RepoMock) {
				noPlan := *pending
				noPlan.PlanID = nil
				repo.On("ReadPayment", mock.Anything, 5).Return(&noPlan, nil)
			},
			wantErr: ErrPaymentWithoutPlan,
		},
		{
			name: "Платеж с несуществующим планом не подтверждается",
			setupMocks: func(repo *RepoMock) {
				repo.On("ReadPayment", mock.Anything, 5).Return(pending, nil)
				repo.On("ReadPlan", mock.Anything, 2).Return(nil, errors.New("plan not found"))
			},
			wantErr: ErrPaymentWithoutPlan,
		},
		{
			name: "Уже решенный платеж возвращает ошибку хранилища",
			setupMocks: func(repo *RepoMock) {
				repo.On("ReadPayment", mock.Anything, 5).Return(pending, nil)
				repo.On("ReadPlan", mock.Anything, 2).Return(plan, nil)
				repo.On("ApprovePayment", mock.Anything, 5, wantEnd).
					Return(repository.ErrPaymentNotPending)
			},
			wantErr: repository.ErrPaymentNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, discardLogger())
			uid, err := svc.Approve(context.Background(), 5)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestReject(t *testing.T) {
	planID := 2
	pending := &models.Payment{ID: 5, MemberID: 7, PlanID: &planID, Status: models.PaymentStatusPending}
	member := &models.Member{ID: 7, UID: "uid-7"}

	t.Run("Успешное отклонение", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadPayment", mock.Anything, 5).Return(pending, nil)
		repo.On("RejectPayment", mock.Anything, 5).Return(nil)
		repo.On("GetMemberByID", mock.Anything, 7).Return(member, nil)

		svc := New(repo, discardLogger())
		uid, err := svc.Reject(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "uid-7", uid)
		repo.AssertExpectations(t)
	})

	t.Run("Уже решенный платеж возвращает ошибку хранилища", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadPayment", mock.Anything, 5).Return(pending, nil)
		repo.On("RejectPayment", mock.Anything, 5).Return(repository.ErrPaymentNotPending)

		svc := New(repo, discardLogger())
		_, err := svc.Reject(context.Background(), 5)

		require.ErrorIs(t, err, repository.ErrPaymentNotPending)
	})
}

func TestList(t *testing.T) {
	member := &models.Member{ID: 7, UID: "uid-7"}
	own := []models.Payment{{ID: 1, MemberID: 7}}
	all := []models.Payment{{ID: 1, MemberID: 7}, {ID: 2, MemberID: 8}}

	t.Run("Участник видит только свои платежи", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetMemberByUID", mock.Anything, "uid-7").Return(member, nil)
		repo.On("ListPaymentsByMember", mock.Anything, 7).Return(own, nil)

		svc := New(repo, discardLogger())
		got, err := svc.List(context.Background(), "uid-7", models.RoleMember, 10, 0)

		require.NoError(t, err)
		assert.Equal(t, own, got)
	})

	t.Run("Администратор видит все платежи", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllPayments", mock.Anything, 10, 0).Return(all, nil)

		svc := New(repo, discardLogger())
		got, err := svc.List(context.Background(), "uid-admin", models.RoleAdmin, 10, 0)

		require.NoError(t, err)
		assert.Equal(t, all, got)
	})

	t.Run("Ошибка хранилища оборачивается операцией", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllPayments", mock.Anything, 10, 0).
			Return(nil, errors.New("connection refused"))

		svc := New(repo, discardLogger())
		_, err := svc.List(context.Background(), "uid-admin", models.RoleAdmin, 10, 0)

		require.Error(t, err)
		assert.ErrorContains(t, err, "services.payment.List")
	})
}
