package member

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

	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error) {
	args := m.Called(ctx, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *RepoMock) ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *RepoMock) UpdateMembershipEndDate(ctx context.Context, memberID int, endDate time.Time) error {
	args := m.Called(ctx, memberID, endDate)
	return args.Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate_WriteBackOnDrift(t *testing.T) {
	planID := 1
	stale := date(2024, 1, 1)
	member := &models.Member{
		ID:                1,
		UID:               "uid-1",
		SelectedPlanID:    &planID,
		MembershipEndDate: &stale,
	}

	repo := new(RepoMock)
	repo.On("ListPaymentsByMember", mock.Anything, 1).Return([]models.Payment{
		{ID: 1, MemberID: 1, PlanID: &planID, PaidAt: date(2025, 7, 30), Status: models.PaymentStatusApproved},
	}, nil)
	repo.On("ReadPlan", mock.Anything, planID).
		Return(&models.Plan{ID: planID, Name: "Standard", DurationDays: 30}, nil)
	repo.On("UpdateMembershipEndDate", mock.Anything, 1, date(2025, 8, 29)).Return(nil)

	svc := New(repo, new(CacheMock), discardLogger())
	svc.now = func() time.Time { return date(2025, 8, 29) }

	eval, err := svc.Evaluate(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, membership.StateActive, eval.State)
	repo.AssertExpectations(t)
}

func TestEvaluate_NoWriteBackWhenFresh(t *testing.T) {
	planID := 1
	fresh := date(2025, 8, 29)
	member := &models.Member{
		ID:                1,
		UID:               "uid-1",
		SelectedPlanID:    &planID,
		MembershipEndDate: &fresh,
	}

	repo := new(RepoMock)
	repo.On("ListPaymentsByMember", mock.Anything, 1).Return([]models.Payment{
		{ID: 1, MemberID: 1, PlanID: &planID, PaidAt: date(2025, 7, 30), Status: models.PaymentStatusApproved},
	}, nil)
	repo.On("ReadPlan", mock.Anything, planID).
		Return(&models.Plan{ID: planID, Name: "Standard", DurationDays: 30}, nil)

	svc := New(repo, new(CacheMock), discardLogger())
	svc.now = func() time.Time { return date(2025, 8, 20) }

	_, err := svc.Evaluate(context.Background(), member)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateMembershipEndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluate_WriteBackErrorDoesNotFail(t *testing.T) {
	planID := 1
	member := &models.Member{ID: 1, UID: "uid-1", SelectedPlanID: &planID}

	repo := new(RepoMock)
	repo.On("ListPaymentsByMember", mock.Anything, 1).Return([]models.Payment{
		{ID: 1, MemberID: 1, PlanID: &planID, PaidAt: date(2025, 8, 1), Status: models.PaymentStatusApproved},
	}, nil)
	repo.On("ReadPlan", mock.Anything, planID).
		Return(&models.Plan{ID: planID, Name: "Standard", DurationDays: 30}, nil)
	repo.On("UpdateMembershipEndDate", mock.Anything, 1, mock.Anything).
		Return(errors.New("database error"))

	svc := New(repo, new(CacheMock), discardLogger())
	svc.now = func() time.Time { return date(2025, 8, 10) }

	eval, err := svc.Evaluate(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, membership.StateActive, eval.State)
}

func TestEvaluate_UnknownPlanFallsBackToStored(t *testing.T) {
	planID := 99
	stored := date(2025, 9, 15)
	member := &models.Member{
		ID:                2,
		UID:               "uid-2",
		SelectedPlanID:    &planID,
		MembershipEndDate: &stored,
	}

	repo := new(RepoMock)
	repo.On("ListPaymentsByMember", mock.Anything, 2).Return([]models.Payment{
		{ID: 1, MemberID: 2, PlanID: &planID, PaidAt: date(2025, 8, 15), Status: models.PaymentStatusApproved},
	}, nil)
	repo.On("ReadPlan", mock.Anything, planID).Return(nil, errors.New("sql: no rows in result set"))

	svc := New(repo, new(CacheMock), discardLogger())
	svc.now = func() time.Time { return date(2025, 8, 29) }

	eval, err := svc.Evaluate(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, membership.StateActive, eval.State)
	require.NotNil(t, eval.EffectiveEndDate)
	assert.True(t, stored.Equal(*eval.EffectiveEndDate))
}

func TestGetProfile_CacheHit(t *testing.T) {
	cache := new(CacheMock)
	cache.On("Get", "member:uid-1:profile", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**Profile)
			*ptr = &Profile{Username: "ivan", State: "active", DisplayStatus: "Active Membership"}
		}).
		Return(true, nil)

	repo := new(RepoMock)
	svc := New(repo, cache, discardLogger())

	profile, err := svc.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "ivan", profile.Username)
	repo.AssertNotCalled(t, "GetMemberByUID", mock.Anything, mock.Anything)
}

func TestGetProfile_CacheMiss(t *testing.T) {
	planID := 1
	member := &models.Member{
		ID:             1,
		UID:            "uid-1",
		Username:       "ivan",
		Email:          "ivan@example.com",
		SelectedPlanID: &planID,
	}

	cache := new(CacheMock)
	cache.On("Get", "member:uid-1:profile", mock.Anything).Return(false, nil)
	cache.On("Set", "member:uid-1:profile", mock.Anything, 5*time.Minute).Return(nil)

	repo := new(RepoMock)
	repo.On("GetMemberByUID", mock.Anything, "uid-1").Return(member, nil)
	repo.On("ListPaymentsByMember", mock.Anything, 1).Return([]models.Payment{
		{ID: 1, MemberID: 1, PlanID: &planID, PaidAt: date(2025, 8, 25), Status: models.PaymentStatusPending},
	}, nil)
	repo.On("ReadPlan", mock.Anything, planID).
		Return(&models.Plan{ID: planID, Name: "Standard", DurationDays: 30}, nil)

	svc := New(repo, cache, discardLogger())
	svc.now = func() time.Time { return date(2025, 8, 29) }

	profile, err := svc.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Payment Pending - awaiting admin approval", profile.DisplayStatus)
	assert.Equal(t, string(membership.StatePendingApproval), profile.State)
	assert.Equal(t, "Standard", profile.PlanName)
	cache.AssertExpectations(t)
}
