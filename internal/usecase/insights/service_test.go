package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/envelope-engine/internal/domain"
	"github.com/simaogato/envelope-engine/internal/usecase/alerts"
)

// MockFundRepository is a mock implementation of FundRepository for testing
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundRepository) List(ctx context.Context) ([]*domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Fund), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SumForFund(ctx context.Context, fundID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fundID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) ListForFund(ctx context.Context, fundID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	args := m.Called(ctx, fundID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyFund(name string, budgeted int64) *domain.Fund {
	return &domain.Fund{
		ID:             uuid.New(),
		Name:           name,
		FundType:       domain.FundTypeSpending,
		TimeMode:       domain.TimeModeMonthly,
		BudgetedAmount: decimal.NewFromInt(budgeted),
		CreatedAt:      date(2023, time.June, 1),
	}
}

func TestBuildMonthlyInsights(t *testing.T) {
	ctx := context.Background()
	mockFundRepo := new(MockFundRepository)
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockFundRepo, mockTxRepo)

	now := date(2024, time.March, 20)
	monthStart := date(2024, time.March, 1)
	nextMonthStart := date(2024, time.April, 1)
	prevMonthStart := date(2024, time.February, 1)

	overspentFund := monthlyFund("Eating Out", 500)  // spent 700: overspent by 200
	atRiskFund := monthlyFund("Groceries", 1000)     // spent 950: 95%, warning
	onTrackFund := monthlyFund("Transport", 300)     // spent 100: on track
	goalFund := &domain.Fund{                        // standing goal, summed all-time
		ID:             uuid.New(),
		Name:           "New Bike",
		FundType:       domain.FundTypeTarget,
		TimeMode:       domain.TimeModeEventually,
		BudgetedAmount: decimal.NewFromInt(3000),
		CreatedAt:      date(2023, time.June, 1),
	}

	mockFundRepo.On("List", ctx).
		Return([]*domain.Fund{overspentFund, atRiskFund, onTrackFund, goalFund}, nil)

	mockTxRepo.On("SumForFund", ctx, overspentFund.ID, monthStart, nextMonthStart).
		Return(decimal.NewFromInt(700), nil)
	mockTxRepo.On("SumForFund", ctx, atRiskFund.ID, monthStart, nextMonthStart).
		Return(decimal.NewFromInt(950), nil)
	mockTxRepo.On("SumForFund", ctx, onTrackFund.ID, monthStart, nextMonthStart).
		Return(decimal.NewFromInt(100), nil)
	mockTxRepo.On("SumForFund", ctx, goalFund.ID, time.Time{}, nextMonthStart).
		Return(decimal.NewFromInt(1200), nil)

	// Previous month: periodic funds only
	mockTxRepo.On("SumForFund", ctx, overspentFund.ID, prevMonthStart, monthStart).
		Return(decimal.NewFromInt(400), nil)
	mockTxRepo.On("SumForFund", ctx, atRiskFund.ID, prevMonthStart, monthStart).
		Return(decimal.NewFromInt(800), nil)
	mockTxRepo.On("SumForFund", ctx, onTrackFund.ID, prevMonthStart, monthStart).
		Return(decimal.NewFromInt(200), nil)

	result, err := service.BuildMonthlyInsights(ctx, now, decimal.NewFromInt(90))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, now, result.GeneratedAt)

	// Health: Eating Out overspent, Groceries at risk, Transport and the
	// goal fund on track
	assert.Equal(t, 1, result.Health.Overspent)
	assert.Equal(t, 1, result.Health.AtRisk)
	assert.Equal(t, 2, result.Health.OnTrack)

	// Alerts: critical for Eating Out, warning for Groceries
	require.Len(t, result.Alerts, 2)
	assert.Equal(t, "Eating Out", result.Alerts[0].FundName)
	assert.Equal(t, alerts.SeverityCritical, result.Alerts[0].Severity)
	assert.Equal(t, "Groceries", result.Alerts[1].FundName)
	assert.Equal(t, alerts.SeverityWarning, result.Alerts[1].Severity)

	// Top overspent: only Eating Out has a nonzero overspend
	require.Len(t, result.TopOverspent, 1)
	assert.Equal(t, "Eating Out", result.TopOverspent[0].FundName)
	assert.True(t, result.TopOverspent[0].Amount.Equal(decimal.NewFromInt(200)))

	// Top leftover: goal fund leads with 1800 remaining, then Transport
	// with 200, then Groceries with 50
	require.Len(t, result.TopLeftover, 3)
	assert.Equal(t, "New Bike", result.TopLeftover[0].FundName)
	assert.True(t, result.TopLeftover[0].Amount.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, "Transport", result.TopLeftover[1].FundName)
	assert.Equal(t, "Groceries", result.TopLeftover[2].FundName)

	// Month over month: 1750 now vs 1400 before = +25%
	assert.True(t, result.MonthOverMonth.CurrentSpent.Equal(decimal.NewFromInt(1750)))
	assert.True(t, result.MonthOverMonth.PreviousSpent.Equal(decimal.NewFromInt(1400)))
	assert.True(t, result.MonthOverMonth.ChangePercent.Equal(decimal.NewFromInt(25)),
		"got %s", result.MonthOverMonth.ChangePercent)

	mockFundRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestBuildMonthlyInsights_NoPreviousSpendMeansZeroChange(t *testing.T) {
	ctx := context.Background()
	mockFundRepo := new(MockFundRepository)
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockFundRepo, mockTxRepo)

	now := date(2024, time.March, 20)
	f := monthlyFund("Groceries", 1000)

	mockFundRepo.On("List", ctx).Return([]*domain.Fund{f}, nil)
	mockTxRepo.On("SumForFund", ctx, f.ID, date(2024, time.March, 1), date(2024, time.April, 1)).
		Return(decimal.NewFromInt(100), nil)
	mockTxRepo.On("SumForFund", ctx, f.ID, date(2024, time.February, 1), date(2024, time.March, 1)).
		Return(decimal.Zero, nil)

	result, err := service.BuildMonthlyInsights(ctx, now, decimal.NewFromInt(90))

	require.NoError(t, err)
	assert.True(t, result.MonthOverMonth.ChangePercent.Equal(decimal.Zero))
}

func TestBuildMonthlyInsights_TopListsCappedAtThree(t *testing.T) {
	ctx := context.Background()
	mockFundRepo := new(MockFundRepository)
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockFundRepo, mockTxRepo)

	now := date(2024, time.March, 20)
	monthStart := date(2024, time.March, 1)
	nextMonthStart := date(2024, time.April, 1)
	prevMonthStart := date(2024, time.February, 1)

	funds := make([]*domain.Fund, 0, 5)
	for i, spent := range []int64{150, 350, 250, 450, 50} {
		f := monthlyFund("Fund", 100)
		f.Name = string(rune('A' + i))
		funds = append(funds, f)

		mockTxRepo.On("SumForFund", ctx, f.ID, monthStart, nextMonthStart).
			Return(decimal.NewFromInt(spent), nil)
		mockTxRepo.On("SumForFund", ctx, f.ID, prevMonthStart, monthStart).
			Return(decimal.Zero, nil)
	}
	mockFundRepo.On("List", ctx).Return(funds, nil)

	result, err := service.BuildMonthlyInsights(ctx, now, decimal.NewFromInt(90))

	require.NoError(t, err)

	// Overspends are 50, 250, 150, 350 and 0 — top three descending
	require.Len(t, result.TopOverspent, 3)
	assert.Equal(t, "D", result.TopOverspent[0].FundName)
	assert.True(t, result.TopOverspent[0].Amount.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, "B", result.TopOverspent[1].FundName)
	assert.Equal(t, "C", result.TopOverspent[2].FundName)
}

func TestBuildMonthlyInsights_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()
	mockFundRepo := new(MockFundRepository)
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockFundRepo, mockTxRepo)

	mockFundRepo.On("List", ctx).Return(nil, errors.New("connection refused"))

	_, err := service.BuildMonthlyInsights(ctx, date(2024, time.March, 20), decimal.NewFromInt(90))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list funds")
}
