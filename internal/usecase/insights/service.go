package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/envelope-engine/internal/domain"
	"github.com/simaogato/envelope-engine/internal/usecase/alerts"
	"github.com/simaogato/envelope-engine/internal/usecase/envelope"
)

// topFundLimit caps the highlighted fund lists in the payload
const topFundLimit = 3

// FundAmount pairs a fund with a single highlighted amount
type FundAmount struct {
	FundID   uuid.UUID
	FundName string
	Amount   decimal.Decimal
}

// Health counts funds by envelope state
type Health struct {
	OnTrack   int
	AtRisk    int
	Overspent int
}

// MonthOverMonth compares this month's total spend with the previous full
// calendar month.
type MonthOverMonth struct {
	CurrentSpent  decimal.Decimal
	PreviousSpent decimal.Decimal
	ChangePercent decimal.Decimal // 0 when the previous month had no spend
}

// MonthlyInsights is the precomputed payload handed to the external
// summary text service.
type MonthlyInsights struct {
	GeneratedAt    time.Time
	Health         Health
	TopOverspent   []FundAmount
	TopLeftover    []FundAmount
	MonthOverMonth MonthOverMonth
	Alerts         []alerts.BudgetAlert
}

// Service aggregates evaluated envelopes into the insights payload
type Service struct {
	FundRepo        domain.FundRepository
	TransactionRepo domain.TransactionRepository
}

// NewService creates a new insights Service instance
func NewService(fundRepo domain.FundRepository, transactionRepo domain.TransactionRepository) *Service {
	return &Service{
		FundRepo:        fundRepo,
		TransactionRepo: transactionRepo,
	}
}

// BuildMonthlyInsights evaluates every fund at the instant now and
// aggregates the results.
// Logic:
//  1. List funds and sum each fund's spend for the month containing now
//     (EVENTUALLY goals sum from the beginning of time instead — a
//     standing goal accumulates across months)
//  2. Evaluate each envelope and classify alerts at thresholdPercent
//  3. Health buckets: Overspent = completed period-based funds, AtRisk =
//     warning-severity funds, OnTrack = everything else
//  4. Top overspent/leftover funds by descending magnitude, capped at 3
//  5. Month-over-month totals against the previous full calendar month
func (s *Service) BuildMonthlyInsights(ctx context.Context, now time.Time, thresholdPercent decimal.Decimal) (*MonthlyInsights, error) {
	funds, err := s.FundRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonthStart := monthStart.AddDate(0, 1, 0)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	entries := make([]alerts.FundEnvelope, 0, len(funds))
	overspentFunds := make([]FundAmount, 0)
	leftoverFunds := make([]FundAmount, 0)
	health := Health{}
	currentSpent := decimal.Zero
	previousSpent := decimal.Zero

	for _, fund := range funds {
		from := monthStart
		if fund.TimeMode == domain.TimeModeEventually {
			from = time.Time{}
		}

		spent, err := s.TransactionRepo.SumForFund(ctx, fund.ID, from, nextMonthStart)
		if err != nil {
			return nil, fmt.Errorf("failed to sum spend for fund %s: %w", fund.ID, err)
		}

		ev, err := envelope.Evaluate(fund, spent, now)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate fund %s: %w", fund.ID, err)
		}

		entries = append(entries, alerts.FundEnvelope{
			FundID:    fund.ID,
			FundName:  fund.Name,
			Evaluated: ev,
		})

		if ev.Overspent.GreaterThan(decimal.Zero) {
			overspentFunds = append(overspentFunds, FundAmount{FundID: fund.ID, FundName: fund.Name, Amount: ev.Overspent})
		}
		if ev.Remaining.GreaterThan(decimal.Zero) {
			leftoverFunds = append(leftoverFunds, FundAmount{FundID: fund.ID, FundName: fund.Name, Amount: ev.Remaining})
		}

		// Month-over-month tracks period spend only; all-time goal sums
		// would distort the comparison
		if fund.TimeMode != domain.TimeModeEventually {
			currentSpent = currentSpent.Add(spent)

			prevSpent, err := s.TransactionRepo.SumForFund(ctx, fund.ID, prevMonthStart, monthStart)
			if err != nil {
				return nil, fmt.Errorf("failed to sum previous-month spend for fund %s: %w", fund.ID, err)
			}
			previousSpent = previousSpent.Add(prevSpent)
		}
	}

	alertList := alerts.Classify(entries, thresholdPercent)

	for _, e := range entries {
		switch {
		case e.Evaluated.IsCompleted && e.Evaluated.PeriodDaysTotal > 0:
			health.Overspent++
		case hasWarning(alertList, e.FundID):
			health.AtRisk++
		default:
			health.OnTrack++
		}
	}

	return &MonthlyInsights{
		GeneratedAt:    now,
		Health:         health,
		TopOverspent:   topByAmount(overspentFunds),
		TopLeftover:    topByAmount(leftoverFunds),
		MonthOverMonth: monthOverMonth(currentSpent, previousSpent),
		Alerts:         alertList,
	}, nil
}

func hasWarning(alertList []alerts.BudgetAlert, fundID uuid.UUID) bool {
	for _, a := range alertList {
		if a.FundID == fundID && a.Severity == alerts.SeverityWarning {
			return true
		}
	}
	return false
}

// topByAmount sorts descending by amount and truncates to topFundLimit
func topByAmount(funds []FundAmount) []FundAmount {
	sort.SliceStable(funds, func(i, j int) bool {
		return funds[i].Amount.GreaterThan(funds[j].Amount)
	})
	if len(funds) > topFundLimit {
		funds = funds[:topFundLimit]
	}
	return funds
}

func monthOverMonth(current, previous decimal.Decimal) MonthOverMonth {
	change := decimal.Zero
	if previous.GreaterThan(decimal.Zero) {
		change = current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	}
	return MonthOverMonth{
		CurrentSpent:  current,
		PreviousSpent: previous,
		ChangePercent: change,
	}
}
