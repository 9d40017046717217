package normalizer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/envelope-engine/internal/domain"
	"github.com/simaogato/envelope-engine/internal/usecase/period"
)

// Normalized carries the two framings of a fund's budget: the
// monthly-normalized figure used for overspend math and the raw
// single-period figure used where period-relative framing is required.
type Normalized struct {
	MonthlyBudget       decimal.Decimal
	CurrentPeriodBudget decimal.Decimal
}

// Normalize converts a fund's per-period budgeted amount into its
// monthly-normalized equivalent.
// Logic:
//  1. Pick the mode's monthly multiplier (WEEKLY: weeks overlapping the
//     current month, BIMONTHLY: 2, MONTHLY and EVENTUALLY: 1)
//  2. Apply first-period proration for funds created in the current month
//  3. MonthlyBudget = BudgetedAmount * multiplier; CurrentPeriodBudget is
//     the un-normalized BudgetedAmount
//
// Intermediate values are never rounded; only display formatting rounds.
func Normalize(fund *domain.Fund, now time.Time) (Normalized, error) {
	multiplier, err := monthlyMultiplier(fund, now)
	if err != nil {
		return Normalized{}, err
	}

	return Normalized{
		MonthlyBudget:       fund.BudgetedAmount.Mul(decimal.NewFromInt(int64(multiplier))),
		CurrentPeriodBudget: fund.BudgetedAmount,
	}, nil
}

// monthlyMultiplier returns how many periods of this fund's mode fit in the
// current month, after first-period proration.
func monthlyMultiplier(fund *domain.Fund, now time.Time) (int, error) {
	switch fund.TimeMode {
	case domain.TimeModeWeekly:
		weeks := period.WeeksInMonth(now)
		if period.SameMonth(fund.CreatedAt, now) {
			// Funds created this month only earn budget from their
			// creation week to month end; funds created in a previous
			// month keep the full week count (no back-budget either way).
			weeks = weeks - period.WeekOfMonth(fund.CreatedAt) + 1
		}
		return weeks, nil

	case domain.TimeModeBimonthly:
		if period.SameMonth(fund.CreatedAt, now) &&
			float64(fund.CreatedAt.Day()) > float64(period.DaysInMonth(now))/2 {
			// Fractional midpoint: in a 29-day month the boundary sits at
			// 14.5, so a day-15 creation prorates even though the period
			// resolver keeps day 15 in the first half. Kept as-is pending
			// product review.
			return 1, nil
		}
		return 2, nil

	case domain.TimeModeMonthly:
		return 1, nil

	case domain.TimeModeEventually:
		// Goal amount taken as-is, no monthly framing
		return 1, nil

	default:
		return 0, fmt.Errorf("unhandled time mode: %s", fund.TimeMode)
	}
}
