package pace

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/envelope-engine/internal/domain"
	"github.com/simaogato/envelope-engine/internal/usecase/normalizer"
	"github.com/simaogato/envelope-engine/internal/usecase/period"
)

// Projection describes an over-pace spending trajectory. It only exists
// when a warning is warranted, so IsOverPace is always true on a non-nil
// result; the field is kept so callers can pass the struct around without
// re-deriving the condition.
type Projection struct {
	DailyRate        decimal.Decimal
	Projected        decimal.Decimal // DailyRate extrapolated over the full period
	SustainableDaily decimal.Decimal // what can still be spent per remaining day, floored at 0
	DaysLeft         int
	IsOverPace       bool
}

// Project extrapolates the current spend rate to a full-period projection.
// Returns nil for EVENTUALLY funds, which have no pace concept, and nil
// when the projection stays within budget — callers must not render a pace
// warning in either case.
// Logic:
//  1. dailyRate = spent / daysElapsed (0 when no days have elapsed)
//  2. projected = dailyRate * daysTotal
//  3. over pace only if projected > monthly-normalized budget
//  4. sustainableDaily = max(budget - spent, 0) / daysLeft (0 on the
//     period's last day)
func Project(fund *domain.Fund, spent decimal.Decimal, now time.Time) (*Projection, error) {
	if fund.TimeMode == domain.TimeModeEventually {
		return nil, nil
	}

	p, err := period.Resolve(fund.TimeMode, now)
	if err != nil {
		return nil, err
	}

	norm, err := normalizer.Normalize(fund, now)
	if err != nil {
		return nil, err
	}

	dailyRate := decimal.Zero
	if p.DaysElapsed > 0 {
		dailyRate = spent.Div(decimal.NewFromInt(int64(p.DaysElapsed)))
	}

	projected := dailyRate.Mul(decimal.NewFromInt(int64(p.DaysTotal)))
	if !projected.GreaterThan(norm.MonthlyBudget) {
		// On or under pace: no warning needed
		return nil, nil
	}

	remaining := norm.MonthlyBudget.Sub(spent)
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}

	daysLeft := p.DaysTotal - p.DaysElapsed
	sustainableDaily := decimal.Zero
	if daysLeft > 0 {
		sustainableDaily = remaining.Div(decimal.NewFromInt(int64(daysLeft)))
	}

	return &Projection{
		DailyRate:        dailyRate,
		Projected:        projected,
		SustainableDaily: sustainableDaily,
		DaysLeft:         daysLeft,
		IsOverPace:       true,
	}, nil
}
