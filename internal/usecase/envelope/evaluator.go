package envelope

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/envelope-engine/internal/domain"
	"github.com/simaogato/envelope-engine/internal/usecase/normalizer"
	"github.com/simaogato/envelope-engine/internal/usecase/period"
)

// Evaluated is the engine's principal output: a framing-agnostic numeric
// snapshot of a fund's envelope at a given instant. It is recomputed on
// every read and never stored; presentation chooses the wording.
type Evaluated struct {
	MonthlyBudget       decimal.Decimal
	CurrentPeriodBudget decimal.Decimal
	Spent               decimal.Decimal
	Remaining           decimal.Decimal // max(MonthlyBudget - Spent, 0)
	Overspent           decimal.Decimal // max(Spent - MonthlyBudget, 0); a TARGET surplus is reported here, not clamped away
	WeeklyOverspent     decimal.Decimal // WEEKLY funds only: overspend against the weeks elapsed so far, zero otherwise
	Progress            decimal.Decimal // Spent / MonthlyBudget clamped to [0, 1]; 0 when the budget is 0
	IsCompleted         bool
	IsPaid              bool // NON_NEGOTIABLE only: PaidAt falls within the current period
	PeriodDaysElapsed   int
	PeriodDaysTotal     int
}

// Evaluate combines a fund's normalized budget with its aggregated spend.
// Logic:
//  1. Normalize the budget (monthly + current-period framings)
//  2. Remaining and Overspent via max-zero clamps (never both nonzero)
//  3. Progress = Spent / MonthlyBudget clamped to [0, 1]; a zero budget
//     yields 0 rather than a division error
//  4. IsCompleted once Spent >= MonthlyBudget (for NON_NEGOTIABLE this
//     means "funded" regardless of elapsed time)
//  5. NON_NEGOTIABLE: derive IsPaid from PaidAt against the current
//     period's start, so a prior period's payment never reads as current
//  6. WEEKLY: additionally compute the tighter week-scaled overspend;
//     both figures are exposed and callers choose which to display
//
// spent is the pre-aggregated total supplied by the query layer; now is
// always caller-supplied so evaluation stays deterministic.
func Evaluate(fund *domain.Fund, spent decimal.Decimal, now time.Time) (Evaluated, error) {
	norm, err := normalizer.Normalize(fund, now)
	if err != nil {
		return Evaluated{}, err
	}

	p, err := period.Resolve(fund.TimeMode, now)
	if err != nil {
		return Evaluated{}, err
	}

	ev := Evaluated{
		MonthlyBudget:       norm.MonthlyBudget,
		CurrentPeriodBudget: norm.CurrentPeriodBudget,
		Spent:               spent,
		Remaining:           maxZero(norm.MonthlyBudget.Sub(spent)),
		Overspent:           maxZero(spent.Sub(norm.MonthlyBudget)),
		WeeklyOverspent:     decimal.Zero,
		Progress:            decimal.Zero,
		IsCompleted:         spent.GreaterThanOrEqual(norm.MonthlyBudget),
		PeriodDaysElapsed:   p.DaysElapsed,
		PeriodDaysTotal:     p.DaysTotal,
	}

	if norm.MonthlyBudget.GreaterThan(decimal.Zero) {
		ev.Progress = clampUnit(spent.Div(norm.MonthlyBudget))
	}

	switch fund.FundType {
	case domain.FundTypeNonNegotiable:
		paid, err := period.IsPaidInCurrentPeriod(fund.PaidAt, fund.TimeMode, now)
		if err != nil {
			return Evaluated{}, err
		}
		ev.IsPaid = paid
	case domain.FundTypeSpending, domain.FundTypeTarget:
		// Numeric result is framing-agnostic; the "left"/"overspent" vs
		// "more needed"/"funded X more than target" wording lives in
		// presentation
	default:
		return Evaluated{}, fmt.Errorf("unhandled fund type: %s", fund.FundType)
	}

	if fund.TimeMode == domain.TimeModeWeekly {
		ev.WeeklyOverspent = maxZero(spent.Sub(weekScaledBudget(fund, now)))
	}

	return ev, nil
}

// weekScaledBudget is the budget accrued by the weeks elapsed so far this
// month, counted from the fund's creation week when the fund is younger
// than the month. This gives the tighter "overspent this week" signal the
// compact helper text wants, distinct from the monthly overspend.
func weekScaledBudget(fund *domain.Fund, now time.Time) decimal.Decimal {
	weeks := period.WeekOfMonth(now)
	if period.SameMonth(fund.CreatedAt, now) {
		weeks = weeks - period.WeekOfMonth(fund.CreatedAt) + 1
		if weeks < 1 {
			weeks = 1
		}
	}
	return fund.BudgetedAmount.Mul(decimal.NewFromInt(int64(weeks)))
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}

var one = decimal.NewFromInt(1)

func clampUnit(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
