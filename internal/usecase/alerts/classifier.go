package alerts

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/envelope-engine/internal/usecase/envelope"
)

// Severity of a budget alert
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// AlertType distinguishes the two conditions the classifier detects
type AlertType string

const (
	AlertTypeOverspent        AlertType = "OVERSPENT"
	AlertTypeApproachingLimit AlertType = "APPROACHING_LIMIT"
)

// DefaultWarningThresholdPercent is the warning threshold applied when the
// user has not configured one.
const DefaultWarningThresholdPercent = 90

// FundEnvelope pairs a fund's identity with its evaluated envelope, in the
// caller's listing order.
type FundEnvelope struct {
	FundID    uuid.UUID
	FundName  string
	Evaluated envelope.Evaluated
}

// BudgetAlert is produced only for funds whose envelope crosses a threshold
type BudgetAlert struct {
	FundID   uuid.UUID
	FundName string
	Severity Severity
	Type     AlertType
	Message  string
}

var hundred = decimal.NewFromInt(100)

// Classify scans evaluated envelopes and assigns severity.
// Logic:
//  1. critical: the envelope is completed and the fund is period-based
//     (a fully funded EVENTUALLY goal is a success, not an alert)
//  2. warning: not completed but progress has crossed thresholdPercent
//  3. below threshold: no alert
//
// Critical alerts sort before warnings; within a tier the caller's input
// order is preserved. The result is unbounded — truncation (e.g. top 3 for
// a dashboard widget) belongs to presentation.
func Classify(entries []FundEnvelope, thresholdPercent decimal.Decimal) []BudgetAlert {
	alerts := make([]BudgetAlert, 0, len(entries))

	for _, e := range entries {
		// PeriodDaysTotal is 0 only for the degenerate EVENTUALLY period,
		// as resolved by the period resolver
		periodBased := e.Evaluated.PeriodDaysTotal > 0

		switch {
		case e.Evaluated.IsCompleted && periodBased:
			alerts = append(alerts, BudgetAlert{
				FundID:   e.FundID,
				FundName: e.FundName,
				Severity: SeverityCritical,
				Type:     AlertTypeOverspent,
				Message:  criticalMessage(e),
			})
		case !e.Evaluated.IsCompleted &&
			e.Evaluated.Progress.Mul(hundred).GreaterThanOrEqual(thresholdPercent):
			alerts = append(alerts, BudgetAlert{
				FundID:   e.FundID,
				FundName: e.FundName,
				Severity: SeverityWarning,
				Type:     AlertTypeApproachingLimit,
				Message:  warningMessage(e),
			})
		}
	}

	// Stable: keeps the caller's fund listing order within each tier
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity == SeverityCritical && alerts[j].Severity != SeverityCritical
	})

	return alerts
}

func criticalMessage(e FundEnvelope) string {
	if e.Evaluated.Overspent.GreaterThan(decimal.Zero) {
		return fmt.Sprintf("%s is overspent by $%s", e.FundName, money(e.Evaluated.Overspent))
	}
	return fmt.Sprintf("%s has used its full budget of $%s", e.FundName, money(e.Evaluated.MonthlyBudget))
}

func warningMessage(e FundEnvelope) string {
	return fmt.Sprintf("%s is at %s%% of its $%s budget",
		e.FundName,
		e.Evaluated.Progress.Mul(hundred).Round(0),
		money(e.Evaluated.MonthlyBudget))
}

// money formats an amount for alert text. Display is the only place the
// engine rounds.
func money(d decimal.Decimal) string {
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}
