package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundType controls the sign/framing semantics of an evaluated envelope
type FundType string

const (
	FundTypeSpending      FundType = "SPENDING"
	FundTypeNonNegotiable FundType = "NON_NEGOTIABLE"
	FundTypeTarget        FundType = "TARGET"
)

// TimeMode is the recurrence shape of a fund's budget period
type TimeMode string

const (
	TimeModeWeekly     TimeMode = "WEEKLY"
	TimeModeBimonthly  TimeMode = "BIMONTHLY"
	TimeModeMonthly    TimeMode = "MONTHLY"
	TimeModeEventually TimeMode = "EVENTUALLY"
)

// Fund represents a budgeting envelope in the domain layer
// BudgetedAmount is the allocation for a single period, NOT normalized to
// a month; normalization happens in the usecase layer.
type Fund struct {
	ID             uuid.UUID
	Name           string
	FundType       FundType
	TimeMode       TimeMode
	BudgetedAmount decimal.Decimal
	CreatedAt      time.Time  // governs first-period proration
	PaidAt         *time.Time // NON_NEGOTIABLE only: when the current obligation was satisfied
	DueDay         *int       // NON_NEGOTIABLE scheduling display only, never computed here
}

// Validate ensures the fund adheres to domain rules
// Returns an error if validation fails
func (f *Fund) Validate() error {
	if f.Name == "" {
		return errors.New("fund name cannot be empty")
	}

	if f.BudgetedAmount.LessThan(decimal.Zero) {
		return errors.New("budgeted amount cannot be negative")
	}

	switch f.FundType {
	case FundTypeSpending, FundTypeNonNegotiable, FundTypeTarget:
	default:
		return errors.New("fund type must be SPENDING, NON_NEGOTIABLE, or TARGET")
	}

	switch f.TimeMode {
	case TimeModeWeekly, TimeModeBimonthly, TimeModeMonthly, TimeModeEventually:
	default:
		return errors.New("time mode must be WEEKLY, BIMONTHLY, MONTHLY, or EVENTUALLY")
	}

	if f.DueDay != nil {
		if *f.DueDay < 1 || *f.DueDay > 31 {
			return errors.New("due day must be between 1 and 31")
		}
	}

	return nil
}
