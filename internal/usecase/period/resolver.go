package period

import (
	"fmt"
	"time"

	"github.com/simaogato/envelope-engine/internal/domain"
)

// bimonthlySplitDay is where the calendar month splits into two halves:
// days 1..15 and days 16..end, regardless of month length.
const bimonthlySplitDay = 15

// Period describes the recurring window a fund's allocation resets over,
// relative to a reference instant.
type Period struct {
	Start       time.Time
	DaysElapsed int
	DaysTotal   int
}

// Resolve computes the current period for the given time mode at the
// instant now.
// Logic per mode:
//  1. MONTHLY: the calendar month containing now
//  2. WEEKLY: the Sunday-started week containing now (Sunday counts as day 1)
//  3. BIMONTHLY: days 1..15 or 16..end of the month containing now
//  4. EVENTUALLY: degenerate period with zero Start and 0/0 day counts;
//     callers must special-case this mode rather than divide
//
// An unhandled mode is a programming error and returns an error rather
// than silently defaulting.
func Resolve(mode domain.TimeMode, now time.Time) (Period, error) {
	switch mode {
	case domain.TimeModeMonthly:
		return Period{
			Start:       time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
			DaysElapsed: now.Day(),
			DaysTotal:   DaysInMonth(now),
		}, nil

	case domain.TimeModeWeekly:
		dayOfWeek := int(now.Weekday()) // Sunday = 0
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Period{
			Start:       midnight.AddDate(0, 0, -dayOfWeek),
			DaysElapsed: dayOfWeek + 1,
			DaysTotal:   7,
		}, nil

	case domain.TimeModeBimonthly:
		if now.Day() <= bimonthlySplitDay {
			return Period{
				Start:       time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
				DaysElapsed: now.Day(),
				DaysTotal:   bimonthlySplitDay,
			}, nil
		}
		return Period{
			Start:       time.Date(now.Year(), now.Month(), bimonthlySplitDay+1, 0, 0, 0, 0, now.Location()),
			DaysElapsed: now.Day() - bimonthlySplitDay,
			DaysTotal:   DaysInMonth(now) - bimonthlySplitDay,
		}, nil

	case domain.TimeModeEventually:
		return Period{}, nil

	default:
		return Period{}, fmt.Errorf("unhandled time mode: %s", mode)
	}
}

// IsPaidInCurrentPeriod reports whether paidAt is valid evidence of payment
// for the period containing now. The boundary is always re-derived from now
// so a paidAt from a prior period can never suppress a new period's unpaid
// state; a paidAt exactly at the period start counts as paid.
func IsPaidInCurrentPeriod(paidAt *time.Time, mode domain.TimeMode, now time.Time) (bool, error) {
	if paidAt == nil {
		return false, nil
	}

	p, err := Resolve(mode, now)
	if err != nil {
		return false, err
	}

	// EVENTUALLY resolves to the zero Start: a standing goal has no
	// rollover that could invalidate a payment.
	return !paidAt.Before(p.Start), nil
}

// DaysInMonth returns the number of days in the calendar month containing t
func DaysInMonth(t time.Time) int {
	// Day zero of the next month is the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// WeeksInMonth returns the number of 7-day week blocks overlapping the
// month containing t, anchored at day 1. A 28-day February has 4, every
// other month has 5.
func WeeksInMonth(t time.Time) int {
	return (DaysInMonth(t) + 6) / 7
}

// WeekOfMonth returns the 1-based week block containing t: days 1-7 are
// week 1, days 8-14 week 2, and so on.
func WeekOfMonth(t time.Time) int {
	return (t.Day() + 6) / 7
}

// SameMonth reports whether a and b fall in the same calendar month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
