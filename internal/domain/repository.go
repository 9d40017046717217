package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundRepository defines the interface for fund persistence operations.
// The engine itself is pure; implementations live in the application shell.
type FundRepository interface {
	// GetByID retrieves a fund by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Fund, error)

	// List retrieves all funds in the caller's preferred display order.
	// The alert classifier preserves this order within a severity tier.
	List(ctx context.Context) ([]*Fund, error)
}

// TransactionRepository defines the interface for transaction persistence
// operations. The engine consumes pre-aggregated sums; it never needs the
// individual rows except for display listings.
type TransactionRepository interface {
	// SumForFund returns the total spent against a fund in [from, to).
	// A zero `from` means "since the beginning of time" (used for
	// EVENTUALLY goals, which accumulate across months).
	SumForFund(ctx context.Context, fundID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// ListForFund retrieves a paginated list of a fund's transactions,
	// most recent first
	ListForFund(ctx context.Context, fundID uuid.UUID, limit, offset int) ([]*Transaction, error)
}
