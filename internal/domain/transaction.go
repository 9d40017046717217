package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a single spend event against exactly one fund.
// Transactions are immutable once created except for deletion; the engine
// never mutates them and mostly consumes pre-aggregated sums supplied by
// the persistence layer.
type Transaction struct {
	ID      uuid.UUID
	FundID  uuid.UUID
	Amount  decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Date    time.Time
	Note    string
	StoreID *uuid.UUID
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.FundID == uuid.Nil {
		return errors.New("transaction must reference a fund")
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive (absolute value)")
	}

	return nil
}
