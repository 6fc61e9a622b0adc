package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType tags how an expense's amount is divided among participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly; the first participant absorbs
	// any rounding remainder.
	SplitEqual SplitType = "EQUAL"
	// SplitManual uses caller-supplied per-participant amounts that must
	// sum to the expense amount.
	SplitManual SplitType = "MANUAL"
	// SplitPercentage uses caller-supplied percentages that must total 100.
	SplitPercentage SplitType = "PERCENTAGE"
	// SplitCustom marks expenses whose shares are managed individually
	// through the split operations rather than computed up front.
	SplitCustom SplitType = "CUSTOM"
)

// ParseSplitType validates a wire-format split type string.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(s) {
	case SplitEqual, SplitManual, SplitPercentage, SplitCustom:
		return SplitType(s), nil
	}
	return "", fmt.Errorf("unknown split type %q", s)
}

// Expense is a single monetary outlay recorded against a trip.
// Only the payer may update or delete it, regardless of trip role.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// PayerID references the member who paid.
	PayerID string

	// Description is what the money was spent on.
	Description string

	// Amount is the positive total, 2 decimal places.
	Amount decimal.Decimal

	// Date is the calendar date of the expense.
	Date Date

	// SplitType records how the amount was divided at creation.
	SplitType SplitType

	// ReceiptURL is an optional reference to a receipt image.
	ReceiptURL string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}
