package models

import "github.com/shopspring/decimal"

// ExpenseSplit is one participant's owed share of an expense, unique per
// (expense, participant) pair. Splits are created atomically with their
// expense and deleted when it is.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID is the expense this share belongs to.
	ExpenseID string

	// ParticipantID references the user who owes this share. Non-owning.
	ParticipantID string

	// Amount is the positive owed amount, 2 decimal places.
	Amount decimal.Decimal

	// Percentage is the share of the total for percentage splits, in
	// (0, 100]. Nil for other split types.
	Percentage *decimal.Decimal

	// Paid reports whether the participant has settled this share.
	Paid bool

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64
}
