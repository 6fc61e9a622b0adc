// Package splitter computes per-participant owed shares from an expense
// amount and a split strategy. It is pure computation: no storage, no
// side effects.
package splitter

import (
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
)

// Scale is the number of fractional digits in a currency amount.
const Scale = 2

var oneHundred = decimal.NewFromInt(100)

// Share is the computed owed share for one participant.
type Share struct {
	ParticipantID string
	Amount        decimal.Decimal
	// Percentage is set for PERCENTAGE splits only.
	Percentage *decimal.Decimal
}

// Compute produces one share per participant for the given strategy.
//
// EQUAL divides the amount evenly at 2 decimal places, rounding half up;
// the first participant in input order absorbs the rounding remainder so
// the shares always sum exactly to amount. MANUAL takes explicit amounts
// in values, which must be positive and sum exactly to amount. PERCENTAGE
// takes percentages in values, each in (0, 100], summing to 100; the
// remainder rule is the same as EQUAL. CUSTOM is rejected: custom shares
// are managed through the individual split operations.
func Compute(amount decimal.Decimal, strategy models.SplitType, participantIDs []string, values map[string]decimal.Decimal) ([]Share, error) {
	if len(participantIDs) == 0 {
		return nil, apperr.Invalid("at least one participant is required")
	}
	if !amount.IsPositive() {
		return nil, apperr.Invalid("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(Scale)) {
		return nil, apperr.Invalid("amount must have at most %d decimal places", Scale)
	}
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if seen[id] {
			return nil, apperr.Invalid("duplicate participant %s", id)
		}
		seen[id] = true
	}

	switch strategy {
	case models.SplitEqual:
		return equalShares(amount, participantIDs)
	case models.SplitManual:
		return manualShares(amount, participantIDs, values)
	case models.SplitPercentage:
		return percentageShares(amount, participantIDs, values)
	case models.SplitCustom:
		return nil, apperr.Invalid("custom splits are managed individually, not computed")
	default:
		return nil, apperr.Invalid("unknown split type %q", strategy)
	}
}

func equalShares(amount decimal.Decimal, participantIDs []string) ([]Share, error) {
	n := int64(len(participantIDs))
	per := amount.DivRound(decimal.NewFromInt(n), Scale)

	shares := make([]Share, len(participantIDs))
	rest := amount
	for i, id := range participantIDs {
		shares[i] = Share{ParticipantID: id, Amount: per}
		if i > 0 {
			rest = rest.Sub(per)
		}
	}
	// First participant absorbs the remainder: 10.00 / 3 -> 3.34, 3.33, 3.33.
	shares[0].Amount = rest

	for _, s := range shares {
		if !s.Amount.IsPositive() {
			return nil, apperr.Invalid("amount %s is too small to split %d ways", amount, n)
		}
	}
	return shares, nil
}

func manualShares(amount decimal.Decimal, participantIDs []string, values map[string]decimal.Decimal) ([]Share, error) {
	shares := make([]Share, len(participantIDs))
	sum := decimal.Zero
	for i, id := range participantIDs {
		v, ok := values[id]
		if !ok {
			return nil, apperr.Invalid("missing amount for participant %s", id)
		}
		if !v.IsPositive() {
			return nil, apperr.Invalid("amount for participant %s must be greater than 0", id)
		}
		if !v.Equal(v.Round(Scale)) {
			return nil, apperr.Invalid("amount for participant %s must have at most %d decimal places", id, Scale)
		}
		shares[i] = Share{ParticipantID: id, Amount: v}
		sum = sum.Add(v)
	}
	if !sum.Equal(amount) {
		return nil, apperr.Invalid("split amounts sum to %s, expense amount is %s", sum, amount)
	}
	return shares, nil
}

func percentageShares(amount decimal.Decimal, participantIDs []string, values map[string]decimal.Decimal) ([]Share, error) {
	shares := make([]Share, len(participantIDs))
	total := decimal.Zero
	rest := amount
	for i, id := range participantIDs {
		pct, ok := values[id]
		if !ok {
			return nil, apperr.Invalid("missing percentage for participant %s", id)
		}
		if !pct.IsPositive() || pct.GreaterThan(oneHundred) {
			return nil, apperr.Invalid("percentage for participant %s must be in (0, 100]", id)
		}
		p := pct
		share := amount.Mul(pct).DivRound(oneHundred, Scale)
		shares[i] = Share{ParticipantID: id, Amount: share, Percentage: &p}
		if i > 0 {
			rest = rest.Sub(share)
		}
		total = total.Add(pct)
	}
	if !total.Equal(oneHundred) {
		return nil, apperr.Invalid("percentages sum to %s, must total 100", total)
	}
	// Same remainder rule as EQUAL.
	shares[0].Amount = rest
	if !shares[0].Amount.IsPositive() {
		return nil, apperr.Invalid("percentage split leaves a non-positive share for participant %s", shares[0].ParticipantID)
	}
	return shares, nil
}
