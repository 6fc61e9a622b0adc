// Package service implements the ledger's synchronous call interface:
// trips, memberships, expenses, splits and debt aggregation. Every
// mutating operation takes the acting (authenticated) user ID and runs
// the permission check before any collaborator is invoked.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/splitter"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// requireRole loads the actor's membership in the trip and checks that its
// role allows an operation requiring the given role. Non-members are
// rejected with Forbidden, not NotFound: whether the caller belongs to the
// trip is an authorization question.
func requireRole(ctx context.Context, store storage.Store, tripID, actorID string, required models.Role) (*models.Membership, error) {
	member, err := store.GetMember(ctx, tripID, actorID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Forbidden("you are not a member of this trip")
		}
		return nil, err
	}
	if !member.Role.Allows(required) {
		return nil, apperr.Forbidden("this operation requires the %s role", required)
	}
	return member, nil
}

// validAmount checks a monetary amount: positive, at most 2 decimal places.
func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Invalid("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(splitter.Scale)) {
		return apperr.Invalid("amount must have at most %d decimal places", splitter.Scale)
	}
	return nil
}
