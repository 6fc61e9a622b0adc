package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// DebtService answers "what do I still owe" across all trips.
type DebtService struct {
	store storage.Store
}

// NewDebtService creates a new DebtService with the given storage backend.
func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{store: store}
}

// GetUserPendingDebts returns every unpaid split where the user is the
// participant. Users can only see their own debts.
func (s *DebtService) GetUserPendingDebts(ctx context.Context, actorID, userID string) ([]models.ExpenseSplit, error) {
	if actorID != userID {
		return nil, apperr.Forbidden("you can only view your own pending debts")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListUnpaidSplitsByUser(ctx, userID)
}

// GetTotalPendingDebt sums the user's unpaid splits. Zero when there
// are none.
func (s *DebtService) GetTotalPendingDebt(ctx context.Context, actorID, userID string) (decimal.Decimal, error) {
	splits, err := s.GetUserPendingDebts(ctx, actorID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sp := range splits {
		total = total.Add(sp.Amount)
	}
	return total, nil
}
