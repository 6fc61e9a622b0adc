package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// SplitService manages individual expense splits: adding participants
// after the fact, adjusting amounts, and settling.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// guardExpense loads the expense and checks that the actor is a member
// of its trip.
func (s *SplitService) guardExpense(ctx context.Context, actorID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, expense.TripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return expense, nil
}

// guardSplit loads the split and checks membership via its expense.
func (s *SplitService) guardSplit(ctx context.Context, actorID, splitID string) (*models.ExpenseSplit, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardExpense(ctx, actorID, split.ExpenseID); err != nil {
		return nil, err
	}
	return split, nil
}

// CreateSplit adds a participant share to an existing expense, for
// example when someone joined the dinner late. The participant must be
// a member of the trip, and must not already have a share.
func (s *SplitService) CreateSplit(ctx context.Context, actorID, expenseID, participantID string, amount decimal.Decimal, percentage *decimal.Decimal) (*models.ExpenseSplit, error) {
	expense, err := s.guardExpense(ctx, actorID, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, participantID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, expense.TripID, participantID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Invalid("participant %s is not a member of this trip", participantID)
		}
		return nil, err
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if percentage != nil {
		if !percentage.IsPositive() || percentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperr.Invalid("percentage must be between 0 and 100")
		}
	}

	split := &models.ExpenseSplit{
		ExpenseID:     expenseID,
		ParticipantID: participantID,
		Amount:        amount,
		Percentage:    percentage,
	}
	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "expense_id", expenseID, "participant_id", participantID, "error", err)
		return nil, err
	}
	slog.Info("Split created", "split_id", split.ID, "expense_id", expenseID, "participant_id", participantID)
	return split, nil
}

// GetSplit returns one split. The actor must be a member of the owning trip.
func (s *SplitService) GetSplit(ctx context.Context, actorID, splitID string) (*models.ExpenseSplit, error) {
	return s.guardSplit(ctx, actorID, splitID)
}

// ListExpenseSplits returns all splits of an expense.
func (s *SplitService) ListExpenseSplits(ctx context.Context, actorID, expenseID string) ([]models.ExpenseSplit, error) {
	if _, err := s.guardExpense(ctx, actorID, expenseID); err != nil {
		return nil, err
	}
	return s.store.ListExpenseSplits(ctx, expenseID)
}

// MarkSplitPaid settles a split. Marking an already-paid split is a no-op.
func (s *SplitService) MarkSplitPaid(ctx context.Context, actorID, splitID string) (*models.ExpenseSplit, error) {
	return s.setPaid(ctx, actorID, splitID, true)
}

// MarkSplitUnpaid reopens a split, for example after a bounced payment.
func (s *SplitService) MarkSplitUnpaid(ctx context.Context, actorID, splitID string) (*models.ExpenseSplit, error) {
	return s.setPaid(ctx, actorID, splitID, false)
}

func (s *SplitService) setPaid(ctx context.Context, actorID, splitID string, paid bool) (*models.ExpenseSplit, error) {
	split, err := s.guardSplit(ctx, actorID, splitID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSplitPaid(ctx, splitID, paid); err != nil {
		slog.Error("SetSplitPaid failed", "split_id", splitID, "paid", paid, "error", err)
		return nil, err
	}
	split.Paid = paid
	slog.Info("Split settlement changed", "split_id", splitID, "paid", paid, "actor_id", actorID)
	return split, nil
}

// UpdateSplitAmount adjusts the amount owed on one split. The ledger
// does not force the splits to keep summing to the expense amount after
// manual adjustment; that is up to the group.
func (s *SplitService) UpdateSplitAmount(ctx context.Context, actorID, splitID string, amount decimal.Decimal) (*models.ExpenseSplit, error) {
	split, err := s.guardSplit(ctx, actorID, splitID)
	if err != nil {
		return nil, err
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSplitAmount(ctx, splitID, amount); err != nil {
		slog.Error("UpdateSplitAmount failed", "split_id", splitID, "error", err)
		return nil, err
	}
	split.Amount = amount
	slog.Info("Split amount updated", "split_id", splitID, "amount", amount, "actor_id", actorID)
	return split, nil
}

// DeleteSplit removes a participant's share from an expense.
func (s *SplitService) DeleteSplit(ctx context.Context, actorID, splitID string) error {
	if _, err := s.guardSplit(ctx, actorID, splitID); err != nil {
		return err
	}
	if err := s.store.DeleteSplit(ctx, splitID); err != nil {
		slog.Error("DeleteSplit failed", "split_id", splitID, "error", err)
		return err
	}
	slog.Info("Split deleted", "split_id", splitID, "actor_id", actorID)
	return nil
}
