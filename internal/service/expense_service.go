package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/splitter"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// ExpenseService manages the expense side of the ledger. Creating an
// expense computes and persists its splits atomically; updating and
// deleting are restricted to the payer, regardless of trip role.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpenseInput carries the fields for a new expense.
type CreateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Date        string
	SplitType   models.SplitType
	// PayerID may name another member as payer; empty means the actor paid.
	PayerID        string
	ParticipantIDs []string
	// Values holds per-participant amounts (MANUAL) or percentages
	// (PERCENTAGE); unused for EQUAL.
	Values map[string]decimal.Decimal
	// ReceiptURL is an optional receipt reference.
	ReceiptURL string
}

// CreateExpense records an expense and one split per participant. Any
// member of the trip may record one, and every participant (payer
// included) must be a member.
func (s *ExpenseService) CreateExpense(ctx context.Context, actorID, tripID string, in CreateExpenseInput) (*models.Expense, []models.ExpenseSplit, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleViewer); err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(in.Description) == "" {
		return nil, nil, apperr.Invalid("description is required")
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, nil, apperr.Invalid("%v", err)
	}
	splitType, err := models.ParseSplitType(string(in.SplitType))
	if err != nil {
		return nil, nil, apperr.Invalid("%v", err)
	}

	payerID := in.PayerID
	if payerID == "" {
		payerID = actorID
	}
	if _, err := s.store.GetUser(ctx, payerID); err != nil {
		return nil, nil, err
	}

	members, err := s.store.ListTripMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m.UserID] = true
	}
	if !memberSet[payerID] {
		return nil, nil, apperr.Invalid("payer %s is not a member of this trip", payerID)
	}
	for _, id := range in.ParticipantIDs {
		if !memberSet[id] {
			return nil, nil, apperr.Invalid("participant %s is not a member of this trip", id)
		}
	}

	shares, err := splitter.Compute(in.Amount, splitType, in.ParticipantIDs, in.Values)
	if err != nil {
		slog.Warn("CreateExpense split computation failed", "trip_id", tripID, "error", err)
		return nil, nil, err
	}

	expense := &models.Expense{
		TripID:      tripID,
		PayerID:     payerID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        date,
		SplitType:   splitType,
		ReceiptURL:  in.ReceiptURL,
	}
	splits := make([]models.ExpenseSplit, len(shares))
	for i, share := range shares {
		splits[i] = models.ExpenseSplit{
			ParticipantID: share.ParticipantID,
			Amount:        share.Amount,
			Percentage:    share.Percentage,
		}
	}

	if err := s.store.CreateExpense(ctx, expense, splits); err != nil {
		slog.Error("CreateExpense failed", "trip_id", tripID, "error", err)
		return nil, nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"trip_id", tripID,
		"payer_id", payerID,
		"amount", expense.Amount,
		"split_type", splitType,
		"participants", len(splits),
	)
	return expense, splits, nil
}

// GetExpense returns one expense. The actor must be a member of its trip.
func (s *ExpenseService) GetExpense(ctx context.Context, actorID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, expense.TripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListTripExpenses returns all expenses of the trip. The actor must be a
// member.
func (s *ExpenseService) ListTripExpenses(ctx context.Context, actorID, tripID string) ([]models.Expense, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.ListTripExpenses(ctx, tripID)
}

// UpdateExpenseInput carries the payer-editable expense fields.
type UpdateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Date        string
	ReceiptURL  string
}

// UpdateExpense edits an expense. Only the payer may do this; even the
// trip OWNER cannot edit another member's expense. Existing splits are
// left as they are when the amount changes: they may have been adjusted
// by hand since creation, so they are never silently recomputed.
func (s *ExpenseService) UpdateExpense(ctx context.Context, actorID, expenseID string, in UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != actorID {
		return nil, apperr.Forbidden("only the payer can update this expense")
	}

	if strings.TrimSpace(in.Description) == "" {
		return nil, apperr.Invalid("description is required")
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if date.After(models.Today()) {
		return nil, apperr.Invalid("expense date cannot be in the future")
	}

	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.Date = date
	expense.ReceiptURL = in.ReceiptURL

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	slog.Info("Expense updated", "expense_id", expenseID, "actor_id", actorID)
	return expense, nil
}

// DeleteExpense removes an expense and cascades its splits. Payer only.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actorID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.PayerID != actorID {
		return apperr.Forbidden("only the payer can delete this expense")
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "actor_id", actorID)
	return nil
}
