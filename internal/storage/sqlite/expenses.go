package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
)

const expenseColumns = "id, trip_id, payer_id, description, amount, expense_date, split_type, receipt_url, created_at, updated_at"

// CreateExpense persists an expense and all of its splits atomically:
// readers never observe an expense with a partial set of splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, trip_id, payer_id, description, amount, expense_date, split_type, receipt_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.TripID, expense.PayerID, expense.Description,
		expense.Amount.String(), string(expense.Date), expense.SplitType,
		expense.ReceiptURL, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal(err, "failed to insert expense")
	}

	for i := range splits {
		split := &splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID
		split.CreatedAt = now

		if err := insertSplit(ctx, tx, split); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "failed to commit transaction")
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var (
		e          models.Expense
		amount, dt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID,
	).Scan(&e.ID, &e.TripID, &e.PayerID, &e.Description, &amount, &dt,
		&e.SplitType, &e.ReceiptURL, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to get expense")
	}
	e.Date = models.Date(dt)
	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, apperr.Internal(err, "corrupt amount for expense %s", e.ID)
	}
	return &e, nil
}

// ListTripExpenses returns all expenses of a trip, newest expense date first.
func (s *SQLiteStore) ListTripExpenses(ctx context.Context, tripID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE trip_id = ? ORDER BY expense_date DESC, created_at DESC, id",
		tripID,
	)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list expenses")
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var (
			e          models.Expense
			amount, dt string
		)
		if err := rows.Scan(&e.ID, &e.TripID, &e.PayerID, &e.Description, &amount, &dt,
			&e.SplitType, &e.ReceiptURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperr.Internal(err, "failed to scan expense")
		}
		e.Date = models.Date(dt)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, apperr.Internal(err, "corrupt amount for expense %s", e.ID)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "failed to iterate expenses")
	}
	return expenses, nil
}

// UpdateExpense rewrites the expense's mutable fields. Existing splits are
// deliberately untouched.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount = ?, expense_date = ?, receipt_url = ?, updated_at = ? WHERE id = ?",
		expense.Description, expense.Amount.String(), string(expense.Date),
		expense.ReceiptURL, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return apperr.Internal(err, "failed to update expense")
	}
	return requireRowAffected(res, "expense not found")
}

// DeleteExpense removes an expense; its splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return apperr.Internal(err, "failed to delete expense")
	}
	return requireRowAffected(res, "expense not found")
}
