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

const splitColumns = "id, expense_id, participant_id, amount, percentage, paid, created_at"

func insertSplit(ctx context.Context, tx *sql.Tx, split *models.ExpenseSplit) error {
	var percentage any
	if split.Percentage != nil {
		percentage = split.Percentage.String()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO expense_splits (id, expense_id, participant_id, amount, percentage, paid, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		split.ID, split.ExpenseID, split.ParticipantID,
		split.Amount.String(), percentage, split.Paid, split.CreatedAt,
	)
	if isUniqueViolation(err, "expense_splits") {
		return apperr.Invalid("a split for this participant already exists on this expense")
	}
	if err != nil {
		return apperr.Internal(err, "failed to insert split")
	}
	return nil
}

// CreateSplit persists one split independently of its expense, generating
// its ID and timestamp.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.ExpenseSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	split.CreatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := insertSplit(ctx, tx, split); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "failed to commit transaction")
	}
	return nil
}

// GetSplit retrieves a split by ID.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.ExpenseSplit, error) {
	var (
		sp         models.ExpenseSplit
		amount     string
		percentage sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE id = ?", splitID,
	).Scan(&sp.ID, &sp.ExpenseID, &sp.ParticipantID, &amount, &percentage, &sp.Paid, &sp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("split not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to get split")
	}
	if err := fillSplitDecimals(&sp, amount, percentage); err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListExpenseSplits returns all splits of an expense, in creation order.
func (s *SQLiteStore) ListExpenseSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE expense_id = ? ORDER BY created_at, id",
		expenseID)
}

// ListUnpaidSplitsByUser returns every unpaid split of the user across all
// trips, in creation order.
func (s *SQLiteStore) ListUnpaidSplitsByUser(ctx context.Context, userID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE participant_id = ? AND paid = 0 ORDER BY created_at, id",
		userID)
}

// SetSplitPaid sets the paid flag. Idempotent.
func (s *SQLiteStore) SetSplitPaid(ctx context.Context, splitID string, paid bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_splits SET paid = ? WHERE id = ?", paid, splitID)
	if err != nil {
		return apperr.Internal(err, "failed to update split")
	}
	return requireRowAffected(res, "split not found")
}

// UpdateSplitAmount overwrites a split's owed amount.
func (s *SQLiteStore) UpdateSplitAmount(ctx context.Context, splitID string, amount decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_splits SET amount = ? WHERE id = ?", amount.String(), splitID)
	if err != nil {
		return apperr.Internal(err, "failed to update split amount")
	}
	return requireRowAffected(res, "split not found")
}

// DeleteSplit removes one split.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expense_splits WHERE id = ?", splitID)
	if err != nil {
		return apperr.Internal(err, "failed to delete split")
	}
	return requireRowAffected(res, "split not found")
}

func (s *SQLiteStore) querySplits(ctx context.Context, query string, arg any) ([]models.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperr.Internal(err, "failed to query splits")
	}
	defer rows.Close()

	var splits []models.ExpenseSplit
	for rows.Next() {
		var (
			sp         models.ExpenseSplit
			amount     string
			percentage sql.NullString
		)
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.ParticipantID, &amount, &percentage, &sp.Paid, &sp.CreatedAt); err != nil {
			return nil, apperr.Internal(err, "failed to scan split")
		}
		if err := fillSplitDecimals(&sp, amount, percentage); err != nil {
			return nil, err
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "failed to iterate splits")
	}
	return splits, nil
}

func fillSplitDecimals(sp *models.ExpenseSplit, amount string, percentage sql.NullString) error {
	var err error
	sp.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return apperr.Internal(err, "corrupt amount for split %s", sp.ID)
	}
	if percentage.Valid {
		p, err := decimal.NewFromString(percentage.String)
		if err != nil {
			return apperr.Internal(err, "corrupt percentage for split %s", sp.ID)
		}
		sp.Percentage = &p
	}
	return nil
}
