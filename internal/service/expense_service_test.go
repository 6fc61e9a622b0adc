package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestExpenseLifecycle(t *testing.T) {
	store := setupTestStore(t)
	trips := NewTripService(store)
	members := NewMemberService(store)
	expenses := NewExpenseService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "Alice", "alice@exp.example.com")
	bob := registerUser(t, store, "Bob", "bob@exp.example.com")
	eve := registerUser(t, store, "Eve", "eve@exp.example.com")
	trip := mustCreateTrip(t, trips, alice.ID)
	if _, err := members.AddMember(ctx, alice.ID, trip.ID, bob.ID, models.RoleViewer); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	t.Run("equal split between two members", func(t *testing.T) {
		expense, splits, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
			Description:    "Dinner",
			Amount:         dec(t, "55.00"),
			Date:           "2025-04-02",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{alice.ID, bob.ID},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.PayerID != alice.ID {
			t.Errorf("payer should default to the actor, got %s", expense.PayerID)
		}
		if len(splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(splits))
		}
		for _, s := range splits {
			if !s.Amount.Equal(dec(t, "27.50")) {
				t.Errorf("split amount: got %s, want 27.50", s.Amount)
			}
		}
	})

	t.Run("non-member cannot record or read expenses", func(t *testing.T) {
		_, _, err := expenses.CreateExpense(ctx, eve.ID, trip.ID, CreateExpenseInput{
			Description:    "Taxi",
			Amount:         dec(t, "10.00"),
			Date:           "2025-04-02",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{eve.ID},
		})
		wantKind(t, err, apperr.KindForbidden)

		_, err = expenses.ListTripExpenses(ctx, eve.ID, trip.ID)
		wantKind(t, err, apperr.KindForbidden)
	})

	t.Run("participants must be trip members", func(t *testing.T) {
		_, _, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
			Description:    "Museum",
			Amount:         dec(t, "30.00"),
			Date:           "2025-04-03",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{alice.ID, eve.ID},
		})
		wantKind(t, err, apperr.KindInvalid)
	})

	t.Run("manual split must reconcile with the total", func(t *testing.T) {
		_, _, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
			Description:    "Groceries",
			Amount:         dec(t, "40.00"),
			Date:           "2025-04-03",
			SplitType:      models.SplitManual,
			ParticipantIDs: []string{alice.ID, bob.ID},
			Values: map[string]decimal.Decimal{
				alice.ID: dec(t, "25.00"),
				bob.ID:   dec(t, "10.00"),
			},
		})
		wantKind(t, err, apperr.KindInvalid)

		_, splits, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
			Description:    "Groceries",
			Amount:         dec(t, "40.00"),
			Date:           "2025-04-03",
			SplitType:      models.SplitManual,
			ParticipantIDs: []string{alice.ID, bob.ID},
			Values: map[string]decimal.Decimal{
				alice.ID: dec(t, "25.00"),
				bob.ID:   dec(t, "15.00"),
			},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if !splits[1].Amount.Equal(dec(t, "15.00")) {
			t.Errorf("Bob's share: got %s, want 15.00", splits[1].Amount)
		}
	})

	t.Run("only the payer can update", func(t *testing.T) {
		expense, _, err := expenses.CreateExpense(ctx, bob.ID, trip.ID, CreateExpenseInput{
			Description:    "Drinks",
			Amount:         dec(t, "20.00"),
			Date:           "2025-04-04",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{alice.ID, bob.ID},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		in := UpdateExpenseInput{
			Description: "Drinks and snacks",
			Amount:      dec(t, "24.00"),
			Date:        "2025-04-04",
		}
		// Alice is the trip OWNER but not the payer.
		_, err = expenses.UpdateExpense(ctx, alice.ID, expense.ID, in)
		wantKind(t, err, apperr.KindForbidden)

		updated, err := expenses.UpdateExpense(ctx, bob.ID, expense.ID, in)
		if err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if !updated.Amount.Equal(dec(t, "24.00")) {
			t.Errorf("amount: got %s, want 24.00", updated.Amount)
		}

		err = expenses.DeleteExpense(ctx, alice.ID, expense.ID)
		wantKind(t, err, apperr.KindForbidden)
		if err := expenses.DeleteExpense(ctx, bob.ID, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		_, err = expenses.GetExpense(ctx, bob.ID, expense.ID)
		wantKind(t, err, apperr.KindNotFound)
	})

	t.Run("update rejects future dates", func(t *testing.T) {
		expense, _, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
			Description:    "Tickets",
			Amount:         dec(t, "12.00"),
			Date:           "2025-04-05",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{alice.ID},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		_, err = expenses.UpdateExpense(ctx, alice.ID, expense.ID, UpdateExpenseInput{
			Description: "Tickets",
			Amount:      dec(t, "12.00"),
			Date:        "2999-01-01",
		})
		wantKind(t, err, apperr.KindInvalid)
	})
}

func TestSplitsAndDebts(t *testing.T) {
	store := setupTestStore(t)
	trips := NewTripService(store)
	members := NewMemberService(store)
	expenses := NewExpenseService(store)
	splits := NewSplitService(store)
	debts := NewDebtService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "Alice", "alice@debt.example.com")
	bob := registerUser(t, store, "Bob", "bob@debt.example.com")
	carol := registerUser(t, store, "Carol", "carol@debt.example.com")
	trip := mustCreateTrip(t, trips, alice.ID)
	for _, u := range []*models.User{bob, carol} {
		if _, err := members.AddMember(ctx, alice.ID, trip.ID, u.ID, models.RoleViewer); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	// Second trip: Alice and Bob again, so Bob's debts span two trips.
	trip2 := mustCreateTrip(t, trips, alice.ID)
	if _, err := members.AddMember(ctx, alice.ID, trip2.ID, bob.ID, models.RoleViewer); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Alice pays 55.00 dinner for herself and Bob, then 30.00 percentage
	// split with Carol. Bob owes 27.50, Carol owes 13.50.
	_, dinnerSplits, err := expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
		Description:    "Dinner",
		Amount:         dec(t, "55.00"),
		Date:           "2025-04-02",
		SplitType:      models.SplitEqual,
		ParticipantIDs: []string{alice.ID, bob.ID},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	_, _, err = expenses.CreateExpense(ctx, alice.ID, trip.ID, CreateExpenseInput{
		Description:    "Wine tasting",
		Amount:         dec(t, "30.00"),
		Date:           "2025-04-03",
		SplitType:      models.SplitPercentage,
		ParticipantIDs: []string{alice.ID, carol.ID},
		Values: map[string]decimal.Decimal{
			alice.ID: dec(t, "55"),
			carol.ID: dec(t, "45"),
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// On the second trip Alice fronts 7.50 for Bob alone.
	_, _, err = expenses.CreateExpense(ctx, alice.ID, trip2.ID, CreateExpenseInput{
		Description:    "Ferry ticket",
		Amount:         dec(t, "7.50"),
		Date:           "2025-04-05",
		SplitType:      models.SplitEqual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	t.Run("pending debts sum across trips", func(t *testing.T) {
		pending, err := debts.GetUserPendingDebts(ctx, bob.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetUserPendingDebts failed: %v", err)
		}
		if len(pending) != 2 {
			t.Fatalf("expected 2 unpaid splits for Bob, got %d", len(pending))
		}

		total, err := debts.GetTotalPendingDebt(ctx, bob.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetTotalPendingDebt failed: %v", err)
		}
		if !total.Equal(dec(t, "35.00")) {
			t.Errorf("Bob's debt: got %s, want 35.00", total)
		}

		total, err = debts.GetTotalPendingDebt(ctx, carol.ID, carol.ID)
		if err != nil {
			t.Fatalf("GetTotalPendingDebt failed: %v", err)
		}
		if !total.Equal(dec(t, "13.50")) {
			t.Errorf("Carol's debt: got %s, want 13.50", total)
		}
	})

	t.Run("users only see their own debts", func(t *testing.T) {
		_, err := debts.GetUserPendingDebts(ctx, bob.ID, alice.ID)
		wantKind(t, err, apperr.KindForbidden)
	})

	t.Run("settling a split clears the debt", func(t *testing.T) {
		var bobSplit *models.ExpenseSplit
		for i := range dinnerSplits {
			if dinnerSplits[i].ParticipantID == bob.ID {
				bobSplit = &dinnerSplits[i]
			}
		}
		if bobSplit == nil {
			t.Fatal("no split for Bob")
		}

		if _, err := splits.MarkSplitPaid(ctx, bob.ID, bobSplit.ID); err != nil {
			t.Fatalf("MarkSplitPaid failed: %v", err)
		}
		// Settling twice is a no-op.
		if _, err := splits.MarkSplitPaid(ctx, bob.ID, bobSplit.ID); err != nil {
			t.Fatalf("MarkSplitPaid repeat failed: %v", err)
		}

		total, err := debts.GetTotalPendingDebt(ctx, bob.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetTotalPendingDebt failed: %v", err)
		}
		// The ferry ticket from the second trip is still open.
		if !total.Equal(dec(t, "7.50")) {
			t.Errorf("Bob's debt after settling dinner: got %s, want 7.50", total)
		}

		reopened, err := splits.MarkSplitUnpaid(ctx, alice.ID, bobSplit.ID)
		if err != nil {
			t.Fatalf("MarkSplitUnpaid failed: %v", err)
		}
		if reopened.Paid {
			t.Error("expected split to be unpaid again")
		}
	})

	t.Run("splits can be adjusted and added after the fact", func(t *testing.T) {
		expense, moreSplits, err := expenses.CreateExpense(ctx, bob.ID, trip.ID, CreateExpenseInput{
			Description:    "Taxi",
			Amount:         dec(t, "18.00"),
			Date:           "2025-04-04",
			SplitType:      models.SplitEqual,
			ParticipantIDs: []string{bob.ID, carol.ID},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		adjusted, err := splits.UpdateSplitAmount(ctx, bob.ID, moreSplits[1].ID, dec(t, "10.00"))
		if err != nil {
			t.Fatalf("UpdateSplitAmount failed: %v", err)
		}
		if !adjusted.Amount.Equal(dec(t, "10.00")) {
			t.Errorf("adjusted amount: got %s, want 10.00", adjusted.Amount)
		}

		added, err := splits.CreateSplit(ctx, bob.ID, expense.ID, alice.ID, dec(t, "5.00"), nil)
		if err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		all, err := splits.ListExpenseSplits(ctx, carol.ID, expense.ID)
		if err != nil {
			t.Fatalf("ListExpenseSplits failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 splits, got %d", len(all))
		}

		if err := splits.DeleteSplit(ctx, bob.ID, added.ID); err != nil {
			t.Fatalf("DeleteSplit failed: %v", err)
		}
		_, err = splits.GetSplit(ctx, bob.ID, added.ID)
		wantKind(t, err, apperr.KindNotFound)
	})
}
