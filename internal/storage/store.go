// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/models"
)

// Store defines the interface for ledger storage operations. The
// abstraction allows swapping storage backends (SQLite, PostgreSQL, ...)
// without changing the service layer.
//
// Mutations execute as single atomic transactions: either all of an
// expense's splits are written, or none are. Missing rows surface as
// apperr.KindNotFound, duplicates as apperr.KindConflict (memberships,
// emails) or apperr.KindInvalid (splits), so the service layer can pass
// storage errors through unchanged.
type Store interface {
	// CreateUser persists a new user. The ID and timestamps are populated
	// by the store. Fails with Conflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateTrip persists a trip together with its initial OWNER
	// membership in one transaction. IDs and timestamps are populated by
	// the store.
	CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Membership) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	GetTripByCode(ctx context.Context, inviteCode string) (*models.Trip, error)
	ListUserTrips(ctx context.Context, userID string) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	// DeleteTrip removes the trip; memberships, expenses and splits cascade.
	DeleteTrip(ctx context.Context, tripID string) error

	// AddMember persists a membership. Fails with Conflict if the user is
	// already a member of the trip.
	AddMember(ctx context.Context, member *models.Membership) error
	GetMember(ctx context.Context, tripID, userID string) (*models.Membership, error)
	ListTripMembers(ctx context.Context, tripID string) ([]models.Membership, error)
	// ChangeMemberRole updates a member's role. The sole-owner check runs
	// inside the same transaction, serialized per trip: demoting the last
	// OWNER fails with Conflict.
	ChangeMemberRole(ctx context.Context, tripID, userID string, role models.Role) (*models.Membership, error)
	// RemoveMember deletes a membership under the same sole-owner guard.
	RemoveMember(ctx context.Context, tripID, userID string) error

	// CreateExpense persists an expense and all of its splits in one
	// transaction.
	CreateExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListTripExpenses(ctx context.Context, tripID string) ([]models.Expense, error)
	// UpdateExpense rewrites the expense's mutable fields. Splits are not
	// touched.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes the expense; its splits cascade.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSplit persists one split. Fails with Invalid if a split for
	// the (expense, participant) pair already exists.
	CreateSplit(ctx context.Context, split *models.ExpenseSplit) error
	GetSplit(ctx context.Context, splitID string) (*models.ExpenseSplit, error)
	ListExpenseSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error)
	// SetSplitPaid sets the paid flag. Idempotent: setting the current
	// value is not an error.
	SetSplitPaid(ctx context.Context, splitID string, paid bool) error
	UpdateSplitAmount(ctx context.Context, splitID string, amount decimal.Decimal) error
	DeleteSplit(ctx context.Context, splitID string) error
	// ListUnpaidSplitsByUser returns every unpaid split of the user across
	// all trips, in stable (creation) order.
	ListUnpaidSplitsByUser(ctx context.Context, userID string) ([]models.ExpenseSplit, error)

	// Close releases any resources held by the store.
	Close() error
}
