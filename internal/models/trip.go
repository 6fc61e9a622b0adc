package models

import "github.com/shopspring/decimal"

// Trip represents a collaborative travel plan. A trip owns its memberships
// and expenses: deleting a trip cascades to both.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Title is the display name of the trip (e.g., "Lisbon 2026").
	Title string

	// Destination is where the trip goes.
	Destination string

	// Description is optional free text.
	Description string

	// StartDate and EndDate bound the trip. EndDate is never before StartDate.
	StartDate Date
	EndDate   Date

	// Budget is the optional planned spend, 2 decimal places.
	// Zero means no budget was set.
	Budget decimal.Decimal

	// InviteCode is the unique 8-character code other users join with.
	InviteCode string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last metadata change.
	UpdatedAt int64
}
