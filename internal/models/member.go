package models

// Membership is the relation between a User and a Trip, unique per
// (user, trip) pair. It carries the member's role inside that trip.
type Membership struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// TripID is the trip this membership belongs to.
	TripID string

	// UserID references the member. Non-owning: many memberships may
	// reference the same user.
	UserID string

	// Role is the member's permission level in this trip.
	Role Role

	// JoinedAt is the Unix timestamp when the user joined the trip.
	JoinedAt int64
}
