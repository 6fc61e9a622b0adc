package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized out of the service layer.
	PasswordHash string

	// Role is the account-wide role (USER or ADMIN), unrelated to trip roles.
	Role GlobalRole

	// ProfilePicture is an optional URL to the user's avatar.
	ProfilePicture string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}
