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

const tripColumns = "id, title, destination, description, start_date, end_date, budget, invite_code, created_at, updated_at"

// CreateTrip persists a trip and its initial OWNER membership in one
// transaction, generating IDs and timestamps.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Membership) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	owner.TripID = trip.ID
	owner.Role = models.RoleOwner
	owner.JoinedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, title, destination, description, start_date, end_date, budget, invite_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		trip.ID, trip.Title, trip.Destination, trip.Description,
		string(trip.StartDate), string(trip.EndDate), trip.Budget.String(),
		trip.InviteCode, trip.CreatedAt, trip.UpdatedAt,
	)
	if isUniqueViolation(err, "trips.invite_code") {
		return apperr.Conflict("invite code %s is already in use", trip.InviteCode)
	}
	if err != nil {
		return apperr.Internal(err, "failed to insert trip")
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trip_members (id, trip_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)",
		owner.ID, owner.TripID, owner.UserID, owner.Role, owner.JoinedAt,
	)
	if err != nil {
		return apperr.Internal(err, "failed to insert owner membership")
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "failed to commit transaction")
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.scanTrip(s.db.QueryRowContext(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id = ?", tripID))
}

// GetTripByCode retrieves a trip by its unique invite code.
func (s *SQLiteStore) GetTripByCode(ctx context.Context, inviteCode string) (*models.Trip, error) {
	return s.scanTrip(s.db.QueryRowContext(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE invite_code = ?", inviteCode))
}

// ListUserTrips returns every trip the user is a member of, oldest first.
func (s *SQLiteStore) ListUserTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.title, t.destination, t.description, t.start_date, t.end_date,
		        t.budget, t.invite_code, t.created_at, t.updated_at
		 FROM trips t
		 JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.created_at, t.id`,
		userID,
	)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list trips")
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var (
			trip       models.Trip
			start, end string
			budget     string
		)
		if err := rows.Scan(&trip.ID, &trip.Title, &trip.Destination, &trip.Description,
			&start, &end, &budget, &trip.InviteCode, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
			return nil, apperr.Internal(err, "failed to scan trip")
		}
		trip.StartDate = models.Date(start)
		trip.EndDate = models.Date(end)
		trip.Budget, err = decimal.NewFromString(budget)
		if err != nil {
			return nil, apperr.Internal(err, "corrupt budget for trip %s", trip.ID)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "failed to iterate trips")
	}
	return trips, nil
}

// UpdateTrip rewrites the trip's mutable fields.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		"UPDATE trips SET title = ?, destination = ?, description = ?, start_date = ?, end_date = ?, budget = ?, updated_at = ? WHERE id = ?",
		trip.Title, trip.Destination, trip.Description,
		string(trip.StartDate), string(trip.EndDate), trip.Budget.String(),
		trip.UpdatedAt, trip.ID,
	)
	if err != nil {
		return apperr.Internal(err, "failed to update trip")
	}
	return requireRowAffected(res, "trip not found")
}

// DeleteTrip removes a trip; memberships, expenses and splits cascade.
// The trip's membership lock entry is dropped with it.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return apperr.Internal(err, "failed to delete trip")
	}
	if err := requireRowAffected(res, "trip not found"); err != nil {
		return err
	}
	s.releaseTripLock(tripID)
	return nil
}

func (s *SQLiteStore) scanTrip(row *sql.Row) (*models.Trip, error) {
	var (
		trip       models.Trip
		start, end string
		budget     string
	)
	err := row.Scan(&trip.ID, &trip.Title, &trip.Destination, &trip.Description,
		&start, &end, &budget, &trip.InviteCode, &trip.CreatedAt, &trip.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("trip not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to get trip")
	}
	trip.StartDate = models.Date(start)
	trip.EndDate = models.Date(end)
	trip.Budget, err = decimal.NewFromString(budget)
	if err != nil {
		return nil, apperr.Internal(err, "corrupt budget for trip %s", trip.ID)
	}
	return &trip, nil
}

// requireRowAffected turns a zero-row UPDATE/DELETE into NotFound.
func requireRowAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err, "failed to read rows affected")
	}
	if n == 0 {
		return apperr.NotFound("%s", msg)
	}
	return nil
}
