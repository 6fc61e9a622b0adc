package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
)

const memberColumns = "id, trip_id, user_id, role, joined_at"

// AddMember persists a membership, generating its ID and joined timestamp.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Membership) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.Role == "" {
		member.Role = models.RoleViewer
	}
	member.JoinedAt = time.Now().Unix()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trip_members (id, trip_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.TripID, member.UserID, member.Role, member.JoinedAt,
	)
	if isUniqueViolation(err, "trip_members") {
		return apperr.Conflict("user is already a member of this trip")
	}
	if err != nil {
		return apperr.Internal(err, "failed to insert membership")
	}
	return nil
}

// GetMember retrieves one membership by (trip, user).
func (s *SQLiteStore) GetMember(ctx context.Context, tripID, userID string) (*models.Membership, error) {
	return scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM trip_members WHERE trip_id = ? AND user_id = ?",
		tripID, userID))
}

// ListTripMembers returns all memberships of a trip, oldest first.
func (s *SQLiteStore) ListTripMembers(ctx context.Context, tripID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM trip_members WHERE trip_id = ? ORDER BY joined_at, id",
		tripID,
	)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list members")
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperr.Internal(err, "failed to scan membership")
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "failed to iterate members")
	}
	return members, nil
}

// ChangeMemberRole updates a member's role. The sole-owner check runs in
// the same transaction as the write, serialized by a per-trip lock, so two
// concurrent demotions cannot both pass the count and leave zero owners.
func (s *SQLiteStore) ChangeMemberRole(ctx context.Context, tripID, userID string, role models.Role) (*models.Membership, error) {
	lock := s.lockTrip(tripID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	member, err := scanMember(tx.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM trip_members WHERE trip_id = ? AND user_id = ?",
		tripID, userID))
	if err != nil {
		return nil, err
	}

	if member.Role == models.RoleOwner && role != models.RoleOwner {
		if err := requireAnotherOwner(ctx, tx, tripID, userID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE trip_members SET role = ? WHERE id = ?", role, member.ID); err != nil {
		return nil, apperr.Internal(err, "failed to update role")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err, "failed to commit transaction")
	}

	member.Role = role
	return member, nil
}

// RemoveMember deletes a membership under the same sole-owner guard as
// ChangeMemberRole.
func (s *SQLiteStore) RemoveMember(ctx context.Context, tripID, userID string) error {
	lock := s.lockTrip(tripID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	member, err := scanMember(tx.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM trip_members WHERE trip_id = ? AND user_id = ?",
		tripID, userID))
	if err != nil {
		return err
	}

	if member.Role == models.RoleOwner {
		if err := requireAnotherOwner(ctx, tx, tripID, userID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM trip_members WHERE id = ?", member.ID); err != nil {
		return apperr.Internal(err, "failed to delete membership")
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal(err, "failed to commit transaction")
	}
	return nil
}

// requireAnotherOwner fails with Conflict unless the trip has an OWNER
// other than userID.
func requireAnotherOwner(ctx context.Context, tx *sql.Tx, tripID, userID string) error {
	var others int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM trip_members WHERE trip_id = ? AND role = ? AND user_id != ?",
		tripID, models.RoleOwner, userID,
	).Scan(&others)
	if err != nil {
		return apperr.Internal(err, "failed to count owners")
	}
	if others == 0 {
		return apperr.Conflict("cannot remove the only owner of the trip")
	}
	return nil
}

func scanMember(r *sql.Row) (*models.Membership, error) {
	m := &models.Membership{}
	err := r.Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user is not a member of this trip")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to get membership")
	}
	return m, nil
}
