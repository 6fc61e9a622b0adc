package service

import (
	"context"
	"log/slog"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// MemberService manages trip memberships: the (user, trip, role) relation
// every authorization decision consults.
type MemberService struct {
	store storage.Store
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store}
}

// AddMember adds a user to a trip. The actor needs the EDITOR role. The
// role defaults to VIEWER when empty.
func (s *MemberService) AddMember(ctx context.Context, actorID, tripID, userID string, role models.Role) (*models.Membership, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleEditor); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleViewer
	}

	member := &models.Membership{TripID: tripID, UserID: userID, Role: role}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Warn("AddMember failed", "trip_id", tripID, "user_id", userID, "error", err)
		return nil, err
	}
	slog.Info("Member added", "trip_id", tripID, "user_id", userID, "role", role, "actor_id", actorID)
	return member, nil
}

// GetMember returns one membership. The actor must be a member of the trip.
func (s *MemberService) GetMember(ctx context.Context, actorID, tripID, userID string) (*models.Membership, error) {
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.GetMember(ctx, tripID, userID)
}

// ListTripMembers returns all memberships of the trip. The actor must be
// a member.
func (s *MemberService) ListTripMembers(ctx context.Context, actorID, tripID string) ([]models.Membership, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.ListTripMembers(ctx, tripID)
}

// ChangeMemberRole sets a member's role. OWNER only. Demoting the trip's
// sole OWNER fails with Conflict; the check runs inside the storage
// transaction.
func (s *MemberService) ChangeMemberRole(ctx context.Context, actorID, tripID, userID string, newRole models.Role) (*models.Membership, error) {
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleOwner); err != nil {
		return nil, err
	}

	member, err := s.store.ChangeMemberRole(ctx, tripID, userID, newRole)
	if err != nil {
		slog.Warn("ChangeMemberRole failed", "trip_id", tripID, "user_id", userID, "new_role", newRole, "error", err)
		return nil, err
	}
	slog.Info("Member role changed", "trip_id", tripID, "user_id", userID, "new_role", newRole, "actor_id", actorID)
	return member, nil
}

// RemoveMember removes a member from the trip. The actor must be an OWNER,
// except that any member may remove themself (leave). Removing the sole
// OWNER fails with Conflict.
func (s *MemberService) RemoveMember(ctx context.Context, actorID, tripID, userID string) error {
	if actorID != userID {
		if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleOwner); err != nil {
			return err
		}
	}

	if err := s.store.RemoveMember(ctx, tripID, userID); err != nil {
		slog.Warn("RemoveMember failed", "trip_id", tripID, "user_id", userID, "error", err)
		return err
	}
	slog.Info("Member removed", "trip_id", tripID, "user_id", userID, "actor_id", actorID)
	return nil
}

// LeaveTrip removes the actor's own membership.
func (s *MemberService) LeaveTrip(ctx context.Context, actorID, tripID string) error {
	return s.RemoveMember(ctx, actorID, tripID, actorID)
}

// IsMember reports whether the user belongs to the trip. No side effects.
func (s *MemberService) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	_, err := s.store.GetMember(ctx, tripID, userID)
	if err == nil {
		return true, nil
	}
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}

// HasRole reports whether the user holds exactly the given role in the
// trip. No side effects.
func (s *MemberService) HasRole(ctx context.Context, tripID, userID string, role models.Role) (bool, error) {
	member, err := s.store.GetMember(ctx, tripID, userID)
	if err == nil {
		return member.Role == role, nil
	}
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}
