package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// inviteCodeAttempts bounds retries when a generated code collides.
const inviteCodeAttempts = 5

// TripService manages trips and their lifecycle. A trip always starts
// with exactly one OWNER membership, held by its creator.
type TripService struct {
	store storage.Store
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// TripInput carries the caller-editable trip fields.
type TripInput struct {
	Title       string
	Destination string
	Description string
	StartDate   string
	EndDate     string
	Budget      decimal.Decimal
}

func (in *TripInput) validate() (start, end models.Date, err error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", "", apperr.Invalid("title is required")
	}
	if strings.TrimSpace(in.Destination) == "" {
		return "", "", apperr.Invalid("destination is required")
	}
	start, err = models.ParseDate(in.StartDate)
	if err != nil {
		return "", "", apperr.Invalid("%v", err)
	}
	end, err = models.ParseDate(in.EndDate)
	if err != nil {
		return "", "", apperr.Invalid("%v", err)
	}
	if end.Before(start) {
		return "", "", apperr.Invalid("end date cannot be before start date")
	}
	if in.Budget.IsNegative() {
		return "", "", apperr.Invalid("budget cannot be negative")
	}
	return start, end, nil
}

// CreateTrip creates a trip and its creator's OWNER membership atomically.
func (s *TripService) CreateTrip(ctx context.Context, actorID string, in TripInput) (*models.Trip, error) {
	start, end, err := in.validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Title:       in.Title,
		Destination: in.Destination,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Budget:      in.Budget,
	}
	owner := &models.Membership{UserID: actorID}

	// Invite codes are random; on the rare collision, regenerate.
	for attempt := 0; ; attempt++ {
		trip.InviteCode = newInviteCode()
		err = s.store.CreateTrip(ctx, trip, owner)
		if err == nil {
			break
		}
		if apperr.KindOf(err) == apperr.KindConflict && attempt < inviteCodeAttempts-1 {
			continue
		}
		slog.Error("CreateTrip failed", "actor_id", actorID, "error", err)
		return nil, err
	}

	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", actorID)
	return trip, nil
}

// GetTrip returns a trip. The actor must be a member.
func (s *TripService) GetTrip(ctx context.Context, actorID, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleViewer); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTripByCode looks a trip up by its invite code, for invite previews.
// No membership is required: the code itself is the capability.
func (s *TripService) GetTripByCode(ctx context.Context, inviteCode string) (*models.Trip, error) {
	return s.store.GetTripByCode(ctx, inviteCode)
}

// ListUserTrips returns every trip the actor is a member of.
func (s *TripService) ListUserTrips(ctx context.Context, actorID string) ([]models.Trip, error) {
	return s.store.ListUserTrips(ctx, actorID)
}

// UpdateTrip rewrites the trip's metadata. OWNER only.
func (s *TripService) UpdateTrip(ctx context.Context, actorID, tripID string, in TripInput) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleOwner); err != nil {
		return nil, err
	}
	start, end, err := in.validate()
	if err != nil {
		return nil, err
	}

	trip.Title = in.Title
	trip.Destination = in.Destination
	trip.Description = in.Description
	trip.StartDate = start
	trip.EndDate = end
	trip.Budget = in.Budget

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		slog.Error("UpdateTrip failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	slog.Info("Trip updated", "trip_id", tripID, "actor_id", actorID)
	return trip, nil
}

// DeleteTrip removes the trip and cascades to its memberships, expenses
// and splits. OWNER only.
func (s *TripService) DeleteTrip(ctx context.Context, actorID, tripID string) error {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return err
	}
	if _, err := requireRole(ctx, s.store, tripID, actorID, models.RoleOwner); err != nil {
		return err
	}
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", tripID, "error", err)
		return err
	}
	slog.Info("Trip deleted", "trip_id", tripID, "actor_id", actorID)
	return nil
}

// JoinTripByCode adds the actor to the trip behind the invite code, as a
// VIEWER. Fails with Conflict if the actor is already a member.
func (s *TripService) JoinTripByCode(ctx context.Context, actorID, inviteCode string) (*models.Membership, error) {
	trip, err := s.store.GetTripByCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	member := &models.Membership{
		TripID: trip.ID,
		UserID: actorID,
		Role:   models.RoleViewer,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, err
	}
	slog.Info("User joined trip by code", "trip_id", trip.ID, "user_id", actorID)
	return member, nil
}

// newInviteCode generates an 8-character uppercase code.
func newInviteCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
