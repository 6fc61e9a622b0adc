package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/server/middleware"
	"github.com/tripfolio/tripfolio/internal/service"
)

type tripRequest struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Budget      string `json:"budget"`
}

func (req *tripRequest) toInput() (service.TripInput, error) {
	budget := decimal.Zero
	if req.Budget != "" {
		var err error
		budget, err = decimal.NewFromString(req.Budget)
		if err != nil {
			return service.TripInput{}, apperr.Invalid("invalid budget %q", req.Budget)
		}
	}
	return service.TripInput{
		Title:       req.Title,
		Destination: req.Destination,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      budget,
	}, nil
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	trip, err := s.trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripView(trip))
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListUserTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripViews(trips))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripView(trip))
}

func (s *Server) handleGetTripByCode(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTripByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripView(trip))
}

func (s *Server) handleJoinTrip(w http.ResponseWriter, r *http.Request) {
	member, err := s.trips.JoinTripByCode(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberView(member))
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	trip, err := s.trips.UpdateTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripView(trip))
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.DeleteTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
