package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/server/middleware"
)

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func parseRole(raw string) (models.Role, error) {
	if raw == "" {
		return "", nil
	}
	role, err := models.ParseRole(raw)
	if err != nil {
		return "", apperr.Invalid("%v", err)
	}
	return role, nil
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	member, err := s.members.AddMember(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"], req.UserID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberView(member))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.members.ListTripMembers(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberViews(members))
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	member, err := s.members.GetMember(r.Context(), middleware.GetUserID(r.Context()), vars["tripID"], vars["userID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberView(member))
}

func (s *Server) handleChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeError(w, apperr.Invalid("%v", err))
		return
	}

	vars := mux.Vars(r)
	member, err := s.members.ChangeMemberRole(r.Context(), middleware.GetUserID(r.Context()), vars["tripID"], vars["userID"], role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberView(member))
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.members.RemoveMember(r.Context(), middleware.GetUserID(r.Context()), vars["tripID"], vars["userID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleLeaveTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.members.LeaveTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
