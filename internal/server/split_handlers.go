package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/server/middleware"
)

type createSplitRequest struct {
	ParticipantID string `json:"participant_id"`
	Amount        string `json:"amount"`
	Percentage    string `json:"percentage"`
}

type splitAmountRequest struct {
	Amount string `json:"amount"`
}

type totalDebtResponse struct {
	UserID string `json:"user_id"`
	Total  string `json:"total"`
}

func (s *Server) handleCreateSplit(w http.ResponseWriter, r *http.Request) {
	var req createSplitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	var percentage *decimal.Decimal
	if req.Percentage != "" {
		p, err := decimal.NewFromString(req.Percentage)
		if err != nil {
			writeError(w, apperr.Invalid("invalid percentage %q", req.Percentage))
			return
		}
		percentage = &p
	}

	split, err := s.splits.CreateSplit(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseID"], req.ParticipantID, amount, percentage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSplitView(split))
}

func (s *Server) handleListSplits(w http.ResponseWriter, r *http.Request) {
	splits, err := s.splits.ListExpenseSplits(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitViews(splits))
}

func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	split, err := s.splits.GetSplit(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["splitID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitView(split))
}

func (s *Server) handleMarkSplitPaid(w http.ResponseWriter, r *http.Request) {
	split, err := s.splits.MarkSplitPaid(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["splitID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitView(split))
}

func (s *Server) handleMarkSplitUnpaid(w http.ResponseWriter, r *http.Request) {
	split, err := s.splits.MarkSplitUnpaid(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["splitID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitView(split))
}

func (s *Server) handleUpdateSplitAmount(w http.ResponseWriter, r *http.Request) {
	var req splitAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	split, err := s.splits.UpdateSplitAmount(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["splitID"], amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitView(split))
}

func (s *Server) handleDeleteSplit(w http.ResponseWriter, r *http.Request) {
	if err := s.splits.DeleteSplit(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["splitID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handlePendingDebts(w http.ResponseWriter, r *http.Request) {
	splits, err := s.debts.GetUserPendingDebts(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitViews(splits))
}

func (s *Server) handleTotalDebt(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	total, err := s.debts.GetTotalPendingDebt(r.Context(), middleware.GetUserID(r.Context()), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalDebtResponse{UserID: userID, Total: total.StringFixed(2)})
}
