package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
	"github.com/tripfolio/tripfolio/internal/server/middleware"
	"github.com/tripfolio/tripfolio/internal/service"
)

type createExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	SplitType   string `json:"split_type"`
	PayerID     string `json:"payer_id"`
	// Participants carries one entry per share. Value holds the manual
	// amount or percentage, depending on split_type.
	Participants []struct {
		UserID string `json:"user_id"`
		Value  string `json:"value"`
	} `json:"participants"`
	ReceiptURL string `json:"receipt_url"`
}

type updateExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	ReceiptURL  string `json:"receipt_url"`
}

type expenseWithSplits struct {
	Expense expenseView `json:"expense"`
	Splits  []splitView `json:"splits"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Invalid("invalid amount %q", raw)
	}
	return amount, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Date:        req.Date,
		SplitType:   models.SplitType(req.SplitType),
		PayerID:     req.PayerID,
		ReceiptURL:  req.ReceiptURL,
		Values:      make(map[string]decimal.Decimal),
	}
	for _, p := range req.Participants {
		in.ParticipantIDs = append(in.ParticipantIDs, p.UserID)
		if p.Value != "" {
			value, err := decimal.NewFromString(p.Value)
			if err != nil {
				writeError(w, apperr.Invalid("invalid value %q for participant %s", p.Value, p.UserID))
				return
			}
			in.Values[p.UserID] = value
		}
	}

	expense, splits, err := s.expenses.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseWithSplits{
		Expense: toExpenseView(expense),
		Splits:  toSplitViews(splits),
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListTripExpenses(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseViews(expenses))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.GetExpense(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseView(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseID"], service.UpdateExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Date:        req.Date,
		ReceiptURL:  req.ReceiptURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseView(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
