// Package server exposes the trip ledger over a JSON HTTP API with
// Bearer JWT authentication.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/server/middleware"
	"github.com/tripfolio/tripfolio/internal/service"
	"github.com/tripfolio/tripfolio/internal/storage"
)

// Server holds the services and builds the HTTP router.
type Server struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	trips         *service.TripService
	members       *service.MemberService
	expenses      *service.ExpenseService
	splits        *service.SplitService
	debts         *service.DebtService
}

// New wires the services onto a store.
func New(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		trips:         service.NewTripService(store),
		members:       service.NewMemberService(store),
		expenses:      service.NewExpenseService(store),
		splits:        service.NewSplitService(store),
		debts:         service.NewDebtService(store),
	}
}

// Router builds the full route table. Everything under /api except the
// auth endpoints requires a valid Bearer token.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(s.jwtManager))

	authed.HandleFunc("/trips", s.handleCreateTrip).Methods(http.MethodPost)
	authed.HandleFunc("/trips", s.handleListTrips).Methods(http.MethodGet)
	authed.HandleFunc("/trips/code/{code}", s.handleGetTripByCode).Methods(http.MethodGet)
	authed.HandleFunc("/trips/code/{code}/join", s.handleJoinTrip).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}", s.handleGetTrip).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}", s.handleUpdateTrip).Methods(http.MethodPut)
	authed.HandleFunc("/trips/{tripID}", s.handleDeleteTrip).Methods(http.MethodDelete)

	authed.HandleFunc("/trips/{tripID}/members", s.handleAddMember).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/members", s.handleListMembers).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/members/leave", s.handleLeaveTrip).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/members/{userID}", s.handleGetMember).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/members/{userID}", s.handleRemoveMember).Methods(http.MethodDelete)
	authed.HandleFunc("/trips/{tripID}/members/{userID}/role", s.handleChangeMemberRole).Methods(http.MethodPut)

	authed.HandleFunc("/trips/{tripID}/expenses", s.handleCreateExpense).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/expenses", s.handleListExpenses).Methods(http.MethodGet)
	authed.HandleFunc("/expenses/{expenseID}", s.handleGetExpense).Methods(http.MethodGet)
	authed.HandleFunc("/expenses/{expenseID}", s.handleUpdateExpense).Methods(http.MethodPut)
	authed.HandleFunc("/expenses/{expenseID}", s.handleDeleteExpense).Methods(http.MethodDelete)

	authed.HandleFunc("/expenses/{expenseID}/splits", s.handleCreateSplit).Methods(http.MethodPost)
	authed.HandleFunc("/expenses/{expenseID}/splits", s.handleListSplits).Methods(http.MethodGet)
	authed.HandleFunc("/splits/{splitID}", s.handleGetSplit).Methods(http.MethodGet)
	authed.HandleFunc("/splits/{splitID}", s.handleDeleteSplit).Methods(http.MethodDelete)
	authed.HandleFunc("/splits/{splitID}/pay", s.handleMarkSplitPaid).Methods(http.MethodPut)
	authed.HandleFunc("/splits/{splitID}/unpay", s.handleMarkSplitUnpaid).Methods(http.MethodPut)
	authed.HandleFunc("/splits/{splitID}/amount", s.handleUpdateSplitAmount).Methods(http.MethodPut)

	authed.HandleFunc("/users/{userID}/pending-debts", s.handlePendingDebts).Methods(http.MethodGet)
	authed.HandleFunc("/users/{userID}/total-debt", s.handleTotalDebt).Methods(http.MethodGet)

	return middleware.Logging(middleware.CORS(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
