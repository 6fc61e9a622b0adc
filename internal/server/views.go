package server

import (
	"github.com/tripfolio/tripfolio/internal/models"
)

// Wire representations. Amounts travel as decimal strings, dates as
// YYYY-MM-DD.

type userView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

type tripView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Budget      string `json:"budget"`
	InviteCode  string `json:"invite_code"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toTripView(t *models.Trip) tripView {
	return tripView{
		ID:          t.ID,
		Title:       t.Title,
		Destination: t.Destination,
		Description: t.Description,
		StartDate:   t.StartDate.String(),
		EndDate:     t.EndDate.String(),
		Budget:      t.Budget.StringFixed(2),
		InviteCode:  t.InviteCode,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTripViews(trips []models.Trip) []tripView {
	views := make([]tripView, len(trips))
	for i := range trips {
		views[i] = toTripView(&trips[i])
	}
	return views
}

type memberView struct {
	ID       string `json:"id"`
	TripID   string `json:"trip_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
}

func toMemberView(m *models.Membership) memberView {
	return memberView{
		ID:       m.ID,
		TripID:   m.TripID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func toMemberViews(members []models.Membership) []memberView {
	views := make([]memberView, len(members))
	for i := range members {
		views[i] = toMemberView(&members[i])
	}
	return views
}

type expenseView struct {
	ID          string `json:"id"`
	TripID      string `json:"trip_id"`
	PayerID     string `json:"payer_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	SplitType   string `json:"split_type"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toExpenseView(e *models.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		TripID:      e.TripID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date.String(),
		SplitType:   string(e.SplitType),
		ReceiptURL:  e.ReceiptURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExpenseViews(expenses []models.Expense) []expenseView {
	views := make([]expenseView, len(expenses))
	for i := range expenses {
		views[i] = toExpenseView(&expenses[i])
	}
	return views
}

type splitView struct {
	ID            string `json:"id"`
	ExpenseID     string `json:"expense_id"`
	ParticipantID string `json:"participant_id"`
	Amount        string `json:"amount"`
	Percentage    string `json:"percentage,omitempty"`
	Paid          bool   `json:"paid"`
	CreatedAt     int64  `json:"created_at"`
}

func toSplitView(s *models.ExpenseSplit) splitView {
	view := splitView{
		ID:            s.ID,
		ExpenseID:     s.ExpenseID,
		ParticipantID: s.ParticipantID,
		Amount:        s.Amount.StringFixed(2),
		Paid:          s.Paid,
		CreatedAt:     s.CreatedAt,
	}
	if s.Percentage != nil {
		view.Percentage = s.Percentage.String()
	}
	return view
}

func toSplitViews(splits []models.ExpenseSplit) []splitView {
	views := make([]splitView, len(splits))
	for i := range splits {
		views[i] = toSplitView(&splits[i])
	}
	return views
}
