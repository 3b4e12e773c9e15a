package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// ExpenseShareInput is one caller-supplied participant share.
type ExpenseShareInput struct {
	UserID      string          `json:"userID" binding:"required"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

// CreateExpenseRequest defines the data required to create an expense.
// Either Shares carries explicit per-person amounts that must sum to Amount,
// or ParticipantIDs requests an equal split across the listed members.
type CreateExpenseRequest struct {
	PayerID        string              `json:"payerID" binding:"required"`
	Amount         decimal.Decimal     `json:"amount" binding:"required"`
	Description    string              `json:"description" binding:"required"`
	ExpenseDate    time.Time           `json:"expenseDate" binding:"required"`
	Shares         []ExpenseShareInput `json:"shares"`
	ParticipantIDs []string            `json:"participantIDs"`
}

// UpdateExpenseRequest defines the data allowed for updating an expense.
// The share inputs follow the same either/or rule as creation.
type UpdateExpenseRequest struct {
	PayerID        *string             `json:"payerID"`
	Amount         *decimal.Decimal    `json:"amount"`
	Description    *string             `json:"description"`
	ExpenseDate    *time.Time          `json:"expenseDate"`
	Shares         []ExpenseShareInput `json:"shares"`
	ParticipantIDs []string            `json:"participantIDs"`
}

// ExpenseShareResponse is one participant share in a response.
type ExpenseShareResponse struct {
	UserID      string          `json:"userID"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

// ExpenseResponse defines the expense data returned by the API.
type ExpenseResponse struct {
	ExpenseID   string                 `json:"expenseID"`
	TripID      string                 `json:"tripID"`
	PayerID     string                 `json:"payerID"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	ExpenseDate time.Time              `json:"expenseDate"`
	IsLocked    bool                   `json:"isLocked"`
	Shares      []ExpenseShareResponse `json:"shares"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	shares := make([]ExpenseShareResponse, len(e.Participants))
	for i, p := range e.Participants {
		shares[i] = ExpenseShareResponse{
			UserID:      p.UserID,
			ShareAmount: p.ShareAmount,
		}
	}
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		TripID:      e.TripID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		IsLocked:    e.IsLocked,
		Shares:      shares,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}
