package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseParticipant is one member's share of an expense.
// Shares are ordered; equal-split remainder distribution depends on input order.
type ExpenseParticipant struct {
	ExpenseID   string          `json:"expenseID"`
	UserID      string          `json:"userID"`
	ShareAmount decimal.Decimal `json:"shareAmount"` // Minor currency units
	Position    int             `json:"position"`    // Input order, 0-based
}

// Expense is a shared cost paid by one member and split across participants.
// Invariant: the participant shares sum exactly to Amount.
// Once any payment in the trip clears, IsLocked flips true and the expense
// becomes immutable.
type Expense struct {
	ExpenseID    string               `json:"expenseID"` // Primary Key (UUID)
	TripID       string               `json:"tripID"`    // FK -> Trip.tripID
	PayerID      string               `json:"payerID"`   // FK -> User.userID
	Amount       decimal.Decimal      `json:"amount"`    // Positive, minor currency units
	Description  string               `json:"description"`
	ExpenseDate  time.Time            `json:"expenseDate"`
	IsLocked     bool                 `json:"isLocked"`
	Participants []ExpenseParticipant `json:"participants"`
	AuditFields
}
