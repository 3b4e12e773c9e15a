package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense mirrors the expenses table.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	TripID      string          `json:"tripID"`
	PayerID     string          `json:"payerID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate time.Time       `json:"expenseDate"`
	IsLocked    bool            `json:"isLocked"`
	AuditFields
}

// ExpenseParticipant mirrors the expense_participants table.
// Position preserves input order for remainder distribution.
type ExpenseParticipant struct {
	ExpenseID   string          `json:"expenseID"`
	UserID      string          `json:"userID"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
	Position    int             `json:"position"`
}
