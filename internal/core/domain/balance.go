package domain

import "github.com/shopspring/decimal"

// Balance is a member's derived net position within a trip. It is never
// persisted; the settlement service recomputes it from the ledger.
//
// Remaining is the position after accounting for completed payments:
// positive means the member is still owed money, negative means the member
// still owes money. Across all members of a trip the Remaining values sum
// to exactly zero.
type Balance struct {
	UserID        string          `json:"userID"`
	UserName      string          `json:"userName,omitempty"`
	PictureURL    string          `json:"pictureURL,omitempty"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`     // Sum of expense amounts this member paid
	TotalOwed     decimal.Decimal `json:"totalOwed"`     // Sum of this member's shares
	NetBalance    decimal.Decimal `json:"netBalance"`    // TotalPaid - TotalOwed
	TotalReceived decimal.Decimal `json:"totalReceived"` // Successful payments received
	TotalPaidOut  decimal.Decimal `json:"totalPaidOut"`  // Successful payments made
	Remaining     decimal.Decimal `json:"remaining"`     // NetBalance - (TotalReceived - TotalPaidOut)
}

// TripBalanceSummary is the full derived view of a trip's ledger.
// TransactionCount is the number of expenses, not payment transactions;
// the name is inherited from the original API and preserved for
// compatibility.
type TripBalanceSummary struct {
	TripID           string          `json:"tripID"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TransactionCount int             `json:"transactionCount"`
	Balances         []Balance       `json:"balances"`
	Settlements      []Settlement    `json:"settlements"`
	IsBalanced       bool            `json:"isBalanced"`
}
