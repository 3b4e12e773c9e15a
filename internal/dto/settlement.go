package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// BalanceResponse is one member's derived position within a trip.
type BalanceResponse struct {
	UserID        string          `json:"userID"`
	Name          string          `json:"name,omitempty"`
	PictureURL    string          `json:"pictureURL,omitempty"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	TotalPaidOut  decimal.Decimal `json:"totalPaidOut"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// SettlementResponse defines the settlement data returned by the API.
type SettlementResponse struct {
	SettlementID string          `json:"settlementID"`
	TripID       string          `json:"tripID"`
	DebtorID     string          `json:"debtorID"`
	CreditorID   string          `json:"creditorID"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	SettledAt    *time.Time      `json:"settledAt,omitempty"`
}

// BalanceSummaryResponse is the full derived view of a trip's ledger.
// TransactionCount is the number of expenses; the name is kept for API
// compatibility with existing clients.
type BalanceSummaryResponse struct {
	TripID           string               `json:"tripID"`
	TotalExpenses    decimal.Decimal      `json:"totalExpenses"`
	TransactionCount int                  `json:"transactionCount"`
	Balances         []BalanceResponse    `json:"balances"`
	Settlements      []SettlementResponse `json:"settlements"`
	IsBalanced       bool                 `json:"isBalanced"`
}

// RecordTransactionRequest defines the data required to record a payment
// against a settlement. Status defaults to SUCCESS when omitted.
type RecordTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method"`
	Note   string          `json:"note"`
	Status *string         `json:"status" binding:"omitempty,oneof=PENDING SUCCESS FAILED"`
}

// TransactionResponse defines the payment data returned by the API.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	SettlementID  string          `json:"settlementID"`
	FromUserID    string          `json:"fromUserID"`
	ToUserID      string          `json:"toUserID"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Method        string          `json:"method,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListSettlementsResponse wraps the list of settlements for a trip.
type ListSettlementsResponse struct {
	Settlements []SettlementResponse `json:"settlements"`
}

// ListTransactionsResponse wraps the list of payments for a settlement.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToSettlementResponse converts a domain.Settlement to SettlementResponse DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID: s.SettlementID,
		TripID:       s.TripID,
		DebtorID:     s.DebtorID,
		CreditorID:   s.CreditorID,
		Amount:       s.Amount,
		Status:       string(s.Status),
		SettledAt:    s.SettledAt,
	}
}

// ToSettlementResponses converts a slice of domain.Settlement to DTOs.
func ToSettlementResponses(settlements []domain.Settlement) []SettlementResponse {
	responses := make([]SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = ToSettlementResponse(&s)
	}
	return responses
}

// ToBalanceResponse converts a domain.Balance to BalanceResponse DTO.
func ToBalanceResponse(b domain.Balance) BalanceResponse {
	return BalanceResponse{
		UserID:        b.UserID,
		Name:          b.UserName,
		PictureURL:    b.PictureURL,
		TotalPaid:     b.TotalPaid,
		TotalOwed:     b.TotalOwed,
		NetBalance:    b.NetBalance,
		TotalReceived: b.TotalReceived,
		TotalPaidOut:  b.TotalPaidOut,
		Remaining:     b.Remaining,
	}
}

// ToBalanceSummaryResponse converts a domain.TripBalanceSummary to its DTO.
func ToBalanceSummaryResponse(s *domain.TripBalanceSummary) BalanceSummaryResponse {
	balances := make([]BalanceResponse, len(s.Balances))
	for i, b := range s.Balances {
		balances[i] = ToBalanceResponse(b)
	}
	return BalanceSummaryResponse{
		TripID:           s.TripID,
		TotalExpenses:    s.TotalExpenses,
		TransactionCount: s.TransactionCount,
		Balances:         balances,
		Settlements:      ToSettlementResponses(s.Settlements),
		IsBalanced:       s.IsBalanced,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		SettlementID:  t.SettlementID,
		FromUserID:    t.FromUserID,
		ToUserID:      t.ToUserID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		Method:        t.Method,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
