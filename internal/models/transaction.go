package models

import "github.com/shopspring/decimal"

// TransactionStatus indicates whether a recorded payment went through.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Transaction mirrors the transactions table. Rows are append-only.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	SettlementID  string            `json:"settlementID"`
	FromUserID    string            `json:"fromUserID"`
	ToUserID      string            `json:"toUserID"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	Method        string            `json:"method"`
	Note          string            `json:"note"`
	AuditFields
}
