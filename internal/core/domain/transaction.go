package domain

import "github.com/shopspring/decimal"

// TransactionStatus indicates whether a recorded payment went through.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Transaction is a recorded payment applied against a Settlement.
// Rows are append-only; only SUCCESS transactions count toward the
// settlement's paid total.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	SettlementID  string            `json:"settlementID"`  // FK -> Settlement.settlementID
	FromUserID    string            `json:"fromUserID"`    // Paying side (the debtor)
	ToUserID      string            `json:"toUserID"`      // Receiving side (the creditor)
	Amount        decimal.Decimal   `json:"amount"`        // Positive, minor currency units
	Status        TransactionStatus `json:"status"`
	Method        string            `json:"method,omitempty"`
	Note          string            `json:"note,omitempty"`
	AuditFields
}
