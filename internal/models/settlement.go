package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus indicates the state of a settlement obligation.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "PENDING"
	SettlementCompleted SettlementStatus = "COMPLETED"
	SettlementCancelled SettlementStatus = "CANCELLED"
)

// Settlement mirrors the settlements table.
type Settlement struct {
	SettlementID string           `json:"settlementID"`
	TripID       string           `json:"tripID"`
	DebtorID     string           `json:"debtorID"`
	CreditorID   string           `json:"creditorID"`
	Amount       decimal.Decimal  `json:"amount"`
	Status       SettlementStatus `json:"status"`
	SettledAt    *time.Time       `json:"settledAt"`
	AuditFields
}
