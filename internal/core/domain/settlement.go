package domain

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

// Settlement is a persisted directed transfer obligation: the debtor owes the
// creditor Amount within a trip. At most one PENDING row exists per
// (trip, debtor, creditor) direction; a COMPLETED row for the same direction
// accumulates when reconciliation finds new unmet balance.
type Settlement struct {
	SettlementID string           `json:"settlementID"` // Primary Key (UUID)
	TripID       string           `json:"tripID"`       // FK -> Trip.tripID
	DebtorID     string           `json:"debtorID"`     // FK -> User.userID, owes money
	CreditorID   string           `json:"creditorID"`   // FK -> User.userID, is owed money
	Amount       decimal.Decimal  `json:"amount"`       // Minor currency units
	Status       SettlementStatus `json:"status"`
	SettledAt    *time.Time       `json:"settledAt,omitempty"`
	AuditFields
}

// SettlementDirection identifies a (debtor, creditor) pair within a trip.
// The reconciler keys its required/existing union on this.
type SettlementDirection struct {
	DebtorID   string
	CreditorID string
}

// RequiredTransfer is a candidate settlement produced by the generator.
type RequiredTransfer struct {
	DebtorID   string          `json:"debtorID"`
	CreditorID string          `json:"creditorID"`
	Amount     decimal.Decimal `json:"amount"`
}

// Direction returns the transfer's direction key.
func (t RequiredTransfer) Direction() SettlementDirection {
	return SettlementDirection{DebtorID: t.DebtorID, CreditorID: t.CreditorID}
}
