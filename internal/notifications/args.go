package notifications

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Event names carried by TripEventArgs.
const (
	EventExpenseCreated      = "expense.created"
	EventExpenseUpdated      = "expense.updated"
	EventExpenseDeleted      = "expense.deleted"
	EventPaymentRecorded     = "payment.recorded"
	EventSettlementCompleted = "settlement.completed"
)

// TripEventArgs is the queued notification payload for a trip event.
type TripEventArgs struct {
	Event        string          `json:"event"`
	TripID       string          `json:"trip_id"`
	ActorID      string          `json:"actor_id"`
	ExpenseID    string          `json:"expense_id,omitempty"`
	SettlementID string          `json:"settlement_id,omitempty"`
	Amount       decimal.Decimal `json:"amount,omitempty"`
}

func (TripEventArgs) Kind() string { return "trip_event" }

// EnqueueTxFunc enqueues a trip event within the given transaction.
// Provided by main using river.Client.InsertTx so the notification is
// only delivered when the surrounding transaction commits.
type EnqueueTxFunc func(ctx context.Context, tx pgx.Tx, args TripEventArgs) error
