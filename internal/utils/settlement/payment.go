package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// PaymentOutcome describes how a validated payment applies to a settlement.
type PaymentOutcome struct {
	// Remaining is the unpaid balance before this payment.
	Remaining decimal.Decimal
	// Completes is true when the payment settles the remaining balance.
	// Only SUCCESS payments count toward completion.
	Completes bool
}

// ApplyPayment validates a payment amount against a settlement's remaining
// balance. The amount must be positive and must not exceed
// settlementAmount - totalPaid, regardless of the payment's status; a
// PENDING or FAILED payment is bounded the same way a SUCCESS payment is.
func ApplyPayment(settlementAmount, totalPaid, payment decimal.Decimal, status domain.TransactionStatus) (PaymentOutcome, error) {
	if !payment.IsPositive() {
		return PaymentOutcome{}, fmt.Errorf("payment amount must be positive, got %s", payment.String())
	}

	remaining := settlementAmount.Sub(totalPaid)
	if payment.GreaterThan(remaining) {
		return PaymentOutcome{}, fmt.Errorf("payment of %s exceeds remaining balance %s", payment.String(), remaining.String())
	}

	return PaymentOutcome{
		Remaining: remaining,
		Completes: status == domain.TransactionSuccess && payment.Equal(remaining),
	}, nil
}
