// Package settlement holds the pure balance and transfer math used by the
// settlement service and the pgsql reconciler. Everything here is
// deterministic and side-effect free so the invariants (conservation of
// money, share sums) can be tested without storage.
package settlement

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// SplitEqually divides total across the given users in order. The split is
// computed in the smallest unit total carries (its decimal scale), and the
// remainder is distributed one unit at a time to the first participants, so
// 100 across 3 users yields [34,33,33] and 100.50 across 4 yields
// [25.13,25.13,25.12,25.12]. The shares always sum exactly to total.
func SplitEqually(total decimal.Decimal, userIDs []string) ([]domain.ExpenseParticipant, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("equal split requires at least one participant")
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("equal split requires a positive total, got %s", total.String())
	}

	scale := -total.Exponent()
	if scale < 0 {
		scale = 0
	}
	units := total.Shift(scale)

	n := decimal.NewFromInt(int64(len(userIDs)))
	base := units.Div(n).Floor()
	remainder := units.Sub(base.Mul(n)).IntPart()

	participants := make([]domain.ExpenseParticipant, len(userIDs))
	for i, userID := range userIDs {
		share := base
		if int64(i) < remainder {
			share = share.Add(decimal.NewFromInt(1))
		}
		participants[i] = domain.ExpenseParticipant{
			UserID:      userID,
			ShareAmount: share.Shift(-scale),
			Position:    i,
		}
	}
	return participants, nil
}

// ValidateShares checks that participant shares are non-negative and sum
// exactly to the expense amount.
func ValidateShares(amount decimal.Decimal, participants []domain.ExpenseParticipant) error {
	if len(participants) == 0 {
		return fmt.Errorf("expense must have at least one participant")
	}
	sum := decimal.Zero
	for _, p := range participants {
		if p.ShareAmount.IsNegative() {
			return fmt.Errorf("share for user %s must not be negative", p.UserID)
		}
		sum = sum.Add(p.ShareAmount)
	}
	if !sum.Equal(amount) {
		return fmt.Errorf("participant shares sum to %s but expense amount is %s", sum.String(), amount.String())
	}
	return nil
}

// ComputeBalances reduces the trip ledger into one Balance per member.
// Only SUCCESS transactions count toward received/paid-out totals.
// The Remaining values of the result always sum to exactly zero.
func ComputeBalances(memberIDs []string, expenses []domain.Expense, transactions []domain.Transaction) []domain.Balance {
	byUser := make(map[string]*domain.Balance, len(memberIDs))
	order := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if _, ok := byUser[id]; ok {
			continue // de-duplicate owner appearing in the member list
		}
		byUser[id] = &domain.Balance{
			UserID:        id,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
			NetBalance:    decimal.Zero,
			TotalReceived: decimal.Zero,
			TotalPaidOut:  decimal.Zero,
			Remaining:     decimal.Zero,
		}
		order = append(order, id)
	}

	for _, exp := range expenses {
		if payer, ok := byUser[exp.PayerID]; ok {
			payer.TotalPaid = payer.TotalPaid.Add(exp.Amount)
		}
		for _, p := range exp.Participants {
			if bal, ok := byUser[p.UserID]; ok {
				bal.TotalOwed = bal.TotalOwed.Add(p.ShareAmount)
			}
		}
	}

	for _, txn := range transactions {
		if txn.Status != domain.TransactionSuccess {
			continue
		}
		if to, ok := byUser[txn.ToUserID]; ok {
			to.TotalReceived = to.TotalReceived.Add(txn.Amount)
		}
		if from, ok := byUser[txn.FromUserID]; ok {
			from.TotalPaidOut = from.TotalPaidOut.Add(txn.Amount)
		}
	}

	balances := make([]domain.Balance, 0, len(order))
	for _, id := range order {
		bal := byUser[id]
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		bal.Remaining = bal.NetBalance.Sub(bal.TotalReceived.Sub(bal.TotalPaidOut))
		balances = append(balances, *bal)
	}
	return balances
}

// GenerateTransfers turns balances into a candidate list of debtor->creditor
// transfers using a greedy two-pointer match: largest creditor against
// largest debtor until one side is exhausted. The result is deterministic:
// ties are broken by user ID. It is not guaranteed to be globally minimal.
func GenerateTransfers(balances []domain.Balance) []domain.RequiredTransfer {
	type party struct {
		userID string
		remain decimal.Decimal
	}

	var creditors, debtors []party
	for _, bal := range balances {
		switch {
		case bal.Remaining.IsPositive():
			creditors = append(creditors, party{userID: bal.UserID, remain: bal.Remaining})
		case bal.Remaining.IsNegative():
			debtors = append(debtors, party{userID: bal.UserID, remain: bal.Remaining.Neg()})
		}
	}

	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].remain.Equal(creditors[j].remain) {
			return creditors[i].remain.GreaterThan(creditors[j].remain)
		}
		return creditors[i].userID < creditors[j].userID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].remain.Equal(debtors[j].remain) {
			return debtors[i].remain.GreaterThan(debtors[j].remain)
		}
		return debtors[i].userID < debtors[j].userID
	})

	var transfers []domain.RequiredTransfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].remain, creditors[j].remain)
		if amount.IsPositive() {
			transfers = append(transfers, domain.RequiredTransfer{
				DebtorID:   debtors[i].userID,
				CreditorID: creditors[j].userID,
				Amount:     amount,
			})
		}
		debtors[i].remain = debtors[i].remain.Sub(amount)
		creditors[j].remain = creditors[j].remain.Sub(amount)
		if !debtors[i].remain.IsPositive() {
			i++
		}
		if !creditors[j].remain.IsPositive() {
			j++
		}
	}
	return transfers
}

// SumByDirection collapses candidate transfers into one required amount per
// (debtor, creditor) direction. The generator should never emit a duplicate
// direction, but the reconciler sums defensively anyway.
func SumByDirection(transfers []domain.RequiredTransfer) map[domain.SettlementDirection]decimal.Decimal {
	required := make(map[domain.SettlementDirection]decimal.Decimal, len(transfers))
	for _, t := range transfers {
		dir := t.Direction()
		required[dir] = required[dir].Add(t.Amount)
	}
	return required
}

// IsBalanced reports whether the transfer list settles to nothing:
// empty, or every entry at zero.
func IsBalanced(transfers []domain.RequiredTransfer) bool {
	for _, t := range transfers {
		if !t.Amount.IsZero() {
			return false
		}
	}
	return true
}

// TotalExpenses sums the amounts of all expenses in the ledger.
func TotalExpenses(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total
}
