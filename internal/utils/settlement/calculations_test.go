package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/utils/settlement"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func expense(payerID string, amount int64, shares map[string]int64) domain.Expense {
	exp := domain.Expense{
		PayerID: payerID,
		Amount:  d(amount),
	}
	pos := 0
	for userID, share := range shares {
		exp.Participants = append(exp.Participants, domain.ExpenseParticipant{
			UserID:      userID,
			ShareAmount: d(share),
			Position:    pos,
		})
		pos++
	}
	return exp
}

func TestSplitEqually_RemainderGoesToFirstParticipants(t *testing.T) {
	participants, err := settlement.SplitEqually(d(100), []string{"alice", "bob", "carol"})
	require.NoError(t, err)
	require.Len(t, participants, 3)

	assert.True(t, participants[0].ShareAmount.Equal(d(34)), "first participant gets the extra unit")
	assert.True(t, participants[1].ShareAmount.Equal(d(33)))
	assert.True(t, participants[2].ShareAmount.Equal(d(33)))

	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.ShareAmount)
	}
	assert.True(t, sum.Equal(d(100)), "shares must sum to the total")
}

func TestSplitEqually_FractionalTotalKeepsShareSum(t *testing.T) {
	total := decimal.RequireFromString("100.50")

	participants, err := settlement.SplitEqually(total, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.True(t, participants[0].ShareAmount.Equal(decimal.RequireFromString("50.25")))
	assert.True(t, participants[1].ShareAmount.Equal(decimal.RequireFromString("50.25")))

	participants, err = settlement.SplitEqually(total, []string{"a", "b", "c", "e"})
	require.NoError(t, err)
	require.Len(t, participants, 4)
	assert.True(t, participants[0].ShareAmount.Equal(decimal.RequireFromString("25.13")))
	assert.True(t, participants[1].ShareAmount.Equal(decimal.RequireFromString("25.13")))
	assert.True(t, participants[2].ShareAmount.Equal(decimal.RequireFromString("25.12")))
	assert.True(t, participants[3].ShareAmount.Equal(decimal.RequireFromString("25.12")))

	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.ShareAmount)
	}
	assert.True(t, sum.Equal(total), "shares must sum to the total")
	require.NoError(t, settlement.ValidateShares(total, participants))
}

func TestSplitEqually_FractionalRemainderNotTruncated(t *testing.T) {
	// 0.01 across three users splits at the cent level, not [0,0,0].
	participants, err := settlement.SplitEqually(decimal.RequireFromString("0.01"), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, settlement.ValidateShares(decimal.RequireFromString("0.01"), participants))
	assert.True(t, participants[0].ShareAmount.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, participants[1].ShareAmount.IsZero())
	assert.True(t, participants[2].ShareAmount.IsZero())
}

func TestSplitEqually_ExactDivision(t *testing.T) {
	participants, err := settlement.SplitEqually(d(90000), []string{"a", "b", "c"})
	require.NoError(t, err)
	for _, p := range participants {
		assert.True(t, p.ShareAmount.Equal(d(30000)))
	}
}

func TestSplitEqually_RejectsEmptyAndNonPositive(t *testing.T) {
	_, err := settlement.SplitEqually(d(100), nil)
	assert.Error(t, err)

	_, err = settlement.SplitEqually(d(0), []string{"a"})
	assert.Error(t, err)
}

func TestValidateShares(t *testing.T) {
	ok := []domain.ExpenseParticipant{
		{UserID: "a", ShareAmount: d(60)},
		{UserID: "b", ShareAmount: d(40)},
	}
	assert.NoError(t, settlement.ValidateShares(d(100), ok))

	short := []domain.ExpenseParticipant{
		{UserID: "a", ShareAmount: d(60)},
		{UserID: "b", ShareAmount: d(30)},
	}
	assert.Error(t, settlement.ValidateShares(d(100), short))

	negative := []domain.ExpenseParticipant{
		{UserID: "a", ShareAmount: d(110)},
		{UserID: "b", ShareAmount: d(-10)},
	}
	assert.Error(t, settlement.ValidateShares(d(100), negative))

	assert.Error(t, settlement.ValidateShares(d(100), nil))
}

func TestComputeBalances_ThreeMemberScenario(t *testing.T) {
	members := []string{"a", "b", "c"}
	expenses := []domain.Expense{
		expense("a", 90000, map[string]int64{"a": 30000, "b": 30000, "c": 30000}),
	}

	balances := settlement.ComputeBalances(members, expenses, nil)
	require.Len(t, balances, 3)

	byUser := make(map[string]domain.Balance)
	for _, bal := range balances {
		byUser[bal.UserID] = bal
	}

	assert.True(t, byUser["a"].TotalPaid.Equal(d(90000)))
	assert.True(t, byUser["a"].Remaining.Equal(d(60000)))
	assert.True(t, byUser["b"].Remaining.Equal(d(-30000)))
	assert.True(t, byUser["c"].Remaining.Equal(d(-30000)))

	transfers := settlement.GenerateTransfers(balances)
	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, "a", tr.CreditorID)
		assert.True(t, tr.Amount.Equal(d(30000)))
	}
	assert.ElementsMatch(t, []string{"b", "c"}, []string{transfers[0].DebtorID, transfers[1].DebtorID})
}

func TestComputeBalances_Conservation(t *testing.T) {
	members := []string{"a", "b", "c", "d"}
	expenses := []domain.Expense{
		expense("a", 100, map[string]int64{"a": 34, "b": 33, "c": 33}),
		expense("b", 7501, map[string]int64{"a": 1876, "b": 1875, "c": 1875, "d": 1875}),
		expense("d", 99999, map[string]int64{"c": 50000, "d": 49999}),
	}
	transactions := []domain.Transaction{
		{FromUserID: "b", ToUserID: "a", Amount: d(500), Status: domain.TransactionSuccess},
		{FromUserID: "c", ToUserID: "d", Amount: d(1000), Status: domain.TransactionSuccess},
		{FromUserID: "c", ToUserID: "a", Amount: d(999), Status: domain.TransactionFailed}, // ignored
	}

	balances := settlement.ComputeBalances(members, expenses, transactions)

	totalPaid := decimal.Zero
	remaining := decimal.Zero
	for _, bal := range balances {
		totalPaid = totalPaid.Add(bal.TotalPaid)
		remaining = remaining.Add(bal.Remaining)
	}
	assert.True(t, totalPaid.Equal(settlement.TotalExpenses(expenses)))
	assert.True(t, remaining.IsZero(), "remaining must sum to exactly zero, got %s", remaining.String())
}

func TestComputeBalances_SuccessfulPaymentsShiftRemaining(t *testing.T) {
	members := []string{"a", "b"}
	expenses := []domain.Expense{
		expense("a", 100, map[string]int64{"a": 50, "b": 50}),
	}
	transactions := []domain.Transaction{
		{FromUserID: "b", ToUserID: "a", Amount: d(50), Status: domain.TransactionSuccess},
	}

	balances := settlement.ComputeBalances(members, expenses, transactions)
	for _, bal := range balances {
		assert.True(t, bal.Remaining.IsZero(), "fully settled trip has zero remaining for %s", bal.UserID)
	}

	transfers := settlement.GenerateTransfers(balances)
	assert.Empty(t, transfers)
	assert.True(t, settlement.IsBalanced(transfers))
}

func TestComputeBalances_DeduplicatesMembers(t *testing.T) {
	members := []string{"a", "b", "a"}
	balances := settlement.ComputeBalances(members, nil, nil)
	assert.Len(t, balances, 2)
}

func TestGenerateTransfers_Deterministic(t *testing.T) {
	balances := []domain.Balance{
		{UserID: "c", Remaining: d(-300)},
		{UserID: "b", Remaining: d(-300)},
		{UserID: "a", Remaining: d(600)},
	}

	first := settlement.GenerateTransfers(balances)
	second := settlement.GenerateTransfers(balances)
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	// Equal debts tie-break on user ID.
	assert.Equal(t, "b", first[0].DebtorID)
	assert.Equal(t, "c", first[1].DebtorID)
}

func TestGenerateTransfers_LargestMatchedFirst(t *testing.T) {
	balances := []domain.Balance{
		{UserID: "a", Remaining: d(700)},
		{UserID: "b", Remaining: d(300)},
		{UserID: "c", Remaining: d(-600)},
		{UserID: "d", Remaining: d(-400)},
	}

	transfers := settlement.GenerateTransfers(balances)
	require.Len(t, transfers, 3)

	assert.Equal(t, domain.RequiredTransfer{DebtorID: "c", CreditorID: "a", Amount: d(600)}, transfers[0])
	assert.Equal(t, domain.RequiredTransfer{DebtorID: "d", CreditorID: "a", Amount: d(100)}, transfers[1])
	assert.Equal(t, domain.RequiredTransfer{DebtorID: "d", CreditorID: "b", Amount: d(300)}, transfers[2])

	// Total moved equals total owed.
	moved := decimal.Zero
	for _, tr := range transfers {
		moved = moved.Add(tr.Amount)
	}
	assert.True(t, moved.Equal(d(1000)))
}

func TestSumByDirection_CollapsesDuplicates(t *testing.T) {
	transfers := []domain.RequiredTransfer{
		{DebtorID: "b", CreditorID: "a", Amount: d(100)},
		{DebtorID: "b", CreditorID: "a", Amount: d(50)},
		{DebtorID: "c", CreditorID: "a", Amount: d(25)},
	}

	required := settlement.SumByDirection(transfers)
	assert.Len(t, required, 2)
	assert.True(t, required[domain.SettlementDirection{DebtorID: "b", CreditorID: "a"}].Equal(d(150)))
	assert.True(t, required[domain.SettlementDirection{DebtorID: "c", CreditorID: "a"}].Equal(d(25)))
}

func TestIsBalanced(t *testing.T) {
	assert.True(t, settlement.IsBalanced(nil))
	assert.True(t, settlement.IsBalanced([]domain.RequiredTransfer{{Amount: decimal.Zero}}))
	assert.False(t, settlement.IsBalanced([]domain.RequiredTransfer{{Amount: d(1)}}))
}
