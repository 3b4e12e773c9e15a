package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/core/services"
	"github.com/triptally/trip_tally_app/internal/dto"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo *MockSettlementRepository
	mockExpenseRepo    *MockExpenseRepository
	mockTripRepo       *MockTripRepository
	mockUserRepo       *MockUserRepository
	service            portssvc.SettlementSvcFacade
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockTripRepo = new(MockTripRepository)
	suite.mockUserRepo = new(MockUserRepository)
	tripSvc := services.NewTripService(suite.mockTripRepo, suite.mockUserRepo)
	suite.service = services.NewSettlementService(
		suite.mockSettlementRepo,
		suite.mockExpenseRepo,
		suite.mockTripRepo,
		suite.mockUserRepo,
		tripSvc,
	)
}

func (suite *SettlementServiceTestSuite) allowMember(tripID, ownerID string) {
	trip := &domain.Trip{TripID: tripID, OwnerID: ownerID}
	suite.mockTripRepo.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
}

func (suite *SettlementServiceTestSuite) TestGetTripBalances_ThreeMemberTrip() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")

	expenses := []domain.Expense{
		{
			ExpenseID: "exp-1",
			TripID:    "trip-1",
			PayerID:   "a",
			Amount:    decimal.NewFromInt(90000),
			Participants: []domain.ExpenseParticipant{
				{UserID: "a", ShareAmount: decimal.NewFromInt(30000)},
				{UserID: "b", ShareAmount: decimal.NewFromInt(30000)},
				{UserID: "c", ShareAmount: decimal.NewFromInt(30000)},
			},
		},
	}
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b", "c"}, nil).Once()
	suite.mockExpenseRepo.On("ListAllExpensesByTrip", ctx, "trip-1").Return(expenses, nil).Once()
	suite.mockSettlementRepo.On("ListSuccessfulTransactionsByTrip", ctx, "trip-1").Return([]domain.Transaction{}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"a", "b", "c"}).Return(map[string]domain.User{
		"a": {UserID: "a", Name: "Alice"},
	}, nil).Once()
	suite.mockSettlementRepo.On("ListSettlementsByTrip", ctx, "trip-1").Return([]domain.Settlement{}, nil).Once()

	summary, err := suite.service.GetTripBalances(ctx, "trip-1", "a")

	suite.Require().NoError(err)
	suite.True(summary.TotalExpenses.Equal(decimal.NewFromInt(90000)))
	suite.Equal(1, summary.TransactionCount, "transactionCount is the expense count")
	suite.False(summary.IsBalanced)
	suite.Require().Len(summary.Balances, 3)

	byUser := make(map[string]domain.Balance)
	for _, b := range summary.Balances {
		byUser[b.UserID] = b
	}
	suite.True(byUser["a"].Remaining.Equal(decimal.NewFromInt(60000)))
	suite.Equal("Alice", byUser["a"].UserName)
	suite.True(byUser["b"].Remaining.Equal(decimal.NewFromInt(-30000)))
}

func (suite *SettlementServiceTestSuite) TestGetTripBalances_NonMemberForbidden() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "outsider").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTripBalances(ctx, "trip-1", "outsider")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *SettlementServiceTestSuite) TestReconcileSettlements_DelegatesToRepo() {
	ctx := context.Background()
	suite.mockSettlementRepo.On("ReconcileTripSettlements", ctx, "trip-1", "a").Return(nil).Once()

	suite.NoError(suite.service.ReconcileSettlements(ctx, "trip-1", "a"))
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordTransaction_PartyCanRecord() {
	ctx := context.Background()
	stlmt := &domain.Settlement{
		SettlementID: "set-1",
		TripID:       "trip-1",
		DebtorID:     "b",
		CreditorID:   "a",
		Amount:       decimal.NewFromInt(30000),
		Status:       domain.SettlementPending,
	}
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "set-1").Return(stlmt, nil).Once()
	suite.mockSettlementRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.SettlementID == "set-1" &&
			txn.FromUserID == "b" && txn.ToUserID == "a" &&
			txn.Status == domain.TransactionSuccess &&
			txn.Amount.Equal(decimal.NewFromInt(10000))
	})).Return(&domain.Transaction{TransactionID: "txn-1", Status: domain.TransactionSuccess}, nil).Once()

	req := dto.RecordTransactionRequest{Amount: decimal.NewFromInt(10000), Method: "UPI"}
	txn, err := suite.service.RecordTransaction(ctx, "set-1", req, "b")

	suite.Require().NoError(err)
	suite.Equal("txn-1", txn.TransactionID)
	// The debtor is a party, no trip lookup is needed.
	suite.mockTripRepo.AssertNotCalled(suite.T(), "FindTripByID", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRecordTransaction_DefaultsToSuccessStatus() {
	ctx := context.Background()
	stlmt := &domain.Settlement{SettlementID: "set-1", TripID: "trip-1", DebtorID: "b", CreditorID: "a"}
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "set-1").Return(stlmt, nil).Once()

	status := "FAILED"
	suite.mockSettlementRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Status == domain.TransactionFailed
	})).Return(&domain.Transaction{TransactionID: "txn-1", Status: domain.TransactionFailed}, nil).Once()

	req := dto.RecordTransactionRequest{Amount: decimal.NewFromInt(5), Status: &status}
	_, err := suite.service.RecordTransaction(ctx, "set-1", req, "a")
	suite.NoError(err)
}

func (suite *SettlementServiceTestSuite) TestRecordTransaction_NonPositiveAmountRejected() {
	ctx := context.Background()
	stlmt := &domain.Settlement{SettlementID: "set-1", TripID: "trip-1", DebtorID: "b", CreditorID: "a"}
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "set-1").Return(stlmt, nil).Once()

	req := dto.RecordTransactionRequest{Amount: decimal.NewFromInt(-5)}
	_, err := suite.service.RecordTransaction(ctx, "set-1", req, "b")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "RecordTransaction", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRecordTransaction_UnknownSettlement() {
	ctx := context.Background()
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordTransaction(ctx, "nope", dto.RecordTransactionRequest{Amount: decimal.NewFromInt(5)}, "b")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SettlementServiceTestSuite) TestRecordTransaction_OutsiderForbidden() {
	ctx := context.Background()
	stlmt := &domain.Settlement{SettlementID: "set-1", TripID: "trip-1", DebtorID: "b", CreditorID: "a"}
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "set-1").Return(stlmt, nil).Once()
	suite.allowMember("trip-1", "a")
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "outsider").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordTransaction(ctx, "set-1", dto.RecordTransactionRequest{Amount: decimal.NewFromInt(5)}, "outsider")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *SettlementServiceTestSuite) TestListTransactions_PartyCanList() {
	ctx := context.Background()
	stlmt := &domain.Settlement{SettlementID: "set-1", TripID: "trip-1", DebtorID: "b", CreditorID: "a"}
	txns := []domain.Transaction{{TransactionID: "txn-1", SettlementID: "set-1"}}

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "set-1").Return(stlmt, nil).Once()
	suite.mockSettlementRepo.On("ListTransactionsBySettlement", ctx, "set-1").Return(txns, nil).Once()

	got, err := suite.service.ListTransactions(ctx, "set-1", "a")
	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
