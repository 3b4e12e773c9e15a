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

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockTripRepo    *MockTripRepository
	service         portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockTripRepo = new(MockTripRepository)
	tripSvc := services.NewTripService(suite.mockTripRepo, new(MockUserRepository))
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockTripRepo, tripSvc)
}

func (suite *ExpenseServiceTestSuite) allowMember(tripID, ownerID string) {
	trip := &domain.Trip{TripID: tripID, OwnerID: ownerID}
	suite.mockTripRepo.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_EqualSplit() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(false, nil).Once()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b", "c"}, nil).Once()

	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		if len(e.Participants) != 3 {
			return false
		}
		sum := decimal.Zero
		for _, p := range e.Participants {
			sum = sum.Add(p.ShareAmount)
		}
		return sum.Equal(e.Amount) && e.Participants[0].ShareAmount.Equal(decimal.NewFromInt(34))
	})).Return(nil).Once()

	req := dto.CreateExpenseRequest{
		PayerID:        "a",
		Amount:         decimal.NewFromInt(100),
		Description:    "Dinner",
		ParticipantIDs: []string{"a", "b", "c"},
	}
	exp, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")

	suite.Require().NoError(err)
	suite.Len(exp.Participants, 3)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_FractionalAmountSplitsExactly() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(false, nil).Once()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b"}, nil).Once()

	amount := decimal.RequireFromString("100.50")
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		sum := decimal.Zero
		for _, p := range e.Participants {
			sum = sum.Add(p.ShareAmount)
		}
		return sum.Equal(amount) && e.Participants[0].ShareAmount.Equal(decimal.RequireFromString("50.25"))
	})).Return(nil).Once()

	req := dto.CreateExpenseRequest{
		PayerID:        "a",
		Amount:         amount,
		Description:    "Taxi",
		ParticipantIDs: []string{"a", "b"},
	}
	_, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_DuplicateParticipantRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(false, nil).Twice()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b"}, nil).Twice()

	req := dto.CreateExpenseRequest{
		PayerID:        "a",
		Amount:         decimal.NewFromInt(100),
		Description:    "Dinner",
		ParticipantIDs: []string{"a", "b", "a"},
	}
	_, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")
	suite.ErrorIs(err, apperrors.ErrValidation)

	req = dto.CreateExpenseRequest{
		PayerID:     "a",
		Amount:      decimal.NewFromInt(100),
		Description: "Dinner",
		Shares: []dto.ExpenseShareInput{
			{UserID: "b", ShareAmount: decimal.NewFromInt(50)},
			{UserID: "b", ShareAmount: decimal.NewFromInt(50)},
		},
	}
	_, err = suite.service.CreateExpense(ctx, "trip-1", req, "a")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_MismatchedSharesRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(false, nil).Once()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b"}, nil).Once()

	req := dto.CreateExpenseRequest{
		PayerID:     "a",
		Amount:      decimal.NewFromInt(100),
		Description: "Dinner",
		Shares: []dto.ExpenseShareInput{
			{UserID: "a", ShareAmount: decimal.NewFromInt(60)},
			{UserID: "b", ShareAmount: decimal.NewFromInt(30)},
		},
	}
	_, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NonMemberParticipantRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(false, nil).Once()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b"}, nil).Once()

	req := dto.CreateExpenseRequest{
		PayerID:        "a",
		Amount:         decimal.NewFromInt(100),
		Description:    "Dinner",
		ParticipantIDs: []string{"a", "stranger"},
	}
	_, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_LockedTripRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	suite.mockExpenseRepo.On("TripHasLockedExpenses", ctx, "trip-1").Return(true, nil).Once()

	req := dto.CreateExpenseRequest{
		PayerID:        "a",
		Amount:         decimal.NewFromInt(100),
		Description:    "Dinner",
		ParticipantIDs: []string{"a"},
	}
	_, err := suite.service.CreateExpense(ctx, "trip-1", req, "a")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_LockedExpenseRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	locked := &domain.Expense{ExpenseID: "exp-1", TripID: "trip-1", IsLocked: true}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, "exp-1").Return(locked, nil).Once()

	desc := "new description"
	_, err := suite.service.UpdateExpense(ctx, "trip-1", "exp-1", dto.UpdateExpenseRequest{Description: &desc}, "a")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_WrongTripIsNotFound() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	other := &domain.Expense{ExpenseID: "exp-1", TripID: "trip-other"}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, "exp-1").Return(other, nil).Once()

	desc := "x"
	_, err := suite.service.UpdateExpense(ctx, "trip-1", "exp-1", dto.UpdateExpenseRequest{Description: &desc}, "a")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_AmountChangeResplits() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	exp := &domain.Expense{
		ExpenseID: "exp-1",
		TripID:    "trip-1",
		PayerID:   "a",
		Amount:    decimal.NewFromInt(100),
		Participants: []domain.ExpenseParticipant{
			{ExpenseID: "exp-1", UserID: "a", ShareAmount: decimal.NewFromInt(50), Position: 0},
			{ExpenseID: "exp-1", UserID: "b", ShareAmount: decimal.NewFromInt(50), Position: 1},
		},
	}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, "exp-1").Return(exp, nil).Once()
	suite.mockTripRepo.On("ListEffectiveMemberIDs", ctx, "trip-1").Return([]string{"a", "b"}, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.Amount.Equal(decimal.NewFromInt(201)) &&
			len(e.Participants) == 2 &&
			e.Participants[0].ShareAmount.Equal(decimal.NewFromInt(101)) &&
			e.Participants[1].ShareAmount.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()

	amount := decimal.NewFromInt(201)
	updated, err := suite.service.UpdateExpense(ctx, "trip-1", "exp-1", dto.UpdateExpenseRequest{Amount: &amount}, "a")

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(amount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_LockedRejected() {
	ctx := context.Background()
	suite.allowMember("trip-1", "a")
	locked := &domain.Expense{ExpenseID: "exp-1", TripID: "trip-1", IsLocked: true}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, "exp-1").Return(locked, nil).Once()

	err := suite.service.DeleteExpense(ctx, "trip-1", "exp-1", "a")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
