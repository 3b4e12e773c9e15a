package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/core/services"
	"github.com/triptally/trip_tally_app/internal/dto"
)

type TripServiceTestSuite struct {
	suite.Suite
	mockTripRepo *MockTripRepository
	mockUserRepo *MockUserRepository
	service      portssvc.TripSvcFacade
}

func (suite *TripServiceTestSuite) SetupTest() {
	suite.mockTripRepo = new(MockTripRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewTripService(suite.mockTripRepo, suite.mockUserRepo)
}

func (suite *TripServiceTestSuite) TestCreateTrip_Success() {
	ctx := context.Background()
	req := dto.CreateTripRequest{
		Name:         "Goa 2026",
		CurrencyCode: "inr",
	}

	suite.mockTripRepo.On("SaveTrip", ctx, mock.MatchedBy(func(t *domain.Trip) bool {
		return t.Name == req.Name && t.CurrencyCode == "INR" && t.OwnerID == "owner-1" && t.TripID != ""
	})).Return(nil).Once()

	trip, err := suite.service.CreateTrip(ctx, req, "owner-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(trip)
	suite.Equal("INR", trip.CurrencyCode)
	suite.Equal("owner-1", trip.OwnerID)
	suite.mockTripRepo.AssertExpectations(suite.T())
}

func (suite *TripServiceTestSuite) TestAuthorize_OwnerSatisfiesAnyRole() {
	ctx := context.Background()
	trip := &domain.Trip{TripID: "trip-1", OwnerID: "owner-1"}
	suite.mockTripRepo.On("FindTripByID", ctx, "trip-1").Return(trip, nil).Twice()

	suite.NoError(suite.service.AuthorizeUserAction(ctx, "trip-1", "owner-1", domain.RoleOwner))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, "trip-1", "owner-1", domain.RoleMember))
}

func (suite *TripServiceTestSuite) TestAuthorize_AcceptedMemberIsNotOwner() {
	ctx := context.Background()
	trip := &domain.Trip{TripID: "trip-1", OwnerID: "owner-1"}
	member := &domain.TripMember{TripID: "trip-1", UserID: "member-1", Status: domain.MemberAccepted}

	suite.mockTripRepo.On("FindTripByID", ctx, "trip-1").Return(trip, nil)
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "member-1").Return(member, nil)

	suite.NoError(suite.service.AuthorizeUserAction(ctx, "trip-1", "member-1", domain.RoleMember))

	err := suite.service.AuthorizeUserAction(ctx, "trip-1", "member-1", domain.RoleOwner)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TripServiceTestSuite) TestAuthorize_InvitedMemberIsForbidden() {
	ctx := context.Background()
	trip := &domain.Trip{TripID: "trip-1", OwnerID: "owner-1"}
	member := &domain.TripMember{TripID: "trip-1", UserID: "member-1", Status: domain.MemberInvited}

	suite.mockTripRepo.On("FindTripByID", ctx, "trip-1").Return(trip, nil).Once()
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "member-1").Return(member, nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, "trip-1", "member-1", domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TripServiceTestSuite) TestAuthorize_MissingTripIsNotFound() {
	ctx := context.Background()
	suite.mockTripRepo.On("FindTripByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, "nope", "anyone", domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TripServiceTestSuite) TestInviteMember_OnlyOwner() {
	ctx := context.Background()
	trip := &domain.Trip{TripID: "trip-1", OwnerID: "owner-1"}
	suite.mockTripRepo.On("FindTripByID", ctx, "trip-1").Return(trip, nil).Once()

	_, err := suite.service.InviteMember(ctx, "trip-1", dto.InviteMemberRequest{UserID: "new-guy"}, "member-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTripRepo.AssertNotCalled(suite.T(), "SaveTripMember", mock.Anything, mock.Anything)
}

func (suite *TripServiceTestSuite) TestInviteMember_Success() {
	ctx := context.Background()
	trip := &domain.Trip{TripID: "trip-1", OwnerID: "owner-1"}
	invitee := &domain.User{UserID: "new-guy"}

	suite.mockTripRepo.On("FindTripByID", ctx, "trip-1").Return(trip, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "new-guy").Return(invitee, nil).Once()
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "new-guy").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTripRepo.On("SaveTripMember", ctx, mock.MatchedBy(func(m *domain.TripMember) bool {
		return m.UserID == "new-guy" && m.Status == domain.MemberInvited && m.Role == domain.RoleMember
	})).Return(nil).Once()

	member, err := suite.service.InviteMember(ctx, "trip-1", dto.InviteMemberRequest{UserID: "new-guy"}, "owner-1")

	suite.Require().NoError(err)
	suite.Equal(domain.MemberInvited, member.Status)
	suite.mockTripRepo.AssertExpectations(suite.T())
}

func (suite *TripServiceTestSuite) TestAcceptInvitation_OnlyPendingInvitations() {
	ctx := context.Background()
	accepted := &domain.TripMember{TripID: "trip-1", UserID: "member-1", Status: domain.MemberAccepted}
	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "member-1").Return(accepted, nil).Once()

	err := suite.service.AcceptInvitation(ctx, "trip-1", "member-1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TripServiceTestSuite) TestAcceptInvitation_Success() {
	ctx := context.Background()
	invited := &domain.TripMember{TripID: "trip-1", UserID: "member-1", Status: domain.MemberInvited}

	suite.mockTripRepo.On("FindTripMember", ctx, "trip-1", "member-1").Return(invited, nil).Once()
	suite.mockTripRepo.On("UpdateTripMemberStatus", ctx, "trip-1", "member-1", domain.MemberAccepted, "member-1").Return(nil).Once()

	suite.NoError(suite.service.AcceptInvitation(ctx, "trip-1", "member-1"))
	suite.mockTripRepo.AssertExpectations(suite.T())
}

func TestTripServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TripServiceTestSuite))
}
