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
	"github.com/triptally/trip_tally_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Password: "secret-password",
	}

	suite.mockRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" &&
			u.Name == "Alice" &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("alice@example.com", user.Email)
	suite.True(utils.CheckPasswordHash("secret-password", user.PasswordHash))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	existing := &domain.User{UserID: "u1", Email: "alice@example.com"}
	suite.mockRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(existing, nil).Once()

	_, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "secret-password",
	})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "u1", Email: "alice@example.com", PasswordHash: hash}
	suite.mockRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, "alice@example.com", "wrong-password")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailSameError() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "ghost@example.com", "whatever")
	suite.ErrorIs(err, apperrors.ErrForbidden, "unknown email must not be distinguishable from a bad password")
}

func (suite *UserServiceTestSuite) TestUpdateUser_AppliesOnlyProvidedFields() {
	ctx := context.Background()
	user := &domain.User{UserID: "u1", Email: "alice@example.com", Name: "Alice", PictureURL: "old.png"}
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(user, nil).Once()

	newName := "Alice B"
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == newName && u.PictureURL == "old.png"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, "u1", dto.UpdateUserRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
