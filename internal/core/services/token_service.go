package services

import (
	"fmt"
	"time"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/utils"
)

// tokenService issues signed access tokens.
type tokenService struct {
	secret         string
	expiryDuration time.Duration
	issuer         string
}

// NewTokenService creates a new token service.
func NewTokenService(secret string, expiryDuration time.Duration, issuer string) portssvc.TokenSvcFacade {
	return &tokenService{
		secret:         secret,
		expiryDuration: expiryDuration,
		issuer:         issuer,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(user *domain.User) (string, error) {
	token, err := utils.GenerateJWT(user.UserID, s.secret, s.expiryDuration, s.issuer)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}
