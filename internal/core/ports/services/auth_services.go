package services

import (
	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// TokenSvcFacade defines token issuing operations
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the user
	GenerateAccessToken(user *domain.User) (string, error)
}
