package services

import (
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.UserSvc = NewUserService(repos.UserRepo)
	container.TokenSvc = NewTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	// Trip service first, the expense and settlement services authorize through it.
	container.TripSvc = NewTripService(repos.TripRepo, repos.UserRepo)
	container.ExpenseSvc = NewExpenseService(repos.ExpenseRepo, repos.TripRepo, container.TripSvc)
	container.SettlementSvc = NewSettlementService(
		repos.SettlementRepo,
		repos.ExpenseRepo,
		repos.TripRepo,
		repos.UserRepo,
		container.TripSvc,
	)

	return container
}
