package services

// ServiceContainer holds instances of all the application services
type ServiceContainer struct {
	UserSvc       UserSvcFacade
	TokenSvc      TokenSvcFacade
	TripSvc       TripSvcFacade
	ExpenseSvc    ExpenseSvcFacade
	SettlementSvc SettlementSvcFacade
}
