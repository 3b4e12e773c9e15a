package repositories

// RepositoryProvider bundles all repositories for dependency injection
type RepositoryProvider struct {
	UserRepo       UserRepositoryWithTx
	TripRepo       TripRepositoryWithTx
	ExpenseRepo    ExpenseRepositoryWithTx
	SettlementRepo SettlementRepositoryWithTx
}
