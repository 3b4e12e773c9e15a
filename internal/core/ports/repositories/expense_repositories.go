package repositories

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its participant shares
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByTrip retrieves a page of expenses for a trip, newest first.
	// nextToken is an opaque cursor from a previous page, empty for the first page.
	ListExpensesByTrip(ctx context.Context, tripID string, limit int, nextToken string) ([]domain.Expense, string, error)

	// ListAllExpensesByTrip retrieves every expense for a trip with participant shares
	ListAllExpensesByTrip(ctx context.Context, tripID string) ([]domain.Expense, error)

	// TripHasLockedExpenses reports whether any expense on the trip is locked
	TripHasLockedExpenses(ctx context.Context, tripID string) (bool, error)
}

// ExpenseWriter defines write operations for expenses.
// Every mutation reconciles the trip's settlements inside the same
// database transaction, so readers never observe an expense change
// without its settlement effects.
type ExpenseWriter interface {
	// SaveExpense persists a new expense with its participant shares
	SaveExpense(ctx context.Context, expense *domain.Expense) error

	// UpdateExpense replaces an existing expense and its participant shares
	UpdateExpense(ctx context.Context, expense *domain.Expense) error

	// DeleteExpense removes an expense and its participant shares
	DeleteExpense(ctx context.Context, expenseID string, tripID string, deletedBy string) error
}

// ExpenseRepositoryFacade combines all expense repository capabilities
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends the facade with transaction management
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
