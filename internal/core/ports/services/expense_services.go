package services

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/dto"
)

// ExpenseSvcFacade defines expense operations. Every mutation triggers
// settlement reconciliation for the trip in the same transaction.
type ExpenseSvcFacade interface {
	// CreateExpense records a new shared expense on the trip
	CreateExpense(ctx context.Context, tripID string, req dto.CreateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// GetExpenseByID retrieves an expense with its participant shares
	GetExpenseByID(ctx context.Context, tripID string, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ListExpenses retrieves a page of the trip's expenses, newest first
	ListExpenses(ctx context.Context, tripID string, params dto.ListExpensesParams, requestingUserID string) ([]domain.Expense, string, error)

	// UpdateExpense applies changes to an unlocked expense
	UpdateExpense(ctx context.Context, tripID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// DeleteExpense removes an unlocked expense
	DeleteExpense(ctx context.Context, tripID string, expenseID string, requestingUserID string) error
}
