package mapping

import (
	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense.
// Participants are mapped separately; they live in their own table.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		TripID:      d.TripID,
		PayerID:     d.PayerID,
		Amount:      d.Amount,
		Description: d.Description,
		ExpenseDate: d.ExpenseDate,
		IsLocked:    d.IsLocked,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		TripID:      m.TripID,
		PayerID:     m.PayerID,
		Amount:      m.Amount,
		Description: m.Description,
		ExpenseDate: m.ExpenseDate,
		IsLocked:    m.IsLocked,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpenseParticipant converts a domain participant to a model participant.
func ToModelExpenseParticipant(d domain.ExpenseParticipant) models.ExpenseParticipant {
	return models.ExpenseParticipant{
		ExpenseID:   d.ExpenseID,
		UserID:      d.UserID,
		ShareAmount: d.ShareAmount,
		Position:    d.Position,
	}
}

// ToDomainExpenseParticipant converts a model participant to a domain participant.
func ToDomainExpenseParticipant(m models.ExpenseParticipant) domain.ExpenseParticipant {
	return domain.ExpenseParticipant{
		ExpenseID:   m.ExpenseID,
		UserID:      m.UserID,
		ShareAmount: m.ShareAmount,
		Position:    m.Position,
	}
}
