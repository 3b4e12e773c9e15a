package mapping

import (
	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/models"
)

// ToModelSettlement converts a domain Settlement to a model Settlement.
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID: d.SettlementID,
		TripID:       d.TripID,
		DebtorID:     d.DebtorID,
		CreditorID:   d.CreditorID,
		Amount:       d.Amount,
		Status:       models.SettlementStatus(d.Status),
		SettledAt:    d.SettledAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement.
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID: m.SettlementID,
		TripID:       m.TripID,
		DebtorID:     m.DebtorID,
		CreditorID:   m.CreditorID,
		Amount:       m.Amount,
		Status:       domain.SettlementStatus(m.Status),
		SettledAt:    m.SettledAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		SettlementID:  d.SettlementID,
		FromUserID:    d.FromUserID,
		ToUserID:      d.ToUserID,
		Amount:        d.Amount,
		Status:        models.TransactionStatus(d.Status),
		Method:        d.Method,
		Note:          d.Note,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		SettlementID:  m.SettlementID,
		FromUserID:    m.FromUserID,
		ToUserID:      m.ToUserID,
		Amount:        m.Amount,
		Status:        domain.TransactionStatus(m.Status),
		Method:        m.Method,
		Note:          m.Note,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
