package mapping

import (
	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/models"
)

// ToModelTrip converts a domain Trip to a model Trip.
func ToModelTrip(d domain.Trip) models.Trip {
	return models.Trip{
		TripID:       d.TripID,
		Name:         d.Name,
		Description:  d.Description,
		CurrencyCode: d.CurrencyCode,
		OwnerID:      d.OwnerID,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTrip converts a model Trip to a domain Trip.
func ToDomainTrip(m models.Trip) domain.Trip {
	return domain.Trip{
		TripID:       m.TripID,
		Name:         m.Name,
		Description:  m.Description,
		CurrencyCode: m.CurrencyCode,
		OwnerID:      m.OwnerID,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTripMember converts a model TripMember to a domain TripMember.
func ToDomainTripMember(m models.TripMember) domain.TripMember {
	return domain.TripMember{
		TripID:      m.TripID,
		UserID:      m.UserID,
		Role:        domain.TripMemberRole(m.Role),
		Status:      domain.TripMemberStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTripMember converts a domain TripMember to a model TripMember.
func ToModelTripMember(d domain.TripMember) models.TripMember {
	return models.TripMember{
		TripID:      d.TripID,
		UserID:      d.UserID,
		Role:        models.TripMemberRole(d.Role),
		Status:      models.TripMemberStatus(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
