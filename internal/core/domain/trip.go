package domain

import "time"

// TripMemberRole describes a member's role within a trip.
type TripMemberRole string

const (
	RoleOwner  TripMemberRole = "OWNER"
	RoleMember TripMemberRole = "MEMBER"
)

// TripMemberStatus tracks the invitation lifecycle of a trip member.
type TripMemberStatus string

const (
	MemberInvited  TripMemberStatus = "INVITED"
	MemberAccepted TripMemberStatus = "ACCEPTED"
)

// Trip groups expenses, settlements and members under one shared ledger.
type Trip struct {
	TripID       string     `json:"tripID"` // Primary Key (UUID)
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode"` // All amounts in the trip share this currency
	OwnerID      string     `json:"ownerID"`      // FK -> User.userID
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	AuditFields
}

// TripMember links a user to a trip.
// Effective membership for balance purposes is the owner plus ACCEPTED members.
type TripMember struct {
	TripID string           `json:"tripID"`
	UserID string           `json:"userID"`
	Role   TripMemberRole   `json:"role"`
	Status TripMemberStatus `json:"status"`
	AuditFields
}
