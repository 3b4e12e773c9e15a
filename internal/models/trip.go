package models

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

// Trip mirrors the trips table.
type Trip struct {
	TripID       string     `json:"tripID"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode"`
	OwnerID      string     `json:"ownerID"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	AuditFields
}

// TripMember mirrors the trip_members table.
type TripMember struct {
	TripID string           `json:"tripID"`
	UserID string           `json:"userID"`
	Role   TripMemberRole   `json:"role"`
	Status TripMemberStatus `json:"status"`
	AuditFields
}
