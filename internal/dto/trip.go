package dto

import (
	"time"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// CreateTripRequest defines the data required to create a trip.
type CreateTripRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode" binding:"required,len=3"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// UpdateTripRequest defines the data allowed for updating a trip.
type UpdateTripRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// InviteMemberRequest defines the data required to invite a user to a trip.
type InviteMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// TripResponse defines the trip data returned by the API.
type TripResponse struct {
	TripID       string     `json:"tripID"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode"`
	OwnerID      string     `json:"ownerID"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// TripMemberResponse defines the member data returned by the API.
type TripMemberResponse struct {
	UserID     string `json:"userID"`
	Name       string `json:"name,omitempty"`
	PictureURL string `json:"pictureURL,omitempty"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

// ListTripsResponse wraps the list of trips for a user.
type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

// ToTripResponse converts a domain.Trip to TripResponse DTO.
func ToTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		TripID:       t.TripID,
		Name:         t.Name,
		Description:  t.Description,
		CurrencyCode: t.CurrencyCode,
		OwnerID:      t.OwnerID,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		CreatedAt:    t.CreatedAt,
	}
}

// ToListTripsResponse converts a slice of domain.Trip to ListTripsResponse DTO.
func ToListTripsResponse(trips []domain.Trip) ListTripsResponse {
	responses := make([]TripResponse, len(trips))
	for i, trip := range trips {
		responses[i] = ToTripResponse(&trip)
	}
	return ListTripsResponse{Trips: responses}
}

// ToTripMemberResponse converts a domain.TripMember plus optional user detail to a DTO.
func ToTripMemberResponse(m domain.TripMember, user *domain.User) TripMemberResponse {
	resp := TripMemberResponse{
		UserID: m.UserID,
		Role:   string(m.Role),
		Status: string(m.Status),
	}
	if user != nil {
		resp.Name = user.Name
		resp.PictureURL = user.PictureURL
	}
	return resp
}
