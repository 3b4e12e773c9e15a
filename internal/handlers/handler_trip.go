package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/dto"
	"github.com/triptally/trip_tally_app/internal/middleware"
)

// tripHandler handles HTTP requests for trips and their members.
type tripHandler struct {
	tripService portssvc.TripSvcFacade
	userService portssvc.UserSvcFacade
}

func newTripHandler(ts portssvc.TripSvcFacade, us portssvc.UserSvcFacade) *tripHandler {
	return &tripHandler{tripService: ts, userService: us}
}

// registerTripRoutes registers all trip-related routes.
func registerTripRoutes(rg *gin.RouterGroup, tripService portssvc.TripSvcFacade, userService portssvc.UserSvcFacade) {
	h := newTripHandler(tripService, userService)

	trips := rg.Group("/trips")
	{
		trips.POST("", h.createTrip)
		trips.GET("", h.listTrips)
		trips.GET("/:tripID", h.getTrip)
		trips.PUT("/:tripID", h.updateTrip)
		trips.GET("/:tripID/members", h.listMembers)
		trips.POST("/:tripID/members", h.inviteMember)
		trips.POST("/:tripID/members/accept", h.acceptInvitation)
	}
}

// createTrip godoc
// @Summary Create a trip
// @Description Creates a trip owned by the authenticated user
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   trip body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /trips [post]
func (h *tripHandler) createTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create trip", slog.String("error", err.Error()))
		respondError(c, err, "Failed to create trip")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTripResponse(trip))
}

// listTrips godoc
// @Summary List the authenticated user's trips
// @Tags trips
// @Produce  json
// @Success 200 {object} dto.ListTripsResponse
// @Security BearerAuth
// @Router /trips [get]
func (h *tripHandler) listTrips(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trips, err := h.tripService.ListTripsForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list trips", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list trips")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTripsResponse(trips))
}

// getTrip godoc
// @Summary Get a trip
// @Tags trips
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Trip not found"
// @Security BearerAuth
// @Router /trips/{tripID} [get]
func (h *tripHandler) getTrip(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trip, err := h.tripService.GetTripByID(c.Request.Context(), c.Param("tripID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve trip")
		return
	}
	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// updateTrip godoc
// @Summary Update a trip
// @Description Applies changes to a trip. Owner only.
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Param   trip body dto.UpdateTripRequest true "Trip changes"
// @Success 200 {object} dto.TripResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Trip not found"
// @Security BearerAuth
// @Router /trips/{tripID} [put]
func (h *tripHandler) updateTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), c.Param("tripID"), req, userID)
	if err != nil {
		logger.Error("Failed to update trip", slog.String("trip_id", c.Param("tripID")), slog.String("error", err.Error()))
		respondError(c, err, "Failed to update trip")
		return
	}
	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// listMembers godoc
// @Summary List trip members
// @Tags trips
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Success 200 {array} dto.TripMemberResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Trip not found"
// @Security BearerAuth
// @Router /trips/{tripID}/members [get]
func (h *tripHandler) listMembers(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	members, err := h.tripService.ListMembers(c.Request.Context(), c.Param("tripID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
	}
	users, err := h.userService.GetUsersByIDs(c.Request.Context(), memberIDs)
	if err != nil {
		// Member details are an enrichment, the list still serves without them.
		users = nil
	}

	responses := make([]dto.TripMemberResponse, len(members))
	for i, m := range members {
		if u, found := users[m.UserID]; found {
			responses[i] = dto.ToTripMemberResponse(m, &u)
		} else {
			responses[i] = dto.ToTripMemberResponse(m, nil)
		}
	}
	c.JSON(http.StatusOK, responses)
}

// inviteMember godoc
// @Summary Invite a user to a trip
// @Description Invites an existing user. Owner only.
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Param   invite body dto.InviteMemberRequest true "User to invite"
// @Success 201 {object} dto.TripMemberResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /trips/{tripID}/members [post]
func (h *tripHandler) inviteMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	member, err := h.tripService.InviteMember(c.Request.Context(), c.Param("tripID"), req, userID)
	if err != nil {
		logger.Warn("Failed to invite member", slog.String("trip_id", c.Param("tripID")), slog.String("error", err.Error()))
		respondError(c, err, "Failed to invite member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTripMemberResponse(*member, nil))
}

// acceptInvitation godoc
// @Summary Accept a trip invitation
// @Tags trips
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Success 204 "Accepted"
// @Failure 400 {object} map[string]string "Invitation is not pending"
// @Failure 404 {object} map[string]string "No invitation"
// @Security BearerAuth
// @Router /trips/{tripID}/members/accept [post]
func (h *tripHandler) acceptInvitation(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tripService.AcceptInvitation(c.Request.Context(), c.Param("tripID"), userID); err != nil {
		respondError(c, err, "Failed to accept invitation")
		return
	}
	c.Status(http.StatusNoContent)
}
