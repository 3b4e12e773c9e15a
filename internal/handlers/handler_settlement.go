package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/dto"
	"github.com/triptally/trip_tally_app/internal/middleware"
)

// settlementHandler handles HTTP requests for balances, settlements and
// payment transactions.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// RegisterSettlementRoutes registers balance, settlement and transaction routes.
// Exported for use in handler tests.
func RegisterSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	rg.GET("/trips/:tripID/balances", h.getTripBalances)
	rg.GET("/trips/:tripID/settlements", h.listSettlements)
	rg.POST("/trips/:tripID/settlements/reconcile", h.reconcileSettlements)

	// Payment recording gets a tighter per-IP limit than the rest of the API.
	rate, _ := limiter.NewRateFromFormatted("30-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	transactions := rg.Group("/settlements/:settlementID/transactions")
	{
		transactions.POST("", limitMiddleware, h.recordTransaction)
		transactions.GET("", h.listTransactions)
	}
}

// getTripBalances godoc
// @Summary Get trip balances
// @Description Computes per-member balances and trip totals from expenses and successful payments
// @Tags settlements
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Success 200 {object} dto.BalanceSummaryResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Trip not found"
// @Security BearerAuth
// @Router /trips/{tripID}/balances [get]
func (h *settlementHandler) getTripBalances(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.settlementService.GetTripBalances(c.Request.Context(), c.Param("tripID"), userID)
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(summary))
}

// listSettlements godoc
// @Summary List trip settlements
// @Tags settlements
// @Produce  json
// @Param   tripID path string true "Trip ID"
// @Success 200 {object} dto.ListSettlementsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /trips/{tripID}/settlements [get]
func (h *settlementHandler) listSettlements(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settlements, err := h.settlementService.ListSettlements(c.Request.Context(), c.Param("tripID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list settlements")
		return
	}
	c.JSON(http.StatusOK, dto.ListSettlementsResponse{Settlements: dto.ToSettlementResponses(settlements)})
}

// reconcileSettlements godoc
// @Summary Reconcile trip settlements
// @Description Recomputes required transfers and merges them into the stored settlement rows
// @Tags settlements
// @Param   tripID path string true "Trip ID"
// @Success 204 "Reconciled"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /trips/{tripID}/settlements/reconcile [post]
func (h *settlementHandler) reconcileSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settlementService.ReconcileSettlements(c.Request.Context(), c.Param("tripID"), userID); err != nil {
		logger.Error("Failed to reconcile settlements", slog.String("trip_id", c.Param("tripID")), slog.String("error", err.Error()))
		respondError(c, err, "Failed to reconcile settlements")
		return
	}
	c.Status(http.StatusNoContent)
}

// recordTransaction godoc
// @Summary Record a payment against a settlement
// @Description Records a payment transaction. A successful payment covering the remaining balance completes the settlement and locks the trip's expenses.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   settlementID path string true "Settlement ID"
// @Param   transaction body dto.RecordTransactionRequest true "Payment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount or over-payment"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Security BearerAuth
// @Router /settlements/{settlementID}/transactions [post]
func (h *settlementHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.settlementService.RecordTransaction(c.Request.Context(), c.Param("settlementID"), req, userID)
	if err != nil {
		logger.Error("Failed to record transaction", slog.String("settlement_id", c.Param("settlementID")), slog.String("error", err.Error()))
		respondError(c, err, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a settlement's payment transactions
// @Tags settlements
// @Produce  json
// @Param   settlementID path string true "Settlement ID"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Security BearerAuth
// @Router /settlements/{settlementID}/transactions [get]
func (h *settlementHandler) listTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.settlementService.ListTransactions(c.Request.Context(), c.Param("settlementID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}
