package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/dto"
	"github.com/nexabank/corebanking/internal/middleware"
)

// creditHandler handles credit underwriting requests.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

func newCreditHandler(cs portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{creditService: cs}
}

// registerCreditRoutes registers routes related to credit requests.
func registerCreditRoutes(rg *gin.RouterGroup, cs portssvc.CreditSvcFacade) {
	h := newCreditHandler(cs)

	credits := rg.Group("/credits")
	{
		credits.POST("", h.requestCredit)
		credits.GET("", h.listCreditRequests)
		credits.GET("/history", h.getCreditHistory)
		credits.PUT("/:id/documents", h.updateCreditDocuments)
		credits.POST("/:id/approve", h.approveCredit)
		credits.POST("/:id/reject", h.rejectCredit)
	}
}

func (h *creditHandler) requestCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_id", ownerID))
	logger.Info("Received credit request", slog.String("amount", req.Amount.String()), slog.Int("term_months", req.TermMonths))

	credit, err := h.creditService.RequestCredit(c.Request.Context(), ownerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create credit request")
		return
	}

	logger.Info("Credit request created", slog.String("credit_request_id", credit.CreditRequestID))
	c.JSON(http.StatusCreated, dto.ToCreditRequestResponse(credit))
}

func (h *creditHandler) listCreditRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var filter portsrepo.CreditFilter
	if v := c.Query("ownerID"); v != "" {
		filter.OwnerID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.CreditStatus(v)
		filter.Status = &status
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
			return
		}
		filter.EndDate = &t
	}

	credits, err := h.creditService.ListCreditRequests(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list credit requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creditRequests": dto.ToCreditRequestResponses(credits)})
}

func (h *creditHandler) getCreditHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	credits, err := h.creditService.GetCreditHistory(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve credit history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creditRequests": dto.ToCreditRequestResponses(credits)})
}

func (h *creditHandler) updateCreditDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditRequestID := c.Param("id")

	var req dto.UpdateCreditDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCreditDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_request_id", creditRequestID), slog.String("owner_id", ownerID))
	logger.Info("Received request to update credit documents", slog.Int("documents", len(req.Documents)))

	credit, err := h.creditService.UpdateCreditDocuments(c.Request.Context(), creditRequestID, ownerID, req.Documents)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update credit documents")
		return
	}

	logger.Info("Credit documents updated")
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(credit))
}

func (h *creditHandler) approveCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditRequestID := c.Param("id")

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_request_id", creditRequestID), slog.String("admin_id", adminID))
	logger.Info("Received request to approve credit")

	credit, err := h.creditService.ApproveCredit(c.Request.Context(), creditRequestID, adminID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve credit request")
		return
	}

	logger.Info("Credit request approved")
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(credit))
}

func (h *creditHandler) rejectCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditRequestID := c.Param("id")

	var req dto.RejectCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_request_id", creditRequestID), slog.String("admin_id", adminID))
	logger.Info("Received request to reject credit")

	credit, err := h.creditService.RejectCredit(c.Request.Context(), creditRequestID, adminID, req.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject credit request")
		return
	}

	logger.Info("Credit request rejected")
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(credit))
}
