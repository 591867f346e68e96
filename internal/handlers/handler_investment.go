package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/dto"
	"github.com/nexabank/corebanking/internal/middleware"
)

// investmentHandler handles investment lifecycle requests.
type investmentHandler struct {
	investmentService portssvc.InvestmentSvcFacade
}

func newInvestmentHandler(is portssvc.InvestmentSvcFacade) *investmentHandler {
	return &investmentHandler{investmentService: is}
}

// registerInvestmentRoutes registers routes related to investments.
func registerInvestmentRoutes(rg *gin.RouterGroup, is portssvc.InvestmentSvcFacade) {
	h := newInvestmentHandler(is)

	investments := rg.Group("/investments")
	{
		investments.POST("", h.createInvestment)
		investments.GET("", h.listInvestments)
		investments.POST("/:id/cancel", h.cancelInvestment)
		investments.POST("/:id/complete", h.completeInvestment)
	}
}

func (h *investmentHandler) createInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvestment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_id", ownerID), slog.String("account_id", req.AccountID))
	logger.Info("Received request to create investment", slog.String("amount", req.Amount.String()), slog.Int("term_days", req.TermDays))

	inv, err := h.investmentService.CreateInvestment(c.Request.Context(), ownerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create investment")
		return
	}

	logger.Info("Investment created", slog.String("investment_id", inv.InvestmentID))
	c.JSON(http.StatusCreated, dto.ToInvestmentResponse(inv))
}

func (h *investmentHandler) listInvestments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var filter portsrepo.InvestmentFilter
	if v := c.Query("type"); v != "" {
		invType := domain.InvestmentType(v)
		filter.Type = &invType
	}
	if v := c.Query("status"); v != "" {
		status := domain.InvestmentStatus(v)
		filter.Status = &status
	}

	investments, err := h.investmentService.ListInvestments(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list investments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": dto.ToInvestmentResponses(investments)})
}

func (h *investmentHandler) cancelInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investmentID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("investment_id", investmentID), slog.String("owner_id", ownerID))
	logger.Info("Received request to cancel investment")

	result, err := h.investmentService.CancelInvestment(c.Request.Context(), ownerID, investmentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel investment")
		return
	}

	logger.Info("Investment cancelled",
		slog.String("return_amount", result.ReturnAmount.String()),
		slog.String("penalty", result.Penalty.String()),
	)
	c.JSON(http.StatusOK, dto.CancelInvestmentResponse{
		Investment:   dto.ToInvestmentResponse(result.Investment),
		ReturnAmount: result.ReturnAmount,
		Penalty:      result.Penalty,
	})
}

func (h *investmentHandler) completeInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investmentID := c.Param("id")

	logger = logger.With(slog.String("investment_id", investmentID))
	logger.Info("Received request to complete investment")

	result, err := h.investmentService.CompleteInvestment(c.Request.Context(), investmentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete investment")
		return
	}

	logger.Info("Investment completed", slog.String("total_amount", result.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.CompleteInvestmentResponse{
		Investment:   dto.ToInvestmentResponse(result.Investment),
		TotalAmount:  result.TotalAmount,
		ActualReturn: result.ActualReturn,
	})
}
