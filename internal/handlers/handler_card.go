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

// cardHandler handles virtual card requests.
type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade) *cardHandler {
	return &cardHandler{cardService: cs}
}

// registerCardRoutes registers routes related to virtual cards.
func registerCardRoutes(rg *gin.RouterGroup, cs portssvc.CardSvcFacade) {
	h := newCardHandler(cs)

	cards := rg.Group("/cards")
	{
		cards.POST("", h.issueCard)
		cards.GET("", h.listCards)
		cards.POST("/:id/charge", h.chargeCard)
		cards.PUT("/:id/status", h.updateCardStatus)
	}
}

func (h *cardHandler) issueCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IssueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IssueCard", slog.String("error", err.Error()))
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
	logger.Info("Received request to issue card", slog.String("card_type", string(req.Type)))

	card, err := h.cardService.IssueCard(c.Request.Context(), ownerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue card")
		return
	}

	logger.Info("Card issued", slog.String("card_id", card.CardID))
	c.JSON(http.StatusCreated, card)
}

func (h *cardHandler) listCards(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var filter portsrepo.CardFilter
	if v := c.Query("type"); v != "" {
		cardType := domain.CardType(v)
		filter.Type = &cardType
	}
	if v := c.Query("status"); v != "" {
		status := domain.CardStatus(v)
		filter.Status = &status
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func (h *cardHandler) chargeCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cardID := c.Param("id")

	var req dto.ChargeCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChargeCard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	initiatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Initiator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("card_id", cardID), slog.String("merchant_account_id", req.MerchantAccountID))
	logger.Info("Received request to charge card", slog.String("amount", req.Amount.String()))

	txn, err := h.cardService.ChargeCard(c.Request.Context(), cardID, req.Amount, req.MerchantAccountID, req.MerchantName, initiatorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to charge card")
		return
	}

	logger.Info("Card charged", slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *cardHandler) updateCardStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cardID := c.Param("id")

	var req dto.UpdateCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCardStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("card_id", cardID))
	logger.Info("Received request to update card status", slog.String("new_status", string(req.Status)))

	card, err := h.cardService.UpdateCardStatus(c.Request.Context(), cardID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update card status")
		return
	}

	logger.Info("Card status updated")
	c.JSON(http.StatusOK, card)
}
