package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/dto"
	"github.com/nexabank/corebanking/internal/middleware"
)

// transferHandler handles money movement requests.
type transferHandler struct {
	movementService portssvc.MovementSvcFacade
}

func newTransferHandler(ms portssvc.MovementSvcFacade) *transferHandler {
	return &transferHandler{movementService: ms}
}

// registerTransferRoutes registers routes related to transfers.
func registerTransferRoutes(rg *gin.RouterGroup, ms portssvc.MovementSvcFacade) {
	h := newTransferHandler(ms)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
	}
}

func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	initiatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Initiator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("destination_account_id", req.DestinationAccountID),
	)
	logger.Info("Received transfer request", slog.String("amount", req.Amount.String()))

	txn, err := h.movementService.Transfer(c.Request.Context(), req.SourceAccountID, req.DestinationAccountID, req.Amount, req.Description, initiatorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to execute transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
