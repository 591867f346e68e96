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

// qrHandler handles QR payment code requests.
type qrHandler struct {
	qrService portssvc.QRSvcFacade
}

func newQRHandler(qs portssvc.QRSvcFacade) *qrHandler {
	return &qrHandler{qrService: qs}
}

// registerQRRoutes registers routes related to QR payment codes.
func registerQRRoutes(rg *gin.RouterGroup, qs portssvc.QRSvcFacade) {
	h := newQRHandler(qs)

	qrcodes := rg.Group("/qrcodes")
	{
		qrcodes.POST("/static", h.createStaticQR)
		qrcodes.POST("/dynamic", h.createDynamicQR)
		qrcodes.GET("", h.listQRCodes)
		qrcodes.POST("/:id/pay", h.payQR)
		qrcodes.PUT("/:id/status", h.updateQRStatus)
	}
}

func (h *qrHandler) createStaticQR(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStaticQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStaticQR", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merchantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Merchant user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("merchant_id", merchantID))
	logger.Info("Received request to create static QR code")

	qr, err := h.qrService.CreateStaticQR(c.Request.Context(), merchantID, req.Description)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create QR code")
		return
	}

	logger.Info("Static QR code created", slog.String("qr_code_id", qr.QRCodeID))
	c.JSON(http.StatusCreated, dto.ToQRCodeResponse(qr))
}

func (h *qrHandler) createDynamicQR(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDynamicQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDynamicQR", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merchantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Merchant user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("merchant_id", merchantID))
	logger.Info("Received request to create dynamic QR code", slog.String("amount", req.Amount.String()))

	qr, err := h.qrService.CreateDynamicQR(c.Request.Context(), merchantID, req.Amount, req.Currency, req.Description)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create QR code")
		return
	}

	logger.Info("Dynamic QR code created", slog.String("qr_code_id", qr.QRCodeID))
	c.JSON(http.StatusCreated, dto.ToQRCodeResponse(qr))
}

func (h *qrHandler) listQRCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	merchantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Merchant user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var filter portsrepo.QRFilter
	if v := c.Query("type"); v != "" {
		qrType := domain.QRType(v)
		filter.Type = &qrType
	}
	if v := c.Query("status"); v != "" {
		status := domain.QRStatus(v)
		filter.Status = &status
	}

	qrs, err := h.qrService.ListQRCodes(c.Request.Context(), merchantID, filter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list QR codes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qrCodes": dto.ToQRCodeResponses(qrs)})
}

func (h *qrHandler) payQR(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	qrCodeID := c.Param("id")

	var req dto.PayQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayQR", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	initiatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Payer user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("qr_code_id", qrCodeID), slog.String("payer_account_id", req.PayerAccountID))
	logger.Info("Received QR payment request")

	txn, err := h.qrService.PayQR(c.Request.Context(), qrCodeID, req.PayerAccountID, req.Amount, initiatorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to pay QR code")
		return
	}

	logger.Info("QR payment completed", slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *qrHandler) updateQRStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	qrCodeID := c.Param("id")

	var req dto.UpdateQRStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateQRStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merchantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Merchant user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("qr_code_id", qrCodeID))
	logger.Info("Received request to update QR status", slog.String("new_status", string(req.Status)))

	qr, err := h.qrService.UpdateQRStatus(c.Request.Context(), qrCodeID, req.Status, merchantID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update QR status")
		return
	}

	logger.Info("QR status updated")
	c.JSON(http.StatusOK, dto.ToQRCodeResponse(qr))
}
