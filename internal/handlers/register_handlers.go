package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/middleware"
	"github.com/nexabank/corebanking/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Caller identity is forwarded by the gateway; every v1 route requires
	// it. The store timeout bounds repository calls for the whole group.
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware(), middleware.StoreTimeout(cfg.StoreTimeout))

	registerAccountRoutes(v1, services.Account, services.Interest, services.Movement)
	registerTransferRoutes(v1, services.Movement)
	registerCreditRoutes(v1, services.Credit)
	registerInvestmentRoutes(v1, services.Investment)
	registerCardRoutes(v1, services.Card)
	registerQRRoutes(v1, services.QR)
}
