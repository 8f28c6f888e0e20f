package ledger_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/handler"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtSecret []byte,
	movementHandler *handler.MovementHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Session(jwtSecret, logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		movements := v1.Group("/movements")
		{
			movements.GET("/current-accounts", movementHandler.GetCurrentAccounts)
			movements.GET("/balances", movementHandler.GetBalances)
			movements.GET("/balances/card", movementHandler.GetBalancesForCard)
			movements.GET("/balances/detailed", movementHandler.GetDetailedBalances)
			movements.GET("/by-currency", movementHandler.GetMovementsByCurrency)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
