// Package handler exposes the movement query façade over HTTP. All
// endpoints are read-only; writes to the ledger happen in external
// collaborators.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/service"
)

// MovementHandler handles the movement and balance query endpoints.
type MovementHandler struct {
	service service.MovementService
	logger  *slog.Logger
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(logger *slog.Logger, svc service.MovementService) *MovementHandler {
	return &MovementHandler{
		service: svc,
		logger:  logger,
	}
}

// GetCurrentAccounts handles GET /api/v1/movements/current-accounts
func (h *MovementHandler) GetCurrentAccounts(c *gin.Context) {
	var query currentAccountsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	dayInPast, err := parseDayInPast(query.DayInPast)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	pageSize, pageNumber := normalizePaging(query.PageSize, query.PageNumber)

	result, err := h.service.CurrentAccounts(c.Request.Context(), service.CurrentAccountsRequest{
		Caller:     caller(c, query.LinkID, query.LinkToken, query.SharedEntityID),
		Scope:      scope(query.EntityID, query.EntityTag),
		Account:    query.Account,
		DayInPast:  dayInPast,
		PageSize:   pageSize,
		PageNumber: pageNumber,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, result, pageNumber, pageSize, result.TotalRows)
}

// GetBalances handles GET /api/v1/movements/balances
func (h *MovementHandler) GetBalances(c *gin.Context) {
	var query balancesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	dayInPast, err := parseDayInPast(query.DayInPast)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	balances, err := h.service.EntityBalances(c.Request.Context(), service.EntityBalancesRequest{
		Caller:    caller(c, query.LinkID, query.LinkToken, query.SharedEntityID),
		Scope:     scope(query.EntityID, query.EntityTag),
		DayInPast: dayInPast,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondOK(c, balances)
}

// GetBalancesForCard handles GET /api/v1/movements/balances/card
func (h *MovementHandler) GetBalancesForCard(c *gin.Context) {
	var query balancesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	dayInPast, err := parseDayInPast(query.DayInPast)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	balances, err := h.service.EntityBalancesForCard(c.Request.Context(), service.EntityBalancesRequest{
		Caller:    caller(c, query.LinkID, query.LinkToken, query.SharedEntityID),
		Scope:     scope(query.EntityID, query.EntityTag),
		DayInPast: dayInPast,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondOK(c, balances)
}

// GetDetailedBalances handles GET /api/v1/movements/balances/detailed
func (h *MovementHandler) GetDetailedBalances(c *gin.Context) {
	var query detailedBalancesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	balances, err := h.service.DetailedBalances(c.Request.Context(), service.DetailedBalancesRequest{
		Caller:      caller(c, query.LinkID, query.LinkToken, query.SharedEntityID),
		Scope:       scope(query.EntityID, query.EntityTag),
		AccountType: query.AccountType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondOK(c, balances)
}

// GetMovementsByCurrency handles GET /api/v1/movements/by-currency
func (h *MovementHandler) GetMovementsByCurrency(c *gin.Context) {
	var query byCurrencyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultCurrencyLimit
	}

	movements, err := h.service.MovementsByCurrency(c.Request.Context(), service.ByCurrencyRequest{
		Caller:   caller(c, query.LinkID, query.LinkToken, query.SharedEntityID),
		Scope:    scope(query.EntityID, query.EntityTag),
		Currency: query.Currency,
		Limit:    limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondOK(c, movements)
}

// respondError maps gate rejections to 401 with their message verbatim;
// everything else is an internal failure.
func (h *MovementHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotAuthenticated) || errors.Is(err, service.ErrInsufficientGrant) {
		RespondUnauthorized(c, err.Error())
		return
	}

	h.logger.Error("Movement query failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	RespondInternalError(c)
}
