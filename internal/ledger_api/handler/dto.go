package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/middleware"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/service"
)

// Paging defaults for the movement listing endpoints.
const (
	defaultPageSize      = 25
	maxPageSize          = 100
	defaultCurrencyLimit = 20
)

// currentAccountsQuery binds GET /current-accounts parameters.
type currentAccountsQuery struct {
	EntityID       *int64  `form:"entityId"`
	EntityTag      *string `form:"entityTag"`
	Account        *bool   `form:"account"`
	DayInPast      *string `form:"dayInPast"`
	PageSize       int     `form:"pageSize"`
	PageNumber     int     `form:"pageNumber"`
	LinkID         *int64  `form:"linkId"`
	LinkToken      *string `form:"linkToken"`
	SharedEntityID *int64  `form:"sharedEntityId"`
}

// balancesQuery binds GET /balances and /balances/card parameters.
type balancesQuery struct {
	EntityID       *int64  `form:"entityId"`
	EntityTag      *string `form:"entityTag"`
	DayInPast      *string `form:"dayInPast"`
	LinkID         *int64  `form:"linkId"`
	LinkToken      *string `form:"linkToken"`
	SharedEntityID *int64  `form:"sharedEntityId"`
}

// detailedBalancesQuery binds GET /balances/detailed parameters.
type detailedBalancesQuery struct {
	EntityID       *int64  `form:"entityId"`
	EntityTag      *string `form:"entityTag"`
	AccountType    bool    `form:"accountType"`
	LinkID         *int64  `form:"linkId"`
	LinkToken      *string `form:"linkToken"`
	SharedEntityID *int64  `form:"sharedEntityId"`
}

// byCurrencyQuery binds GET /by-currency parameters.
type byCurrencyQuery struct {
	Currency       string  `form:"currency" binding:"required"`
	EntityID       *int64  `form:"entityId"`
	EntityTag      *string `form:"entityTag"`
	Limit          int     `form:"limit"`
	LinkID         *int64  `form:"linkId"`
	LinkToken      *string `form:"linkToken"`
	SharedEntityID *int64  `form:"sharedEntityId"`
}

// caller assembles the service caller from the session middleware and
// the optional link credentials. Link credentials count only when all
// three parts are present.
func caller(c *gin.Context, linkID *int64, linkToken *string, sharedEntityID *int64) service.Caller {
	out := service.Caller{UserID: middleware.GetUserID(c)}
	if linkID != nil && linkToken != nil && sharedEntityID != nil {
		out.Link = &service.LinkCredentials{
			ID:             *linkID,
			SharedEntityID: *sharedEntityID,
			Token:          *linkToken,
		}
	}
	return out
}

func scope(entityID *int64, entityTag *string) service.Scope {
	return service.Scope{EntityID: entityID, EntityTag: entityTag}
}

// parseDayInPast accepts a plain date or a full timestamp.
func parseDayInPast(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid dayInPast value %q", *raw)
}

func normalizePaging(size, number int) (int, int) {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if number <= 0 {
		number = 1
	}
	return size, number
}
