// Package service implements the read-side query façade over the
// movement log: authorization, tag-scope resolution, balance caching and
// response shaping. It is the only layer the HTTP handlers talk to.
package service

import (
	"context"
	"time"

	"github.com/tomycastelli/sistema-maika/internal/domain/balance"
	"github.com/tomycastelli/sistema-maika/internal/domain/ledger"
)

// LinkCredentials are the share-link credentials an anonymous caller may
// present instead of a session.
type LinkCredentials struct {
	ID             int64
	SharedEntityID int64
	Token          string
}

// Caller identifies the requester. UserID is empty for anonymous
// callers; Link is nil when no share credentials were presented.
type Caller struct {
	UserID string
	Link   *LinkCredentials
}

// Scope selects the entity or tag subtree an operation targets. At most
// one field is set; when both are nil the operation returns an empty
// result without consulting authorization.
type Scope struct {
	EntityID  *int64
	EntityTag *string
}

// Empty reports whether the scope selects nothing.
func (s Scope) Empty() bool {
	return s.EntityID == nil && s.EntityTag == nil
}

// CurrentAccountsRequest describes a paged movement listing.
type CurrentAccountsRequest struct {
	Caller     Caller
	Scope      Scope
	Account    *bool
	DayInPast  *time.Time
	PageSize   int
	PageNumber int
}

// CurrentAccountsResult is one page of movements plus the total count
// for the filter.
type CurrentAccountsResult struct {
	Movements []ledger.Movement `json:"movements"`
	TotalRows int64             `json:"totalRows"`
}

// EntityBalancesRequest describes an own-entity balance read. DayInPast
// caps the aggregation for historical views.
type EntityBalancesRequest struct {
	Caller    Caller
	Scope     Scope
	DayInPast *time.Time
}

// DetailedBalancesRequest describes a counterparty-broken-down balance
// read for one account kind.
type DetailedBalancesRequest struct {
	Caller      Caller
	Scope       Scope
	AccountType bool
}

// ByCurrencyRequest describes a most-recent-first movement feed limited
// to one currency.
type ByCurrencyRequest struct {
	Caller   Caller
	Scope    Scope
	Currency string
	Limit    int
}

// MovementService is the query façade exposed to the HTTP layer.
type MovementService interface {
	// CurrentAccounts lists movements for the scope, most recent
	// first, paged. Any session or valid link may call it.
	CurrentAccounts(ctx context.Context, req CurrentAccountsRequest) (*CurrentAccountsResult, error)

	// EntityBalances computes per-day balances grouped by entity.
	// Requires a fine-grained visibility grant.
	EntityBalances(ctx context.Context, req EntityBalancesRequest) ([]balance.EntityBalance, error)

	// EntityBalancesForCard is the same computation behind a
	// TTL-bounded cache, gated only on holding a session or a valid
	// link.
	EntityBalancesForCard(ctx context.Context, req EntityBalancesRequest) ([]balance.EntityBalance, error)

	// DetailedBalances breaks the scope's balance down by
	// counterparty, excluding counterparties inside the scope.
	DetailedBalances(ctx context.Context, req DetailedBalancesRequest) ([]balance.Detailed, error)

	// MovementsByCurrency returns the most recent movements in one
	// currency crossing the scope boundary. Requires an authenticated
	// session; link credentials are not accepted here.
	MovementsByCurrency(ctx context.Context, req ByCurrencyRequest) ([]ledger.Movement, error)
}
