// Package balance defines the derived balance views computed from the
// movement log, the sign convention they share, and the grouping pass
// that shapes flat aggregate rows into per-entity records.
package balance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Contribution returns the sign (+1 or -1) with which a movement's
// amount counts towards the balance of the entity under consideration.
// fromSide says whether that entity is the from side of the owning
// transaction. This single table backs both aggregate queries:
//
//	from side, direction -1  ->  +1
//	to side,   direction +1  ->  +1
//	from side, direction +1  ->  -1
//	to side,   direction -1  ->  -1
func Contribution(fromSide bool, direction int) int {
	if fromSide == (direction == -1) {
		return 1
	}
	return -1
}

// Row is one flat aggregate result: the net balance of an entity for one
// (day, currency, account) bucket.
type Row struct {
	EntityID   int64
	EntityName string
	EntityTag  string
	Date       time.Time
	Currency   string
	Account    bool
	Amount     decimal.Decimal
}

// Line is one balance bucket inside an entity's record.
type Line struct {
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Status   bool            `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
}

// EntityBalance groups an entity's balance lines. Every consumer wants
// balances bucketed by entity first.
type EntityBalance struct {
	EntityID   int64  `json:"entityId"`
	EntityName string `json:"entityName"`
	EntityTag  string `json:"entityTag"`
	Balances   []Line `json:"balances"`
}

// Detailed is a counterparty-broken-down balance: the net position
// against one counterparty entity in one currency, for one account kind.
type Detailed struct {
	Currency   string          `json:"currency"`
	EntityID   int64           `json:"entityId"`
	EntityTag  string          `json:"entityTag"`
	EntityName string          `json:"entityName"`
	Account    bool            `json:"account"`
	Balance    decimal.Decimal `json:"balance"`
}

// EntityBalancesParams scopes the own-entity aggregate. Exactly one of
// EntityID or TagClosure is set; DayInPast caps the buckets for
// historical views.
type EntityBalancesParams struct {
	EntityID   *int64
	TagClosure []string
	DayInPast  *time.Time
}

// DetailedBalancesParams scopes the counterparty aggregate.
type DetailedBalancesParams struct {
	EntityID    *int64
	TagClosure  []string
	AccountType bool
}

// Repository runs the aggregate projections over the movement log.
type Repository interface {
	EntityBalances(ctx context.Context, params EntityBalancesParams) ([]Row, error)
	DetailedBalances(ctx context.Context, params DetailedBalancesParams) ([]Detailed, error)
}

// GroupRows shapes flat aggregate rows into per-entity records in a
// single keyed pass. First-seen entity order is preserved; rows without
// a concrete currency are dropped, a join that resolves to no currency
// is not a valid balance.
func GroupRows(rows []Row) []EntityBalance {
	byEntity := make(map[int64]int)
	grouped := make([]EntityBalance, 0, len(rows))

	for _, row := range rows {
		if row.Currency == "" {
			continue
		}

		line := Line{
			Currency: row.Currency,
			Date:     row.Date,
			Status:   row.Account,
			Amount:   row.Amount,
		}

		if idx, ok := byEntity[row.EntityID]; ok {
			grouped[idx].Balances = append(grouped[idx].Balances, line)
			continue
		}

		byEntity[row.EntityID] = len(grouped)
		grouped = append(grouped, EntityBalance{
			EntityID:   row.EntityID,
			EntityName: row.EntityName,
			EntityTag:  row.EntityTag,
			Balances:   []Line{line},
		})
	}

	return grouped
}
