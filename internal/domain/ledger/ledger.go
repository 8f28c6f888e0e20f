// Package ledger models the append-only transaction/movement log and the
// query shapes over it. Movements are immutable postings derived from
// transactions; every balance in the system is recomputed from them, no
// entity stores a mutable balance field.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
)

// Operation groups transactions into one logical event.
type Operation struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	Observations *string   `json:"observations"`
}

// Transaction is a single economic event between exactly two entities.
// FromEntityID and ToEntityID always differ.
type Transaction struct {
	ID         int64           `json:"id"`
	FromEntity entity.Entity   `json:"fromEntity"`
	ToEntity   entity.Entity   `json:"toEntity"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date"`
	Operation  *Operation      `json:"operation"`
}

// Movement is a signed posting derived from a transaction. Direction is
// +1 or -1; Account distinguishes the cash box (true) from the running
// account (false).
type Movement struct {
	ID          int64       `json:"id"`
	Direction   int         `json:"direction"`
	Account     bool        `json:"account"`
	Transaction Transaction `json:"transaction"`
}

// CurrentAccountsParams describes a paged movement listing. When
// TagClosure is set the listing is restricted to movements crossing the
// closure boundary: exactly one side of the transaction inside it.
type CurrentAccountsParams struct {
	EntityID   *int64
	TagClosure []string
	Account    *bool
	DayInPast  *time.Time
	PageSize   int
	PageNumber int
}

// ByCurrencyParams describes a most-recent-first movement feed limited
// to one currency.
type ByCurrencyParams struct {
	Currency   string
	EntityID   *int64
	TagClosure []string
	Limit      int
}

// Repository queries the movement log.
type Repository interface {
	// CurrentAccounts returns one page of movements, id-descending,
	// plus the total row count for the filter.
	CurrentAccounts(ctx context.Context, params CurrentAccountsParams) ([]Movement, int64, error)

	// ByCurrency returns the most recent movements in one currency
	// crossing the scope boundary.
	ByCurrency(ctx context.Context, params ByCurrencyParams) ([]Movement, error)
}
