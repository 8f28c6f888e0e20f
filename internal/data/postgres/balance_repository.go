package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomycastelli/sistema-maika/internal/domain/balance"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

// signedSum is the shared CASE pair computing the net signed sum of
// movement amounts for the entity aliased as e. A movement counts
// positively when the entity is the from side with direction -1 or the
// to side with direction +1, negatively in the mirror cases. Both
// aggregate queries use this same table so the two balance views can
// never disagree on a worked example.
const signedSum = `
	SUM(CASE
		WHEN t."fromEntityId" = e.id AND m.direction = -1 THEN t.amount
		WHEN t."toEntityId" = e.id AND m.direction = 1 THEN t.amount
		ELSE 0
	END) -
	SUM(CASE
		WHEN t."fromEntityId" = e.id AND m.direction = 1 THEN t.amount
		WHEN t."toEntityId" = e.id AND m.direction = -1 THEN t.amount
		ELSE 0
	END) AS balance`

// BalanceRepository implements balance.Repository for PostgreSQL
type BalanceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(logger *slog.Logger, db *persistence.PostgresDB) balance.Repository {
	return &BalanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// EntityBalances computes per-day net balances for every entity in the
// scope, bucketed by (day, currency, account). Tag scopes are filtered
// with a parameterized array binding, never an interpolated name list.
func (r *BalanceRepository) EntityBalances(ctx context.Context, params balance.EntityBalancesParams) ([]balance.Row, error) {
	conds := []string{"1=1"}
	var args []interface{}

	if params.EntityID != nil {
		args = append(args, *params.EntityID)
		conds = append(conds, fmt.Sprintf("e.id = $%d", len(args)))
	}
	if len(params.TagClosure) > 0 {
		args = append(args, params.TagClosure)
		conds = append(conds, fmt.Sprintf(`e."tagName" = ANY($%d)`, len(args)))
	}
	if params.DayInPast != nil {
		args = append(args, *params.DayInPast)
		conds = append(conds, fmt.Sprintf("COALESCE(t.date, o.date) <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT
			e.id AS entity_id,
			e.name AS entity_name,
			e."tagName" AS entity_tag,
			DATE_TRUNC('day', COALESCE(t.date, o.date)) AS date,
			t.currency,
			m.account,
			%s
		FROM "Entities" e
		LEFT JOIN "Transactions" t ON e.id = t."fromEntityId" OR e.id = t."toEntityId"
		LEFT JOIN "Movements" m ON t.id = m."transactionId"
		LEFT JOIN "Operations" o ON t."operationId" = o.id
		WHERE %s
		GROUP BY e.id, e.name, e."tagName", DATE_TRUNC('day', COALESCE(t.date, o.date)), t.currency, m.account
		ORDER BY DATE_TRUNC('day', COALESCE(t.date, o.date)), e.id, t.currency, m.account
	`, signedSum, strings.Join(conds, " AND "))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query entity balances", "error", err)
		return nil, fmt.Errorf("failed to query entity balances: %w", err)
	}
	defer rows.Close()

	var result []balance.Row
	for rows.Next() {
		var (
			row      balance.Row
			date     *time.Time
			currency *string
			account  *bool
			bal      decimal.NullDecimal
		)
		if err := rows.Scan(&row.EntityID, &row.EntityName, &row.EntityTag, &date, &currency, &account, &bal); err != nil {
			return nil, fmt.Errorf("failed to scan entity balance row: %w", err)
		}

		// LEFT JOINs produce an all-NULL bucket for entities without
		// movements; those are not balances.
		if currency == nil || date == nil || account == nil || !bal.Valid {
			continue
		}

		row.Date = *date
		row.Currency = *currency
		row.Account = *account
		row.Amount = bal.Decimal
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query entity balances: %w", err)
	}

	return result, nil
}

// DetailedBalances computes net balances broken down by counterparty,
// restricted to one account kind. For an entity scope the entity itself
// is excluded; for a tag scope only boundary-crossing transactions
// count and counterparties inside the closure are excluded.
func (r *BalanceRepository) DetailedBalances(ctx context.Context, params balance.DetailedBalancesParams) ([]balance.Detailed, error) {
	var (
		where string
		args  []interface{}
	)

	switch {
	case params.EntityID != nil:
		args = append(args, *params.EntityID, params.AccountType)
		where = `(t."fromEntityId" = $1 OR t."toEntityId" = $1) AND e.id <> $1 AND m.account = $2`
	case len(params.TagClosure) > 0:
		args = append(args, params.TagClosure, params.AccountType)
		where = `(
				(
					t."fromEntityId" IN (SELECT id FROM "Entities" WHERE "tagName" = ANY($1))
					AND t."toEntityId" NOT IN (SELECT id FROM "Entities" WHERE "tagName" = ANY($1))
				) OR (
					t."toEntityId" IN (SELECT id FROM "Entities" WHERE "tagName" = ANY($1))
					AND t."fromEntityId" NOT IN (SELECT id FROM "Entities" WHERE "tagName" = ANY($1))
				)
			)
			AND e."tagName" <> ALL($1)
			AND m.account = $2`
	default:
		return []balance.Detailed{}, nil
	}

	query := fmt.Sprintf(`
		SELECT
			t.currency,
			e.id AS entity_id,
			e."tagName" AS entity_tag,
			e.name AS entity_name,
			m.account,
			%s
		FROM "Transactions" t
		JOIN "Entities" e ON t."fromEntityId" = e.id OR t."toEntityId" = e.id
		JOIN "Movements" m ON t.id = m."transactionId"
		WHERE %s
		GROUP BY t.currency, e.id, e."tagName", e.name, m.account
		ORDER BY t.currency, e.id, m.account
	`, signedSum, where)

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query detailed balances", "error", err)
		return nil, fmt.Errorf("failed to query detailed balances: %w", err)
	}
	defer rows.Close()

	var result []balance.Detailed
	for rows.Next() {
		var (
			d        balance.Detailed
			currency *string
			bal      decimal.NullDecimal
		)
		if err := rows.Scan(&currency, &d.EntityID, &d.EntityTag, &d.EntityName, &d.Account, &bal); err != nil {
			return nil, fmt.Errorf("failed to scan detailed balance row: %w", err)
		}
		if currency == nil || !bal.Valid {
			continue
		}
		d.Currency = *currency
		d.Balance = bal.Decimal
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query detailed balances: %w", err)
	}

	return result, nil
}
