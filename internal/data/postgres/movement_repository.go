package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tomycastelli/sistema-maika/internal/domain/ledger"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

const movementColumns = `
	m.id, m.direction, m.account,
	t.id, t.currency, t.amount, t.date,
	ef.id, ef.name, ef."tagName",
	et.id, et.name, et."tagName",
	o.id, o.date, o.observations`

const movementJoins = `
	FROM "Movements" m
	JOIN "Transactions" t ON m."transactionId" = t.id
	JOIN "Entities" ef ON t."fromEntityId" = ef.id
	JOIN "Entities" et ON t."toEntityId" = et.id
	LEFT JOIN "Operations" o ON t."operationId" = o.id`

// MovementRepository implements ledger.Repository for PostgreSQL
type MovementRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewMovementRepository creates a new PostgreSQL movement repository
func NewMovementRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &MovementRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// scopeConditions builds the shared WHERE fragments for a movement
// listing. Entity scopes match transactions where the entity is on
// exactly one side; tag scopes match transactions crossing the closure
// boundary, so activity internal to the scope never shows up.
func scopeConditions(entityID *int64, tagClosure []string, args []interface{}) ([]string, []interface{}) {
	var conds []string

	if entityID != nil {
		args = append(args, *entityID)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`((t."fromEntityId" = $%d AND t."toEntityId" <> $%d) OR (t."fromEntityId" <> $%d AND t."toEntityId" = $%d))`,
			n, n, n, n))
	}
	if len(tagClosure) > 0 {
		args = append(args, tagClosure)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`((ef."tagName" = ANY($%d) AND NOT (et."tagName" = ANY($%d))) OR (NOT (ef."tagName" = ANY($%d)) AND et."tagName" = ANY($%d)))`,
			n, n, n, n))
	}

	return conds, args
}

// CurrentAccounts returns one id-descending page of movements matching
// the scope, plus the total row count for the same filter.
func (r *MovementRepository) CurrentAccounts(ctx context.Context, params ledger.CurrentAccountsParams) ([]ledger.Movement, int64, error) {
	conds, args := scopeConditions(params.EntityID, params.TagClosure, nil)

	if params.Account != nil {
		args = append(args, *params.Account)
		conds = append(conds, fmt.Sprintf("m.account = $%d", len(args)))
	}
	if params.DayInPast != nil {
		args = append(args, *params.DayInPast)
		conds = append(conds, fmt.Sprintf("COALESCE(t.date, o.date) <= $%d", len(args)))
	}

	where := "1=1"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", movementJoins, where)

	var totalRows int64
	if err := r.querier.QueryRow(ctx, countQuery, args...).Scan(&totalRows); err != nil {
		r.logger.Error("Failed to count movements", "error", err)
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	pageArgs := args
	pageArgs = append(pageArgs, params.PageSize)
	limitParam := len(pageArgs)
	pageArgs = append(pageArgs, (params.PageNumber-1)*params.PageSize)
	offsetParam := len(pageArgs)

	listQuery := fmt.Sprintf(
		"SELECT %s %s WHERE %s ORDER BY m.id DESC LIMIT $%d OFFSET $%d",
		movementColumns, movementJoins, where, limitParam, offsetParam)

	movements, err := r.queryMovements(ctx, listQuery, pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	return movements, totalRows, nil
}

// ByCurrency returns the most recent movements in one currency crossing
// the scope boundary.
func (r *MovementRepository) ByCurrency(ctx context.Context, params ledger.ByCurrencyParams) ([]ledger.Movement, error) {
	args := []interface{}{params.Currency}
	conds := []string{"t.currency = $1"}

	scoped, args := scopeConditions(params.EntityID, params.TagClosure, args)
	conds = append(conds, scoped...)

	args = append(args, params.Limit)

	query := fmt.Sprintf(
		"SELECT %s %s WHERE %s ORDER BY m.id DESC LIMIT $%d",
		movementColumns, movementJoins, strings.Join(conds, " AND "), len(args))

	return r.queryMovements(ctx, query, args...)
}

func (r *MovementRepository) queryMovements(ctx context.Context, query string, args ...interface{}) ([]ledger.Movement, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list movements", "error", err)
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []ledger.Movement
	for rows.Next() {
		var (
			mv     ledger.Movement
			opID   *int64
			opDate *time.Time
			opObs  *string
		)
		err := rows.Scan(
			&mv.ID, &mv.Direction, &mv.Account,
			&mv.Transaction.ID, &mv.Transaction.Currency, &mv.Transaction.Amount, &mv.Transaction.Date,
			&mv.Transaction.FromEntity.ID, &mv.Transaction.FromEntity.Name, &mv.Transaction.FromEntity.TagName,
			&mv.Transaction.ToEntity.ID, &mv.Transaction.ToEntity.Name, &mv.Transaction.ToEntity.TagName,
			&opID, &opDate, &opObs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}

		if opID != nil && opDate != nil {
			mv.Transaction.Operation = &ledger.Operation{
				ID:           *opID,
				Date:         *opDate,
				Observations: opObs,
			}
		}

		movements = append(movements, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return movements, nil
}
