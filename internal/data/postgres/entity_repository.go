package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

// EntityRepository implements entity.Reader for PostgreSQL
type EntityRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEntityRepository creates a new PostgreSQL entity reader
func NewEntityRepository(logger *slog.Logger, db *persistence.PostgresDB) entity.Reader {
	return &EntityRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// All returns the full entity list
func (r *EntityRepository) All(ctx context.Context) ([]entity.Entity, error) {
	query := `
		SELECT id, name, "tagName"
		FROM "Entities"
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list entities", "error", err)
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []entity.Entity
	for rows.Next() {
		var e entity.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.TagName); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	return entities, nil
}
