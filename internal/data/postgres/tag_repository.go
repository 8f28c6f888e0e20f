// Package postgres provides PostgreSQL implementations of the domain
// readers and the aggregate balance queries. The schema (quoted,
// camel-cased identifiers) is the contract shared with the application
// that writes the ledger; this service never mutates it.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

// TagRepository implements tag.Reader for PostgreSQL
type TagRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTagRepository creates a new PostgreSQL tag reader
func NewTagRepository(logger *slog.Logger, db *persistence.PostgresDB) tag.Reader {
	return &TagRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// All returns the full tag forest. Callers treat the result as an
// immutable snapshot for the duration of a request.
func (r *TagRepository) All(ctx context.Context) ([]tag.Tag, error) {
	query := `
		SELECT name, "parentName"
		FROM "Tags"
		ORDER BY name
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list tags", "error", err)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.Name, &t.ParentName); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return tags, nil
}
