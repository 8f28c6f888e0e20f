package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tomycastelli/sistema-maika/internal/domain/permission"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

// PermissionRepository implements permission.Reader for PostgreSQL
type PermissionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPermissionRepository creates a new PostgreSQL permission reader
func NewPermissionRepository(logger *slog.Logger, db *persistence.PostgresDB) permission.Reader {
	return &PermissionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// ForUser returns the grants held by the given user. A user without
// rows simply has no grants; that is not an error.
func (r *PermissionRepository) ForUser(ctx context.Context, userID string) ([]permission.Permission, error) {
	query := `
		SELECT name, "entitiesIds", "entitiesTags"
		FROM "UserPermissions"
		WHERE "userId" = $1
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list permissions", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var permissions []permission.Permission
	for rows.Next() {
		var p permission.Permission
		if err := rows.Scan(&p.Name, &p.EntitiesIDs, &p.EntitiesTags); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return permissions, nil
}
