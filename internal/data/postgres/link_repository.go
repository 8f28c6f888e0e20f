package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/tomycastelli/sistema-maika/internal/domain/link"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

// LinkRepository implements link.Reader for PostgreSQL
type LinkRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLinkRepository creates a new PostgreSQL link reader
func NewLinkRepository(logger *slog.Logger, db *persistence.PostgresDB) link.Reader {
	return &LinkRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// ByID returns the stored link with the given id, or nil when no such
// link exists. Credential comparison happens in the authorization gate,
// never in SQL, so a lookup miss and a token mismatch are
// indistinguishable to callers.
func (r *LinkRepository) ByID(ctx context.Context, id int64) (*link.Link, error) {
	query := `
		SELECT id, "sharedEntityId", password
		FROM "Links"
		WHERE id = $1
	`

	var l link.Link
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.SharedEntityID,
		&l.Password,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get link", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &l, nil
}
