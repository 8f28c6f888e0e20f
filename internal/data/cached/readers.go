package cached

import (
	"context"
	"log/slog"
	"time"

	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
	"github.com/tomycastelli/sistema-maika/internal/domain/permission"
	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
	"github.com/tomycastelli/sistema-maika/internal/platform/cache"
)

const (
	tagsKey           = "tags:all"
	entitiesKey       = "entities:all"
	permissionsPrefix = "permissions:"
)

// TagReader is a read-through cached tag.Reader
type TagReader struct {
	inner  tag.Reader
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewTagReader(inner tag.Reader, store cache.Store, ttl time.Duration, logger *slog.Logger) *TagReader {
	return &TagReader{inner: inner, store: store, ttl: ttl, logger: logger}
}

func (r *TagReader) All(ctx context.Context) ([]tag.Tag, error) {
	return lookup(ctx, r.store, r.logger, tagsKey, r.ttl, r.inner.All)
}

// EntityReader is a read-through cached entity.Reader
type EntityReader struct {
	inner  entity.Reader
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewEntityReader(inner entity.Reader, store cache.Store, ttl time.Duration, logger *slog.Logger) *EntityReader {
	return &EntityReader{inner: inner, store: store, ttl: ttl, logger: logger}
}

func (r *EntityReader) All(ctx context.Context) ([]entity.Entity, error) {
	return lookup(ctx, r.store, r.logger, entitiesKey, r.ttl, r.inner.All)
}

// PermissionReader is a read-through cached permission.Reader, keyed per
// user.
type PermissionReader struct {
	inner  permission.Reader
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewPermissionReader(inner permission.Reader, store cache.Store, ttl time.Duration, logger *slog.Logger) *PermissionReader {
	return &PermissionReader{inner: inner, store: store, ttl: ttl, logger: logger}
}

func (r *PermissionReader) ForUser(ctx context.Context, userID string) ([]permission.Permission, error) {
	return lookup(ctx, r.store, r.logger, permissionsPrefix+userID, r.ttl, func(ctx context.Context) ([]permission.Permission, error) {
		return r.inner.ForUser(ctx, userID)
	})
}

var (
	_ tag.Reader        = (*TagReader)(nil)
	_ entity.Reader     = (*EntityReader)(nil)
	_ permission.Reader = (*PermissionReader)(nil)
)
