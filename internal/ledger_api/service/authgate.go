package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
	"github.com/tomycastelli/sistema-maika/internal/domain/link"
	"github.com/tomycastelli/sistema-maika/internal/domain/permission"
	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
)

// Level is the strictness of an authorization check.
type Level int

const (
	// LevelAnySessionOrLink admits any authenticated session or any
	// valid share link, regardless of scope.
	LevelAnySessionOrLink Level = iota

	// LevelAuthenticatedSession admits authenticated sessions only.
	// Share links never satisfy it.
	LevelAuthenticatedSession

	// LevelFineGrainedGrant additionally requires the caller's grants
	// (or link) to cover the requested scope.
	LevelFineGrainedGrant
)

// Authorization failures. The messages are surfaced to callers verbatim
// and distinguish a missing/invalid credential from an insufficient one.
var (
	ErrNotAuthenticated  = errors.New("El usuario no está registrado o el link no es válido")
	ErrInsufficientGrant = errors.New("El usuario no tiene los permisos suficientes para ver esta cuenta")
)

// Gate decides whether a caller may read a scope. It is read-only over
// links, permissions, tags and entities; grant lifecycle lives in
// external collaborators.
type Gate struct {
	links       link.Reader
	permissions permission.Reader
	tags        tag.Reader
	entities    entity.Reader
	logger      *slog.Logger
}

// NewGate creates an authorization gate.
func NewGate(
	links link.Reader,
	permissions permission.Reader,
	tags tag.Reader,
	entities entity.Reader,
	logger *slog.Logger,
) *Gate {
	return &Gate{
		links:       links,
		permissions: permissions,
		tags:        tags,
		entities:    entities,
		logger:      logger,
	}
}

// Authorize checks the caller against the scope at the given level. It
// returns ErrNotAuthenticated or ErrInsufficientGrant on rejection; any
// other error is an infrastructure failure.
func (g *Gate) Authorize(ctx context.Context, caller Caller, scope Scope, level Level) error {
	if level == LevelAuthenticatedSession {
		if caller.UserID != "" {
			return nil
		}
		return ErrNotAuthenticated
	}

	linkValid, linkEntityID, err := g.checkLink(ctx, caller.Link)
	if err != nil {
		return err
	}

	if level == LevelAnySessionOrLink {
		if caller.UserID != "" || linkValid {
			return nil
		}
		return ErrNotAuthenticated
	}

	if caller.UserID != "" {
		covered, err := g.sessionCovers(ctx, caller.UserID, scope)
		if err != nil {
			return err
		}
		if covered {
			return nil
		}
		g.logger.Warn("Insufficient visibility grant",
			"user_id", caller.UserID,
		)
		return ErrInsufficientGrant
	}

	if linkValid {
		// A link covers exactly one entity and never a tag scope.
		if scope.EntityID != nil && *scope.EntityID == linkEntityID {
			return nil
		}
		return ErrInsufficientGrant
	}

	return ErrNotAuthenticated
}

// checkLink resolves presented link credentials against the store. An
// absent or non-matching credential is not an error, just invalid.
func (g *Gate) checkLink(ctx context.Context, creds *LinkCredentials) (bool, int64, error) {
	if creds == nil {
		return false, 0, nil
	}

	stored, err := g.links.ByID(ctx, creds.ID)
	if err != nil {
		return false, 0, fmt.Errorf("looking up link %d: %w", creds.ID, err)
	}
	if !stored.Matches(creds.SharedEntityID, creds.Token) {
		return false, 0, nil
	}
	return true, stored.SharedEntityID, nil
}

// sessionCovers reports whether the user's grants cover the scope.
// ADMIN and ACCOUNTS_VISUALIZE are unconditional; the SOME level is
// limited to explicit entity ids and tag subtrees.
func (g *Gate) sessionCovers(ctx context.Context, userID string, scope Scope) (bool, error) {
	perms, err := g.permissions.ForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("loading permissions for user %s: %w", userID, err)
	}

	var some []permission.Permission
	for _, p := range perms {
		switch p.Name {
		case permission.Admin, permission.AccountsVisualize:
			return true, nil
		case permission.AccountsVisualizeSome:
			some = append(some, p)
		}
	}
	if len(some) == 0 {
		return false, nil
	}

	if scope.EntityID != nil {
		for _, p := range some {
			if p.GrantsEntityID(*scope.EntityID) {
				return true, nil
			}
		}
		entityTag, err := g.entityTag(ctx, *scope.EntityID)
		if err != nil {
			return false, err
		}
		if entityTag == "" {
			return false, nil
		}
		return g.tagCovered(ctx, some, entityTag)
	}

	if scope.EntityTag != nil {
		return g.tagCovered(ctx, some, *scope.EntityTag)
	}

	return false, nil
}

func (g *Gate) entityTag(ctx context.Context, entityID int64) (string, error) {
	all, err := g.entities.All(ctx)
	if err != nil {
		return "", fmt.Errorf("loading entities: %w", err)
	}
	return entity.TagOf(entityID, all), nil
}

// tagCovered reports whether name falls inside the closure of any
// granted tag.
func (g *Gate) tagCovered(ctx context.Context, some []permission.Permission, name string) (bool, error) {
	all, err := g.tags.All(ctx)
	if err != nil {
		return false, fmt.Errorf("loading tags: %w", err)
	}
	for _, p := range some {
		for _, granted := range p.EntitiesTags {
			if tag.Contains(granted, all, name) {
				return true, nil
			}
		}
	}
	return false, nil
}
