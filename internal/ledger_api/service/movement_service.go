package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tomycastelli/sistema-maika/internal/domain/balance"
	"github.com/tomycastelli/sistema-maika/internal/domain/ledger"
	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
	"github.com/tomycastelli/sistema-maika/internal/platform/cache"
)

// movementService sequences gate, tag closure, cache and the aggregate
// repositories. It owns no state beyond its collaborators.
type movementService struct {
	movements  ledger.Repository
	balances   balance.Repository
	tags       tag.Reader
	gate       *Gate
	cache      cache.Store
	balanceTTL time.Duration
	logger     *slog.Logger
}

// NewMovementService creates the query façade.
func NewMovementService(
	movements ledger.Repository,
	balances balance.Repository,
	tags tag.Reader,
	gate *Gate,
	cacheStore cache.Store,
	balanceTTL time.Duration,
	logger *slog.Logger,
) MovementService {
	return &movementService{
		movements:  movements,
		balances:   balances,
		tags:       tags,
		gate:       gate,
		cache:      cacheStore,
		balanceTTL: balanceTTL,
		logger:     logger,
	}
}

// CurrentAccounts lists movements for the scope, most recent first.
func (s *movementService) CurrentAccounts(ctx context.Context, req CurrentAccountsRequest) (*CurrentAccountsResult, error) {
	if req.Scope.Empty() {
		return &CurrentAccountsResult{Movements: []ledger.Movement{}, TotalRows: 0}, nil
	}

	if err := s.gate.Authorize(ctx, req.Caller, req.Scope, LevelAnySessionOrLink); err != nil {
		return nil, err
	}

	entityID, closure, err := s.resolveScope(ctx, req.Scope)
	if err != nil {
		return nil, err
	}

	movements, total, err := s.movements.CurrentAccounts(ctx, ledger.CurrentAccountsParams{
		EntityID:   entityID,
		TagClosure: closure,
		Account:    req.Account,
		DayInPast:  req.DayInPast,
		PageSize:   req.PageSize,
		PageNumber: req.PageNumber,
	})
	if err != nil {
		return nil, err
	}

	return &CurrentAccountsResult{Movements: movements, TotalRows: total}, nil
}

// EntityBalances computes per-day balances grouped by entity, behind the
// full visibility grant check.
func (s *movementService) EntityBalances(ctx context.Context, req EntityBalancesRequest) ([]balance.EntityBalance, error) {
	if req.Scope.Empty() {
		return []balance.EntityBalance{}, nil
	}

	if err := s.gate.Authorize(ctx, req.Caller, req.Scope, LevelFineGrainedGrant); err != nil {
		return nil, err
	}

	return s.computeEntityBalances(ctx, req.Scope, req.DayInPast)
}

// EntityBalancesForCard is EntityBalances behind the TTL cache and the
// lighter gate. Historical reads bypass the cache: its key identifies
// scope only, not the cutoff.
func (s *movementService) EntityBalancesForCard(ctx context.Context, req EntityBalancesRequest) ([]balance.EntityBalance, error) {
	if req.Scope.Empty() {
		return []balance.EntityBalance{}, nil
	}

	if err := s.gate.Authorize(ctx, req.Caller, req.Scope, LevelAnySessionOrLink); err != nil {
		return nil, err
	}

	if req.DayInPast != nil {
		return s.computeEntityBalances(ctx, req.Scope, req.DayInPast)
	}

	key := balanceCacheKey(req.Scope)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	grouped, err := s.computeEntityBalances(ctx, req.Scope, nil)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, grouped)
	return grouped, nil
}

// DetailedBalances breaks the scope's balance down by counterparty.
func (s *movementService) DetailedBalances(ctx context.Context, req DetailedBalancesRequest) ([]balance.Detailed, error) {
	if req.Scope.Empty() {
		return []balance.Detailed{}, nil
	}

	if err := s.gate.Authorize(ctx, req.Caller, req.Scope, LevelAnySessionOrLink); err != nil {
		return nil, err
	}

	entityID, closure, err := s.resolveScope(ctx, req.Scope)
	if err != nil {
		return nil, err
	}

	return s.balances.DetailedBalances(ctx, balance.DetailedBalancesParams{
		EntityID:    entityID,
		TagClosure:  closure,
		AccountType: req.AccountType,
	})
}

// MovementsByCurrency returns the most recent movements in one currency
// crossing the scope boundary. Sessions only; share links do not reach
// this feed.
func (s *movementService) MovementsByCurrency(ctx context.Context, req ByCurrencyRequest) ([]ledger.Movement, error) {
	if req.Scope.Empty() {
		return []ledger.Movement{}, nil
	}

	if err := s.gate.Authorize(ctx, req.Caller, req.Scope, LevelAuthenticatedSession); err != nil {
		return nil, err
	}

	entityID, closure, err := s.resolveScope(ctx, req.Scope)
	if err != nil {
		return nil, err
	}

	return s.movements.ByCurrency(ctx, ledger.ByCurrencyParams{
		Currency:   req.Currency,
		EntityID:   entityID,
		TagClosure: closure,
		Limit:      req.Limit,
	})
}

func (s *movementService) computeEntityBalances(ctx context.Context, scope Scope, dayInPast *time.Time) ([]balance.EntityBalance, error) {
	entityID, closure, err := s.resolveScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	rows, err := s.balances.EntityBalances(ctx, balance.EntityBalancesParams{
		EntityID:   entityID,
		TagClosure: closure,
		DayInPast:  dayInPast,
	})
	if err != nil {
		return nil, err
	}

	return balance.GroupRows(rows), nil
}

// resolveScope turns a tag scope into its closure; an entity scope is
// passed through.
func (s *movementService) resolveScope(ctx context.Context, scope Scope) (*int64, []string, error) {
	if scope.EntityTag == nil {
		return scope.EntityID, nil, nil
	}

	all, err := s.tags.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tags: %w", err)
	}
	return nil, tag.Closure(*scope.EntityTag, all), nil
}

// cacheGet treats every cache failure, including an undecodable entry,
// as a miss. Balance correctness never depends on the cache.
func (s *movementService) cacheGet(ctx context.Context, key string) ([]balance.EntityBalance, bool) {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		return nil, false
	}

	var grouped []balance.EntityBalance
	if err := json.Unmarshal([]byte(raw), &grouped); err != nil {
		s.logger.Warn("Discarding undecodable balance cache entry",
			"key", key,
			"error", err,
		)
		return nil, false
	}
	return grouped, true
}

func (s *movementService) cachePut(ctx context.Context, key string, grouped []balance.EntityBalance) {
	encoded, err := json.Marshal(grouped)
	if err != nil {
		s.logger.Warn("Failed to encode balances for cache",
			"key", key,
			"error", err,
		)
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), s.balanceTTL); err != nil {
		s.logger.Warn("Failed to store balances in cache",
			"key", key,
			"error", err,
		)
	}
}

// balanceCacheKey derives the scope's cache key. Entity and tag scopes
// live in disjoint namespaces.
func balanceCacheKey(scope Scope) string {
	if scope.EntityID != nil {
		return "balance:" + strconv.FormatInt(*scope.EntityID, 10)
	}
	return "balance:" + *scope.EntityTag
}
