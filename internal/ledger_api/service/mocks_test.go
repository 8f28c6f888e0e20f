package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tomycastelli/sistema-maika/internal/domain/balance"
	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
	"github.com/tomycastelli/sistema-maika/internal/domain/ledger"
	"github.com/tomycastelli/sistema-maika/internal/domain/link"
	"github.com/tomycastelli/sistema-maika/internal/domain/permission"
	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CurrentAccounts(ctx context.Context, params ledger.CurrentAccountsParams) ([]ledger.Movement, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ledger.Movement), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) ByCurrency(ctx context.Context, params ledger.ByCurrencyParams) ([]ledger.Movement, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) EntityBalances(ctx context.Context, params balance.EntityBalancesParams) ([]balance.Row, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]balance.Row), args.Error(1)
}

func (m *MockBalanceRepository) DetailedBalances(ctx context.Context, params balance.DetailedBalancesParams) ([]balance.Detailed, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]balance.Detailed), args.Error(1)
}

type MockTagReader struct {
	mock.Mock
}

func (m *MockTagReader) All(ctx context.Context) ([]tag.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tag.Tag), args.Error(1)
}

type MockEntityReader struct {
	mock.Mock
}

func (m *MockEntityReader) All(ctx context.Context) ([]entity.Entity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Entity), args.Error(1)
}

type MockLinkReader struct {
	mock.Mock
}

func (m *MockLinkReader) ByID(ctx context.Context, id int64) (*link.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Link), args.Error(1)
}

type MockPermissionReader struct {
	mock.Mock
}

func (m *MockPermissionReader) ForUser(ctx context.Context, userID string) ([]permission.Permission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permission.Permission), args.Error(1)
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }
func boolPtr(b bool) *bool    { return &b }
