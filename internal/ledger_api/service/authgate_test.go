package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomycastelli/sistema-maika/internal/domain/entity"
	"github.com/tomycastelli/sistema-maika/internal/domain/link"
	"github.com/tomycastelli/sistema-maika/internal/domain/permission"
	"github.com/tomycastelli/sistema-maika/internal/domain/tag"
)

func newTestGate() (*Gate, *MockLinkReader, *MockPermissionReader, *MockTagReader, *MockEntityReader) {
	links := new(MockLinkReader)
	perms := new(MockPermissionReader)
	tags := new(MockTagReader)
	entities := new(MockEntityReader)
	gate := NewGate(links, perms, tags, entities, newTestLogger())
	return gate, links, perms, tags, entities
}

func TestAuthorizeAnySessionOrLink(t *testing.T) {
	ctx := context.Background()
	scope := Scope{EntityID: int64Ptr(7)}

	t.Run("SessionIsEnough", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{UserID: "user-1"}, scope, LevelAnySessionOrLink)

		assert.NoError(t, err)
	})

	t.Run("ValidLinkIsEnough", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(3)).Return(&link.Link{ID: 3, SharedEntityID: 7, Password: "secret"}, nil)

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 7, Token: "secret"}}, scope, LevelAnySessionOrLink)

		assert.NoError(t, err)
		links.AssertExpectations(t)
	})

	t.Run("WrongLinkTokenIsRejected", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(3)).Return(&link.Link{ID: 3, SharedEntityID: 7, Password: "secret"}, nil)

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 7, Token: "wrong"}}, scope, LevelAnySessionOrLink)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("WrongSharedEntityIsRejected", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(3)).Return(&link.Link{ID: 3, SharedEntityID: 7, Password: "secret"}, nil)

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 8, Token: "secret"}}, scope, LevelAnySessionOrLink)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("UnknownLinkIsRejected", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(99)).Return(nil, nil)

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 99, SharedEntityID: 7, Token: "secret"}}, scope, LevelAnySessionOrLink)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("AnonymousIsRejected", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{}, scope, LevelAnySessionOrLink)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("LinkLookupFailurePropagates", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(3)).Return(nil, errors.New("connection refused"))

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 7, Token: "secret"}}, scope, LevelAnySessionOrLink)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotAuthenticated)
		assert.NotErrorIs(t, err, ErrInsufficientGrant)
	})
}

func TestAuthorizeAuthenticatedSession(t *testing.T) {
	ctx := context.Background()
	scope := Scope{EntityID: int64Ptr(7)}

	t.Run("SessionIsAccepted", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{UserID: "user-1"}, scope, LevelAuthenticatedSession)

		assert.NoError(t, err)
	})

	t.Run("ValidLinkIsNotEnough", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 7, Token: "secret"}}, scope, LevelAuthenticatedSession)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
		// The link store is never consulted; a link cannot satisfy
		// this level.
		links.AssertNotCalled(t, "ByID")
	})

	t.Run("AnonymousIsRejected", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{}, scope, LevelAuthenticatedSession)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestAuthorizeFineGrainedGrant(t *testing.T) {
	ctx := context.Background()
	caller := Caller{UserID: "user-1"}
	entityScope := Scope{EntityID: int64Ptr(7)}

	t.Run("AdminCoversEverything", func(t *testing.T) {
		gate, _, perms, _, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{{Name: permission.Admin}}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.NoError(t, err)
	})

	t.Run("VisualizeCoversEverything", func(t *testing.T) {
		gate, _, perms, _, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{{Name: permission.AccountsVisualize}}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.NoError(t, err)
	})

	t.Run("SomeWithExplicitEntityID", func(t *testing.T) {
		gate, _, perms, _, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{
			{Name: permission.AccountsVisualizeSome, EntitiesIDs: []int64{5, 7}},
		}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.NoError(t, err)
	})

	t.Run("SomeWithTagCoveringEntityTag", func(t *testing.T) {
		gate, _, perms, tags, entities := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{
			{Name: permission.AccountsVisualizeSome, EntitiesTags: []string{"clients"}},
		}, nil)
		entities.On("All", ctx).Return([]entity.Entity{{ID: 7, Name: "Acme", TagName: "clients-vip"}}, nil)
		tags.On("All", ctx).Return([]tag.Tag{
			{Name: "clients"},
			{Name: "clients-vip", ParentName: strPtr("clients")},
		}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.NoError(t, err)
	})

	t.Run("SomeOutsideClosureIsRejected", func(t *testing.T) {
		gate, _, perms, tags, entities := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{
			{Name: permission.AccountsVisualizeSome, EntitiesTags: []string{"clients"}},
		}, nil)
		entities.On("All", ctx).Return([]entity.Entity{{ID: 7, Name: "Acme", TagName: "suppliers"}}, nil)
		tags.On("All", ctx).Return([]tag.Tag{
			{Name: "clients"},
			{Name: "suppliers"},
		}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.ErrorIs(t, err, ErrInsufficientGrant)
	})

	t.Run("SomeCoversTagScopeViaClosure", func(t *testing.T) {
		gate, _, perms, tags, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{
			{Name: permission.AccountsVisualizeSome, EntitiesTags: []string{"clients"}},
		}, nil)
		tags.On("All", ctx).Return([]tag.Tag{
			{Name: "clients"},
			{Name: "clients-vip", ParentName: strPtr("clients")},
		}, nil)

		err := gate.Authorize(ctx, caller, Scope{EntityTag: strPtr("clients-vip")}, LevelFineGrainedGrant)

		assert.NoError(t, err)
	})

	t.Run("NoGrantsIsRejected", func(t *testing.T) {
		gate, _, perms, _, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return([]permission.Permission{}, nil)

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.ErrorIs(t, err, ErrInsufficientGrant)
	})

	t.Run("LinkCoversItsOwnEntityOnly", func(t *testing.T) {
		gate, links, _, _, _ := newTestGate()
		links.On("ByID", ctx, int64(3)).Return(&link.Link{ID: 3, SharedEntityID: 7, Password: "secret"}, nil)
		linkCaller := Caller{Link: &LinkCredentials{ID: 3, SharedEntityID: 7, Token: "secret"}}

		assert.NoError(t, gate.Authorize(ctx, linkCaller, Scope{EntityID: int64Ptr(7)}, LevelFineGrainedGrant))
		assert.ErrorIs(t, gate.Authorize(ctx, linkCaller, Scope{EntityID: int64Ptr(8)}, LevelFineGrainedGrant), ErrInsufficientGrant)
		assert.ErrorIs(t, gate.Authorize(ctx, linkCaller, Scope{EntityTag: strPtr("clients")}, LevelFineGrainedGrant), ErrInsufficientGrant)
	})

	t.Run("AnonymousIsRejected", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate()

		err := gate.Authorize(ctx, Caller{}, entityScope, LevelFineGrainedGrant)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("PermissionLookupFailurePropagates", func(t *testing.T) {
		gate, _, perms, _, _ := newTestGate()
		perms.On("ForUser", ctx, "user-1").Return(nil, errors.New("connection refused"))

		err := gate.Authorize(ctx, caller, entityScope, LevelFineGrainedGrant)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInsufficientGrant)
	})
}

func TestAuthorizeMessages(t *testing.T) {
	assert.Equal(t, "El usuario no está registrado o el link no es válido", ErrNotAuthenticated.Error())
	assert.Equal(t, "El usuario no tiene los permisos suficientes para ver esta cuenta", ErrInsufficientGrant.Error())
}
