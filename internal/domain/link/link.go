// Package link models the anonymous share credentials that grant read
// access to one entity's balances without a user session.
package link

import "context"

// Link is a time-unbounded share credential. The password is an opaque
// token compared for equality; links are created elsewhere, this service
// only validates them.
type Link struct {
	ID             int64
	SharedEntityID int64
	Password       string
}

// Reader looks up stored links.
type Reader interface {
	// ByID returns the link with the given id, or nil if none exists.
	ByID(ctx context.Context, id int64) (*Link, error)
}

// Matches reports whether the presented credentials resolve to this
// link. A link grants access to exactly one entity.
func (l *Link) Matches(sharedEntityID int64, token string) bool {
	return l != nil && l.SharedEntityID == sharedEntityID && l.Password == token
}
