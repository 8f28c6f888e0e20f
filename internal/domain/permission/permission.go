// Package permission models account-visibility grants. Grant lifecycle
// is owned by the user management collaborator; this service consumes
// them read-only.
package permission

import "context"

// Grant names recognized by the authorization gate.
const (
	Admin                 = "ADMIN"
	AccountsVisualize     = "ACCOUNTS_VISUALIZE"
	AccountsVisualizeSome = "ACCOUNTS_VISUALIZE_SOME"
)

// Permission associates a user with an access level. For the "SOME"
// level the grant is limited to an explicit set of entity ids and/or
// tags (each tag implying its whole subtree).
type Permission struct {
	Name         string   `json:"name"`
	EntitiesIDs  []int64  `json:"entitiesIds"`
	EntitiesTags []string `json:"entitiesTags"`
}

// Reader yields the grants held by a user.
type Reader interface {
	ForUser(ctx context.Context, userID string) ([]Permission, error)
}

// GrantsEntityID reports whether the permission's explicit id set
// contains id.
func (p Permission) GrantsEntityID(id int64) bool {
	for _, granted := range p.EntitiesIDs {
		if granted == id {
			return true
		}
	}
	return false
}
