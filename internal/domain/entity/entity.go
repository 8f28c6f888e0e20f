// Package entity models the parties of the ledger. Entities are managed
// by an external collaborator; this service only reads them.
package entity

import "context"

// Entity is a party participating in the ledger. Every entity carries
// exactly one classification tag.
type Entity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TagName string `json:"tagName"`
}

// Reader yields the full current entity list.
type Reader interface {
	All(ctx context.Context) ([]Entity, error)
}

// TagOf returns the tag of the entity with the given id within the
// snapshot, or "" if the id is unknown.
func TagOf(id int64, all []Entity) string {
	for _, e := range all {
		if e.ID == id {
			return e.TagName
		}
	}
	return ""
}
