// Package tag models the classification forest attached to entities and
// the closure computation every tag-scoped query depends on.
package tag

import "context"

// Tag is a node in the classification forest. A nil ParentName marks a
// root. The parent relation must be acyclic; that is a data-integrity
// precondition owned by the tag management collaborator, not enforced
// per query.
type Tag struct {
	Name       string  `json:"name"`
	ParentName *string `json:"parentName"`
}

// Reader yields the full current tag list.
type Reader interface {
	All(ctx context.Context) ([]Tag, error)
}

// Closure returns root plus every transitive descendant of root within
// the given snapshot, root first and then in discovery order. An unknown
// root yields just {root}: a query scoped to it degrades to "no one"
// because no entity carries that tag.
//
// Traversal is breadth-first with a visited set, and bounded by the
// snapshot size so a corrupted (cyclic) parent relation terminates
// instead of looping.
func Closure(root string, all []Tag) []string {
	seen := map[string]struct{}{root: {}}
	result := []string{root}
	frontier := []string{root}

	for steps := 0; len(frontier) > 0 && steps <= len(all); steps++ {
		var next []string
		for _, name := range frontier {
			for _, t := range all {
				if t.ParentName == nil || *t.ParentName != name {
					continue
				}
				if _, ok := seen[t.Name]; ok {
					continue
				}
				seen[t.Name] = struct{}{}
				result = append(result, t.Name)
				next = append(next, t.Name)
			}
		}
		frontier = next
	}

	return result
}

// ClosureSet is Closure with set semantics, for membership checks.
func ClosureSet(root string, all []Tag) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range Closure(root, all) {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is inside the closure of root.
func Contains(root string, all []Tag, name string) bool {
	_, ok := ClosureSet(root, all)[name]
	return ok
}
