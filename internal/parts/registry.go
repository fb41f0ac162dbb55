package parts

import (
	"strings"

	"carmod-engine/internal/scenegraph"
)

// Registry is the ordered list of Parts extracted from the current model,
// one entry per renderable leaf in depth-first order. It is rebuilt wholesale
// on every model load and kept in sync with explicit toggle/recolor edits;
// procedurally added nodes (accessories) deliberately do not appear.
type Registry struct {
	list []*Part
}

// Extract walks root and returns a registry with one Part per renderable
// leaf. Labels are inferred here and never re-run automatically.
func Extract(root *scenegraph.Node) *Registry {
	r := &Registry{}
	if root == nil {
		return r
	}
	for _, leaf := range root.Leaves() {
		r.list = append(r.list, fromLeaf(leaf))
	}
	return r
}

// All returns the parts in extraction order. Callers must not reorder it.
func (r *Registry) All() []*Part {
	return r.list
}

// Len returns the number of registered parts.
func (r *Registry) Len() int {
	return len(r.list)
}

// Find returns the part named exactly name, or nil.
func (r *Registry) Find(name string) *Part {
	for _, p := range r.list {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Filter returns parts whose name or label contains q (case-insensitive).
// An empty query returns everything.
func (r *Registry) Filter(q string) []*Part {
	if q == "" {
		return r.list
	}
	q = strings.ToLower(q)
	var out []*Part
	for _, p := range r.list {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Label), q) {
			out = append(out, p)
		}
	}
	return out
}

// SetVisibleWhereNameContains patches the Visible flag on every part whose
// name contains sub (case-insensitive). Used by TOGGLE_PART to keep the UI
// list consistent with the scene.
func (r *Registry) SetVisibleWhereNameContains(sub string, visible bool) {
	sub = strings.ToLower(sub)
	for _, p := range r.list {
		if strings.Contains(strings.ToLower(p.Name), sub) {
			p.Visible = visible
		}
	}
}

// FindByAliases returns every renderable leaf under root whose lowercased
// name contains any of the candidate aliases. Several leaves routinely match
// one category (wheel_fl, wheel_fr, ...).
func FindByAliases(root *scenegraph.Node, aliases []string) []*scenegraph.Node {
	if root == nil || len(aliases) == 0 {
		return nil
	}
	lowered := make([]string, len(aliases))
	for i, a := range aliases {
		lowered[i] = strings.ToLower(a)
	}
	var found []*scenegraph.Node
	root.Walk(func(n *scenegraph.Node) {
		if n.Mesh == nil {
			return
		}
		name := strings.ToLower(n.Name)
		for _, a := range lowered {
			if a != "" && strings.Contains(name, a) {
				found = append(found, n)
				return
			}
		}
	})
	return found
}
