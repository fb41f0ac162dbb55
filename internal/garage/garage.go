// Package garage owns the live viewer session: the current scene graph root,
// the part registry derived from it, and the selection set. Exactly one root
// is live at a time; every edit operates on whatever root is current when the
// call runs, so edits issued against an already-replaced model degrade to
// no-ops instead of touching a detached graph.
package garage

import (
	"io"
	"sync"

	"carmod-engine/internal/assets"
	"carmod-engine/internal/parts"
	"carmod-engine/internal/scenegraph"
)

// Garage is safe for the render loop reading while a finished load swaps the
// root in from another goroutine. Edits themselves are same-thread.
type Garage struct {
	mu       sync.Mutex
	root     *scenegraph.Node
	registry *parts.Registry
	selected map[string]bool
	gen      uint64
}

// New returns an empty garage with no model loaded.
func New() *Garage {
	return &Garage{
		registry: parts.Extract(nil),
		selected: make(map[string]bool),
	}
}

// Swap replaces the live root with a freshly loaded one, discards the old
// graph, re-derives the part registry, and clears the selection. Returns the
// new load generation.
func (g *Garage) Swap(root *scenegraph.Node) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.root = root
	g.registry = parts.Extract(root)
	g.selected = make(map[string]bool)
	g.gen++
	return g.gen
}

// Root returns the current live root, or nil before the first load.
func (g *Garage) Root() *scenegraph.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.root
}

// Generation returns the current load generation; it bumps on every Swap.
// A slow load whose generation lost the race should discard its result.
func (g *Garage) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen
}

// Parts returns the live registry.
func (g *Garage) Parts() *parts.Registry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registry
}

// ToggleVisibility flips visibility on every leaf named exactly partName
// (exact match, unlike alias lookup) and mirrors the flip into the registry.
func (g *Garage) ToggleVisibility(partName string) {
	root := g.Root()
	if root == nil {
		return
	}
	root.Walk(func(n *scenegraph.Node) {
		if n.Mesh != nil && n.Name == partName {
			n.Visible = !n.Visible
		}
	})
	if p := g.Parts().Find(partName); p != nil {
		p.Visible = !p.Visible
	}
}

// SetPartColor recolors every leaf named exactly partName, cloning the
// material first so leaves sharing an authored material are unaffected.
func (g *Garage) SetPartColor(partName, hex string) {
	color, err := scenegraph.ParseHex(hex)
	if err != nil {
		return
	}
	root := g.Root()
	if root == nil {
		return
	}
	root.Walk(func(n *scenegraph.Node) {
		if n.Mesh != nil && n.Name == partName && n.Material != nil {
			m := n.Material.Clone()
			m.Base = color
			n.Material = m
		}
	})
	if p := g.Parts().Find(partName); p != nil {
		p.Color = color.Hex()
	}
}

// ToggleSelection adds or removes partName from the selection set. Selection
// is UI state only; it never touches the scene.
func (g *Garage) ToggleSelection(partName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected[partName] {
		delete(g.selected, partName)
	} else {
		g.selected[partName] = true
	}
}

// Selected reports whether partName is in the selection set.
func (g *Garage) Selected(partName string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected[partName]
}

// SelectionCount returns the number of selected parts.
func (g *Garage) SelectionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.selected)
}

// IsolateSelected hides every leaf not in the selection set and shows every
// leaf in it; the registry mirrors accordingly.
func (g *Garage) IsolateSelected() {
	root := g.Root()
	if root == nil {
		return
	}
	root.Walk(func(n *scenegraph.Node) {
		if n.Mesh != nil {
			n.Visible = g.Selected(n.Name)
		}
	})
	for _, p := range g.Parts().All() {
		p.Visible = g.Selected(p.Name)
	}
}

// ShowAll makes every leaf visible again, registry included.
func (g *Garage) ShowAll() {
	root := g.Root()
	if root == nil {
		return
	}
	root.Walk(func(n *scenegraph.Node) {
		if n.Mesh != nil {
			n.Visible = true
		}
	})
	for _, p := range g.Parts().All() {
		p.Visible = true
	}
}

// RecolorSelected applies SetPartColor to every selected part.
func (g *Garage) RecolorSelected(hex string) {
	g.mu.Lock()
	names := make([]string, 0, len(g.selected))
	for name := range g.selected {
		names = append(names, name)
	}
	g.mu.Unlock()
	for _, name := range names {
		g.SetPartColor(name, hex)
	}
}

// SetPartLabel overrides the inferred label on a registry entry.
func (g *Garage) SetPartLabel(partName, label string) {
	if p := g.Parts().Find(partName); p != nil {
		p.Label = label
	}
}

// ExportPart serializes one leaf as a standalone asset without touching the
// live scene.
func (g *Garage) ExportPart(partName string, w io.Writer) error {
	return assets.ExportPart(g.Root(), partName, w)
}
