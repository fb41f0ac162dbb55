package assets

import (
	"github.com/go-gl/mathgl/mgl32"

	"carmod-engine/internal/scenegraph"
)

// sizeCeiling is the largest dimension a loaded vehicle may occupy; bigger
// assets are scaled down so the whole car fits a 3-unit box.
const sizeCeiling = 3.0

// Normalize places the model on the stage: the bounding box's X/Z center
// moves to the world origin and its minimum Y onto the ground plane; models
// larger than the size ceiling are uniformly scaled down and re-centered on
// the new box. The per-asset offset is applied last, compensating assets
// authored off-center. Deterministic for a given graph, so loading the same
// asset twice yields identical placement.
func Normalize(root *scenegraph.Node, offset mgl32.Vec3) {
	box := root.Bounds()
	if box.IsEmpty() {
		return
	}
	ground(root, box)
	box = root.Bounds()
	if d := box.MaxDim(); d > sizeCeiling {
		s := float32(sizeCeiling) / d
		root.Local = mgl32.Scale3D(s, s, s).Mul4(root.Local)
		ground(root, root.Bounds())
	}
	if offset != (mgl32.Vec3{}) {
		root.Local = mgl32.Translate3D(offset.X(), offset.Y(), offset.Z()).Mul4(root.Local)
	}
}

func ground(root *scenegraph.Node, box scenegraph.Box3) {
	c := box.Center()
	root.Local = mgl32.Translate3D(-c.X(), -box.Min.Y(), -c.Z()).Mul4(root.Local)
}
