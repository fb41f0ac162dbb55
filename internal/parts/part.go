// Package parts projects renderable scene leaves into the addressable Part
// records the editor and action pipeline work against.
package parts

import (
	"carmod-engine/internal/scenegraph"

	"github.com/go-gl/mathgl/mgl32"
)

// Part is the semantic projection of one renderable leaf. Position and Size
// are a world-space snapshot taken at extraction; they are not live-updated
// by later transform edits.
type Part struct {
	Name     string
	Visible  bool
	Color    string
	Position mgl32.Vec3
	Size     mgl32.Vec3
	Label    string
}

// Label inference thresholds, in world units, tuned against normalized car
// assets (the whole vehicle fits in a 3-unit box on the ground plane).
const (
	wheelMaxExtent  = 1.0
	wheelMaxCenterY = 0.5
	frontMinZ       = 1.5
	rearMaxZ        = -1.5
	topMinY         = 1.0
)

// InferLabel guesses a semantic tag from a leaf's world bounding box:
// small, low and centered reads as a wheel, the Z extremes as front/rear,
// high centers as top, everything else as body.
func InferLabel(center, size mgl32.Vec3) string {
	switch {
	case size.X() < wheelMaxExtent && size.Z() < wheelMaxExtent && center.Y() < wheelMaxCenterY:
		return "wheel"
	case center.Z() > frontMinZ:
		return "front"
	case center.Z() < rearMaxZ:
		return "rear"
	case center.Y() > topMinY:
		return "top"
	default:
		return "body"
	}
}

func fromLeaf(leaf *scenegraph.Node) *Part {
	box := leaf.LeafBounds()
	center, size := box.Center(), box.Size()
	color := "#ffffff"
	if leaf.Material != nil {
		color = leaf.Material.Base.Hex()
	}
	return &Part{
		Name:     leaf.Name,
		Visible:  leaf.Visible,
		Color:    color,
		Position: center,
		Size:     size,
		Label:    InferLabel(center, size),
	}
}
