package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds triangle geometry in node-local space. Meshes are immutable
// after creation; edits go through materials and node transforms.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// Disc generates a filled circle of the given radius in the XZ plane
// (facing +Y), fanned around the center with the given segment count.
// Used for the procedural underglow accessory.
func Disc(radius float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, segments+1),
		Normals:   make([]mgl32.Vec3, 0, segments+1),
		Indices:   make([]uint32, 0, segments*3),
	}
	up := mgl32.Vec3{0, 1, 0}
	m.Positions = append(m.Positions, mgl32.Vec3{0, 0, 0})
	m.Normals = append(m.Normals, up)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x := radius * float32(math.Cos(a))
		z := radius * float32(math.Sin(a))
		m.Positions = append(m.Positions, mgl32.Vec3{x, 0, z})
		m.Normals = append(m.Normals, up)
	}
	for i := 0; i < segments; i++ {
		next := i + 1
		if next == segments {
			next = 0
		}
		// wound so the face is visible from above
		m.Indices = append(m.Indices, 0, uint32(next+1), uint32(i+1))
	}
	return m
}

// Box3 is an axis-aligned bounding box in world units.
type Box3 struct {
	Min, Max mgl32.Vec3
}

// EmptyBox3 returns an inverted box that extends to nothing.
func EmptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// ExtendPoint grows the box to contain p.
func (b *Box3) ExtendPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the box midpoint.
func (b Box3) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents per axis.
func (b Box3) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxDim returns the largest extent across the three axes.
func (b Box3) MaxDim() float32 {
	s := b.Size()
	d := s.X()
	if s.Y() > d {
		d = s.Y()
	}
	if s.Z() > d {
		d = s.Z()
	}
	return d
}
