package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// box returns a unit-cube mesh centered at the origin.
func box() *Mesh {
	return &Mesh{
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5},
			{-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5},
			{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5},
			{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5},
		},
		Indices: []uint32{0, 1, 2, 1, 3, 2},
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.AddChild(child)
	require.Same(t, a, child.Parent)
	require.Len(t, a.Children, 1)

	b.AddChild(child)
	assert.Same(t, b, child.Parent)
	assert.Empty(t, a.Children)
	assert.Len(t, b.Children, 1)
}

func TestWorldComposesParentTransforms(t *testing.T) {
	root := NewNode("root")
	root.Local = mgl32.Translate3D(1, 0, 0)
	child := NewNode("child")
	child.Local = mgl32.Translate3D(0, 2, 0)
	root.AddChild(child)

	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, child.World())
	assert.InDelta(t, 1.0, p.X(), 1e-6)
	assert.InDelta(t, 2.0, p.Y(), 1e-6)
}

func TestLeavesAndFindLeaf(t *testing.T) {
	root := NewNode("root")
	group := NewNode("group")
	leaf := NewNode("wheel_fl")
	leaf.Mesh = box()
	root.AddChild(group)
	group.AddChild(leaf)

	require.Len(t, root.Leaves(), 1)
	assert.Same(t, leaf, root.FindLeaf("wheel_fl"))
	assert.Nil(t, root.FindLeaf("group"), "meshless nodes are not leaves")
}

func TestCloneLeafIsolatesMaterial(t *testing.T) {
	root := NewNode("root")
	root.Local = mgl32.Translate3D(0, 1, 0)
	leaf := NewNode("body")
	leaf.Mesh = box()
	leaf.Material = DefaultMaterial()
	root.AddChild(leaf)

	clone := leaf.CloneLeaf()
	require.NotNil(t, clone.Material)
	assert.NotSame(t, leaf.Material, clone.Material)
	assert.Same(t, leaf.Mesh, clone.Mesh)
	assert.Nil(t, clone.Parent)

	// The clone bakes the world transform so it stands alone.
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, clone.Local)
	assert.InDelta(t, 1.0, p.Y(), 1e-6)

	clone.Material.Base = Color{1, 0, 0}
	assert.Equal(t, Color{1, 1, 1}, leaf.Material.Base)
}

func TestBoundsAccumulatesLeaves(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	a.Mesh = box()
	b := NewNode("b")
	b.Mesh = box()
	b.Local = mgl32.Translate3D(2, 0, 0)
	root.AddChild(a)
	root.AddChild(b)

	bounds := root.Bounds()
	require.False(t, bounds.IsEmpty())
	assert.InDelta(t, -0.5, bounds.Min.X(), 1e-6)
	assert.InDelta(t, 2.5, bounds.Max.X(), 1e-6)
	assert.InDelta(t, 1.0, bounds.Size().Y(), 1e-6)
}

func TestBoundsEmptyForMeshlessTree(t *testing.T) {
	root := NewNode("root")
	root.AddChild(NewNode("group"))
	assert.True(t, root.Bounds().IsEmpty())
}

func TestDiscGeometry(t *testing.T) {
	m := Disc(2.8, 48)
	require.Len(t, m.Positions, 49)
	require.Len(t, m.Indices, 48*3)

	for _, p := range m.Positions {
		assert.Zero(t, p.Y())
		r := p.X()*p.X() + p.Z()*p.Z()
		assert.LessOrEqual(t, r, float32(2.8*2.8)+1e-3)
	}
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Positions))
	}
}

func TestDiscMinimumSegments(t *testing.T) {
	m := Disc(1, 0)
	assert.Len(t, m.Positions, 4)
	assert.Len(t, m.Indices, 9)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0080")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-3)
	assert.InDelta(t, 0.0, c.G, 1e-3)
	assert.InDelta(t, 0x80/255.0, c.B, 1e-3)

	_, err = ParseHex("red")
	assert.Error(t, err)
	_, err = ParseHex("#fff")
	assert.Error(t, err)

	noHash, err := ParseHex("00ffff")
	require.NoError(t, err)
	assert.Equal(t, "#00ffff", noHash.Hex())
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#000000", "#ffffff", "#202020", "#ffd6a0"} {
		c, err := ParseHex(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.Hex())
	}
}

func TestMaterialClone(t *testing.T) {
	m := DefaultMaterial()
	m.Name = "paint"
	c := m.Clone()
	c.Base = Color{1, 0, 0}
	c.Metalness = 0.5
	assert.Equal(t, Color{1, 1, 1}, m.Base)
	assert.Zero(t, m.Metalness)
	assert.Equal(t, "paint", c.Name)
}
