package assets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-engine/internal/catalog"
)

// carDocument builds an in-memory glTF document shaped like the stock car
// assets: a named body node with a material, plus a translated wheel.
func carDocument() *gltf.Document {
	doc := &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, -2}, {1, 0, -2}, {0, 1, 2}})
	norm := modeler.WriteNormal(doc, [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	doc.Materials = []*gltf.Material{{
		Name: "paint",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  gltf.Float(0.6),
			RoughnessFactor: gltf.Float(0.3),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "body_geo",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: norm},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "car_body", Mesh: gltf.Index(0)},
		{Name: "wheel_fl", Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 1}},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0, 1}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func TestBuildGraphBasics(t *testing.T) {
	root, err := BuildGraph(carDocument(), "test_car")
	require.NoError(t, err)
	assert.Equal(t, "test_car", root.Name)

	leaves := root.Leaves()
	require.Len(t, leaves, 2)
	body := root.FindLeaf("car_body")
	require.NotNil(t, body)
	assert.True(t, body.CastShadow)
	assert.Len(t, body.Mesh.Positions, 3)
	assert.Len(t, body.Mesh.Normals, 3)
	assert.Equal(t, []uint32{0, 1, 2}, body.Mesh.Indices)
}

func TestBuildGraphMaterials(t *testing.T) {
	root, err := BuildGraph(carDocument(), "test_car")
	require.NoError(t, err)

	body := root.FindLeaf("car_body")
	require.NotNil(t, body.Material)
	assert.Equal(t, "paint", body.Material.Name)
	assert.Equal(t, "#ff0000", body.Material.Base.Hex())
	assert.InDelta(t, 0.6, body.Material.Metalness, 1e-6)
	assert.InDelta(t, 0.3, body.Material.Roughness, 1e-6)

	// Both nodes reference glTF material 0; authored sharing is preserved.
	wheel := root.FindLeaf("wheel_fl")
	assert.Same(t, body.Material, wheel.Material)
}

func TestBuildGraphNodeTranslation(t *testing.T) {
	root, err := BuildGraph(carDocument(), "test_car")
	require.NoError(t, err)
	wheel := root.FindLeaf("wheel_fl")
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, wheel.World())
	assert.InDelta(t, 1.0, p.Z(), 1e-6)
}

func TestBuildGraphMultiPrimitiveMeshExpands(t *testing.T) {
	doc := carDocument()
	prim := doc.Meshes[0].Primitives[0]
	second := &gltf.Primitive{Attributes: prim.Attributes, Indices: prim.Indices}
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, second)
	doc.Nodes = doc.Nodes[:1]
	doc.Scenes[0].Nodes = []int{0}

	root, err := BuildGraph(doc, "test_car")
	require.NoError(t, err)
	leaves := root.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "car_body_0", leaves[0].Name)
	assert.Equal(t, "car_body_1", leaves[1].Name)
	assert.NotSame(t, leaves[0].Material, leaves[1].Material, "primitive without material gets its own default")
}

func TestBuildGraphMissingScene(t *testing.T) {
	doc := carDocument()
	doc.Scene = nil
	doc.Scenes = nil
	root, err := BuildGraph(doc, "test_car")
	require.NoError(t, err)
	assert.Len(t, root.Leaves(), 2)
}

func TestBuildGraphMissingPosition(t *testing.T) {
	doc := carDocument()
	doc.Meshes[0].Primitives[0].Attributes = map[string]int{}
	_, err := BuildGraph(doc, "test_car")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSITION")
}

func TestLoadFromLimitsSize(t *testing.T) {
	l := NewLoader("", nil)
	_, err := l.LoadFrom(bytes.NewReader(make([]byte, 64)), "junk.glb")
	require.Error(t, err, "garbage never parses")
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoadResolvesModelsDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(carDocument()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_car.glb"), buf.Bytes(), 0644))

	l := NewLoader(dir, catalog.Default())
	root, err := l.Load(context.Background(), "test_car.glb")
	require.NoError(t, err)
	assert.Equal(t, "test_car", root.Name)

	box := root.Bounds()
	assert.InDelta(t, 0, box.Min.Y(), 1e-4, "loaded models come back normalized")
	assert.InDelta(t, 0, box.Center().X(), 1e-4)
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	_, err := l.Load(context.Background(), "no_such_car.glb")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "no_such_car.glb", le.Ref)
}

func TestLoadErrorDoesNotPanicOnBadIndices(t *testing.T) {
	doc := carDocument()
	doc.Nodes[0].Mesh = gltf.Index(7)
	_, err := BuildGraph(doc, "test_car")
	require.Error(t, err)
}

func TestNormalizeAppliedToBuiltGraph(t *testing.T) {
	root, err := BuildGraph(carDocument(), "test_car")
	require.NoError(t, err)
	Normalize(root, mgl32.Vec3{})
	box := root.Bounds()
	assert.LessOrEqual(t, float64(box.MaxDim()), 3.0+1e-4)
}
