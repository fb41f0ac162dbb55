package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-engine/internal/scenegraph"
)

func exportLeaf(name string, mat *scenegraph.Material) *scenegraph.Node {
	n := scenegraph.NewNode(name)
	n.Mesh = &scenegraph.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	n.Material = mat
	return n
}

func exportRoot() *scenegraph.Node {
	root := scenegraph.NewNode("car")
	root.AddChild(exportLeaf("body", scenegraph.DefaultMaterial()))
	root.AddChild(exportLeaf("spoiler", scenegraph.DefaultMaterial()))
	return root
}

func TestExportNilRoot(t *testing.T) {
	var buf bytes.Buffer
	err := Export(nil, &buf)
	require.Error(t, err)
	var ee *ExportError
	assert.ErrorAs(t, err, &ee)
}

func TestExportWritesGLB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(exportRoot(), &buf))
	require.GreaterOrEqual(t, buf.Len(), 12)
	assert.Equal(t, "glTF", buf.String()[:4])
}

func TestExportDoesNotMutateScene(t *testing.T) {
	root := exportRoot()
	body := root.FindLeaf("body")
	localBefore := body.Local
	matBefore := body.Material

	var buf bytes.Buffer
	require.NoError(t, Export(root, &buf))

	assert.Equal(t, localBefore, body.Local)
	assert.Same(t, matBefore, body.Material)
	assert.Len(t, root.Children, 2)
}

func TestBuildDocumentSkipsHiddenLeaves(t *testing.T) {
	root := exportRoot()
	root.FindLeaf("spoiler").Visible = false

	doc := BuildDocument(root)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "body", doc.Nodes[0].Name)
	assert.Len(t, doc.Meshes, 1)
}

func TestBuildDocumentKeepsGroupWithVisibleDescendant(t *testing.T) {
	root := scenegraph.NewNode("car")
	group := scenegraph.NewNode("wheels")
	group.AddChild(exportLeaf("wheel_fl", scenegraph.DefaultMaterial()))
	root.AddChild(group)
	root.AddChild(scenegraph.NewNode("empty_group"))

	doc := BuildDocument(root)
	require.Len(t, doc.Nodes, 2, "empty groups are dropped, carrying groups kept")
	require.Len(t, doc.Scenes, 1)
	assert.Len(t, doc.Scenes[0].Nodes, 1)
}

func TestBuildDocumentSharesMaterials(t *testing.T) {
	shared := scenegraph.DefaultMaterial()
	root := scenegraph.NewNode("car")
	root.AddChild(exportLeaf("body", shared))
	root.AddChild(exportLeaf("roof", shared))

	doc := BuildDocument(root)
	require.Len(t, doc.Materials, 1)
	require.Len(t, doc.Meshes, 2, "same mesh data, distinct names")
}

func TestBuildDocumentMaterialFactors(t *testing.T) {
	mat := &scenegraph.Material{
		Name:              "glow",
		Base:              scenegraph.MustParseHex("#00ffff"),
		Emissive:          scenegraph.MustParseHex("#00ffff"),
		EmissiveIntensity: 2.2,
		Roughness:         1,
		Opacity:           0.85,
	}
	root := scenegraph.NewNode("car")
	root.AddChild(exportLeaf("underglow", mat))

	doc := BuildDocument(root)
	require.Len(t, doc.Materials, 1)
	out := doc.Materials[0]
	require.NotNil(t, out.PBRMetallicRoughness)
	require.NotNil(t, out.PBRMetallicRoughness.BaseColorFactor)
	assert.InDelta(t, 0.85, out.PBRMetallicRoughness.BaseColorFactor[3], 1e-4)
	assert.Equal(t, gltf.AlphaBlend, out.AlphaMode)
	// Emissive channels are clamped into glTF's [0,1] range.
	assert.InDelta(t, 1.0, out.EmissiveFactor[1], 1e-6)
}

func TestExportPartRoundTrip(t *testing.T) {
	root := exportRoot()
	var buf bytes.Buffer
	require.NoError(t, ExportPart(root, "body", &buf))

	doc := new(gltf.Document)
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(doc))
	rebuilt, err := BuildGraph(doc, "part")
	require.NoError(t, err)
	leaves := rebuilt.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, "body", leaves[0].Name)
	assert.Len(t, leaves[0].Mesh.Positions, 3)
	assert.Equal(t, []uint32{0, 1, 2}, leaves[0].Mesh.Indices)
}

func TestExportPartUnknownName(t *testing.T) {
	var buf bytes.Buffer
	err := ExportPart(exportRoot(), "wing_giga", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wing_giga")
}

func TestExportFileNaming(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportFile(exportRoot(), dir)
	require.NoError(t, err)
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "carmod_edited_"))
	assert.True(t, strings.HasSuffix(base, ".glb"))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExportPartFileNaming(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportPartFile(exportRoot(), "spoiler", dir)
	require.NoError(t, err)
	assert.Equal(t, "spoiler_reference.glb", filepath.Base(path))
}

func TestExportPartFileFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportPartFile(exportRoot(), "missing_part", dir)
	require.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
