package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"carmod-engine/internal/scenegraph"
)

// Export encodes the current scene graph as binary glTF. The graph is read
// by traversal and never mutated, so an export failure cannot corrupt editor
// state. Hidden leaves are skipped, matching what the viewer shows.
func Export(root *scenegraph.Node, w io.Writer) error {
	if root == nil {
		return &ExportError{Name: "scene", Err: fmt.Errorf("no scene loaded")}
	}
	doc := BuildDocument(root)
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return &ExportError{Name: root.Name, Err: err}
	}
	return nil
}

// ExportPart clones the named leaf into a standalone single-node scene and
// encodes it. The live scene is untouched.
func ExportPart(root *scenegraph.Node, partName string, w io.Writer) error {
	if root == nil {
		return &ExportError{Name: partName, Err: fmt.Errorf("no scene loaded")}
	}
	leaf := root.FindLeaf(partName)
	if leaf == nil {
		return &ExportError{Name: partName, Err: fmt.Errorf("part not found")}
	}
	tmp := scenegraph.NewNode(partName)
	tmp.AddChild(leaf.CloneLeaf())
	doc := BuildDocument(tmp)
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return &ExportError{Name: partName, Err: err}
	}
	return nil
}

// ExportFile writes the scene into dir with a timestamped filename and
// returns the path written.
func ExportFile(root *scenegraph.Node, dir string) (string, error) {
	name := fmt.Sprintf("carmod_edited_%d.glb", time.Now().UnixMilli())
	path := filepath.Join(dir, name)
	if err := exportTo(path, func(w io.Writer) error { return Export(root, w) }); err != nil {
		return "", err
	}
	return path, nil
}

// ExportPartFile writes a single part into dir as <part>_reference.glb and
// returns the path written.
func ExportPartFile(root *scenegraph.Node, partName, dir string) (string, error) {
	path := filepath.Join(dir, partName+"_reference.glb")
	if err := exportTo(path, func(w io.Writer) error { return ExportPart(root, partName, w) }); err != nil {
		return "", err
	}
	return path, nil
}

func exportTo(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &ExportError{Name: filepath.Base(path), Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Name: filepath.Base(path), Err: err}
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// BuildDocument converts a scene graph into a glTF document. Materials shared
// between leaves stay shared in the output.
func BuildDocument(root *scenegraph.Node) *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: "carmod-engine"},
	}
	b := &docBuilder{
		doc:   doc,
		mats:  make(map[*scenegraph.Material]int),
		meshs: make(map[meshKey]int),
	}
	var sceneNodes []int
	for _, c := range root.Children {
		if idx, ok := b.addNode(c); ok {
			sceneNodes = append(sceneNodes, idx)
		}
	}
	doc.Scenes = []*gltf.Scene{{Name: root.Name, Nodes: sceneNodes}}
	doc.Scene = gltf.Index(0)
	return doc
}

type meshKey struct {
	mesh *scenegraph.Mesh
	mat  *scenegraph.Material
}

type docBuilder struct {
	doc   *gltf.Document
	mats  map[*scenegraph.Material]int
	meshs map[meshKey]int
}

// addNode emits n and its visible subtree; it reports false when the subtree
// contains nothing worth exporting (hidden or meshless throughout).
func (b *docBuilder) addNode(n *scenegraph.Node) (int, bool) {
	out := &gltf.Node{Name: n.Name, Matrix: toGltfMatrix(n.Local)}
	hasContent := false
	if n.Mesh != nil && n.Visible {
		out.Mesh = gltf.Index(b.addMesh(n))
		hasContent = true
	}
	for _, c := range n.Children {
		if ci, ok := b.addNode(c); ok {
			out.Children = append(out.Children, ci)
			hasContent = true
		}
	}
	if !hasContent {
		return 0, false
	}
	b.doc.Nodes = append(b.doc.Nodes, out)
	return len(b.doc.Nodes) - 1, true
}

func (b *docBuilder) addMesh(n *scenegraph.Node) int {
	key := meshKey{mesh: n.Mesh, mat: n.Material}
	if idx, ok := b.meshs[key]; ok {
		return idx
	}
	pos := make([][3]float32, len(n.Mesh.Positions))
	for i, p := range n.Mesh.Positions {
		pos[i] = [3]float32{p.X(), p.Y(), p.Z()}
	}
	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(b.doc, pos),
		},
		Indices:  gltf.Index(modeler.WriteIndices(b.doc, n.Mesh.Indices)),
		Material: gltf.Index(b.addMaterial(n.Material)),
	}
	if len(n.Mesh.Normals) > 0 {
		norm := make([][3]float32, len(n.Mesh.Normals))
		for i, v := range n.Mesh.Normals {
			norm[i] = [3]float32{v.X(), v.Y(), v.Z()}
		}
		prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(b.doc, norm)
	}
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{
		Name:       n.Name,
		Primitives: []*gltf.Primitive{prim},
	})
	idx := len(b.doc.Meshes) - 1
	b.meshs[key] = idx
	return idx
}

func (b *docBuilder) addMaterial(m *scenegraph.Material) int {
	if m == nil {
		m = scenegraph.DefaultMaterial()
	}
	if idx, ok := b.mats[m]; ok {
		return idx
	}
	out := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{float64(m.Base.R), float64(m.Base.G), float64(m.Base.B), float64(m.Opacity)},
			MetallicFactor:  gltf.Float(float64(m.Metalness)),
			RoughnessFactor: gltf.Float(float64(m.Roughness)),
		},
		EmissiveFactor: [3]float64{
			clamp01(float64(m.Emissive.R)),
			clamp01(float64(m.Emissive.G)),
			clamp01(float64(m.Emissive.B)),
		},
		DoubleSided: m.DoubleSided,
	}
	if m.Opacity < 1 {
		out.AlphaMode = gltf.AlphaBlend
	}
	b.doc.Materials = append(b.doc.Materials, out)
	idx := len(b.doc.Materials) - 1
	b.mats[m] = idx
	return idx
}

func toGltfMatrix(m mgl32.Mat4) [16]float64 {
	var out [16]float64
	for i := 0; i < 16; i++ {
		out[i] = float64(m[i])
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
