package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"carmod-engine/internal/catalog"
	"carmod-engine/internal/scenegraph"
)

// MaxAssetBytes caps user-supplied model ingestion.
const MaxAssetBytes = 200 << 20

// Loader fetches model assets by catalog file name, path, or URL and parses
// them into scene graphs. It does not own the live scene; the garage swaps
// roots with whatever a load produces.
type Loader struct {
	ModelsDir string
	Catalog   *catalog.Catalog
	Client    *http.Client
}

// NewLoader returns a loader resolving bare file names under modelsDir.
func NewLoader(modelsDir string, cat *catalog.Catalog) *Loader {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Loader{
		ModelsDir: modelsDir,
		Catalog:   cat,
		Client:    http.DefaultClient,
	}
}

// Load fetches ref (a catalog file name, a filesystem path, or an http(s)
// URL), parses it, and returns a normalized scene graph root. All failures
// come back as *LoadError.
func (l *Loader) Load(ctx context.Context, ref string) (*scenegraph.Node, error) {
	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	return l.parse(data, ref)
}

// LoadFrom parses a user-provided asset stream (e.g. a picked file). name is
// used for error reporting and offset lookup only.
func (l *Loader) LoadFrom(r io.Reader, name string) (*scenegraph.Node, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetBytes+1))
	if err != nil {
		return nil, &LoadError{Ref: name, Err: err}
	}
	if len(data) > MaxAssetBytes {
		return nil, &LoadError{Ref: name, Err: fmt.Errorf("asset exceeds %d MB limit", MaxAssetBytes>>20)}
	}
	return l.parse(data, name)
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch: %s", resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetBytes+1))
		if err != nil {
			return nil, err
		}
		if len(data) > MaxAssetBytes {
			return nil, fmt.Errorf("asset exceeds %d MB limit", MaxAssetBytes>>20)
		}
		return data, nil
	}
	path := ref
	if _, err := os.Stat(path); err != nil && l.ModelsDir != "" {
		path = filepath.Join(l.ModelsDir, ref)
	}
	return os.ReadFile(path)
}

func (l *Loader) parse(data []byte, ref string) (*scenegraph.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	root, err := BuildGraph(doc, strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)))
	if err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	Normalize(root, l.Catalog.OffsetFor(filepath.Base(ref)))
	return root, nil
}

// BuildGraph converts a decoded glTF document into a scene graph. Every
// renderable leaf is marked shadow-casting. Multi-primitive meshes expand
// into one leaf per primitive so each keeps its own material.
func BuildGraph(doc *gltf.Document, name string) (*scenegraph.Node, error) {
	root := scenegraph.NewNode(name)
	var sceneNodes []int
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		sceneNodes = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		sceneNodes = doc.Scenes[0].Nodes
	default:
		// No scene: treat every parentless node as a root.
		for i := range doc.Nodes {
			sceneNodes = append(sceneNodes, i)
		}
	}
	mats := make(map[int]*scenegraph.Material)
	for _, idx := range sceneNodes {
		child, err := buildNode(doc, idx, mats)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func buildNode(doc *gltf.Document, idx int, mats map[int]*scenegraph.Material) (*scenegraph.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := doc.Nodes[idx]
	n := scenegraph.NewNode(src.Name)
	n.Local = nodeTransform(src)

	if src.Mesh != nil {
		if int(*src.Mesh) >= len(doc.Meshes) {
			return nil, fmt.Errorf("mesh index %d out of range", *src.Mesh)
		}
		mesh := doc.Meshes[*src.Mesh]
		prims := mesh.Primitives
		for pi, prim := range prims {
			geom, err := buildMesh(doc, prim)
			if err != nil {
				return nil, err
			}
			mat := materialFor(doc, prim.Material, mats)
			if len(prims) == 1 {
				n.Mesh = geom
				n.Material = mat
				n.CastShadow = true
				if n.Name == "" {
					n.Name = mesh.Name
				}
			} else {
				leaf := scenegraph.NewNode(fmt.Sprintf("%s_%d", firstNonEmpty(src.Name, mesh.Name), pi))
				leaf.Mesh = geom
				leaf.Material = mat
				leaf.CastShadow = true
				n.AddChild(leaf)
			}
		}
	}
	for _, ci := range src.Children {
		child, err := buildNode(doc, ci, mats)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func buildMesh(doc *gltf.Document, prim *gltf.Primitive) (*scenegraph.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, err
	}
	m := &scenegraph.Mesh{Positions: make([]mgl32.Vec3, len(pos))}
	for i, p := range pos {
		m.Positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		norm, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return nil, err
		}
		m.Normals = make([]mgl32.Vec3, len(norm))
		for i, v := range norm {
			m.Normals[i] = mgl32.Vec3{v[0], v[1], v[2]}
		}
	}
	if prim.Indices != nil {
		idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, err
		}
		m.Indices = idx
	} else {
		m.Indices = make([]uint32, len(m.Positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	return m, nil
}

func materialFor(doc *gltf.Document, idx *int, mats map[int]*scenegraph.Material) *scenegraph.Material {
	if idx == nil || int(*idx) >= len(doc.Materials) {
		return scenegraph.DefaultMaterial()
	}
	// Authored material sharing is preserved so the clone-before-mutate
	// contract is actually exercised.
	if m, ok := mats[*idx]; ok {
		return m
	}
	src := doc.Materials[*idx]
	m := scenegraph.DefaultMaterial()
	m.Name = src.Name
	m.Emissive = scenegraph.Color{
		R: float32(src.EmissiveFactor[0]),
		G: float32(src.EmissiveFactor[1]),
		B: float32(src.EmissiveFactor[2]),
	}
	m.DoubleSided = src.DoubleSided
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			m.Base = scenegraph.Color{
				R: float32(pbr.BaseColorFactor[0]),
				G: float32(pbr.BaseColorFactor[1]),
				B: float32(pbr.BaseColorFactor[2]),
			}
			m.Opacity = float32(pbr.BaseColorFactor[3])
		}
		if pbr.MetallicFactor != nil {
			m.Metalness = float32(*pbr.MetallicFactor)
		} else {
			m.Metalness = 1
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = float32(*pbr.RoughnessFactor)
		}
	}
	mats[*idx] = m
	return m
}

// nodeTransform composes the glTF node transform into a local matrix. A
// non-identity Matrix wins over TRS, matching the glTF spec. Zeroed fields
// from partially-initialized documents fall back to identity defaults.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	if !isZeroMat(n.Matrix) && !isIdentityMat(n.Matrix) {
		var m mgl32.Mat4
		for i := 0; i < 16; i++ {
			m[i] = float32(n.Matrix[i])
		}
		return m
	}
	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	rot := n.Rotation
	if rot == ([4]float64{}) {
		rot = [4]float64{0, 0, 0, 1}
	}
	q := mgl32.Quat{
		W: float32(rot[3]),
		V: mgl32.Vec3{float32(rot[0]), float32(rot[1]), float32(rot[2])},
	}
	s := n.Scale
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	return t.Mul4(q.Mat4()).Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func isZeroMat(m [16]float64) bool {
	return m == [16]float64{}
}

func isIdentityMat(m [16]float64) bool {
	return m == [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
