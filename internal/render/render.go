// Package render draws the current scene graph with raylib. GPU resources
// are created lazily on first draw so uploads happen after the GL context
// exists, and the renderer tolerates the root being swapped (or absent) at
// any frame boundary.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"carmod-engine/internal/camera"
	"carmod-engine/internal/scenegraph"
)

const (
	groundExtent = 80
	gridSpacing  = 1
	cameraFovy   = 50
)

// gpuMesh pairs an uploaded raylib mesh with the CPU slices backing it; the
// slices must stay referenced for as long as the mesh lives.
type gpuMesh struct {
	mesh     rl.Mesh
	vertices []float32
	normals  []float32
}

// Renderer caches one GPU mesh per scene mesh. The cache is flushed when the
// model generation changes.
type Renderer struct {
	cache    map[*scenegraph.Mesh]*gpuMesh
	material rl.Material
	matReady bool
	gen      uint64
}

// New returns a renderer with an empty GPU cache.
func New() *Renderer {
	return &Renderer{cache: make(map[*scenegraph.Mesh]*gpuMesh)}
}

// Draw renders the garage floor, grid, and the given root (which may be nil
// while nothing is loaded or a load is in flight). gen identifies the loaded
// model so stale GPU meshes are dropped after a swap.
func (r *Renderer) Draw(root *scenegraph.Node, gen uint64, cam *camera.Controller, gridVisible bool) {
	if !r.matReady {
		r.material = rl.LoadMaterialDefault()
		r.matReady = true
	}
	if gen != r.gen {
		r.flush()
		r.gen = gen
	}

	rlCam := rl.Camera3D{
		Position:   toVec3(cam.Position()),
		Target:     toVec3(cam.Target()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       cameraFovy,
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(rlCam)
	rl.DrawPlane(rl.NewVector3(0, 0, 0), rl.NewVector2(groundExtent, groundExtent), rl.NewColor(20, 20, 24, 255))
	if gridVisible {
		rl.DrawGrid(groundExtent, gridSpacing)
	}
	if root != nil {
		r.drawNode(root, mgl32.Ident4())
	}
	rl.EndMode3D()
}

func (r *Renderer) drawNode(n *scenegraph.Node, parent mgl32.Mat4) {
	world := parent.Mul4(n.Local)
	if n.Mesh != nil && n.Visible {
		gm := r.ensure(n.Mesh)
		if gm != nil {
			if albedo := r.material.GetMap(rl.MapAlbedo); albedo != nil {
				albedo.Color = displayColor(n.Material)
			}
			rl.DrawMesh(gm.mesh, r.material, toMatrix(world))
		}
	}
	for _, c := range n.Children {
		r.drawNode(c, world)
	}
}

// ensure uploads the mesh on first use. Indexed geometry is flattened to
// per-corner vertices so index width never limits mesh size.
func (r *Renderer) ensure(m *scenegraph.Mesh) *gpuMesh {
	if gm, ok := r.cache[m]; ok {
		return gm
	}
	if len(m.Indices) == 0 || len(m.Positions) == 0 {
		return nil
	}
	gm := &gpuMesh{
		vertices: make([]float32, 0, len(m.Indices)*3),
		normals:  make([]float32, 0, len(m.Indices)*3),
	}
	hasNormals := len(m.Normals) == len(m.Positions)
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return nil
		}
		p := m.Positions[idx]
		gm.vertices = append(gm.vertices, p.X(), p.Y(), p.Z())
		if hasNormals {
			nv := m.Normals[idx]
			gm.normals = append(gm.normals, nv.X(), nv.Y(), nv.Z())
		} else {
			gm.normals = append(gm.normals, 0, 1, 0)
		}
	}
	gm.mesh = rl.Mesh{
		VertexCount:   int32(len(m.Indices)),
		TriangleCount: int32(len(m.Indices) / 3),
		Vertices:      &gm.vertices[0],
		Normals:       &gm.normals[0],
	}
	rl.UploadMesh(&gm.mesh, false)
	r.cache[m] = gm
	return gm
}

func (r *Renderer) flush() {
	for _, gm := range r.cache {
		rl.UnloadMesh(&gm.mesh)
	}
	r.cache = make(map[*scenegraph.Mesh]*gpuMesh)
}

// displayColor folds the emissive term into the albedo tint; the viewer has
// no HDR pipeline, so emissive parts simply read brighter.
func displayColor(m *scenegraph.Material) rl.Color {
	if m == nil {
		return rl.White
	}
	glow := m.EmissiveIntensity
	if glow > 1 {
		glow = 1
	}
	to255 := func(base, emissive float32) uint8 {
		v := base + emissive*glow
		if v > 1 {
			v = 1
		}
		if v < 0 {
			v = 0
		}
		return uint8(v*255 + 0.5)
	}
	a := uint8(255)
	if m.Opacity < 1 {
		a = uint8(m.Opacity*255 + 0.5)
	}
	return rl.NewColor(
		to255(m.Base.R, m.Emissive.R),
		to255(m.Base.G, m.Emissive.G),
		to255(m.Base.B, m.Emissive.B),
		a,
	)
}

func toVec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}

// toMatrix maps a column-major mgl32 matrix onto raylib's named elements.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}
