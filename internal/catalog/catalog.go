// Package catalog lists the stock car models the viewer offers and the
// per-asset offset corrections applied after load normalization.
package catalog

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Offset is a small post-normalization translation correcting assets that
// were authored off-center. Values are world units.
type Offset struct {
	X float32 `yaml:"x,omitempty"`
	Y float32 `yaml:"y,omitempty"`
	Z float32 `yaml:"z,omitempty"`
}

// Vec3 returns the offset as a vector.
func (o Offset) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{o.X, o.Y, o.Z}
}

// Car is one selectable stock model.
type Car struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Offset Offset `yaml:"offset,omitempty"`
}

// Catalog holds the selectable cars in display order.
type Catalog struct {
	Cars []Car `yaml:"cars"`
}

// Default returns the built-in car list. Offsets here were tuned by hand
// against the shipped assets.
func Default() *Catalog {
	return &Catalog{Cars: []Car{
		{Name: "Aston Martin Valkyrie", File: "aston_martin_valkyrie.glb"},
		{Name: "BMW", File: "bmw.glb"},
		{Name: "BMW 507", File: "bmw_507.glb"},
		{Name: "BMW E38 Cyberbody", File: "bmw_e38_cyberbody.glb"},
		{Name: "BMW F22 Eurofighter", File: "bmw_f22_eurofighter_free.glb", Offset: Offset{Y: 0.4}},
		{Name: "BMW M4 Competition", File: "bmw_m4_competition.glb"},
		{Name: "BMW M5 F90", File: "bmw_m5_f90.glb"},
		{Name: "Ferrari SF90", File: "ferrari_sf90.glb"},
		{Name: "BMW M3 E30", File: "free_bmw_m3_e30.glb"},
		{Name: "Mercedes 190E Evo 1982", File: "mercedes_190e_evo_1982_3d_model_free.glb"},
		{Name: "Mercedes R-Class", File: "mercedes_r-class.glb"},
		{Name: "Porsche 911 GT3 RS", File: "porsche_911_gt3_rs.glb"},
		{Name: "Rolls Royce Boattail", File: "rolls_royce_boattail.glb"},
		{Name: "Rolls Royce Cullinan", File: "rolls_royce_cullinan.glb", Offset: Offset{Z: -7.0}},
		{Name: "Rolls Royce Ghost", File: "rolls_royce_ghost.glb"},
		{Name: "Rolls Royce Ghost Alt", File: "rolls-royce_ghost.glb"},
	}}
}

// Load reads a catalog from a YAML file. A missing file returns Default();
// a malformed file is an error so a bad override is not silently ignored.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Cars) == 0 {
		return Default(), nil
	}
	return &c, nil
}

// OffsetFor returns the manual correction for the given asset file name.
// Unknown assets get a zero offset.
func (c *Catalog) OffsetFor(file string) mgl32.Vec3 {
	for _, car := range c.Cars {
		if car.File == file {
			return car.Offset.Vec3()
		}
	}
	return mgl32.Vec3{}
}

// FindByFile returns the catalog entry for the given asset file, or nil.
func (c *Catalog) FindByFile(file string) *Car {
	for i := range c.Cars {
		if c.Cars[i].File == file {
			return &c.Cars[i]
		}
	}
	return nil
}
