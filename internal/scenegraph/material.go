package scenegraph

import (
	"fmt"
	"strings"
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R, G, B float32
}

// ParseHex parses "#rrggbb" (leading '#' optional) into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: want rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255}, nil
}

// MustParseHex is ParseHex for trusted literals; it panics on bad input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	clamp := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

// Material is the surface description of a renderable leaf. Materials may be
// shared between leaves as authored; every mutation path clones first so an
// edit to one part never bleeds into another.
type Material struct {
	Name              string
	Base              Color
	Emissive          Color
	EmissiveIntensity float32
	Metalness         float32
	Roughness         float32
	Opacity           float32
	DoubleSided       bool
}

// DefaultMaterial returns a white, fully rough, opaque material.
func DefaultMaterial() *Material {
	return &Material{
		Base:      Color{1, 1, 1},
		Roughness: 1,
		Opacity:   1,
	}
}

// Clone returns an independent copy of the material.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}
