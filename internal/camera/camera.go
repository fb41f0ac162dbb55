// Package camera implements the orbit/pan/zoom controller driving the
// viewer's camera. It is a pure state machine over pointer and wheel deltas,
// independent of the loaded model and of the rendering backend.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the controller's input state.
type Mode int

const (
	Idle Mode = iota
	Orbiting
	Panning
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonAuxiliary
)

// Tuning constants. Polar is clamped away from the poles to prevent gimbal
// flip; pan speed scales with radius so panning feels the same at any zoom.
const (
	orbitSpeed  = 0.01
	panSpeed    = 0.005
	zoomSpeed   = 0.1
	polarMin    = 0.1
	polarMax    = math.Pi - 0.1
	RadiusMin   = 2.0
	RadiusMax   = 20.0
	targetSpace = 1.0 // look-at sits one unit above the ground
)

// Controller holds orbit spherical coordinates plus a pan offset. The
// camera position and look-at are recomputed on every change and cached;
// Position/Target never go stale.
type Controller struct {
	mode   Mode
	radius float32
	azim   float32 // azimuth around world up
	polar  float32 // angle from world up

	pan    mgl32.Vec3
	prevX  float32
	prevY  float32
	eye    mgl32.Vec3
	lookAt mgl32.Vec3
}

// New returns a controller at the default showroom framing: radius 8,
// azimuth 0, polar π/4, no pan.
func New() *Controller {
	c := &Controller{
		radius: 8,
		azim:   0,
		polar:  math.Pi / 4,
	}
	c.update()
	return c
}

// Mode returns the current input state.
func (c *Controller) Mode() Mode { return c.mode }

// Radius returns the current orbit radius.
func (c *Controller) Radius() float32 { return c.radius }

// Azimuth returns the current azimuth angle in radians.
func (c *Controller) Azimuth() float32 { return c.azim }

// Polar returns the current polar angle in radians.
func (c *Controller) Polar() float32 { return c.polar }

// Pan returns the current pan offset.
func (c *Controller) Pan() mgl32.Vec3 { return c.pan }

// Position returns the camera eye position.
func (c *Controller) Position() mgl32.Vec3 { return c.eye }

// Target returns the camera look-at point.
func (c *Controller) Target() mgl32.Vec3 { return c.lookAt }

// PointerDown begins orbiting (primary button) or panning (secondary or
// auxiliary button) at the given pointer coordinates.
func (c *Controller) PointerDown(b Button, x, y float32) {
	switch b {
	case ButtonPrimary:
		c.mode = Orbiting
	case ButtonSecondary, ButtonAuxiliary:
		c.mode = Panning
	}
	c.prevX, c.prevY = x, y
}

// PointerUp returns the controller to Idle from either drag mode.
func (c *Controller) PointerUp() {
	c.mode = Idle
}

// PointerMove feeds a new pointer position. While orbiting, horizontal
// movement rotates azimuth and vertical movement the (clamped) polar angle;
// while panning, movement translates the pan offset along the camera's
// right vector and world up, scaled by the orbit radius.
func (c *Controller) PointerMove(x, y float32) {
	dx := x - c.prevX
	dy := y - c.prevY
	c.prevX, c.prevY = x, y

	switch c.mode {
	case Orbiting:
		c.azim -= dx * orbitSpeed
		c.polar -= dy * orbitSpeed
		c.polar = clamp(c.polar, polarMin, polarMax)
		c.update()
	case Panning:
		speed := panSpeed * c.radius
		forward := c.lookAt.Sub(c.eye).Normalize()
		right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
		c.pan = c.pan.Add(right.Mul(-dx * speed))
		c.pan[1] += dy * speed
		c.update()
	}
}

// Wheel zooms the orbit radius; it applies in any mode and is clamped to
// [RadiusMin, RadiusMax].
func (c *Controller) Wheel(delta float32) {
	c.radius += delta * zoomSpeed * 0.01
	c.radius = clamp(c.radius, RadiusMin, RadiusMax)
	c.update()
}

// update recomputes eye and look-at from the spherical coordinates and pan
// offset. Called on every state change.
func (c *Controller) update() {
	sinP := float32(math.Sin(float64(c.polar)))
	c.eye = mgl32.Vec3{
		c.radius*sinP*float32(math.Cos(float64(c.azim))) + c.pan.X(),
		c.radius*float32(math.Cos(float64(c.polar))) + c.pan.Y(),
		c.radius*sinP*float32(math.Sin(float64(c.azim))) + c.pan.Z(),
	}
	c.lookAt = mgl32.Vec3{
		c.pan.X(),
		targetSpace + c.pan.Y(),
		c.pan.Z(),
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
