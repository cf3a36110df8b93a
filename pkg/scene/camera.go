package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera movement per key press
const (
	MoveStep   = 0.1
	RotateStep = 0.02
)

// Camera is a perspective camera. Rotation is Euler XYZ in radians.
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewCamera returns the default camera two units in front of the surface
func NewCamera(aspect float64) *Camera {
	return &Camera{
		Position: mgl64.Vec3{0, 0, 2},
		FOV:      75,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
	}
}

// SetViewport updates the aspect ratio from a framebuffer size
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// Projection returns the perspective matrix
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// World returns the camera-to-world transform
func (c *Camera) World() mgl64.Mat4 {
	return mgl64.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).
		Mul4(mgl64.HomogRotate3DX(c.Rotation.X())).
		Mul4(mgl64.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(c.Rotation.Z()))
}

// View returns the world-to-camera transform
func (c *Camera) View() mgl64.Mat4 {
	return c.World().Inv()
}

// Move translates the camera along the world axes
func (c *Camera) Move(dx, dy, dz float64) {
	c.Position = c.Position.Add(mgl64.Vec3{dx, dy, dz})
}

// Rotate pitches and yaws the camera
func (c *Camera) Rotate(pitch, yaw float64) {
	c.Rotation = c.Rotation.Add(mgl64.Vec3{pitch, yaw, 0})
}

// CameraAction is one discrete camera control
type CameraAction int

// Camera controls, bound to W/S/A/D/Q/E and the arrow keys
const (
	NoAction CameraAction = iota
	MoveForward
	MoveBack
	MoveLeft
	MoveRight
	MoveDown
	MoveUp
	PitchUp
	PitchDown
	YawLeft
	YawRight
)

// Apply performs action on the camera
func (c *Camera) Apply(action CameraAction) {
	switch action {
	case MoveForward:
		c.Move(0, 0, -MoveStep)
	case MoveBack:
		c.Move(0, 0, MoveStep)
	case MoveLeft:
		c.Move(-MoveStep, 0, 0)
	case MoveRight:
		c.Move(MoveStep, 0, 0)
	case MoveDown:
		c.Move(0, -MoveStep, 0)
	case MoveUp:
		c.Move(0, MoveStep, 0)
	case PitchUp:
		c.Rotate(RotateStep, 0)
	case PitchDown:
		c.Rotate(-RotateStep, 0)
	case YawLeft:
		c.Rotate(0, RotateStep)
	case YawRight:
		c.Rotate(0, -RotateStep)
	}
}

// Ray returns the world-space ray through a point in normalized device
// coordinates. The far point is unprojected at depth 0.5.
func (c *Camera) Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3) {
	origin = c.Position
	inv := c.Projection().Mul4(c.View()).Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}
	dir = p.Vec3().Sub(origin)
	if dir.Len() == 0 {
		return origin, mgl64.Vec3{0, 0, -1}
	}
	return origin, dir.Normalize()
}
