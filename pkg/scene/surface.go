package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceDepth is the thickness of the deformed box
const SurfaceDepth = 0.1

// Geometry is a GPU-side mesh that must be released exactly once
type Geometry interface {
	Release()
}

// GeometryAllocator creates box geometry for a surface
type GeometryAllocator interface {
	AllocateBox(width, height, depth float64) (Geometry, error)
}

// Extents returns the surface size that fills the view of a camera with the
// given vertical field of view (degrees) and aspect ratio.
func Extents(fovDeg, aspect float64) (width, height float64) {
	height = 4 * math.Tan(mgl64.DegToRad(fovDeg)/2)
	width = height * aspect
	return width, height
}

// Surface is the box the blob shader is drawn on. It owns its geometry.
type Surface struct {
	mu       sync.RWMutex
	alloc    GeometryAllocator
	geometry Geometry
	width    float64
	height   float64
	Position mgl64.Vec3
}

// NewSurface allocates a surface sized for camera
func NewSurface(alloc GeometryAllocator, camera *Camera) (*Surface, error) {
	s := &Surface{alloc: alloc}
	if err := s.Resize(camera.FOV, camera.Aspect); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize recomputes the extents and replaces the geometry. The new geometry is
// allocated before the old one is released; on failure the surface keeps its
// previous geometry and size.
func (s *Surface) Resize(fovDeg, aspect float64) error {
	width, height := Extents(fovDeg, aspect)
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("invalid surface extents %vx%v", width, height)
	}

	geometry, err := s.alloc.AllocateBox(width, height, SurfaceDepth)
	if err != nil {
		return fmt.Errorf("failed to allocate surface geometry: %v", err)
	}

	s.mu.Lock()
	old := s.geometry
	s.geometry = geometry
	s.width = width
	s.height = height
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}
	return nil
}

// Size returns width and height, the u_boxSize uniform
func (s *Surface) Size() mgl64.Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mgl64.Vec2{s.width, s.height}
}

// Geometry returns the current geometry
func (s *Surface) Geometry() Geometry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geometry
}

// Model returns the surface's local-to-world transform
func (s *Surface) Model() mgl64.Mat4 {
	return mgl64.Translate3D(s.Position.X(), s.Position.Y(), s.Position.Z())
}

// Close releases the geometry
func (s *Surface) Close() {
	s.mu.Lock()
	old := s.geometry
	s.geometry = nil
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}
}
