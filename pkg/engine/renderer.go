package engine

import (
	"meadow/pkg/grass"
	"meadow/pkg/scene"
)

// Renderer defines the interface for scene renderers
type Renderer interface {
	// Render draws one frame
	Render(frame scene.Frame, camera *scene.Camera, surface *scene.Surface)

	// UploadGrass replaces the grass blades and the field parameters they
	// were generated with
	UploadGrass(p grass.Params, instances []grass.Instance)

	// UpdateResolution updates the rendering resolution
	UpdateResolution(width, height int)

	// Close releases resources
	Close()
}
