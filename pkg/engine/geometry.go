package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/gl/v4.1-core/gl"

	"meadow/internal/logger"
	"meadow/pkg/scene"
)

// Vertex attribute locations shared by all programs
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
	attribInstance = 3 // mat4, occupies 3..6
)

// gpuMesh is an uploaded scene.Mesh
type gpuMesh struct {
	vao        uint32
	vbo        [3]uint32 // positions, normals, uvs
	ebo        uint32
	indexCount int32
	released   bool
}

// uploadMesh creates the buffers for m and describes them in a new VAO
func uploadMesh(m *scene.Mesh, log *logger.Logger, name string) *gpuMesh {
	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(3, &g.vbo[0])
	attribs := []struct {
		location uint32
		size     int32
		data     []float32
	}{
		{attribPosition, 3, m.Positions},
		{attribNormal, 3, m.Normals},
		{attribUV, 2, m.UVs},
	}

	bytes := 0
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo[i])
		if len(a.data) > 0 {
			gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		}
		gl.VertexAttribPointer(a.location, a.size, gl.FLOAT, false, a.size*4, gl.PtrOffset(0))
		gl.EnableVertexAttribArray(a.location)
		bytes += len(a.data) * 4
	}

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}
	bytes += len(m.Indices) * 4

	gl.BindVertexArray(0)

	if log != nil {
		log.Debugf("uploaded %s mesh: %d vertices, %s", name, m.VertexCount(), humanize.Bytes(uint64(bytes)))
	}
	return g
}

// draw issues the indexed draw call
func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

// Release deletes the GPU buffers. Later calls do nothing.
func (g *gpuMesh) Release() {
	if g.released {
		return
	}
	g.released = true
	gl.DeleteBuffers(3, &g.vbo[0])
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteVertexArrays(1, &g.vao)
}

// meshAllocator builds surface boxes on the GPU
type meshAllocator struct {
	logger *logger.Logger
}

// AllocateBox implements scene.GeometryAllocator
func (a *meshAllocator) AllocateBox(width, height, depth float64) (scene.Geometry, error) {
	g := uploadMesh(scene.Box(width, height, depth), a.logger, "surface")
	if code := gl.GetError(); code != gl.NO_ERROR {
		g.Release()
		return nil, fmt.Errorf("failed to upload surface geometry: GL error 0x%x", code)
	}
	return g, nil
}
