package scene

import (
	"math"
)

// Mesh is indexed triangle data ready for upload
type Mesh struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices   []uint32
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

func (m *Mesh) vertex(p, n [3]float64, u, v float64) uint32 {
	idx := uint32(m.VertexCount())
	m.Positions = append(m.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
	m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	m.UVs = append(m.UVs, float32(u), float32(v))
	return idx
}

// Box builds an axis-aligned box centred on the origin, four vertices per
// face, counter-clockwise when seen from outside.
func Box(width, height, depth float64) *Mesh {
	hw, hh, hd := width/2, height/2, depth/2
	m := &Mesh{}

	// each face: normal, then right and up directions scaled to the half extents
	faces := []struct {
		n, r, u [3]float64
	}{
		{[3]float64{1, 0, 0}, [3]float64{0, 0, -hd}, [3]float64{0, hh, 0}},
		{[3]float64{-1, 0, 0}, [3]float64{0, 0, hd}, [3]float64{0, hh, 0}},
		{[3]float64{0, 1, 0}, [3]float64{hw, 0, 0}, [3]float64{0, 0, -hd}},
		{[3]float64{0, -1, 0}, [3]float64{hw, 0, 0}, [3]float64{0, 0, hd}},
		{[3]float64{0, 0, 1}, [3]float64{hw, 0, 0}, [3]float64{0, hh, 0}},
		{[3]float64{0, 0, -1}, [3]float64{-hw, 0, 0}, [3]float64{0, hh, 0}},
	}

	half := [3]float64{hw, hh, hd}
	for _, f := range faces {
		var c [3]float64
		for i := range c {
			c[i] = f.n[i] * half[i]
		}
		corner := func(sr, su float64) [3]float64 {
			return [3]float64{
				c[0] + sr*f.r[0] + su*f.u[0],
				c[1] + sr*f.r[1] + su*f.u[1],
				c[2] + sr*f.r[2] + su*f.u[2],
			}
		}
		a := m.vertex(corner(-1, -1), f.n, 0, 0)
		b := m.vertex(corner(1, -1), f.n, 1, 0)
		d := m.vertex(corner(1, 1), f.n, 1, 1)
		e := m.vertex(corner(-1, 1), f.n, 0, 1)
		m.Indices = append(m.Indices, a, b, d, a, d, e)
	}
	return m
}

// Sphere builds a UV sphere. Triangles face outwards; the sky dome is drawn
// from inside with front-face culling flipped.
func Sphere(radius float64, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	m := &Mesh{}

	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi
			n := [3]float64{
				-math.Cos(phi) * math.Sin(theta),
				math.Cos(theta),
				math.Sin(phi) * math.Sin(theta),
			}
			p := [3]float64{n[0] * radius, n[1] * radius, n[2] * radius}
			m.vertex(p, n, u, 1-v)
		}
	}

	row := uint32(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}
