package renderable

import (
	m "math"

	"github.com/spaghettifunk/facet/engine/math"
)

var (
	red     = [3]float32{1, 0, 0}
	green   = [3]float32{0, 1, 0}
	blue    = [3]float32{0, 0, 1}
	yellow  = [3]float32{1, 1, 0}
	magenta = [3]float32{1, 0, 1}
	cyan    = [3]float32{0, 1, 1}
	white   = [3]float32{1, 1, 1}
)

// Mesh is an immutable non-indexed triangle list. Front faces wind
// counter-clockwise when seen from outside.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Bounds   math.Extents3D

	data []byte
	hash uint64
}

func newMesh(name string, vertices []Vertex) *Mesh {
	positions := make([]math.Vec3, len(vertices))
	for i, v := range vertices {
		positions[i] = math.NewVec3(v.Position[0], v.Position[1], v.Position[2])
	}
	data := EncodeVertices(vertices)
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Bounds:   math.GeometryCalculateExtents(positions),
		data:     data,
		hash:     HashVertexData(data),
	}
}

// Bytes returns the encoded vertex buffer contents. Callers must not modify it.
func (ms *Mesh) Bytes() []byte {
	return ms.data
}

// Hash is the FNV-1a hash of Bytes.
func (ms *Mesh) Hash() uint64 {
	return ms.hash
}

func (ms *Mesh) VertexCount() uint32 {
	return uint32(len(ms.Vertices))
}

// TriangleMesh builds an equilateral triangle with side scale, centered on
// its centroid, pointing up.
func TriangleMesh(scale float32) *Mesh {
	height := scale * math.K_SQRT_THREE / 2.0
	top := height * (2.0 / 3.0)
	bottom := -height * (1.0 / 3.0)
	half := scale / 2.0

	return newMesh("Triangle", []Vertex{
		{Position: [3]float32{0, top, 0}, Color: red},
		{Position: [3]float32{-half, bottom, 0}, Color: green},
		{Position: [3]float32{half, bottom, 0}, Color: blue},
	})
}

// QuadMesh builds a width by height rectangle in the XY plane.
func QuadMesh(width, height float32) *Mesh {
	hw, hh := width/2.0, height/2.0
	topLeft := Vertex{Position: [3]float32{-hw, hh, 0}, Color: red}
	bottomLeft := Vertex{Position: [3]float32{-hw, -hh, 0}, Color: green}
	topRight := Vertex{Position: [3]float32{hw, hh, 0}, Color: blue}
	bottomRight := Vertex{Position: [3]float32{hw, -hh, 0}, Color: yellow}

	return newMesh("Quad", []Vertex{
		topLeft, bottomLeft, topRight,
		topRight, bottomLeft, bottomRight,
	})
}

// CubeMesh builds an axis aligned cube with one color per face: front red,
// back green, top blue, bottom yellow, right magenta, left cyan.
func CubeMesh(size float32) *Mesh {
	h := size / 2.0
	corners := [8][3]float32{
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
	}
	faces := [6][6]int{
		{0, 1, 2, 0, 2, 3}, // front  +Z
		{5, 4, 7, 5, 7, 6}, // back   -Z
		{3, 2, 6, 3, 6, 7}, // top    +Y
		{4, 5, 1, 4, 1, 0}, // bottom -Y
		{1, 5, 6, 1, 6, 2}, // right  +X
		{4, 0, 3, 4, 3, 7}, // left   -X
	}
	colors := [6][3]float32{red, green, blue, yellow, magenta, cyan}

	vertices := make([]Vertex, 0, 36)
	for f, face := range faces {
		for _, idx := range face {
			vertices = append(vertices, Vertex{Position: corners[idx], Color: colors[f]})
		}
	}
	return newMesh("Cube", vertices)
}

// CircleMesh builds a flat disc as a fan of segments triangles with a white
// center and a hue wheel on the rim. segments is raised to at least 3.
func CircleMesh(radius float32, segments uint32) *Mesh {
	segments = max(segments, 3)
	center := Vertex{Color: white}

	vertices := make([]Vertex, 0, segments*3)
	for i := uint32(0); i < segments; i++ {
		a0 := segmentAngle(i, segments)
		a1 := segmentAngle(i+1, segments)
		vertices = append(vertices,
			center,
			Vertex{Position: ring(radius, a0, 0, false), Color: HSVToRGB(hue(a0), 0.8, 1.0)},
			Vertex{Position: ring(radius, a1, 0, false), Color: HSVToRGB(hue(a1), 0.8, 1.0)},
		)
	}
	return newMesh("Circle", vertices)
}

// CylinderMesh builds a capped cylinder along Y centered on the origin.
func CylinderMesh(radius, height float32, segments uint32) *Mesh {
	segments = max(segments, 3)
	hh := height / 2.0

	top := make([]Vertex, segments)
	bottom := make([]Vertex, segments)
	for i := uint32(0); i < segments; i++ {
		a := segmentAngle(i, segments)
		top[i] = Vertex{Position: ring(radius, a, hh, true), Color: HSVToRGB(hue(a), 0.6, 1.0)}
		bottom[i] = Vertex{Position: ring(radius, a, -hh, true), Color: HSVToRGB(hue(a), 0.6, 0.7)}
	}
	topCenter := Vertex{Position: [3]float32{0, hh, 0}, Color: [3]float32{1.0, 0.8, 0.8}}
	bottomCenter := Vertex{Position: [3]float32{0, -hh, 0}, Color: [3]float32{0.8, 0.8, 1.0}}

	vertices := make([]Vertex, 0, segments*12)
	for i := uint32(0); i < segments; i++ {
		n := (i + 1) % segments
		vertices = append(vertices,
			bottom[i], top[i], top[n],
			bottom[i], top[n], bottom[n],
		)
	}
	for i := uint32(0); i < segments; i++ {
		n := (i + 1) % segments
		vertices = append(vertices, topCenter, top[n], top[i])
	}
	for i := uint32(0); i < segments; i++ {
		n := (i + 1) % segments
		vertices = append(vertices, bottomCenter, bottom[i], bottom[n])
	}
	return newMesh("Cylinder", vertices)
}

// ConeMesh builds a cone along Y with a yellow apex at height/2 and a
// capped base at -height/2.
func ConeMesh(radius, height float32, segments uint32) *Mesh {
	segments = max(segments, 3)
	hh := height / 2.0

	apex := Vertex{Position: [3]float32{0, hh, 0}, Color: yellow}
	baseCenter := Vertex{Position: [3]float32{0, -hh, 0}, Color: [3]float32{0.8, 0.8, 0.8}}
	base := make([]Vertex, segments)
	for i := uint32(0); i < segments; i++ {
		a := segmentAngle(i, segments)
		base[i] = Vertex{Position: ring(radius, a, -hh, true), Color: HSVToRGB(hue(a), 0.8, 0.9)}
	}

	vertices := make([]Vertex, 0, segments*6)
	for i := uint32(0); i < segments; i++ {
		n := (i + 1) % segments
		vertices = append(vertices, apex, base[n], base[i])
	}
	for i := uint32(0); i < segments; i++ {
		n := (i + 1) % segments
		vertices = append(vertices, baseCenter, base[i], base[n])
	}
	return newMesh("Cone", vertices)
}

// SphereMesh builds a UV sphere. Colors follow the surface direction.
// Both segment counts are raised to at least 3.
func SphereMesh(radius float32, latitudeSegments, longitudeSegments uint32) *Mesh {
	lat := max(latitudeSegments, 3)
	lon := max(longitudeSegments, 3)

	grid := make([]Vertex, 0, (lat+1)*(lon+1))
	for i := uint32(0); i <= lat; i++ {
		theta := float64(i) * m.Pi / float64(lat)
		sinT, cosT := float32(m.Sin(theta)), float32(m.Cos(theta))
		for j := uint32(0); j <= lon; j++ {
			phi := float64(j) * 2 * m.Pi / float64(lon)
			sinP, cosP := float32(m.Sin(phi)), float32(m.Cos(phi))

			x, y, z := sinT*cosP, cosT, sinT*sinP
			grid = append(grid, Vertex{
				Position: [3]float32{radius * x, radius * y, radius * z},
				Color:    [3]float32{(x + 1) * 0.5, (y + 1) * 0.5, (z + 1) * 0.5},
			})
		}
	}

	vertices := make([]Vertex, 0, lat*lon*6)
	for i := uint32(0); i < lat; i++ {
		for j := uint32(0); j < lon; j++ {
			i0 := i*(lon+1) + j
			i1 := i0 + 1
			i2 := (i+1)*(lon+1) + j
			i3 := i2 + 1
			vertices = append(vertices,
				grid[i0], grid[i1], grid[i2],
				grid[i1], grid[i3], grid[i2],
			)
		}
	}
	return newMesh("Sphere", vertices)
}

func segmentAngle(i, segments uint32) float64 {
	return float64(i) * 2 * m.Pi / float64(segments)
}

func hue(angle float64) float32 {
	return float32(angle / (2 * m.Pi))
}

// ring returns the point at angle on a circle of radius. Flat rings lie in
// the XY plane at z = offset; otherwise the ring lies in XZ at y = offset.
func ring(radius float32, angle float64, offset float32, xz bool) [3]float32 {
	c, s := radius*float32(m.Cos(angle)), radius*float32(m.Sin(angle))
	if xz {
		return [3]float32{c, offset, s}
	}
	return [3]float32{c, s, offset}
}
