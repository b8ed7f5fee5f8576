package renderable

import (
	"encoding/binary"
	m "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderer/config"
)

func vec(p [3]float32) math.Vec3 {
	return math.NewVec3(p[0], p[1], p[2])
}

// requireOutwardWinding checks that every non-degenerate triangle of a closed
// mesh winds counter-clockwise when seen from outside.
func requireOutwardWinding(t *testing.T, mesh *Mesh) {
	t.Helper()
	center := mesh.Bounds.Center()
	for i := 0; i+2 < len(mesh.Vertices); i += 3 {
		a := vec(mesh.Vertices[i].Position)
		b := vec(mesh.Vertices[i+1].Position)
		c := vec(mesh.Vertices[i+2].Position)
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Length() < 1e-6 {
			continue
		}
		centroid := a.Add(b).Add(c).MulScalar(1.0 / 3.0)
		require.Greater(t, normal.Dot(centroid.Sub(center)), float32(0),
			"%s triangle %d faces inward", mesh.Name, i/3)
	}
}

func TestTriangleMesh(t *testing.T) {
	mesh := TriangleMesh(1.0)
	require.Len(t, mesh.Vertices, 3)

	h := float32(m.Sqrt(3) / 2)
	assert.InDelta(t, 2*h/3, mesh.Vertices[0].Position[1], 1e-6)
	assert.Equal(t, float32(-0.5), mesh.Vertices[1].Position[0])
	assert.InDelta(t, -h/3, mesh.Vertices[1].Position[1], 1e-6)
	assert.Equal(t, float32(0.5), mesh.Vertices[2].Position[0])
	assert.InDelta(t, -h/3, mesh.Vertices[2].Position[1], 1e-6)
	assert.Equal(t, red, mesh.Vertices[0].Color)
	assert.Equal(t, green, mesh.Vertices[1].Color)
	assert.Equal(t, blue, mesh.Vertices[2].Color)
}

func TestQuadMesh(t *testing.T) {
	mesh := QuadMesh(2, 1)
	require.Len(t, mesh.Vertices, 6)
	assert.Equal(t, math.NewVec3(-1, -0.5, 0), mesh.Bounds.Min)
	assert.Equal(t, math.NewVec3(1, 0.5, 0), mesh.Bounds.Max)
	assert.Equal(t, yellow, mesh.Vertices[5].Color)
}

func TestFlatMeshesFaceCamera(t *testing.T) {
	for _, mesh := range []*Mesh{TriangleMesh(1), QuadMesh(1, 1), CircleMesh(1, 12)} {
		for i := 0; i+2 < len(mesh.Vertices); i += 3 {
			a := vec(mesh.Vertices[i].Position)
			b := vec(mesh.Vertices[i+1].Position)
			c := vec(mesh.Vertices[i+2].Position)
			assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Z, float32(0), "%s triangle %d", mesh.Name, i/3)
		}
	}
}

func TestCubeMesh(t *testing.T) {
	mesh := CubeMesh(2)
	require.Len(t, mesh.Vertices, 36)
	assert.Equal(t, math.NewVec3(-1, -1, -1), mesh.Bounds.Min)
	assert.Equal(t, math.NewVec3(1, 1, 1), mesh.Bounds.Max)

	colors := [][3]float32{red, green, blue, yellow, magenta, cyan}
	for face, color := range colors {
		for v := 0; v < 6; v++ {
			assert.Equal(t, color, mesh.Vertices[face*6+v].Color)
		}
	}
	requireOutwardWinding(t, mesh)
}

func TestSegmentedMeshes(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *Mesh
		vertices int
		closed   bool
	}{
		{"circle", CircleMesh(1, 16), 16 * 3, false},
		{"circle minimum segments", CircleMesh(1, 1), 3 * 3, false},
		{"cylinder", CylinderMesh(0.5, 2, 8), 8 * 12, true},
		{"cone", ConeMesh(0.5, 2, 8), 8 * 6, true},
		{"sphere", SphereMesh(1, 8, 12), 8 * 12 * 6, true},
		{"sphere minimum segments", SphereMesh(1, 0, 0), 3 * 3 * 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.mesh.Vertices, tt.vertices)
			assert.Equal(t, uint32(tt.vertices), tt.mesh.VertexCount())
			assert.Len(t, tt.mesh.Bytes(), tt.vertices*VertexSize)
			if tt.closed {
				requireOutwardWinding(t, tt.mesh)
			}
		})
	}
}

func TestSphereBounds(t *testing.T) {
	mesh := SphereMesh(2, 16, 16)
	assert.True(t, mesh.Bounds.Min.Compare(math.NewVec3(-2, -2, -2), 1e-5))
	assert.True(t, mesh.Bounds.Max.Compare(math.NewVec3(2, 2, 2), 1e-5))
}

func TestEncodeVertices(t *testing.T) {
	data := EncodeVertices([]Vertex{{Position: [3]float32{1, 2, 3}, Color: [3]float32{0.5, 0, 1}}})
	require.Len(t, data, VertexSize)

	read := func(off int) float32 {
		return m.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	assert.Equal(t, float32(1), read(PositionOffset))
	assert.Equal(t, float32(3), read(PositionOffset+8))
	assert.Equal(t, float32(0.5), read(ColorOffset))
	assert.Equal(t, float32(1), read(ColorOffset+8))
}

func TestMeshHashIsContentBased(t *testing.T) {
	assert.Equal(t, CubeMesh(1).Hash(), CubeMesh(1).Hash())
	assert.NotEqual(t, CubeMesh(1).Hash(), CubeMesh(2).Hash())
	assert.Equal(t, HashVertexData(CubeMesh(1).Bytes()), CubeMesh(1).Hash())
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		h, s, v float32
		want    [3]float32
	}{
		{0, 1, 1, [3]float32{1, 0, 0}},
		{1.0 / 3.0, 1, 1, [3]float32{0, 1, 0}},
		{2.0 / 3.0, 1, 1, [3]float32{0, 0, 1}},
		{0.5, 0, 0.7, [3]float32{0.7, 0.7, 0.7}},
	}
	for _, tt := range tests {
		got := HSVToRGB(tt.h, tt.s, tt.v)
		for i := range got {
			assert.InDelta(t, tt.want[i], got[i], 1e-5, "h=%v channel %d", tt.h, i)
		}
	}
}

func TestDefaultCulling(t *testing.T) {
	assert.Equal(t, config.CullingNone, NewTriangle(1).CullingMode())
	assert.Equal(t, config.CullingNone, NewQuad(1, 1).CullingMode())
	assert.Equal(t, config.CullingNone, NewCircle(1, 8).CullingMode())
	assert.Equal(t, config.CullingBackface, NewCube(1).CullingMode())
	assert.Equal(t, config.CullingBackface, NewCylinder(1, 1, 8).CullingMode())
	assert.Equal(t, config.CullingBackface, NewCone(1, 1, 8).CullingMode())
	assert.Equal(t, config.CullingBackface, NewSphere(1, 8, 8).CullingMode())

	cube := NewCube(1)
	cube.SetCulling(config.CullingFrontface)
	assert.Equal(t, config.CullingFrontface, cube.CullingMode())
}

func TestTriangleSpins(t *testing.T) {
	tri := NewTriangle(1)
	before := tri.ModelMatrix()
	tri.Update(6.0) // 90 degrees

	got := math.NewVec3(1, 0, 0).Transform(tri.ModelMatrix())
	assert.True(t, got.Compare(math.NewVec3(0, 1, 0), 1e-4), "got %v", got)
	assert.NotEqual(t, before, tri.ModelMatrix())
}

func TestStaticKindsDoNotMove(t *testing.T) {
	cube := NewCube(1)
	cube.Transform.SetPosition(math.NewVec3(1, 2, 3))
	before := cube.ModelMatrix()
	cube.Update(10)
	assert.Equal(t, before, cube.ModelMatrix())
	assert.Equal(t, float32(0), cube.Spin())
}
