package renderable

import (
	"fmt"

	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderer/config"
)

// Kind identifies the primitive a Renderable was built from.
type Kind uint8

const (
	KindTriangle Kind = iota
	KindQuad
	KindCube
	KindCircle
	KindCylinder
	KindCone
	KindSphere
)

// Kinds lists every primitive kind.
func Kinds() []Kind {
	return []Kind{KindTriangle, KindQuad, KindCube, KindCircle, KindCylinder, KindCone, KindSphere}
}

func (k Kind) String() string {
	switch k {
	case KindTriangle:
		return "triangle"
	case KindQuad:
		return "quad"
	case KindCube:
		return "cube"
	case KindCircle:
		return "circle"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindSphere:
		return "sphere"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// DefaultCulling is None for flat kinds, which must stay visible from both
// sides, and Backface for closed solids.
func (k Kind) DefaultCulling() config.CullingMode {
	switch k {
	case KindTriangle, KindQuad, KindCircle:
		return config.CullingNone
	default:
		return config.CullingBackface
	}
}

// TriangleSpinDegreesPerSecond is the rotation about Z applied to triangles by Update.
const TriangleSpinDegreesPerSecond float32 = 15.0

// Renderable is a mesh placed in the world with its own culling mode.
type Renderable struct {
	Kind      Kind
	Mesh      *Mesh
	Transform *math.Transform
	Culling   config.CullingMode

	// degrees per second about Z, applied by Update
	spin float32
}

// New wraps mesh with an identity transform and the kind's default culling.
func New(kind Kind, mesh *Mesh) *Renderable {
	r := &Renderable{
		Kind:      kind,
		Mesh:      mesh,
		Transform: math.TransformCreate(),
		Culling:   kind.DefaultCulling(),
	}
	if kind == KindTriangle {
		r.spin = TriangleSpinDegreesPerSecond
	}
	return r
}

func NewTriangle(scale float32) *Renderable {
	return New(KindTriangle, TriangleMesh(scale))
}

func NewQuad(width, height float32) *Renderable {
	return New(KindQuad, QuadMesh(width, height))
}

func NewCube(size float32) *Renderable {
	return New(KindCube, CubeMesh(size))
}

func NewCircle(radius float32, segments uint32) *Renderable {
	return New(KindCircle, CircleMesh(radius, segments))
}

func NewCylinder(radius, height float32, segments uint32) *Renderable {
	return New(KindCylinder, CylinderMesh(radius, height, segments))
}

func NewCone(radius, height float32, segments uint32) *Renderable {
	return New(KindCone, ConeMesh(radius, height, segments))
}

func NewSphere(radius float32, latitudeSegments, longitudeSegments uint32) *Renderable {
	return New(KindSphere, SphereMesh(radius, latitudeSegments, longitudeSegments))
}

// Update advances animation by deltaTime seconds.
func (r *Renderable) Update(deltaTime float64) {
	if r.spin != 0 {
		r.Transform.RotateDegrees(math.NewVec3(0, 0, 1), r.spin*float32(deltaTime))
	}
}

// SetSpin sets the rotation speed about Z in degrees per second. Zero stops it.
func (r *Renderable) SetSpin(degreesPerSecond float32) {
	r.spin = degreesPerSecond
}

func (r *Renderable) Spin() float32 {
	return r.spin
}

func (r *Renderable) ModelMatrix() math.Mat4 {
	return r.Transform.Local()
}

func (r *Renderable) VertexData() []byte {
	return r.Mesh.Bytes()
}

func (r *Renderable) VertexHash() uint64 {
	return r.Mesh.Hash()
}

func (r *Renderable) VertexCount() uint32 {
	return r.Mesh.VertexCount()
}

func (r *Renderable) CullingMode() config.CullingMode {
	return r.Culling
}

func (r *Renderable) SetCulling(mode config.CullingMode) {
	r.Culling = mode
}
