package scene

import (
	"slices"
	"sync"

	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderable"
	"github.com/spaghettifunk/facet/engine/renderer/config"
)

// EntityID identifies an object in a Scene. Ids are handed out sequentially
// from 0, shared by every kind, and never reused.
type EntityID uint32

// Scene owns renderables grouped by kind. Every method is safe for concurrent
// use; renderers read it through Snapshots.
type Scene struct {
	mu      sync.RWMutex
	objects map[renderable.Kind]map[EntityID]*renderable.Renderable
	nextID  EntityID
}

func New() *Scene {
	s := &Scene{}
	s.reset()
	return s
}

func (s *Scene) reset() {
	s.objects = make(map[renderable.Kind]map[EntityID]*renderable.Renderable, len(renderable.Kinds()))
	for _, kind := range renderable.Kinds() {
		s.objects[kind] = make(map[EntityID]*renderable.Renderable)
	}
}

// Add stores r and returns its id.
func (s *Scene) Add(r *renderable.Renderable) EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	byKind, ok := s.objects[r.Kind]
	if !ok {
		byKind = make(map[EntityID]*renderable.Renderable)
		s.objects[r.Kind] = byKind
	}
	byKind[id] = r
	return id
}

func (s *Scene) AddTriangle(r *renderable.Renderable) EntityID { return s.addKind(renderable.KindTriangle, r) }
func (s *Scene) AddQuad(r *renderable.Renderable) EntityID     { return s.addKind(renderable.KindQuad, r) }
func (s *Scene) AddCube(r *renderable.Renderable) EntityID     { return s.addKind(renderable.KindCube, r) }
func (s *Scene) AddCircle(r *renderable.Renderable) EntityID   { return s.addKind(renderable.KindCircle, r) }
func (s *Scene) AddCylinder(r *renderable.Renderable) EntityID { return s.addKind(renderable.KindCylinder, r) }
func (s *Scene) AddCone(r *renderable.Renderable) EntityID     { return s.addKind(renderable.KindCone, r) }
func (s *Scene) AddSphere(r *renderable.Renderable) EntityID   { return s.addKind(renderable.KindSphere, r) }

func (s *Scene) addKind(kind renderable.Kind, r *renderable.Renderable) EntityID {
	r.Kind = kind
	return s.Add(r)
}

// Remove deletes the object with id. It reports whether the object existed.
func (s *Scene) Remove(id EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, byKind := range s.objects {
		if _, ok := byKind[id]; ok {
			delete(byKind, id)
			return true
		}
	}
	return false
}

func (s *Scene) Get(id EntityID) (*renderable.Renderable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, byKind := range s.objects {
		if r, ok := byKind[id]; ok {
			return r, true
		}
	}
	return nil, false
}

// Count returns the number of objects of kind.
func (s *Scene) Count(kind renderable.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects[kind])
}

// Len returns the number of objects of every kind.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, byKind := range s.objects {
		n += len(byKind)
	}
	return n
}

// Update advances every object by deltaTime seconds.
func (s *Scene) Update(deltaTime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, byKind := range s.objects {
		for _, r := range byKind {
			r.Update(deltaTime)
		}
	}
}

/**
 * @brief Returns every object ordered by id. The pointers are live: reading
 * or changing them while another goroutine calls Update or SetCulling races.
 * Renderers use Snapshots instead.
 */
func (s *Scene) Renderables() []*renderable.Renderable {
	s.mu.RLock()
	entries := s.sortedLocked()
	s.mu.RUnlock()

	out := make([]*renderable.Renderable, len(entries))
	for i, e := range entries {
		out[i] = e.r
	}
	return out
}

type entry struct {
	id EntityID
	r  *renderable.Renderable
}

func (s *Scene) sortedLocked() []entry {
	entries := make([]entry, 0, 64)
	for _, byKind := range s.objects {
		for id, r := range byKind {
			entries = append(entries, entry{id, r})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return int(a.id) - int(b.id)
	})
	return entries
}

/**
 * @brief A copy of one object taken at a point in time. It stays valid while
 * the scene keeps changing. Vertex bytes are shared with the mesh, which is
 * never modified after creation.
 */
type Snapshot struct {
	ID      EntityID
	Kind    renderable.Kind
	Model   math.Mat4
	Culling config.CullingMode

	vertices []byte
	hash     uint64
	count    uint32
}

func (o Snapshot) ModelMatrix() math.Mat4          { return o.Model }
func (o Snapshot) VertexData() []byte              { return o.vertices }
func (o Snapshot) VertexHash() uint64              { return o.hash }
func (o Snapshot) VertexCount() uint32             { return o.count }
func (o Snapshot) CullingMode() config.CullingMode { return o.Culling }

/**
 * @brief Copies model matrix, vertex data and culling of every object,
 * ordered by id. Takes the write lock because computing a model matrix
 * refreshes the transform's cached local matrix.
 */
func (s *Scene) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedLocked()
	out := make([]Snapshot, len(entries))
	for i, e := range entries {
		out[i] = Snapshot{
			ID:       e.id,
			Kind:     e.r.Kind,
			Model:    e.r.ModelMatrix(),
			Culling:  e.r.CullingMode(),
			vertices: e.r.VertexData(),
			hash:     e.r.VertexHash(),
			count:    e.r.VertexCount(),
		}
	}
	return out
}

// IDs returns every id in ascending order.
func (s *Scene) IDs() []EntityID {
	s.mu.RLock()
	ids := make([]EntityID, 0, 64)
	for _, byKind := range s.objects {
		for id := range byKind {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Clear removes every object. Ids keep counting from where they were.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// SetCulling applies mode to every object in the scene.
func (s *Scene) SetCulling(mode config.CullingMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, byKind := range s.objects {
		for _, r := range byKind {
			r.SetCulling(mode)
		}
	}
}

// Option places a newly created object.
type Option func(r *renderable.Renderable)

// At sets the position.
func At(position math.Vec3) Option {
	return func(r *renderable.Renderable) {
		r.Transform.SetPosition(position)
	}
}

// Rotated sets the rotation from Euler angles in degrees, applied X then Y then Z.
func Rotated(eulerDegrees math.Vec3) Option {
	return func(r *renderable.Renderable) {
		r.Transform.SetRotationEulerDegrees(eulerDegrees.X, eulerDegrees.Y, eulerDegrees.Z)
	}
}

// Scaled sets the scale.
func Scaled(scale math.Vec3) Option {
	return func(r *renderable.Renderable) {
		r.Transform.SetScale(scale)
	}
}

// WithTransform copies position, rotation and scale from t.
func WithTransform(t *math.Transform) Option {
	return func(r *renderable.Renderable) {
		r.Transform.SetPositionRotationScale(t.Position, t.Rotation, t.Scale)
	}
}

// WithCulling overrides the kind's default culling mode.
func WithCulling(mode config.CullingMode) Option {
	return func(r *renderable.Renderable) {
		r.SetCulling(mode)
	}
}

func (s *Scene) create(r *renderable.Renderable, opts []Option) EntityID {
	for _, opt := range opts {
		opt(r)
	}
	return s.Add(r)
}

func (s *Scene) CreateTriangle(scale float32, opts ...Option) EntityID {
	return s.create(renderable.NewTriangle(scale), opts)
}

func (s *Scene) CreateQuad(width, height float32, opts ...Option) EntityID {
	return s.create(renderable.NewQuad(width, height), opts)
}

func (s *Scene) CreateCube(size float32, opts ...Option) EntityID {
	return s.create(renderable.NewCube(size), opts)
}

func (s *Scene) CreateCircle(radius float32, segments uint32, opts ...Option) EntityID {
	return s.create(renderable.NewCircle(radius, segments), opts)
}

func (s *Scene) CreateCylinder(radius, height float32, segments uint32, opts ...Option) EntityID {
	return s.create(renderable.NewCylinder(radius, height, segments), opts)
}

func (s *Scene) CreateCone(radius, height float32, segments uint32, opts ...Option) EntityID {
	return s.create(renderable.NewCone(radius, height, segments), opts)
}

func (s *Scene) CreateSphere(radius float32, latitudeSegments, longitudeSegments uint32, opts ...Option) EntityID {
	return s.create(renderable.NewSphere(radius, latitudeSegments, longitudeSegments), opts)
}
