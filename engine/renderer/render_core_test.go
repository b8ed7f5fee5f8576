package renderer

import (
	"testing"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderable"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainDrawable reports neither a culling mode nor a vertex hash.
type plainDrawable struct {
	data  []byte
	count uint32
}

func (p plainDrawable) ModelMatrix() math.Mat4 { return math.NewMat4Identity() }
func (p plainDrawable) VertexData() []byte     { return p.data }
func (p plainDrawable) VertexCount() uint32    { return p.count }

func triangleDrawable() plainDrawable {
	m := renderable.TriangleMesh(1)
	return plainDrawable{data: m.Bytes(), count: m.VertexCount()}
}

func TestGroupByCullingUsesOwnModeFirst(t *testing.T) {
	cube := renderable.NewCube(1)
	quad := renderable.NewQuad(1, 1)
	quad.SetCulling(config.CullingFrontface)
	plain := triangleDrawable()

	groups := groupByCulling([]Drawable{cube, quad, plain}, config.CullingNone)

	require.Len(t, groups[0], 1)
	assert.Equal(t, Drawable(plain), groups[0][0])
	require.Len(t, groups[1], 1)
	assert.Same(t, cube, groups[1][0])
	require.Len(t, groups[2], 1)
	assert.Same(t, quad, groups[2][0])
}

func TestGroupByCullingFallback(t *testing.T) {
	plain := triangleDrawable()
	groups := groupByCulling([]Drawable{plain, plain}, config.CullingBackface)
	assert.Empty(t, groups[0])
	assert.Len(t, groups[1], 2)
	assert.Empty(t, groups[2])
}

func TestGroupByCullingSkipsEmpty(t *testing.T) {
	groups := groupByCulling([]Drawable{nil, plainDrawable{}}, config.CullingNone)
	for _, g := range groups {
		assert.Empty(t, g)
	}
}

func TestVertexHash(t *testing.T) {
	cube := renderable.NewCube(1)
	assert.Equal(t, cube.VertexHash(), vertexHash(cube))

	plain := triangleDrawable()
	assert.Equal(t, renderable.HashVertexData(plain.data), vertexHash(plain))
	assert.Equal(t, renderable.TriangleMesh(1).Hash(), vertexHash(plain))
}

func TestSceneDrawables(t *testing.T) {
	assert.Nil(t, SceneDrawables(nil))

	s := scene.New()
	s.CreateCube(1)
	s.CreateTriangle(1, scene.At(math.NewVec3(1, 0, 0)))
	s.CreateQuad(1, 1)

	drawables := SceneDrawables(s)
	require.Len(t, drawables, 3)
	for i, r := range s.Renderables() {
		d := drawables[i]
		assert.Equal(t, r.ModelMatrix(), d.ModelMatrix())
		assert.Equal(t, r.VertexCount(), d.VertexCount())
		assert.Equal(t, r.VertexHash(), vertexHash(d))
		require.Implements(t, (*CullingReporter)(nil), d)
		assert.Equal(t, r.CullingMode(), d.(CullingReporter).CullingMode())
	}

	// later scene changes do not reach drawables already handed out
	before := drawables[1].ModelMatrix()
	s.Update(1.0)
	assert.Equal(t, before, drawables[1].ModelMatrix())
}

func TestRenderTargetsMatch(t *testing.T) {
	var targets renderTargets
	assert.False(t, targets.matches(0, 0, 1))
	targets.release()
	assert.Equal(t, renderTargets{}, targets)
}

func TestRenderCoreSettingsKeepValidConfig(t *testing.T) {
	rc := &RenderCore{label: "settings", config: config.Performance()}

	err := rc.SetAntialiasing(config.AntialiasingMSAA8x)
	assert.ErrorIs(t, err, core.ErrUnsupportedAntialiasing)
	assert.Equal(t, config.Performance(), rc.Config())

	rc.SetCulling(config.CullingMode(7))
	assert.Equal(t, config.Performance(), rc.Config())

	rc.SetCulling(config.CullingFrontface)
	assert.Equal(t, config.CullingFrontface, rc.Config().Culling)

	rc.SetAlphaBlending(!config.Performance().AlphaBlending)
	assert.Equal(t, !config.Performance().AlphaBlending, rc.Config().AlphaBlending)

	rc.Set2DMode()
	assert.Equal(t, config.For2D(), rc.Config())
	rc.Set3DMode()
	assert.Equal(t, config.For3D(), rc.Config())
	rc.SetPerformanceMode()
	assert.Equal(t, config.Performance(), rc.Config())
}
