package renderer

import (
	"testing"

	"github.com/spaghettifunk/facet/engine/math"
	"github.com/stretchr/testify/assert"
)

func clipOfOrigin(c *Camera) math.Vec4 {
	return math.NewVec4(0, 0, 0, 1).MulMat4(c.ViewProjection())
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera(16.0 / 9.0)
	assert.Equal(t, ProjectionPerspective, c.ProjectionMode())
	assert.Equal(t, math.NewVec3(0, 0, 3), c.Position())
	assert.Equal(t, math.NewVec3Zero(), c.Target())
	assert.InDelta(t, 16.0/9.0, c.AspectRatio(), 1e-6)

	clip := clipOfOrigin(c)
	assert.InDelta(t, 3, clip.W, 1e-4)
	assert.InDelta(t, 0.9676, clip.Z/clip.W, 1e-3)
}

func TestCameraNonPositiveAspect(t *testing.T) {
	c := NewCamera(0)
	assert.Equal(t, float32(1), c.AspectRatio())

	c.SetAspectRatio(2)
	c.SetAspectRatio(0)
	c.SetAspectRatio(-1)
	assert.Equal(t, float32(2), c.AspectRatio())
}

func TestCameraOrthographic(t *testing.T) {
	c := NewOrthographicCamera(2)
	assert.Equal(t, ProjectionOrthographic, c.ProjectionMode())
	assert.Equal(t, math.NewVec3(0, 0, 1), c.Position())

	clip := clipOfOrigin(c)
	assert.InDelta(t, 1, clip.W, 1e-6)
	assert.InDelta(t, 0.55, clip.Z, 1e-4)

	// the right edge of the view volume sits at x = aspect
	edge := math.NewVec4(2, 1, 0, 1).MulMat4(c.ViewProjection())
	assert.InDelta(t, 1, edge.X, 1e-4)
	assert.InDelta(t, 1, edge.Y, 1e-4)
}

func TestCameraProjectionSwitchResetsPosition(t *testing.T) {
	c := NewCamera(1)
	c.SetPosition(math.NewVec3(5, 5, 5))
	c.SetProjectionMode(ProjectionOrthographic)
	assert.Equal(t, math.NewVec3(0, 0, 1), c.Position())
	c.SetProjectionMode(ProjectionPerspective)
	assert.Equal(t, math.NewVec3(0, 0, 3), c.Position())
}

func TestCameraMatricesFollowChanges(t *testing.T) {
	c := NewCamera(1)
	before := c.ViewMatrix()

	c.SetPosition(math.NewVec3(0, 0, 6))
	after := c.ViewMatrix()
	assert.False(t, before.Compare(after, 1e-6))
	assert.InDelta(t, 6, clipOfOrigin(c).W, 1e-4)

	c.LookAt(math.NewVec3(1, 0, 0))
	target := math.NewVec3(1, 0, 0).Transform(c.ViewMatrix())
	assert.InDelta(t, 0, target.X, 1e-4)
	assert.Less(t, target.Z, float32(0))

	p1 := c.ProjectionMatrix()
	c.SetAspectRatio(2)
	assert.InDelta(t, p1.Data[0]/2, c.ProjectionMatrix().Data[0], 1e-5)
}
