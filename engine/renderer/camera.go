package renderer

import (
	"github.com/spaghettifunk/facet/engine/math"
)

type ProjectionMode uint8

const (
	ProjectionPerspective ProjectionMode = iota
	ProjectionOrthographic
)

func (p ProjectionMode) String() string {
	if p == ProjectionOrthographic {
		return "orthographic"
	}
	return "perspective"
}

const (
	perspectiveFOVDegrees float32 = 60.0
	perspectiveNear       float32 = 0.1
	perspectiveFar        float32 = 100.0
	orthographicNear      float32 = -10.0
	orthographicFar       float32 = 10.0
	perspectiveDistance   float32 = 3.0
	orthographicDistance  float32 = 1.0
	defaultCameraAspect   float32 = 1.0
)

/**
 * @brief Represents the camera used to build the view-projection matrix
 * uploaded for every object. The camera always looks at its target with
 * +Y as up.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	position math.Vec3
	target   math.Vec3
	up       math.Vec3

	aspectRatio float32
	mode        ProjectionMode

	/** @brief Internal flag used to determine when the matrices need to be rebuilt. */
	isDirty    bool
	view       math.Mat4
	projection math.Mat4
}

// NewCamera creates a perspective camera placed at (0,0,3) looking at the origin.
func NewCamera(aspectRatio float32) *Camera {
	c := &Camera{
		target: math.NewVec3Zero(),
		up:     math.NewVec3Up(),
	}
	if aspectRatio <= 0 {
		aspectRatio = defaultCameraAspect
	}
	c.aspectRatio = aspectRatio
	c.SetProjectionMode(ProjectionPerspective)
	return c
}

// NewOrthographicCamera creates a camera suited to flat 2D scenes.
func NewOrthographicCamera(aspectRatio float32) *Camera {
	c := NewCamera(aspectRatio)
	c.SetProjectionMode(ProjectionOrthographic)
	return c
}

func (c *Camera) Position() math.Vec3 {
	return c.position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *Camera) Target() math.Vec3 {
	return c.target
}

func (c *Camera) LookAt(target math.Vec3) {
	c.target = target
	c.isDirty = true
}

func (c *Camera) AspectRatio() float32 {
	return c.aspectRatio
}

// SetAspectRatio ignores non-positive ratios, which happen while a window is minimized.
func (c *Camera) SetAspectRatio(aspectRatio float32) {
	if aspectRatio <= 0 {
		return
	}
	c.aspectRatio = aspectRatio
	c.isDirty = true
}

func (c *Camera) ProjectionMode() ProjectionMode {
	return c.mode
}

/**
 * @brief Switches the projection and moves the camera back to the default
 * distance for that projection.
 */
func (c *Camera) SetProjectionMode(mode ProjectionMode) {
	c.mode = mode
	switch mode {
	case ProjectionOrthographic:
		c.position = math.NewVec3(0, 0, orthographicDistance)
	default:
		c.position = math.NewVec3(0, 0, perspectiveDistance)
	}
	c.isDirty = true
}

func (c *Camera) ViewMatrix() math.Mat4 {
	c.update()
	return c.view
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	c.update()
	return c.projection
}

// ViewProjection returns view then projection in row-vector order.
func (c *Camera) ViewProjection() math.Mat4 {
	c.update()
	return c.view.Mul(c.projection)
}

func (c *Camera) update() {
	if !c.isDirty {
		return
	}
	switch c.mode {
	case ProjectionOrthographic:
		c.projection = math.NewMat4Orthographic(-c.aspectRatio, c.aspectRatio, -1, 1, orthographicNear, orthographicFar)
	default:
		c.projection = math.NewMat4Perspective(math.DegToRad(perspectiveFOVDegrees), c.aspectRatio, perspectiveNear, perspectiveFar)
	}
	c.view = math.NewMat4LookAt(c.position, c.target, c.up)
	c.isDirty = false
}
