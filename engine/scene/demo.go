package scene

import (
	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderable"
	"golang.org/x/exp/rand"
)

var (
	scatterMin = math.NewVec3(-2.5, -1.5, -4)
	scatterMax = math.NewVec3(2.5, 1.5, -1)
)

// PopulateDemo adds a triangle, a cube and a quad side by side at the origin
// plane, then scattered small triangles, quads and cubes behind them.
func PopulateDemo(s *Scene, r *rand.Rand, scattered int) {
	s.CreateTriangle(1, At(math.NewVec3(-1.5, 0, 0)))
	s.CreateCube(1, Rotated(math.NewVec3(20, 30, 0)))
	s.CreateQuad(1, 1, At(math.NewVec3(1.5, 0, 0)))

	kinds := []renderable.Kind{renderable.KindTriangle, renderable.KindQuad, renderable.KindCube}
	for i := 0; i < scattered; i++ {
		size := math.RandomInRange(r, 0.2, 0.4)
		place := []Option{
			At(math.RandomVec3InRange(r, scatterMin, scatterMax)),
			Rotated(math.RandomVec3InRange(r, math.NewVec3Zero(), math.NewVec3(360, 360, 360))),
		}
		switch kinds[r.Intn(len(kinds))] {
		case renderable.KindTriangle:
			s.CreateTriangle(size, place...)
		case renderable.KindQuad:
			s.CreateQuad(size, size, place...)
		default:
			s.CreateCube(size, place...)
		}
	}
}
