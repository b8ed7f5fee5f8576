package math

// GeometryCalculateExtents returns the axis aligned bounds of the given positions.
// An empty slice yields zero extents.
func GeometryCalculateExtents(positions []Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	extents := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		extents.Min.X = min(extents.Min.X, p.X)
		extents.Min.Y = min(extents.Min.Y, p.Y)
		extents.Min.Z = min(extents.Min.Z, p.Z)
		extents.Max.X = max(extents.Max.X, p.X)
		extents.Max.Y = max(extents.Max.Y, p.Y)
		extents.Max.Z = max(extents.Max.Z, p.Z)
	}
	return extents
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

// Size returns the length of the extents along each axis.
func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}
