package math

func TransformCreate() *Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

func TransformFromPosition(position Vec3) *Transform {
	return TransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

func TransformFromPositionRotation(position Vec3, rotation Quaternion) *Transform {
	return TransformFromPositionRotationScale(position, rotation, NewVec3One())
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	t := &Transform{local: NewMat4Identity()}
	t.SetPositionRotationScale(position, rotation, scale)
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

func (t *Transform) TranslateXYZ(x, y, z float32) {
	t.Translate(Vec3{x, y, z})
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
	t.IsDirty = true
}

// Rotate composes rotation onto the current one (current * rotation).
func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation).Normalize()
	t.IsDirty = true
}

// RotateRadians rotates around axis by angle radians.
func (t *Transform) RotateRadians(axis Vec3, angle float32) {
	t.Rotate(NewQuatFromAxisAngle(axis.Normalize(), angle, true))
}

func (t *Transform) RotateDegrees(axis Vec3, degrees float32) {
	t.RotateRadians(axis, DegToRad(degrees))
}

func (t *Transform) SetRotationEulerRadians(x, y, z float32) {
	t.SetRotation(NewQuatFromEulerXYZ(x, y, z))
}

func (t *Transform) SetRotationEulerDegrees(x, y, z float32) {
	t.SetRotationEulerRadians(DegToRad(x), DegToRad(y), DegToRad(z))
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

// ScaleBy multiplies the current scale component-wise.
func (t *Transform) ScaleBy(scale Vec3) {
	t.Scale = t.Scale.Mul(scale)
	t.IsDirty = true
}

func (t *Transform) ScaleXYZ(x, y, z float32) {
	t.ScaleBy(Vec3{x, y, z})
}

func (t *Transform) ScaleUniform(factor float32) {
	t.ScaleBy(Vec3{factor, factor, factor})
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

/**
 * @brief Returns the local transformation matrix (scale, then rotation,
 * then translation), rebuilding it only when the transform is dirty.
 */
func (t *Transform) Local() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	if t.IsDirty {
		s := NewMat4Scale(t.Scale)
		r := t.Rotation.ToMat4()
		tr := NewMat4Translation(t.Position)
		t.local = s.Mul(r).Mul(tr)
		t.IsDirty = false
	}
	return t.local
}
