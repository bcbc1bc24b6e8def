// 指示: miu200521358
package mmath

// Quaternion は単位クォータニオンによる回転を表す。
type Quaternion[T Float] struct {
	W, X, Y, Z T
}

// NewQuaternion は単位元（無回転）を返す。
func NewQuaternion[T Float]() Quaternion[T] {
	return Quaternion[T]{W: 1}
}

// NewQuaternionFromAxisAngle は回転軸と角度（ラジアン）から回転を生成する。
// 軸は正規化されていること。
func NewQuaternionFromAxisAngle[T Float](axis Vec3[T], angle T) Quaternion[T] {
	half := angle / 2
	sin := Sin(half)
	return Quaternion[T]{
		W: Cos(half),
		X: axis.X * sin,
		Y: axis.Y * sin,
		Z: axis.Z * sin,
	}
}

// NewQuaternionFromDegrees はXYZ各軸の度数指定から回転を生成する。
// 適用順はZ→Y→X。
func NewQuaternionFromDegrees[T Float](degreeX, degreeY, degreeZ T) Quaternion[T] {
	qx := NewQuaternionFromAxisAngle(UnitXVec3[T](), DegToRad(degreeX))
	qy := NewQuaternionFromAxisAngle(UnitYVec3[T](), DegToRad(degreeY))
	qz := NewQuaternionFromAxisAngle(UnitZVec3[T](), DegToRad(degreeZ))
	return qx.Muled(qy).Muled(qz)
}

// Muled はハミルトン積を返す。q.Muled(p)はpを先に適用する合成回転を表す。
func (q Quaternion[T]) Muled(other Quaternion[T]) Quaternion[T] {
	return Quaternion[T]{
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
	}
}

// Inversed は逆回転（共役）を返す。
func (q Quaternion[T]) Inversed() Quaternion[T] {
	return Quaternion[T]{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Normalized は正規化したクォータニオンを返す。ノルム縮退時は単位元を返す。
func (q Quaternion[T]) Normalized() Quaternion[T] {
	norm := Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if norm <= axisEpsilon {
		return NewQuaternion[T]()
	}
	inv := 1 / norm
	return Quaternion[T]{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}
}

// MulVec3 はベクトルを回転させる。
func (q Quaternion[T]) MulVec3(v Vec3[T]) Vec3[T] {
	axis := Vec3[T]{X: q.X, Y: q.Y, Z: q.Z}
	t := axis.Cross(v).MuledScalar(2)
	return v.Added(t.MuledScalar(q.W)).Added(axis.Cross(t))
}

// Angle は回転角（ラジアン、0〜π）を返す。
func (q Quaternion[T]) Angle() T {
	return 2 * Acos(Abs(q.W))
}

// Axis は回転軸の単位ベクトルを返す。無回転時は零ベクトルを返す。
func (q Quaternion[T]) Axis() Vec3[T] {
	axis := Vec3[T]{X: q.X, Y: q.Y, Z: q.Z}
	if q.W < 0 {
		axis = axis.Negated()
	}
	return axis.Normalized()
}

// RotationBetween はfromをtoへ写す最短弧回転を返す。
// 反平行の場合はfromと直交する軸回りの半回転（非単位元）へ決定的に解決する。
// いずれかの入力長が縮退している場合のみ第2戻り値がfalseとなり、回転は単位元を返す。
func RotationBetween[T Float](from, to Vec3[T]) (Quaternion[T], bool) {
	fromLen := from.Length()
	toLen := to.Length()
	if fromLen <= axisEpsilon || toLen <= axisEpsilon {
		return NewQuaternion[T](), false
	}

	f := from.MuledScalar(1 / fromLen)
	t := to.MuledScalar(1 / toLen)
	dot := Clamp(f.Dot(t), -1, 1)

	if dot >= 1-parallelEpsilon {
		return NewQuaternion[T](), true
	}
	if dot <= -1+parallelEpsilon {
		return NewQuaternionFromAxisAngle(f.Orthogonal(), Pi[T]()), true
	}

	axis := f.Cross(t)
	s := Sqrt((1 + dot) * 2)
	inv := 1 / s
	q := Quaternion[T]{
		W: s / 2,
		X: axis.X * inv,
		Y: axis.Y * inv,
		Z: axis.Z * inv,
	}
	return q.Normalized(), true
}
