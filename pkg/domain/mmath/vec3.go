// 指示: miu200521358
package mmath

import "gonum.org/v1/gonum/spatial/r3"

// Vec3 は3次元ベクトルを表す。
type Vec3[T Float] struct {
	X, Y, Z T
}

// NewVec3 は成分指定でベクトルを生成する。
func NewVec3[T Float](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

// ZeroVec3 は零ベクトルを返す。
func ZeroVec3[T Float]() Vec3[T] {
	return Vec3[T]{}
}

// UnitXVec3 はX軸単位ベクトルを返す。
func UnitXVec3[T Float]() Vec3[T] {
	return Vec3[T]{X: 1}
}

// UnitYVec3 はY軸単位ベクトルを返す。
func UnitYVec3[T Float]() Vec3[T] {
	return Vec3[T]{Y: 1}
}

// UnitZVec3 はZ軸単位ベクトルを返す。
func UnitZVec3[T Float]() Vec3[T] {
	return Vec3[T]{Z: 1}
}

// Added は加算結果を返す。
func (v Vec3[T]) Added(other Vec3[T]) Vec3[T] {
	return Vec3[T]{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Subed は減算結果を返す。
func (v Vec3[T]) Subed(other Vec3[T]) Vec3[T] {
	return Vec3[T]{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3[T]) MuledScalar(scalar T) Vec3[T] {
	return Vec3[T]{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Negated は符号反転を返す。
func (v Vec3[T]) Negated() Vec3[T] {
	return Vec3[T]{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot は内積を返す。
func (v Vec3[T]) Dot(other Vec3[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross は外積を返す。
func (v Vec3[T]) Cross(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length はベクトル長を返す。
func (v Vec3[T]) Length() T {
	return Sqrt(v.LengthSquared())
}

// LengthSquared はベクトル長の二乗を返す。
func (v Vec3[T]) LengthSquared() T {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Distance は2点間距離を返す。
func (v Vec3[T]) Distance(other Vec3[T]) T {
	return v.Subed(other).Length()
}

// Normalized は単位ベクトルを返す。長さが縮退している場合は零ベクトルを返す。
func (v Vec3[T]) Normalized() Vec3[T] {
	length := v.Length()
	if length <= axisEpsilon {
		return Vec3[T]{}
	}
	return v.MuledScalar(1 / length)
}

// Orthogonal は自身と直交する単位ベクトルを返す。
// 反平行の最短弧回転軸の決定に使う。
func (v Vec3[T]) Orthogonal() Vec3[T] {
	ax, ay, az := Abs(v.X), Abs(v.Y), Abs(v.Z)
	var other Vec3[T]
	switch {
	case ax <= ay && ax <= az:
		other = UnitXVec3[T]()
	case ay <= az:
		other = UnitYVec3[T]()
	default:
		other = UnitZVec3[T]()
	}
	return v.Cross(other).Normalized()
}

// R3 はgonumのfloat64ベクトルへ変換する。
func (v Vec3[T]) R3() r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Vec3FromR3 はgonumのfloat64ベクトルから生成する。
func Vec3FromR3[T Float](vec r3.Vec) Vec3[T] {
	return Vec3[T]{X: T(vec.X), Y: T(vec.Y), Z: T(vec.Z)}
}
