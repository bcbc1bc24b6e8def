// 指示: miu200521358
// Package mmath はスケルトン演算に使う実数・ベクトル・クォータニオン・等長変換を提供する。
// 実行時はfloat32、高精度検証はfloat64と、単一実装を型パラメータで共有する。
package mmath

import "math"

// Float は演算対象の実数型制約を表す。
type Float interface {
	~float32 | ~float64
}

const (
	// axisEpsilon は軸・ベクトルの縮退判定しきい値を表す。
	axisEpsilon = 1e-8
	// parallelEpsilon は平行・反平行判定のしきい値を表す。
	parallelEpsilon = 1e-7
)

// Pi は型パラメータに合わせた円周率を返す。
func Pi[T Float]() T {
	return T(math.Pi)
}

// Sqrt は平方根を返す。
func Sqrt[T Float](value T) T {
	return T(math.Sqrt(float64(value)))
}

// Abs は絶対値を返す。
func Abs[T Float](value T) T {
	if value < 0 {
		return -value
	}
	return value
}

// Acos は逆余弦を返す。入力は[-1, 1]へクランプされる。
func Acos[T Float](value T) T {
	return T(math.Acos(float64(Clamp(value, -1, 1))))
}

// Sin は正弦を返す。
func Sin[T Float](value T) T {
	return T(math.Sin(float64(value)))
}

// Cos は余弦を返す。
func Cos[T Float](value T) T {
	return T(math.Cos(float64(value)))
}

// Clamp はmin-maxで値をクランプする。
func Clamp[T Float](value T, min T, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg[T Float](radian T) T {
	return radian * T(180.0/math.Pi)
}

// DegToRad は度をラジアンへ変換する。
func DegToRad[T Float](degree T) T {
	return degree * T(math.Pi/180.0)
}
