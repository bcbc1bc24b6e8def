// 指示: miu200521358
// Package ik はボーン階層に対する複数目標の逆運動学ソルバーを提供する。
// FABRIK・FRIK・Rotorの3実装が同一契約を共有し、呼び出し側は
// フレームごとにSolveStepを1回（または少数回）呼んで計算量を制御する。
package ik

import (
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
)

// Status はSolveStepの結果種別を表す。
type Status int

const (
	// StatusSolved は全目標の誤差合計が許容誤差を下回った状態を表す。
	StatusSolved Status = iota
	// StatusUnsolved は誤差が許容誤差以上で収束途中の状態を表す。
	StatusUnsolved
	// StatusInfeasible は制約上到達不能と判定された状態を表す。
	// 現行のソルバーはいずれも生成しない（将来拡張用の予約値）。
	StatusInfeasible
)

// String は状態名を返す。
func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusUnsolved:
		return "unsolved"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// StepResult は1ステップ分の結果と誤差合計を表す。
type StepResult[T mmath.Float] struct {
	Error  T
	Status Status
}

// Solved は解決済み結果を生成する。
func Solved[T mmath.Float](err T) StepResult[T] {
	return StepResult[T]{Error: err, Status: StatusSolved}
}

// Unsolved は未解決結果を生成する。
func Unsolved[T mmath.Float](err T) StepResult[T] {
	return StepResult[T]{Error: err, Status: StatusUnsolved}
}

// Infeasible は到達不能結果を生成する。
func Infeasible[T mmath.Float](err T) StepResult[T] {
	return StepResult[T]{Error: err, Status: StatusInfeasible}
}

// Reduce は2つの結果を悪い方の状態と誤差合計へ畳み込む。
func (r StepResult[T]) Reduce(other StepResult[T]) StepResult[T] {
	status := r.Status
	switch {
	case r.Status == StatusInfeasible || other.Status == StatusInfeasible:
		status = StatusInfeasible
	case r.Status == StatusUnsolved || other.Status == StatusUnsolved:
		status = StatusUnsolved
	default:
		status = StatusSolved
	}
	return StepResult[T]{Error: r.Error + other.Error, Status: status}
}

// Solver はIKソルバーの共通契約を表す。
// 実装を差し替えて同一スケルトン上で並走比較できる。
type Solver[T mmath.Float] interface {
	// SetPositionGoal はボーンのグローバル目標位置を設定する。
	// 同一ボーンへの再設定は上書きとなる。
	SetPositionGoal(bone int, position mmath.Vec3[T])
	// SetOrientationGoal はボーンのグローバル目標回転を設定する。
	// 本パッケージの3実装は位置目標のみ作用し、回転目標は受理して保持する。
	SetOrientationGoal(bone int, orientation mmath.Quaternion[T])
	// SolveStep は1回分の有界な緩和計算を行い、ポスチャーを更新して結果を返す。
	SolveStep(tree skeleton.Topology, posture *skeleton.Posture[T]) StepResult[T]
}

// resizeGlobals はグローバル変換バッファを確保し直さずに所要長へ整える。
func resizeGlobals[T mmath.Float](globals []mmath.Isometry[T], length int) []mmath.Isometry[T] {
	if cap(globals) < length {
		return make([]mmath.Isometry[T], length)
	}
	return globals[:length]
}

// checkStep はSolveStep共通の前提条件を検証する。
func checkStep[T mmath.Float](goals *goalSet[T], tree skeleton.Topology, posture *skeleton.Posture[T]) {
	if !posture.IsCompatible(tree) {
		panic("ik: ポスチャーの長さがツリーと一致しません")
	}
	if goals.requiredLen > tree.Len() {
		panic("ik: 目標ボーンindexがツリー範囲外です")
	}
}
