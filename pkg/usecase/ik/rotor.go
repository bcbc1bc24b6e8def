// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
)

// RotorSolver はCCD系の逐次回転ソルバーを表す。
// 各ボーンのローカル系で先端ベクトルを目標ベクトルへ向ける回転のみを
// 適用する最安の実装で、1ステップあたりの収束はFABRIK/FRIKより遅い。
type RotorSolver[T mmath.Float] struct {
	epsilon T
	goals   goalSet[T]

	// ステップ間で再利用する作業バッファ。
	queue   mergeQueue[T, tipPayload[T]]
	globals []mmath.Isometry[T]
}

// NewRotorSolver は許容誤差を指定してRotorソルバーを生成する。
func NewRotorSolver[T mmath.Float](epsilon T) *RotorSolver[T] {
	return &RotorSolver[T]{epsilon: epsilon}
}

// SetPositionGoal はボーンのグローバル目標位置を設定する。
func (s *RotorSolver[T]) SetPositionGoal(bone int, position mmath.Vec3[T]) {
	s.goals.setPosition(bone, position)
}

// SetOrientationGoal はボーンのグローバル目標回転を設定する。
// 本ソルバーは位置目標のみ作用する。
func (s *RotorSolver[T]) SetOrientationGoal(bone int, orientation mmath.Quaternion[T]) {
	s.goals.setOrientation(bone, orientation)
}

// SolveStep は1回分の逐次回転を行う。
// すでに誤差合計が許容内の場合はポスチャーへ触れず即座に解決を返す。
func (s *RotorSolver[T]) SolveStep(tree skeleton.Topology, posture *skeleton.Posture[T]) StepResult[T] {
	checkStep(&s.goals, tree, posture)

	s.globals = resizeGlobals(s.globals, tree.Len())
	posture.WriteGlobals(tree, mmath.NewIsometry[T](), s.globals)

	var total T
	for _, goal := range s.goals.goals {
		if !goal.hasPosition {
			continue
		}
		total += goal.position.Distance(s.globals[goal.bone].Translation)
	}
	if total < s.epsilon {
		return Solved(total)
	}

	s.queue.reset()
	for _, goal := range s.goals.goals {
		if !goal.hasPosition {
			continue
		}
		if parent, hasParent := tree.Parent(goal.bone); hasParent {
			s.queue.enqueue(parent, tipPayload[T]{
				tip:  s.globals[goal.bone].Translation,
				goal: goal.position,
			})
		}
	}

	// 葉からルートへ。縮退したベクトルは回転が定義できないため読み飛ばし、
	// 更新後の先端位置を親へ送る。
	for {
		bone, request, ok := s.queue.dequeue()
		if !ok {
			break
		}

		inverse := s.globals[bone].Inversed()
		tipLocal := inverse.TransformPoint(request.tip)
		goalLocal := inverse.TransformPoint(request.goal)

		if tipLocal.LengthSquared() < s.epsilon {
			continue
		}
		if goalLocal.LengthSquared() < s.epsilon {
			continue
		}

		rotation, valid := mmath.RotationBetween(tipLocal, goalLocal)
		if !valid {
			continue
		}

		posture.AppendRotation(bone, rotation)
		tipLocal = rotation.MulVec3(tipLocal)

		// このボーンで届いたなら、それ以上祖先を動かさない。
		if tipLocal.Distance(goalLocal) < s.epsilon {
			continue
		}

		if parent, hasParent := tree.Parent(bone); hasParent {
			s.queue.enqueue(parent, tipPayload[T]{
				tip:  s.globals[bone].TransformPoint(tipLocal),
				goal: request.goal,
			})
		}
	}

	// ステップ終端の誤差は更新後ポスチャーから再計算したグローバルで測る。
	posture.WriteGlobals(tree, mmath.NewIsometry[T](), s.globals)
	total = 0
	for _, goal := range s.goals.goals {
		if !goal.hasPosition {
			continue
		}
		total += goal.position.Distance(s.globals[goal.bone].Translation)
	}

	if total < s.epsilon {
		return Solved(total)
	}
	return Unsolved(total)
}
