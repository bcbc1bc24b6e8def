// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
)

// FabrikSolver は並進要求ベースの2パス緩和ソルバーを表す。
// 目標ボーンをちょうど目標位置へ運ぶ並進を葉側から積み、
// 親子ペアの回転へ変換しながら残差をルートへ伝播する。
type FabrikSolver[T mmath.Float] struct {
	epsilon T
	goals   goalSet[T]

	// ステップ間で再利用する作業バッファ。毎フレーム呼ばれる前提のため
	// クリアして使い回し、ヒープ確保を避ける。
	forwardQueue  mergeQueue[T, translationPayload[T]]
	backwardQueue mergeQueue[T, translationPayload[T]]
	globals       []mmath.Isometry[T]
}

// NewFabrikSolver は許容誤差を指定してFABRIKソルバーを生成する。
func NewFabrikSolver[T mmath.Float](epsilon T) *FabrikSolver[T] {
	return &FabrikSolver[T]{epsilon: epsilon}
}

// SetPositionGoal はボーンのグローバル目標位置を設定する。
func (s *FabrikSolver[T]) SetPositionGoal(bone int, position mmath.Vec3[T]) {
	s.goals.setPosition(bone, position)
}

// SetOrientationGoal はボーンのグローバル目標回転を設定する。
// 本ソルバーは位置目標のみ作用する。
func (s *FabrikSolver[T]) SetOrientationGoal(bone int, orientation mmath.Quaternion[T]) {
	s.goals.setOrientation(bone, orientation)
}

// SolveStep は1回分の緩和を行う。
// 上方（葉→ルート）パスのみが有効で、下方再整列パスは拡張スロットとして
// 残している（投入元がなく実行されない）。
func (s *FabrikSolver[T]) SolveStep(tree skeleton.Topology, posture *skeleton.Posture[T]) StepResult[T] {
	checkStep(&s.goals, tree, posture)

	s.globals = resizeGlobals(s.globals, tree.Len())
	posture.WriteGlobals(tree, mmath.NewIsometry[T](), s.globals)

	s.forwardQueue.reset()
	s.backwardQueue.reset()

	// 各位置目標について、目標ボーンを目標位置へ運ぶ並進要求を積む。
	for _, goal := range s.goals.goals {
		if !goal.hasPosition {
			continue
		}
		delta := goal.position.Subed(s.globals[goal.bone].Translation)
		s.forwardQueue.enqueue(goal.bone, translationPayload[T]{delta: delta})
	}

	// 葉からルートへ。親子ペアの回転で並進要求を消化し、残差を親へ送る。
	for {
		bone, request, ok := s.forwardQueue.dequeue()
		if !ok {
			break
		}
		parent, hasParent := tree.Parent(bone)
		if !hasParent {
			// ルートに残った並進は下方再整列パスの入力候補（拡張スロット）。
			continue
		}

		oldLocal := s.globals[bone].Translation.Subed(s.globals[parent].Translation)
		targetLocal := oldLocal.Added(request.delta)

		// 反平行は半回転へ決定的に解決される（単位元で停滞させない）。
		rotation, valid := mmath.RotationBetween(oldLocal, targetLocal)
		if !valid {
			continue
		}
		inverse := rotation.Inversed()

		posture.AppendRotation(bone, inverse)
		posture.AppendRotation(parent, rotation)
		s.globals[bone] = s.globals[bone].AppendedRotation(inverse)
		s.globals[parent] = s.globals[parent].AppendedRotation(rotation)

		newLocal := rotation.MulVec3(oldLocal)
		s.forwardQueue.enqueue(parent, translationPayload[T]{delta: targetLocal.Subed(newLocal)})
	}

	// ルートからの下方再整列パス。ルート並進を子へ分配して再整列する
	// 拡張スロットで、現行動作では投入されない。
	for {
		bone, request, ok := s.backwardQueue.dequeue()
		if !ok {
			break
		}
		for child := range tree.Children(bone) {
			oldLocal := s.globals[child].Translation.Subed(s.globals[bone].Translation)
			targetLocal := oldLocal.Added(request.delta)

			rotation, valid := mmath.RotationBetween(oldLocal, targetLocal)
			if !valid {
				continue
			}

			posture.AppendRotation(child, rotation.Inversed())
			posture.AppendRotation(bone, rotation)
		}
	}

	// ステップ終端の誤差は更新後ポスチャーから再計算したグローバルで測る。
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
	return Unsolved(total)
}
