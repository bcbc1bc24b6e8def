// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
)

// FrikSolver は前方一括伝播の回転ベースソルバーを表す。
// 祖先ボーンごとに1回の最短弧回転を適用し、兄弟ボーンへ逆回転を
// 配って補正を目的の枝へ隔離する。並進には一切触れない。
type FrikSolver[T mmath.Float] struct {
	epsilon T
	goals   goalSet[T]

	// ステップ間で再利用する作業バッファ。
	forwardQueue mergeQueue[T, effectorPayload[T]]
	globals      []mmath.Isometry[T]
}

// NewFrikSolver は許容誤差を指定してFRIKソルバーを生成する。
func NewFrikSolver[T mmath.Float](epsilon T) *FrikSolver[T] {
	return &FrikSolver[T]{epsilon: epsilon}
}

// SetPositionGoal はボーンのグローバル目標位置を設定する。
func (s *FrikSolver[T]) SetPositionGoal(bone int, position mmath.Vec3[T]) {
	s.goals.setPosition(bone, position)
}

// SetOrientationGoal はボーンのグローバル目標回転を設定する。
// 本ソルバーは位置目標のみ作用する。
func (s *FrikSolver[T]) SetOrientationGoal(bone int, orientation mmath.Quaternion[T]) {
	s.goals.setOrientation(bone, orientation)
}

// SolveStep は1回分の前方一括伝播を行う。
func (s *FrikSolver[T]) SolveStep(tree skeleton.Topology, posture *skeleton.Posture[T]) StepResult[T] {
	checkStep(&s.goals, tree, posture)

	s.globals = resizeGlobals(s.globals, tree.Len())
	posture.WriteGlobals(tree, mmath.NewIsometry[T](), s.globals)

	s.forwardQueue.reset()

	// 誤差が許容内の目標は積まない。全体が許容内なら何もせず終える。
	var total T
	for _, goal := range s.goals.goals {
		if !goal.hasPosition {
			continue
		}
		effector := s.globals[goal.bone].Translation
		err := goal.position.Distance(effector)
		total += err
		if err < s.epsilon {
			continue
		}
		if parent, hasParent := tree.Parent(goal.bone); hasParent {
			s.forwardQueue.enqueue(parent, effectorPayload[T]{effector: effector, target: goal.position})
		}
	}
	if total < s.epsilon {
		return Solved(total)
	}

	// 葉からルートへ。各ボーンのローカル系でエフェクタを目標へ向ける
	// 回転を適用し、兄弟の枝はワールド姿勢が変わらないよう逆回転で戻す。
	for {
		bone, request, ok := s.forwardQueue.dequeue()
		if !ok {
			break
		}

		global := s.globals[bone]
		inverse := global.Inversed()
		effectorLocal := inverse.TransformPoint(request.effector)
		targetLocal := inverse.TransformPoint(request.target)

		rotation, valid := mmath.RotationBetween(effectorLocal, targetLocal)
		if !valid {
			continue
		}

		posture.AppendRotation(bone, rotation)

		childFix := rotation.Inversed()
		for child := range tree.Children(bone) {
			posture.SetOrientation(child, childFix.Muled(posture.Orientation(child)))
		}

		newEffectorLocal := rotation.MulVec3(effectorLocal)
		residualLocal := targetLocal.Subed(newEffectorLocal)

		if parent, hasParent := tree.Parent(bone); hasParent {
			s.forwardQueue.enqueue(parent, effectorPayload[T]{
				effector: global.Translation,
				target:   global.TransformPoint(residualLocal),
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
