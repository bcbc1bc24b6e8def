// 指示: miu200521358
package ik

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

func TestFabrikSolverSolvesRightAngleGoalInOneStep(t *testing.T) {
	tree := buildSingleBoneChain(t)
	posture := tree.MakePosture()
	goal := mmath.NewVec3[float64](0, 1, 0)

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(1, goal)

	result := solver.SolveStep(tree, posture)
	if result.Status != StatusSolved {
		t.Fatalf("status mismatch: %s error=%f", result.Status, result.Error)
	}
	assertGoalReached(t, tree, posture, 1, goal)
}

func TestFabrikSolverSolvesPlanarTwoBoneGoal(t *testing.T) {
	tree := buildTwoBoneChain(t)
	posture := tree.MakePosture()
	goal := mmath.NewVec3[float64](1, 0, 1)

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(2, goal)

	var solved bool
	for step := 0; step < 10; step++ {
		if solver.SolveStep(tree, posture).Status == StatusSolved {
			solved = true
			break
		}
	}
	if !solved {
		t.Fatalf("goal not solved")
	}
	assertGoalReached(t, tree, posture, 2, goal)
}

func TestFabrikSolverKeepsConstantErrorOnUnreachableGoal(t *testing.T) {
	tree := buildTwoBoneChain(t)
	posture := tree.MakePosture()
	goal := mmath.NewVec3[float64](0, 0, 5)

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(2, goal)

	// チェーン全長2に対して距離5。誤差3から一切縮まらない。
	for step := 0; step < 5; step++ {
		result := solver.SolveStep(tree, posture)
		if result.Status == StatusSolved {
			t.Fatalf("unreachable goal reported solved at step %d", step)
		}
		if math.Abs(result.Error-3) > 1e-9 {
			t.Fatalf("error mismatch at step %d: %f", step, result.Error)
		}
	}
}

func TestFabrikSolverConvergesOnInteriorGoal(t *testing.T) {
	tree := buildTwoBoneChain(t)
	posture := tree.MakePosture()
	// 可到達域の内側（全長未満の距離）の目標。肘の屈曲が必要となる。
	goal := mmath.NewVec3[float64](0.5, 1.2, 0.3)

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(2, goal)

	var solved bool
	for step := 0; step < 20; step++ {
		if solver.SolveStep(tree, posture).Status == StatusSolved {
			solved = true
			break
		}
	}
	if !solved {
		t.Fatalf("interior goal not solved")
	}
	assertGoalReached(t, tree, posture, 2, goal)
}

func TestFabrikSolverOvershootGoalResolvesViaHalfTurn(t *testing.T) {
	tree := buildSingleBoneChain(t)
	posture := tree.MakePosture()
	// 先端の真後ろ方向の目標。反平行の並進要求となるが停滞しない。
	goal := mmath.NewVec3[float64](0, 0, -1)

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(1, goal)

	result := solver.SolveStep(tree, posture)
	if result.Status != StatusSolved {
		t.Fatalf("status mismatch: %s error=%f", result.Status, result.Error)
	}
	assertGoalReached(t, tree, posture, 1, goal)
}

func TestFabrikSolverGoalUpdateRedirectsPosture(t *testing.T) {
	tree := buildSingleBoneChain(t)
	posture := tree.MakePosture()

	solver := NewFabrikSolver[float64](solverTestEpsilon)
	solver.SetPositionGoal(1, mmath.NewVec3[float64](0, 1, 0))
	if solver.SolveStep(tree, posture).Status != StatusSolved {
		t.Fatalf("first goal not solved")
	}

	goal := mmath.NewVec3[float64](1, 0, 0)
	solver.SetPositionGoal(1, goal)
	var solved bool
	for step := 0; step < 10; step++ {
		if solver.SolveStep(tree, posture).Status == StatusSolved {
			solved = true
			break
		}
	}
	if !solved {
		t.Fatalf("second goal not solved")
	}
	assertGoalReached(t, tree, posture, 1, goal)
}
