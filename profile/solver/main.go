// Profiling:
// go build ./profile/solver
// go tool pprof -http=":8000" -nodefraction=0.001 ./solver cpu.pprof

// 指示: miu200521358
package main

import (
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
	"github.com/miu200521358/mu_skelly/pkg/usecase/ik"
	"github.com/pkg/profile"
)

func main() {
	rounds := 50
	iters := 2000
	bones := 32
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, bones)
	p.Stop()
}

func run(rounds, iters, bones int) {
	for range rounds {
		tree := buildChain(bones)
		solvers := []ik.Solver[float64]{
			ik.NewFabrikSolver[float64](1e-4),
			ik.NewFrikSolver[float64](1e-4),
			ik.NewRotorSolver[float64](1e-4),
		}
		goal := mmath.NewVec3(float64(bones)*0.5, float64(bones)*0.25, 0)
		for _, solver := range solvers {
			solver.SetPositionGoal(bones-1, goal)
			posture := tree.MakePosture()
			for range iters {
				solver.SolveStep(tree, posture)
			}
		}
	}
}

// buildChain はZ軸方向へ等間隔に連なるボーン列を構築する。
func buildChain(bones int) *skeleton.Skeleton[float64, struct{}] {
	tree := skeleton.NewSkeleton[float64, struct{}]()
	parent := tree.AddRoot(mmath.ZeroVec3[float64]())
	for i := 1; i < bones; i++ {
		parent = tree.Attach(mmath.NewVec3[float64](0, 0, 1), parent)
	}
	return tree
}
