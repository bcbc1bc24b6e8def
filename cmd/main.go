// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/miu200521358/mu_skelly/pkg/adapter/io_scene"
	"github.com/miu200521358/mu_skelly/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
	"github.com/miu200521358/mu_skelly/pkg/usecase/ik"
)

const (
	solverNameFabrik = "fabrik"
	solverNameFrik   = "frik"
	solverNameRotor  = "rotor"
	solverNameAll    = "all"

	defaultFrameDelta = 1.0 / 60.0
)

// options はCLI引数を保持する。
type options struct {
	scenePath  string
	solverName string
	steps      int
	frameDelta float64
	verbose    bool
}

// main はシーンに対するIK解決デモを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	scene, err := resolveScene(opts.scenePath, out)
	if err != nil {
		return err
	}
	scene, err = scene.Normalized()
	if err != nil {
		return err
	}

	tree, indexes, err := scene.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageBuildFailed, err)
	}
	programs, err := scene.CompileGoals()
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageGoalEvalFailed, err)
	}

	steps := scene.Solver.Steps
	if opts.steps > 0 {
		steps = opts.steps
	}

	names, err := resolveSolverNames(opts.solverName)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := solveScene(out, name, tree, indexes, programs, scene.Solver.Epsilon, steps, opts.frameDelta, opts.verbose); err != nil {
			return err
		}
	}
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_skelly", flag.ContinueOnError)
	fs.SetOutput(errOut)

	opts := options{}
	fs.StringVar(&opts.scenePath, "scene", "", "シーンTOMLファイルのパス（省略時は組み込みシーン）")
	fs.StringVar(&opts.solverName, "solver", solverNameAll, "ソルバー名 (fabrik|frik|rotor|all)")
	fs.IntVar(&opts.steps, "steps", 0, "最大ステップ数（シーン設定を上書き）")
	fs.Float64Var(&opts.frameDelta, "dt", defaultFrameDelta, "1ステップあたりの経過秒")
	fs.BoolVar(&opts.verbose, "verbose", false, "ステップごとの状態と誤差を表示する")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if _, err := resolveSolverNames(opts.solverName); err != nil {
		return options{}, err
	}
	return opts, nil
}

// resolveSolverNames はソルバー指定を実行順の名前一覧へ展開する。
func resolveSolverNames(name string) ([]string, error) {
	switch name {
	case solverNameAll:
		return []string{solverNameFabrik, solverNameFrik, solverNameRotor}, nil
	case solverNameFabrik, solverNameFrik, solverNameRotor:
		return []string{name}, nil
	default:
		return nil, fmt.Errorf("%s: %s", messages.MessageUnknownSolver, name)
	}
}

// resolveScene はシーンを読み込む。パス未指定時は組み込みシーンを返す。
func resolveScene(path string, out io.Writer) (*io_scene.Scene, error) {
	if path == "" {
		fmt.Fprintf(out, messages.LogBuiltinScene)
		return builtinScene(), nil
	}

	repository := io_scene.NewSceneRepository()
	if !repository.CanLoad(path) {
		return nil, fmt.Errorf("%s: %s", messages.MessageSceneRequired, path)
	}
	scene, err := repository.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
	}
	fmt.Fprintf(out, messages.LogLoadSuccess, path)
	return scene, nil
}

// newSolver はソルバー名から実装を生成する。
func newSolver(name string, epsilon float64) (ik.Solver[float64], error) {
	switch name {
	case solverNameFabrik:
		return ik.NewFabrikSolver[float64](epsilon), nil
	case solverNameFrik:
		return ik.NewFrikSolver[float64](epsilon), nil
	case solverNameRotor:
		return ik.NewRotorSolver[float64](epsilon), nil
	default:
		return nil, fmt.Errorf("%s: %s", messages.MessageUnknownSolver, name)
	}
}

// solveScene は1つのソルバーでシーンを指定ステップ数だけ解決する。
func solveScene(
	out io.Writer,
	name string,
	tree *skeleton.Skeleton[float64, string],
	indexes map[string]int,
	programs []io_scene.GoalProgram,
	epsilon float64,
	steps int,
	frameDelta float64,
	verbose bool,
) error {
	solver, err := newSolver(name, epsilon)
	if err != nil {
		return err
	}

	posture := tree.MakePosture()
	fmt.Fprintf(out, messages.LogSolveStart, name, tree.Len(), len(programs))

	var result ik.StepResult[float64]
	performed := 0
	for step := 0; step < steps; step++ {
		t := frameDelta * float64(step)
		for index := range programs {
			position, err := programs[index].PositionAt(t)
			if err != nil {
				return fmt.Errorf("%s: %w", messages.MessageGoalEvalFailed, err)
			}
			solver.SetPositionGoal(indexes[programs[index].Bone], mmath.Vec3FromR3[float64](position))
		}
		result = solver.SolveStep(tree, posture)
		performed++
		if verbose {
			fmt.Fprintf(out, messages.LogSolveProgress, name, step, result.Status, result.Error)
		}
	}

	fmt.Fprintf(out, messages.LogSolveSummary, name, result.Status, result.Error, performed)
	return nil
}

// builtinScene はシーンファイル省略時のデモシーンを返す。
// 脚1本と左右の腕を持つ小さな人型で、両手のひらへ動く目標を与える。
func builtinScene() *io_scene.Scene {
	return &io_scene.Scene{
		Solver: io_scene.SolverConfig{Epsilon: 1e-3, Steps: 240},
		Bones: []io_scene.SceneBone{
			{Name: "foot", Position: [3]float64{0, 0, 0}, Color: "gold"},
			{Name: "leg", Parent: "foot", Position: [3]float64{0, 0, 1}, Color: "maroon"},
			{Name: "waist", Parent: "leg", Position: [3]float64{0, 0, 1}, Color: "pink"},
			{Name: "left_shoulder", Parent: "waist", Position: [3]float64{0, 0, 1}, Color: "orange"},
			{Name: "left_arm", Parent: "left_shoulder", Position: [3]float64{-1, 0, 0}, Color: "magenta"},
			{Name: "left_palm", Parent: "left_arm", Position: [3]float64{-1, 0, 0}, Color: "blue"},
			{Name: "right_shoulder", Parent: "waist", Position: [3]float64{0, 0, 1}, Color: "lime"},
			{Name: "right_arm", Parent: "right_shoulder", Position: [3]float64{1, 0, 0}, Color: "yellow"},
			{Name: "right_palm", Parent: "right_arm", Position: [3]float64{1, 0, 0}, Color: "white"},
		},
		Goals: []io_scene.SceneGoal{
			{Bone: "left_palm", X: "-1.0 + 0.5 * sin(t)", Y: "0.5", Z: "2.0"},
			{Bone: "right_palm", X: "1.0 + 0.5 * cos(t)", Y: "0.5", Z: "2.0"},
		},
	}
}
