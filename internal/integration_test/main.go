// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/miu200521358/mu_skelly/pkg/adapter/io_scene"
	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/usecase/ik"
)

// scenarioEntry は1シナリオ分の検証入力を表す。
// SceneTomlはシーン読み込み経路ごと検証するためTOML文字列で持つ。
type scenarioEntry struct {
	Name         string
	SceneToml    string
	ExpectSolved bool
}

var targetScenarios = []scenarioEntry{
	{
		Name:         "two_bone_right_angle",
		ExpectSolved: true,
		SceneToml: `
[solver]
epsilon = 0.001

[[bones]]
name = "root"
position = [0.0, 0.0, 0.0]

[[bones]]
name = "tip"
parent = "root"
position = [0.0, 0.0, 1.0]

[[goals]]
bone = "tip"
y = "1.0"
`,
	},
	{
		Name:         "humanoid_left_palm",
		ExpectSolved: true,
		SceneToml: `
[solver]
epsilon = 0.001

[[bones]]
name = "waist"
position = [0.0, 0.0, 2.0]

[[bones]]
name = "left_shoulder"
parent = "waist"
position = [0.0, 0.0, 1.0]

[[bones]]
name = "left_arm"
parent = "left_shoulder"
position = [-1.0, 0.0, 0.0]

[[bones]]
name = "left_palm"
parent = "left_arm"
position = [-1.0, 0.0, 0.0]

[[goals]]
bone = "left_palm"
x = "-1.0"
y = "1.0"
z = "3.0"
`,
	},
	{
		Name:         "unreachable_goal",
		ExpectSolved: false,
		SceneToml: `
[solver]
epsilon = 0.001

[[bones]]
name = "root"
position = [0.0, 0.0, 0.0]

[[bones]]
name = "tip"
parent = "root"
position = [0.0, 0.0, 2.0]

[[goals]]
bone = "tip"
z = "5.0"
`,
	},
}

var solverNames = []string{"fabrik", "frik", "rotor"}

// batchConfig はバッチ検証の実行設定を表す。
type batchConfig struct {
	MaxSteps int
	FailFast bool
}

// scenarioResult は1シナリオ×1ソルバー分の検証結果を表す。
type scenarioResult struct {
	Scenario   string
	SolverName string
	Status     string
	Steps      int
	FinalError float64
	Duration   time.Duration
	Err        error
}

// main は全ソルバーの収束検証バッチを実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して検証バッチを実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}

	results := executeBatchVerification(config)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	maxSteps := flag.Int("max-steps", 200, "1シナリオあたりの最大ステップ数")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	if *maxSteps <= 0 {
		return batchConfig{}, errors.New("max-steps は正の値を指定してください")
	}
	return batchConfig{
		MaxSteps: *maxSteps,
		FailFast: *failFast,
	}, nil
}

// executeBatchVerification は全シナリオ×全ソルバーの検証を順次実行する。
func executeBatchVerification(config batchConfig) []scenarioResult {
	results := make([]scenarioResult, 0, len(targetScenarios)*len(solverNames))
	total := len(targetScenarios) * len(solverNames)
	index := 0
	for _, scenario := range targetScenarios {
		for _, solverName := range solverNames {
			index++
			fmt.Printf("[%d/%d] 検証開始: scenario=%s solver=%s\n", index, total, scenario.Name, solverName)
			result := verifyScenario(config, scenario, solverName)
			results = append(results, result)
			switch result.Status {
			case "succeeded":
				fmt.Printf("[%d/%d] 検証成功: scenario=%s solver=%s steps=%d error=%.6f elapsed=%s\n",
					index, total, scenario.Name, solverName, result.Steps, result.FinalError, result.Duration.Round(time.Microsecond))
			default:
				fmt.Printf("[%d/%d] 検証失敗: scenario=%s solver=%s reason=%v\n",
					index, total, scenario.Name, solverName, result.Err)
				if config.FailFast {
					return results
				}
			}
		}
	}
	return results
}

// verifyScenario は1シナリオを1ソルバーで検証する。
// 目標へ収束するか（または到達不能のまま留まるか）を期待値と突き合わせる。
func verifyScenario(config batchConfig, scenario scenarioEntry, solverName string) scenarioResult {
	result := scenarioResult{
		Scenario:   scenario.Name,
		SolverName: solverName,
		Status:     "failed",
	}

	scene, err := io_scene.Parse([]byte(scenario.SceneToml))
	if err != nil {
		result.Err = fmt.Errorf("シーン解析に失敗しました: %w", err)
		return result
	}
	scene, err = scene.Normalized()
	if err != nil {
		result.Err = fmt.Errorf("シーン正規化に失敗しました: %w", err)
		return result
	}
	tree, indexes, err := scene.Build()
	if err != nil {
		result.Err = fmt.Errorf("スケルトン構築に失敗しました: %w", err)
		return result
	}
	programs, err := scene.CompileGoals()
	if err != nil {
		result.Err = fmt.Errorf("目標式の解析に失敗しました: %w", err)
		return result
	}

	solver, err := newSolver(solverName, scene.Solver.Epsilon)
	if err != nil {
		result.Err = err
		return result
	}
	for _, program := range programs {
		position, err := program.PositionAt(0)
		if err != nil {
			result.Err = fmt.Errorf("目標式の評価に失敗しました: %w", err)
			return result
		}
		solver.SetPositionGoal(indexes[program.Bone], mmath.Vec3FromR3[float64](position))
	}

	startedAt := time.Now()
	posture := tree.MakePosture()
	var step ik.StepResult[float64]
	for result.Steps < config.MaxSteps {
		step = solver.SolveStep(tree, posture)
		result.Steps++
		if step.Status == ik.StatusSolved {
			break
		}
	}
	result.Duration = time.Since(startedAt)
	result.FinalError = step.Error

	solved := step.Status == ik.StatusSolved
	if solved != scenario.ExpectSolved {
		result.Err = fmt.Errorf("収束結果が期待と異なります: solved=%t expected=%t error=%.6f", solved, scenario.ExpectSolved, step.Error)
		return result
	}
	result.Status = "succeeded"
	return result
}

// newSolver はソルバー名から実装を生成する。
func newSolver(name string, epsilon float64) (ik.Solver[float64], error) {
	switch name {
	case "fabrik":
		return ik.NewFabrikSolver[float64](epsilon), nil
	case "frik":
		return ik.NewFrikSolver[float64](epsilon), nil
	case "rotor":
		return ik.NewRotorSolver[float64](epsilon), nil
	default:
		return nil, fmt.Errorf("未対応のソルバー名です: %s", name)
	}
}

// printBatchSummary は検証結果の集計を標準出力へ表示する。
func printBatchSummary(results []scenarioResult) {
	succeeded := 0
	failed := 0
	for _, result := range results {
		if result.Status == "succeeded" {
			succeeded++
		} else {
			failed++
		}
	}
	fmt.Printf("検証サマリ: total=%d succeeded=%d failed=%d\n", len(results), succeeded, failed)
}
