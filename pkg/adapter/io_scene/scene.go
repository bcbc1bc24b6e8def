// 指示: miu200521358
// Package io_scene はIKデモシーンのTOML入出力を提供する。
// シーンはボーン定義・目標定義・ソルバーパラメータからなり、
// 目標座標は時刻tを変数とする式で記述できる。
package io_scene

import (
	"fmt"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
	"github.com/miu200521358/mu_skelly/pkg/domain/skeleton"
	"github.com/tiendc/go-deepcopy"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/Knetic/govaluate.v3"
)

const (
	// defaultEpsilon はシーン未指定時の許容誤差を表す。
	defaultEpsilon = 1e-3
	// defaultSteps はシーン未指定時の最大ステップ数を表す。
	defaultSteps = 120
	// defaultExpression は座標式未指定時の式を表す。
	defaultExpression = "0.0"
	// timeVariable は座標式で使う時刻変数名を表す。
	timeVariable = "t"
)

// SolverConfig はソルバーパラメータを表す。
type SolverConfig struct {
	Epsilon float64 `toml:"epsilon"`
	Steps   int     `toml:"steps"`
}

// SceneBone はシーン上のボーン定義を表す。
// Parentが空文字列のボーンはルートとなり、Positionはワールド位置を表す。
// それ以外のPositionは親からの相対オフセットを表す。
type SceneBone struct {
	Name     string     `toml:"name"`
	Parent   string     `toml:"parent"`
	Position [3]float64 `toml:"position"`
	Color    string     `toml:"color"`
}

// SceneGoal はボーンへの位置目標定義を表す。各座標は時刻tの式。
type SceneGoal struct {
	Bone string `toml:"bone"`
	X    string `toml:"x"`
	Y    string `toml:"y"`
	Z    string `toml:"z"`
}

// Scene はIKデモシーン全体を表す。
type Scene struct {
	Solver SolverConfig `toml:"solver"`
	Bones  []SceneBone  `toml:"bones"`
	Goals  []SceneGoal  `toml:"goals"`
}

// Validate はシーン定義の整合性を検証する。
func (s *Scene) Validate() error {
	if len(s.Bones) == 0 {
		return fmt.Errorf("シーンにボーンが定義されていません")
	}
	if s.Solver.Epsilon < 0 {
		return fmt.Errorf("許容誤差が負です: %f", s.Solver.Epsilon)
	}

	names := make(map[string]int, len(s.Bones))
	for index, bone := range s.Bones {
		if bone.Name == "" {
			return fmt.Errorf("ボーン名が空です: index=%d", index)
		}
		if _, exists := names[bone.Name]; exists {
			return fmt.Errorf("ボーン名が重複しています: %s", bone.Name)
		}
		if bone.Parent != "" {
			if _, exists := names[bone.Parent]; !exists {
				return fmt.Errorf("親ボーンが未定義または後方定義です: %s -> %s", bone.Name, bone.Parent)
			}
		}
		names[bone.Name] = index
	}

	for _, goal := range s.Goals {
		if _, exists := names[goal.Bone]; !exists {
			return fmt.Errorf("目標ボーンが未定義です: %s", goal.Bone)
		}
	}
	return nil
}

// Normalized は既定値を補完した複製を返す。元のシーンは変更しない。
func (s *Scene) Normalized() (*Scene, error) {
	copied := &Scene{}
	if err := deepcopy.Copy(copied, s); err != nil {
		return nil, fmt.Errorf("シーン複製に失敗しました: %w", err)
	}
	if copied.Solver.Epsilon == 0 {
		copied.Solver.Epsilon = defaultEpsilon
	}
	if copied.Solver.Steps == 0 {
		copied.Solver.Steps = defaultSteps
	}
	for index := range copied.Goals {
		if copied.Goals[index].X == "" {
			copied.Goals[index].X = defaultExpression
		}
		if copied.Goals[index].Y == "" {
			copied.Goals[index].Y = defaultExpression
		}
		if copied.Goals[index].Z == "" {
			copied.Goals[index].Z = defaultExpression
		}
	}
	return copied, nil
}

// Build はシーン定義からスケルトンとボーン名indexの対応を構築する。
// ボーン付帯データには描画用の色名を格納する。
func (s *Scene) Build() (*skeleton.Skeleton[float64, string], map[string]int, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	tree := skeleton.NewSkeleton[float64, string]()
	indexes := make(map[string]int, len(s.Bones))
	for _, bone := range s.Bones {
		position := mmath.Vec3FromR3[float64](r3.Vec{X: bone.Position[0], Y: bone.Position[1], Z: bone.Position[2]})
		if bone.Parent == "" {
			indexes[bone.Name] = tree.AddRootWith(position, bone.Color)
			continue
		}
		indexes[bone.Name] = tree.AttachWith(position, indexes[bone.Parent], bone.Color)
	}
	return tree, indexes, nil
}

// GoalProgram はコンパイル済みの目標式を表す。
type GoalProgram struct {
	Bone string

	x, y, z *govaluate.EvaluableExpression
}

// CompileGoals は全目標の座標式をコンパイルする。
func (s *Scene) CompileGoals() ([]GoalProgram, error) {
	programs := make([]GoalProgram, 0, len(s.Goals))
	for _, goal := range s.Goals {
		program := GoalProgram{Bone: goal.Bone}
		var err error
		if program.x, err = compileExpression(goal.X); err != nil {
			return nil, fmt.Errorf("目標式Xの解析に失敗しました(%s): %w", goal.Bone, err)
		}
		if program.y, err = compileExpression(goal.Y); err != nil {
			return nil, fmt.Errorf("目標式Yの解析に失敗しました(%s): %w", goal.Bone, err)
		}
		if program.z, err = compileExpression(goal.Z); err != nil {
			return nil, fmt.Errorf("目標式Zの解析に失敗しました(%s): %w", goal.Bone, err)
		}
		programs = append(programs, program)
	}
	return programs, nil
}

// PositionAt は時刻tにおける目標位置を評価する。
func (g *GoalProgram) PositionAt(t float64) (r3.Vec, error) {
	x, err := evaluateExpression(g.x, t)
	if err != nil {
		return r3.Vec{}, err
	}
	y, err := evaluateExpression(g.y, t)
	if err != nil {
		return r3.Vec{}, err
	}
	z, err := evaluateExpression(g.z, t)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: x, Y: y, Z: z}, nil
}
