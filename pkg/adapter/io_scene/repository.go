// 指示: miu200521358
package io_scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/Knetic/govaluate.v3"
)

// Repository はシーンファイルの読み込みを担う。
type Repository struct{}

// NewSceneRepository はシーンリポジトリを生成する。
func NewSceneRepository() *Repository {
	return &Repository{}
}

// CanLoad は対応形式のパスか返す。
func (r *Repository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load はシーンファイルを読み込み、検証済みのシーンを返す。
func (r *Repository) Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("シーンファイル読み込みに失敗しました: %w", err)
	}
	return Parse(data)
}

// Parse はTOMLバイト列からシーンを解析する。
func Parse(data []byte) (*Scene, error) {
	var scene Scene
	if _, err := toml.Decode(string(data), &scene); err != nil {
		return nil, fmt.Errorf("シーンTOMLの解析に失敗しました: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// expressionFunctions は目標式で使える関数群を表す。
var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"sin": unaryMathFunction(math.Sin),
	"cos": unaryMathFunction(math.Cos),
	"abs": unaryMathFunction(math.Abs),
	"min": binaryMathFunction(math.Min),
	"max": binaryMathFunction(math.Max),
}

// unaryMathFunction は1引数の数値関数を式関数へ包む。
func unaryMathFunction(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("引数は1個必要です: got=%d", len(args))
		}
		value, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("数値以外の引数です: %T", args[0])
		}
		return fn(value), nil
	}
}

// binaryMathFunction は2引数の数値関数を式関数へ包む。
func binaryMathFunction(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("引数は2個必要です: got=%d", len(args))
		}
		first, firstOK := args[0].(float64)
		second, secondOK := args[1].(float64)
		if !firstOK || !secondOK {
			return nil, fmt.Errorf("数値以外の引数です: %T, %T", args[0], args[1])
		}
		return fn(first, second), nil
	}
}

// compileExpression は座標式をコンパイルする。
func compileExpression(expression string) (*govaluate.EvaluableExpression, error) {
	return govaluate.NewEvaluableExpressionWithFunctions(expression, expressionFunctions)
}

// evaluateExpression は座標式を時刻tで評価する。
func evaluateExpression(expression *govaluate.EvaluableExpression, t float64) (float64, error) {
	result, err := expression.Evaluate(map[string]interface{}{timeVariable: t})
	if err != nil {
		return 0, fmt.Errorf("目標式の評価に失敗しました: %w", err)
	}
	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("目標式が数値を返しませんでした: %T", result)
	}
	return value, nil
}
