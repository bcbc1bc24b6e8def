// 指示: miu200521358
package ik

import (
	"fmt"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

// ikGoal は1本のボーンに対する目標を表す。位置と回転は独立に設定できる。
type ikGoal[T mmath.Float] struct {
	bone           int
	position       mmath.Vec3[T]
	hasPosition    bool
	orientation    mmath.Quaternion[T]
	hasOrientation bool
}

// goalSet はソルバーごとの疎な目標集合を表す。
// requiredLenは既存目標が有効であるために必要な最小ボーン数で、
// 毎ステップのツリー長検証に使う。
type goalSet[T mmath.Float] struct {
	goals       []ikGoal[T]
	requiredLen int
}

// setPosition は位置目標を設定する。既存目標があれば上書きする。
func (g *goalSet[T]) setPosition(bone int, position mmath.Vec3[T]) {
	goal := g.find(bone)
	goal.position = position
	goal.hasPosition = true
}

// setOrientation は回転目標を設定する。既存目標があれば上書きする。
func (g *goalSet[T]) setOrientation(bone int, orientation mmath.Quaternion[T]) {
	goal := g.find(bone)
	goal.orientation = orientation
	goal.hasOrientation = true
}

// find は指定ボーンの目標を返し、なければ追加する。
func (g *goalSet[T]) find(bone int) *ikGoal[T] {
	if bone < 0 {
		panic(fmt.Sprintf("ik: ボーンindexが範囲外です: %d", bone))
	}
	for index := range g.goals {
		if g.goals[index].bone == bone {
			return &g.goals[index]
		}
	}
	if bone+1 > g.requiredLen {
		g.requiredLen = bone + 1
	}
	g.goals = append(g.goals, ikGoal[T]{bone: bone})
	return &g.goals[len(g.goals)-1]
}
