// 指示: miu200521358
package skeleton

import (
	"fmt"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

// Posture はスケルトンのトポロジーから切り離した相対変換の集合を表す。
// 同一スケルトンに対してアニメーション・各IKソルバー結果・ブレンドなど
// 複数のポスチャーを並行して計算できる。
type Posture[T mmath.Float] struct {
	joints []mmath.Isometry[T]
}

// NewPosture はスケルトンの現在の相対変換を写したポスチャーを生成する。
func NewPosture[T mmath.Float, D any](s *Skeleton[T, D]) *Posture[T] {
	return s.MakePosture()
}

// Len は関節数を返す。
func (p *Posture[T]) Len() int {
	return len(p.joints)
}

// IsCompatible はトポロジーと併用可能か返す。判定は長さ一致のみで、
// 並べ替えによるトポロジー不一致は検出できない（既知の制約）。
// ボーン追加後の古いポスチャーはここで不一致となる。
func (p *Posture[T]) IsCompatible(topology Topology) bool {
	return len(p.joints) == topology.Len()
}

// Joint は親に対する相対変換を返す。
func (p *Posture[T]) Joint(bone int) mmath.Isometry[T] {
	p.checkBone(bone)
	return p.joints[bone]
}

// Position は親に対する相対位置を返す。
func (p *Posture[T]) Position(bone int) mmath.Vec3[T] {
	p.checkBone(bone)
	return p.joints[bone].Translation
}

// SetPosition は親に対する相対位置を設定する。
func (p *Posture[T]) SetPosition(bone int, position mmath.Vec3[T]) {
	p.checkBone(bone)
	p.joints[bone].Translation = position
}

// Orientation は親に対する相対回転を返す。
func (p *Posture[T]) Orientation(bone int) mmath.Quaternion[T] {
	p.checkBone(bone)
	return p.joints[bone].Rotation
}

// SetOrientation は親に対する相対回転を設定する。
func (p *Posture[T]) SetOrientation(bone int, orientation mmath.Quaternion[T]) {
	p.checkBone(bone)
	p.joints[bone].Rotation = orientation
}

// AppendRotation はボーン自身の原点回りに回転を加える。
// 親に対する位置は変わらず、子孫のグローバル位置が変わる。
func (p *Posture[T]) AppendRotation(bone int, rotation mmath.Quaternion[T]) {
	p.checkBone(bone)
	p.joints[bone] = p.joints[bone].AppendedRotation(rotation)
}

// PrependRotation はボーンの配置ごと回転を加える。
// 親に対する位置も回転し、子孫のグローバル位置が変わる。
func (p *Posture[T]) PrependRotation(bone int, rotation mmath.Quaternion[T]) {
	p.checkBone(bone)
	p.joints[bone] = p.joints[bone].PrependedRotation(rotation)
}

// AppendTranslation は親に対する相対位置へ並進を加える。
func (p *Posture[T]) AppendTranslation(bone int, translation mmath.Vec3[T]) {
	p.checkBone(bone)
	p.joints[bone] = p.joints[bone].AppendedTranslation(translation)
}

// WriteGlobals はこのポスチャーの相対変換とトポロジーから
// 各ボーンのグローバル変換をglobalsへ書き込む。
// トポロジーと長さが一致しない場合はpanicする。
func (p *Posture[T]) WriteGlobals(topology Topology, world mmath.Isometry[T], globals []mmath.Isometry[T]) {
	if len(p.joints) != topology.Len() {
		panic("skeleton: ポスチャーの長さが一致しません")
	}
	count := min(len(p.joints), len(globals))
	for bone := 0; bone < count; bone++ {
		parent, hasParent := topology.Parent(bone)
		if !hasParent {
			globals[bone] = world.Muled(p.joints[bone])
			continue
		}
		globals[bone] = globals[parent].Muled(p.joints[bone])
	}
}

// Copy はポスチャーの複製を返す。
func (p *Posture[T]) Copy() *Posture[T] {
	joints := make([]mmath.Isometry[T], len(p.joints))
	copy(joints, p.joints)
	return &Posture[T]{joints: joints}
}

// checkBone はボーンindexの範囲を検証する。
func (p *Posture[T]) checkBone(bone int) {
	if bone < 0 || bone >= len(p.joints) {
		panic(fmt.Sprintf("skeleton: ボーンindexが範囲外です: %d", bone))
	}
}
