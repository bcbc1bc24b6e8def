// 指示: miu200521358
// Package skeleton はボーン階層とポスチャーを提供する。
// ボーンは親が必ず先行する追記専用配列で保持し、FKは一回の前方走査で完了する。
package skeleton

import (
	"fmt"
	"iter"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

const noParentIndex = -1

// Topology はソルバーやポスチャーが必要とするボーン階層の読み取り契約を表す。
type Topology interface {
	// Len はボーン数を返す。
	Len() int
	// Parent は親ボーンindexを返す。ルートの場合は第2戻り値がfalseとなる。
	Parent(bone int) (int, bool)
	// Children は直接の子ボーンindexを昇順で列挙する。
	Children(bone int) iter.Seq[int]
}

// bone は1本のボーンを表す。parentは自身より小さいindexを指す。
type bone[T mmath.Float, D any] struct {
	isometry mmath.Isometry[T]
	parent   int
	userdata D
}

// Skeleton はボーン階層を表す。Dは描画側が使う任意のボーン付帯データ型。
type Skeleton[T mmath.Float, D any] struct {
	bones []bone[T, D]
}

// NewSkeleton は空のスケルトンを生成する。
func NewSkeleton[T mmath.Float, D any]() *Skeleton[T, D] {
	return &Skeleton[T, D]{}
}

// AddRoot は指定位置にルートボーンを追加し、そのindexを返す。
func (s *Skeleton[T, D]) AddRoot(position mmath.Vec3[T]) int {
	var zero D
	return s.AddRootWith(position, zero)
}

// AddRootWith は付帯データ付きでルートボーンを追加し、そのindexを返す。
func (s *Skeleton[T, D]) AddRootWith(position mmath.Vec3[T], userdata D) int {
	s.bones = append(s.bones, bone[T, D]{
		isometry: mmath.NewIsometryFromTranslation(position),
		parent:   noParentIndex,
		userdata: userdata,
	})
	return len(s.bones) - 1
}

// Attach は親ボーンからの相対位置に新しいボーンを追加し、そのindexを返す。
// 親indexが範囲外の場合はpanicする。
func (s *Skeleton[T, D]) Attach(relative mmath.Vec3[T], parent int) int {
	var zero D
	return s.AttachWith(relative, parent, zero)
}

// AttachWith は付帯データ付きでボーンを追加し、そのindexを返す。
// 親indexが範囲外の場合はpanicする。
func (s *Skeleton[T, D]) AttachWith(relative mmath.Vec3[T], parent int, userdata D) int {
	if parent < 0 || parent >= len(s.bones) {
		panic(fmt.Sprintf("skeleton: 親ボーンindexが範囲外です: %d", parent))
	}
	s.bones = append(s.bones, bone[T, D]{
		isometry: mmath.NewIsometryFromTranslation(relative),
		parent:   parent,
		userdata: userdata,
	})
	return len(s.bones) - 1
}

// Len はボーン数を返す。
func (s *Skeleton[T, D]) Len() int {
	return len(s.bones)
}

// IsEmpty はボーンが存在しない場合にtrueを返す。
func (s *Skeleton[T, D]) IsEmpty() bool {
	return len(s.bones) == 0
}

// Parent は親ボーンindexを返す。ルートの場合は第2戻り値がfalseとなる。
func (s *Skeleton[T, D]) Parent(index int) (int, bool) {
	s.checkBone(index)
	parent := s.bones[index].parent
	if parent == noParentIndex {
		return 0, false
	}
	return parent, true
}

// Children は直接の子ボーンindexを昇順で列挙する。
// 親より後ろの区間を線形走査するため、ボーン数nに対してO(n)かかる。
// 走査は再開可能で、ホットループでの多用は想定しない。
func (s *Skeleton[T, D]) Children(parent int) iter.Seq[int] {
	s.checkBone(parent)
	return func(yield func(int) bool) {
		for index := parent + 1; index < len(s.bones); index++ {
			if s.bones[index].parent != parent {
				continue
			}
			if !yield(index) {
				return
			}
		}
	}
}

// Chain は指定ボーンからルートへ向かう祖先indexを順に列挙する。
func (s *Skeleton[T, D]) Chain(index int) iter.Seq[int] {
	s.checkBone(index)
	return func(yield func(int) bool) {
		current := index
		for {
			parent := s.bones[current].parent
			if parent == noParentIndex {
				return
			}
			if !yield(parent) {
				return
			}
			current = parent
		}
	}
}

// Position は親に対する相対位置を返す。
func (s *Skeleton[T, D]) Position(index int) mmath.Vec3[T] {
	s.checkBone(index)
	return s.bones[index].isometry.Translation
}

// SetPosition は親に対する相対位置を設定する。
func (s *Skeleton[T, D]) SetPosition(index int, position mmath.Vec3[T]) {
	s.checkBone(index)
	s.bones[index].isometry.Translation = position
}

// Orientation は親に対する相対回転を返す。
func (s *Skeleton[T, D]) Orientation(index int) mmath.Quaternion[T] {
	s.checkBone(index)
	return s.bones[index].isometry.Rotation
}

// SetOrientation は親に対する相対回転を設定する。
func (s *Skeleton[T, D]) SetOrientation(index int, orientation mmath.Quaternion[T]) {
	s.checkBone(index)
	s.bones[index].isometry.Rotation = orientation
}

// Isometry は親に対する相対変換を返す。
func (s *Skeleton[T, D]) Isometry(index int) mmath.Isometry[T] {
	s.checkBone(index)
	return s.bones[index].isometry
}

// AppendRotation はボーン自身の原点回りに回転を加える。
// 親に対する位置は変わらず、子孫のグローバル位置が変わる。
func (s *Skeleton[T, D]) AppendRotation(index int, rotation mmath.Quaternion[T]) {
	s.checkBone(index)
	s.bones[index].isometry = s.bones[index].isometry.AppendedRotation(rotation)
}

// PrependRotation はボーンの配置ごと回転を加える。
// 親に対する位置も回転し、子孫のグローバル位置が変わる。
func (s *Skeleton[T, D]) PrependRotation(index int, rotation mmath.Quaternion[T]) {
	s.checkBone(index)
	s.bones[index].isometry = s.bones[index].isometry.PrependedRotation(rotation)
}

// AppendTranslation は親に対する相対位置へ並進を加える。
func (s *Skeleton[T, D]) AppendTranslation(index int, translation mmath.Vec3[T]) {
	s.checkBone(index)
	s.bones[index].isometry = s.bones[index].isometry.AppendedTranslation(translation)
}

// Userdata はボーン付帯データを返す。
func (s *Skeleton[T, D]) Userdata(index int) D {
	s.checkBone(index)
	return s.bones[index].userdata
}

// SetUserdata はボーン付帯データを設定する。
func (s *Skeleton[T, D]) SetUserdata(index int, userdata D) {
	s.checkBone(index)
	s.bones[index].userdata = userdata
}

// WriteGlobals は各ボーンのグローバル変換をglobalsへ書き込む。
// 親が子より先行する不変条件により一回の前方走査で完了する。
// globalsが短い場合は先頭から埋められる分のみ書き込む。
func (s *Skeleton[T, D]) WriteGlobals(world mmath.Isometry[T], globals []mmath.Isometry[T]) {
	count := min(len(s.bones), len(globals))
	for index := 0; index < count; index++ {
		b := &s.bones[index]
		if b.parent == noParentIndex {
			globals[index] = world.Muled(b.isometry)
			continue
		}
		globals[index] = globals[b.parent].Muled(b.isometry)
	}
}

// MakePosture は現在の相対変換を写したポスチャーを生成する。
func (s *Skeleton[T, D]) MakePosture() *Posture[T] {
	joints := make([]mmath.Isometry[T], len(s.bones))
	for index := range s.bones {
		joints[index] = s.bones[index].isometry
	}
	return &Posture[T]{joints: joints}
}

// AssumePosture はポスチャーの相対変換をスケルトンへ反映する。
// 長さが一致しない場合はpanicする。
func (s *Skeleton[T, D]) AssumePosture(posture *Posture[T]) {
	if len(posture.joints) != len(s.bones) {
		panic("skeleton: ポスチャーの長さが一致しません")
	}
	for index := range s.bones {
		s.bones[index].isometry = posture.joints[index]
	}
}

// Copy はスケルトンの複製を返す。付帯データは値コピーされる。
func (s *Skeleton[T, D]) Copy() *Skeleton[T, D] {
	bones := make([]bone[T, D], len(s.bones))
	copy(bones, s.bones)
	return &Skeleton[T, D]{bones: bones}
}

// checkBone はボーンindexの範囲を検証する。
func (s *Skeleton[T, D]) checkBone(index int) {
	if index < 0 || index >= len(s.bones) {
		panic(fmt.Sprintf("skeleton: ボーンindexが範囲外です: %d", index))
	}
}
