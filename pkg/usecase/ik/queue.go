// 指示: miu200521358
package ik

import (
	"sort"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

// payload はマージキューに積む寄与量の契約を表す。
// dequeueが同一ボーン宛の寄与を相加平均へ畳み込むために使う。
type payload[T mmath.Float, P any] interface {
	added(P) P
	scaled(T) P
}

// queueItem はボーン1本宛の寄与を表す。
type queueItem[T mmath.Float, P payload[T, P]] struct {
	bone  int
	value P
}

// mergeQueue は葉からルートへの走査で使うマージキューを表す。
// ボーンindex昇順に保持し、dequeueは最大indexから取り出しつつ
// 同一ボーン宛の寄与を平均して1件へまとめる。親が子より小さいindexを
// 持つ不変条件により、処理は常に子孫からルートの方向へ単調に進む。
// ステップ間で再利用され、resetは確保済み領域を保持したまま空にする。
type mergeQueue[T mmath.Float, P payload[T, P]] struct {
	items []queueItem[T, P]
}

// reset はキューを空にする。確保済み領域は保持する。
func (q *mergeQueue[T, P]) reset() {
	q.items = q.items[:0]
}

// enqueue は寄与を二分探索位置へ挿入する。
func (q *mergeQueue[T, P]) enqueue(bone int, value P) {
	index := sort.Search(len(q.items), func(i int) bool {
		return q.items[i].bone > bone
	})
	q.items = append(q.items, queueItem[T, P]{})
	copy(q.items[index+1:], q.items[index:])
	q.items[index] = queueItem[T, P]{bone: bone, value: value}
}

// dequeue は最大indexのボーン宛の寄与を取り出す。
// 同一ボーン宛が複数あれば相加平均へまとめ、各ボーンは走査ごとに
// ちょうど1回だけ処理される。
func (q *mergeQueue[T, P]) dequeue() (int, P, bool) {
	if len(q.items) == 0 {
		var zero P
		return 0, zero, false
	}

	last := len(q.items) - 1
	bone := q.items[last].bone
	sum := q.items[last].value
	count := T(1)
	for last > 0 && q.items[last-1].bone == bone {
		last--
		sum = sum.added(q.items[last].value)
		count++
	}
	q.items = q.items[:last]

	return bone, sum.scaled(1 / count), true
}

// translationPayload はFABRIKの並進要求を表す。
type translationPayload[T mmath.Float] struct {
	delta mmath.Vec3[T]
}

func (p translationPayload[T]) added(other translationPayload[T]) translationPayload[T] {
	return translationPayload[T]{delta: p.delta.Added(other.delta)}
}

func (p translationPayload[T]) scaled(factor T) translationPayload[T] {
	return translationPayload[T]{delta: p.delta.MuledScalar(factor)}
}

// effectorPayload はFRIKのエフェクタ位置と目標位置の組を表す。
type effectorPayload[T mmath.Float] struct {
	effector mmath.Vec3[T]
	target   mmath.Vec3[T]
}

func (p effectorPayload[T]) added(other effectorPayload[T]) effectorPayload[T] {
	return effectorPayload[T]{
		effector: p.effector.Added(other.effector),
		target:   p.target.Added(other.target),
	}
}

func (p effectorPayload[T]) scaled(factor T) effectorPayload[T] {
	return effectorPayload[T]{
		effector: p.effector.MuledScalar(factor),
		target:   p.target.MuledScalar(factor),
	}
}

// tipPayload はRotorの先端位置と目標位置の組を表す。
type tipPayload[T mmath.Float] struct {
	tip  mmath.Vec3[T]
	goal mmath.Vec3[T]
}

func (p tipPayload[T]) added(other tipPayload[T]) tipPayload[T] {
	return tipPayload[T]{
		tip:  p.tip.Added(other.tip),
		goal: p.goal.Added(other.goal),
	}
}

func (p tipPayload[T]) scaled(factor T) tipPayload[T] {
	return tipPayload[T]{
		tip:  p.tip.MuledScalar(factor),
		goal: p.goal.MuledScalar(factor),
	}
}
