// 指示: miu200521358
package ik

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

func TestMergeQueueDequeuesHighestBoneFirst(t *testing.T) {
	var queue mergeQueue[float64, translationPayload[float64]]
	queue.enqueue(1, translationPayload[float64]{delta: mmath.NewVec3[float64](1, 0, 0)})
	queue.enqueue(3, translationPayload[float64]{delta: mmath.NewVec3[float64](3, 0, 0)})
	queue.enqueue(2, translationPayload[float64]{delta: mmath.NewVec3[float64](2, 0, 0)})

	expected := []int{3, 2, 1}
	for _, want := range expected {
		bone, payload, ok := queue.dequeue()
		if !ok {
			t.Fatalf("dequeue exhausted early")
		}
		if bone != want {
			t.Fatalf("bone order mismatch: got=%d want=%d", bone, want)
		}
		if payload.delta.X != float64(want) {
			t.Fatalf("payload mismatch: got=%f want=%d", payload.delta.X, want)
		}
	}
	if _, _, ok := queue.dequeue(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestMergeQueueAveragesSameBoneContributions(t *testing.T) {
	var queue mergeQueue[float64, translationPayload[float64]]
	queue.enqueue(2, translationPayload[float64]{delta: mmath.NewVec3[float64](1, 0, 0)})
	queue.enqueue(2, translationPayload[float64]{delta: mmath.NewVec3[float64](0, 1, 0)})
	queue.enqueue(2, translationPayload[float64]{delta: mmath.NewVec3[float64](0, 0, 1)})

	bone, payload, ok := queue.dequeue()
	if !ok || bone != 2 {
		t.Fatalf("dequeue mismatch: bone=%d ok=%t", bone, ok)
	}
	third := 1.0 / 3.0
	if math.Abs(payload.delta.X-third) > 1e-12 ||
		math.Abs(payload.delta.Y-third) > 1e-12 ||
		math.Abs(payload.delta.Z-third) > 1e-12 {
		t.Fatalf("average mismatch: %+v", payload.delta)
	}
	if _, _, ok := queue.dequeue(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestMergeQueueAveragesOnlySameBone(t *testing.T) {
	var queue mergeQueue[float64, effectorPayload[float64]]
	queue.enqueue(0, effectorPayload[float64]{
		effector: mmath.NewVec3[float64](1, 0, 0),
		target:   mmath.NewVec3[float64](0, 1, 0),
	})
	queue.enqueue(0, effectorPayload[float64]{
		effector: mmath.NewVec3[float64](1, 0, 0),
		target:   mmath.NewVec3[float64](1, 1, 0),
	})
	queue.enqueue(1, effectorPayload[float64]{
		effector: mmath.NewVec3[float64](5, 5, 5),
		target:   mmath.NewVec3[float64](6, 6, 6),
	})

	bone, payload, ok := queue.dequeue()
	if !ok || bone != 1 {
		t.Fatalf("dequeue mismatch: bone=%d ok=%t", bone, ok)
	}
	if payload.effector.X != 5 {
		t.Fatalf("payload mismatch: %+v", payload.effector)
	}

	bone, payload, ok = queue.dequeue()
	if !ok || bone != 0 {
		t.Fatalf("dequeue mismatch: bone=%d ok=%t", bone, ok)
	}
	if math.Abs(payload.target.X-0.5) > 1e-12 || math.Abs(payload.target.Y-1) > 1e-12 {
		t.Fatalf("average mismatch: %+v", payload.target)
	}
}

func TestMergeQueueResetKeepsNothing(t *testing.T) {
	var queue mergeQueue[float64, tipPayload[float64]]
	queue.enqueue(4, tipPayload[float64]{})
	queue.reset()

	if _, _, ok := queue.dequeue(); ok {
		t.Fatalf("expected empty queue after reset")
	}
}
