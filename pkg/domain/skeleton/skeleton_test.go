// 指示: miu200521358
package skeleton

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_skelly/pkg/domain/mmath"
)

func almostEqualVec3(t *testing.T, got, want mmath.Vec3[float64], tolerance float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tolerance ||
		math.Abs(got.Y-want.Y) > tolerance ||
		math.Abs(got.Z-want.Z) > tolerance {
		t.Fatalf("vec mismatch: got=%+v want=%+v", got, want)
	}
}

// buildTestChain はZ軸方向へ1ずつ連なる3本のチェーンを構築する。
func buildTestChain(t *testing.T) *Skeleton[float64, struct{}] {
	t.Helper()
	tree := NewSkeleton[float64, struct{}]()
	root := tree.AddRoot(mmath.ZeroVec3[float64]())
	middle := tree.Attach(mmath.NewVec3[float64](0, 0, 1), root)
	tree.Attach(mmath.NewVec3[float64](0, 0, 1), middle)
	return tree
}

func TestWriteGlobalsAccumulatesChainTranslations(t *testing.T) {
	tree := buildTestChain(t)

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), globals)

	almostEqualVec3(t, globals[0].Translation, mmath.NewVec3[float64](0, 0, 0), 1e-12)
	almostEqualVec3(t, globals[1].Translation, mmath.NewVec3[float64](0, 0, 1), 1e-12)
	almostEqualVec3(t, globals[2].Translation, mmath.NewVec3[float64](0, 0, 2), 1e-12)
}

func TestWriteGlobalsMatchesManualCompositionOnOrthogonalChain(t *testing.T) {
	tree := NewSkeleton[float64, struct{}]()
	root := tree.AddRoot(mmath.NewVec3[float64](1, 0, 0))
	middle := tree.Attach(mmath.NewVec3[float64](0, 1, 0), root)
	tip := tree.Attach(mmath.NewVec3[float64](0, 0, 1), middle)

	tree.AppendRotation(root, mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](0, 0, 1), 0.5))
	tree.AppendRotation(middle, mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](1, 0, 0), -0.8))
	tree.AppendRotation(tip, mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](0, 1, 0), 1.3))

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), globals)

	// グローバル変換はルートから自身までのローカル変換の合成と一致する。
	want := tree.Isometry(root).Muled(tree.Isometry(middle)).Muled(tree.Isometry(tip))
	almostEqualVec3(t, globals[tip].Translation, want.Translation, 1e-12)
	probe := mmath.NewVec3[float64](0.3, -0.7, 0.2)
	almostEqualVec3(t, globals[tip].TransformPoint(probe), want.TransformPoint(probe), 1e-12)
}

func TestWriteGlobalsIsIdempotent(t *testing.T) {
	tree := buildTestChain(t)
	tree.AppendRotation(0, mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](0, 1, 0), 0.3))

	first := make([]mmath.Isometry[float64], tree.Len())
	second := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), first)
	tree.WriteGlobals(mmath.NewIsometry[float64](), second)

	for index := range first {
		if first[index] != second[index] {
			t.Fatalf("globals differ at bone %d", index)
		}
	}
}

func TestWriteGlobalsAppliesWorldTransform(t *testing.T) {
	tree := buildTestChain(t)
	world := mmath.NewIsometryFromTranslation(mmath.NewVec3[float64](5, 0, 0))

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(world, globals)

	almostEqualVec3(t, globals[2].Translation, mmath.NewVec3[float64](5, 0, 2), 1e-12)
}

func TestAppendRotationKeepsOwnGlobalPosition(t *testing.T) {
	tree := buildTestChain(t)
	rotation := mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](1, 0, 0), math.Pi/2)
	tree.AppendRotation(1, rotation)

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), globals)

	// 自身は動かず、子孫だけが回る。X軸+90度で(0,0,1)は(0,-1,0)へ移る。
	almostEqualVec3(t, globals[1].Translation, mmath.NewVec3[float64](0, 0, 1), 1e-12)
	almostEqualVec3(t, globals[2].Translation, mmath.NewVec3[float64](0, -1, 1), 1e-9)
}

func TestPrependRotationMovesOwnGlobalPosition(t *testing.T) {
	tree := buildTestChain(t)
	rotation := mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](1, 0, 0), math.Pi/2)
	tree.PrependRotation(1, rotation)

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), globals)

	// 配置ごと回るため自身の位置も親回りに移る。
	almostEqualVec3(t, globals[1].Translation, mmath.NewVec3[float64](0, -1, 0), 1e-9)
	almostEqualVec3(t, globals[2].Translation, mmath.NewVec3[float64](0, -2, 0), 1e-9)
}

func TestRootRotationPropagatesToDescendants(t *testing.T) {
	tree := buildTestChain(t)
	rotation := mmath.NewQuaternionFromAxisAngle(mmath.NewVec3[float64](1, 0, 0), math.Pi/2)
	tree.AppendRotation(0, rotation)

	globals := make([]mmath.Isometry[float64], tree.Len())
	tree.WriteGlobals(mmath.NewIsometry[float64](), globals)

	almostEqualVec3(t, globals[1].Translation, mmath.NewVec3[float64](0, -1, 0), 1e-9)
	almostEqualVec3(t, globals[2].Translation, mmath.NewVec3[float64](0, -2, 0), 1e-9)
}

func TestChildrenListsDirectChildrenAscending(t *testing.T) {
	tree := NewSkeleton[float64, struct{}]()
	root := tree.AddRoot(mmath.ZeroVec3[float64]())
	left := tree.Attach(mmath.NewVec3[float64](-1, 0, 0), root)
	right := tree.Attach(mmath.NewVec3[float64](1, 0, 0), root)
	tree.Attach(mmath.NewVec3[float64](-1, 0, 0), left)

	var children []int
	for child := range tree.Children(root) {
		children = append(children, child)
	}
	if len(children) != 2 || children[0] != left || children[1] != right {
		t.Fatalf("children mismatch: %v", children)
	}
}

func TestChainWalksAncestorsTowardRoot(t *testing.T) {
	tree := buildTestChain(t)

	var ancestors []int
	for ancestor := range tree.Chain(2) {
		ancestors = append(ancestors, ancestor)
	}
	if len(ancestors) != 2 || ancestors[0] != 1 || ancestors[1] != 0 {
		t.Fatalf("chain mismatch: %v", ancestors)
	}
}

func TestParentReturnsFalseForRoot(t *testing.T) {
	tree := buildTestChain(t)
	if _, hasParent := tree.Parent(0); hasParent {
		t.Fatalf("root must not have parent")
	}
	parent, hasParent := tree.Parent(2)
	if !hasParent || parent != 1 {
		t.Fatalf("parent mismatch: %d", parent)
	}
}

func TestAttachReturnsIndexGreaterThanParent(t *testing.T) {
	tree := NewSkeleton[float64, struct{}]()
	root := tree.AddRoot(mmath.ZeroVec3[float64]())
	previous := root
	for i := 0; i < 4; i++ {
		index := tree.Attach(mmath.NewVec3[float64](0, 0, 1), previous)
		if index <= previous {
			t.Fatalf("index must grow: %d <= %d", index, previous)
		}
		previous = index
	}
}

func TestAttachPanicsOnInvalidParent(t *testing.T) {
	tree := NewSkeleton[float64, struct{}]()
	tree.AddRoot(mmath.ZeroVec3[float64]())

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	tree.Attach(mmath.NewVec3[float64](0, 0, 1), 5)
}

func TestUserdataRoundTrip(t *testing.T) {
	tree := NewSkeleton[float64, string]()
	root := tree.AddRootWith(mmath.ZeroVec3[float64](), "root")
	child := tree.AttachWith(mmath.NewVec3[float64](0, 0, 1), root, "tip")

	if tree.Userdata(root) != "root" || tree.Userdata(child) != "tip" {
		t.Fatalf("userdata mismatch: %s %s", tree.Userdata(root), tree.Userdata(child))
	}
	tree.SetUserdata(child, "palm")
	if tree.Userdata(child) != "palm" {
		t.Fatalf("userdata mismatch: %s", tree.Userdata(child))
	}
}

func TestCopyIsIndependent(t *testing.T) {
	tree := buildTestChain(t)
	copied := tree.Copy()

	tree.SetPosition(2, mmath.NewVec3[float64](9, 9, 9))
	almostEqualVec3(t, copied.Position(2), mmath.NewVec3[float64](0, 0, 1), 1e-12)
}

func TestIsEmptyReflectsBoneCount(t *testing.T) {
	tree := NewSkeleton[float64, struct{}]()
	if !tree.IsEmpty() {
		t.Fatalf("expected empty")
	}
	tree.AddRoot(mmath.ZeroVec3[float64]())
	if tree.IsEmpty() || tree.Len() != 1 {
		t.Fatalf("length mismatch: %d", tree.Len())
	}
}
