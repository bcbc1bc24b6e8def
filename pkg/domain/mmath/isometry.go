// 指示: miu200521358
package mmath

// Isometry は回転と並進からなる剛体変換を表す。
type Isometry[T Float] struct {
	Rotation    Quaternion[T]
	Translation Vec3[T]
}

// NewIsometry は単位変換を返す。
func NewIsometry[T Float]() Isometry[T] {
	return Isometry[T]{Rotation: NewQuaternion[T]()}
}

// NewIsometryFromTranslation は並進のみの変換を返す。
func NewIsometryFromTranslation[T Float](translation Vec3[T]) Isometry[T] {
	return Isometry[T]{Rotation: NewQuaternion[T](), Translation: translation}
}

// Muled は変換の合成 a∘b を返す。bを先に適用する。
func (a Isometry[T]) Muled(b Isometry[T]) Isometry[T] {
	return Isometry[T]{
		Rotation:    a.Rotation.Muled(b.Rotation),
		Translation: a.Translation.Added(a.Rotation.MulVec3(b.Translation)),
	}
}

// TransformPoint は点を変換する。
func (a Isometry[T]) TransformPoint(point Vec3[T]) Vec3[T] {
	return a.Translation.Added(a.Rotation.MulVec3(point))
}

// TransformVec は方向ベクトルを変換する。並進は作用しない。
func (a Isometry[T]) TransformVec(vec Vec3[T]) Vec3[T] {
	return a.Rotation.MulVec3(vec)
}

// Inversed は逆変換を返す。
func (a Isometry[T]) Inversed() Isometry[T] {
	inv := a.Rotation.Inversed()
	return Isometry[T]{
		Rotation:    inv,
		Translation: inv.MulVec3(a.Translation.Negated()),
	}
}

// AppendedRotation は回転を右から合成した変換を返す。
// 自身の原点回りの回転となり、親に対する位置は変わらない。
func (a Isometry[T]) AppendedRotation(rotation Quaternion[T]) Isometry[T] {
	return Isometry[T]{
		Rotation:    a.Rotation.Muled(rotation),
		Translation: a.Translation,
	}
}

// PrependedRotation は回転を左から合成した変換を返す。
// 親に対する配置（並進）も回転する。
func (a Isometry[T]) PrependedRotation(rotation Quaternion[T]) Isometry[T] {
	return Isometry[T]{
		Rotation:    rotation.Muled(a.Rotation),
		Translation: rotation.MulVec3(a.Translation),
	}
}

// AppendedTranslation は並進を加算した変換を返す。
func (a Isometry[T]) AppendedTranslation(translation Vec3[T]) Isometry[T] {
	return Isometry[T]{
		Rotation:    a.Rotation,
		Translation: a.Translation.Added(translation),
	}
}
