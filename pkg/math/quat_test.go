package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if math.Abs(length-1.0) > 1e-12 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-identity[i]) > 1e-12 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 2, Z: -1}.Normalize(), 0.83)
	v := Vec3{3, -4, 5}

	got := q.Rotate(v)
	want := q.ToMat4().TransformVec3(v)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Rotate() = %v, matrix gives %v", got, want)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/2)

	got := q.Rotate(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("rotating +X by 90deg about Y = %v, want %v", got, want)
	}
}

func TestQuatConjugateInverts(t *testing.T) {
	q := Euler{X: 0.3, Y: -1.1, Z: 2.0, Order: OrderZYX}.Quat()
	v := Vec3{1, 2, 3}

	got := q.Conjugate().Rotate(q.Rotate(v))
	if !got.ApproxEqual(v, 1e-12) {
		t.Errorf("conjugate did not undo rotation: got %v, want %v", got, v)
	}
}

func TestQuatSlerp(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)

	mid := a.Slerp(b, 0.5)
	want := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/4)
	if math.Abs(mid.Y-want.Y) > 1e-9 || math.Abs(mid.W-want.W) > 1e-9 {
		t.Errorf("Slerp(0.5) = %+v, want %+v", mid, want)
	}

	if end := a.Slerp(b, 1); math.Abs(end.Y-b.Y) > 1e-9 || math.Abs(end.W-b.W) > 1e-9 {
		t.Errorf("Slerp(1) = %+v, want %+v", end, b)
	}
}
