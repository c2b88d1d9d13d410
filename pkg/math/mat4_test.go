package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformVec3(t *testing.T) {
	got := Translate(10, 20, 30).TransformVec3(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestCompose(t *testing.T) {
	rot := QuatFromAxisAngle(Vec3{0, 0, 1}, math.Pi/2)
	m := Compose(Vec3{1, 0, 0}, rot, Vec3{2, 2, 2})

	// (1,0,0) scaled to (2,0,0), rotated to (0,2,0), translated to (1,2,0)
	got := m.TransformVec3(Vec3{1, 0, 0})
	want := Vec3{1, 2, 0}
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
	if m.Translation() != (Vec3{1, 0, 0}) {
		t.Errorf("Translation() = %v, want (1,0,0)", m.Translation())
	}
}

func TestFloat32(t *testing.T) {
	m := Scale(2, 3, 4).Float32()
	if m[0] != 2 || m[5] != 3 || m[10] != 4 || m[15] != 1 {
		t.Errorf("Float32 diagonal: got (%v, %v, %v, %v)", m[0], m[5], m[10], m[15])
	}
}

func TestInverse(t *testing.T) {
	m := Compose(Vec3{1, -2, 3}, NewEuler(0.3, -0.7, 1.1, OrderXYZ).Quat(), Vec3{2, 0.5, 1})
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported a singular matrix")
	}
	id := m.Mul(inv)
	want := Identity()
	for i := range id {
		if math.Abs(id[i]-want[i]) > 1e-12 {
			t.Fatalf("m * m^-1 [%d] = %v, want %v", i, id[i], want[i])
		}
	}

	p := Vec3{4, 5, 6}
	if got := inv.TransformVec3(m.TransformVec3(p)); !got.ApproxEqual(p, 1e-12) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := Scale(1, 0, 1).Inverse(); ok {
		t.Error("Inverse() of a flattened matrix should fail")
	}
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	if got := m.TransformDir(Vec3{1, 0, 0}); got != (Vec3{2, 0, 0}) {
		t.Errorf("TransformDir() = %v", got)
	}
}
