package math

import (
	"math"
	"testing"
)

var allOrders = []EulerOrder{OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY}

func TestEulerQuatMatchesAxisProduct(t *testing.T) {
	x, y, z := 0.4, -0.7, 1.2
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, x)
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, y)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, z)

	tests := []struct {
		order EulerOrder
		want  Quat
	}{
		{OrderXYZ, qx.Mul(qy).Mul(qz)},
		{OrderYXZ, qy.Mul(qx).Mul(qz)},
		{OrderZXY, qz.Mul(qx).Mul(qy)},
		{OrderZYX, qz.Mul(qy).Mul(qx)},
		{OrderYZX, qy.Mul(qz).Mul(qx)},
		{OrderXZY, qx.Mul(qz).Mul(qy)},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := NewEuler(x, y, z, tt.order).Quat()
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 ||
				math.Abs(got.Z-tt.want.Z) > 1e-12 || math.Abs(got.W-tt.want.W) > 1e-12 {
				t.Errorf("Quat() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEulerDecomposeRoundTrip(t *testing.T) {
	angles := []Vec3{
		{0, 0, 0},
		{0.1, 0.2, 0.3},
		{-1.2, 0.9, 1.4},
		{math.Pi / 2.5, -math.Pi / 3, -math.Pi / 5},
	}

	for _, order := range allOrders {
		for _, a := range angles {
			e := EulerFromVec3(a, order)
			got := EulerFromQuat(e.Quat(), order)
			if !got.Vec3().ApproxEqual(a, 1e-9) {
				t.Errorf("%s: decompose(%v) = %v", order, a, got.Vec3())
			}
			if got.Order != order {
				t.Errorf("%s: order lost, got %s", order, got.Order)
			}
		}
	}
}

func TestEulerReorderKeepsOrientation(t *testing.T) {
	e := NewEuler(0.5, -0.25, 1.75, OrderXYZ)
	r := e.Reorder(OrderZYX)

	v := Vec3{1, -2, 0.5}
	a := e.Quat().Rotate(v)
	b := r.Quat().Rotate(v)
	if !a.ApproxEqual(b, 1e-12) {
		t.Errorf("reordered rotation differs: %v vs %v", a, b)
	}
	if r.Order != OrderZYX {
		t.Errorf("Reorder order = %s, want ZYX", r.Order)
	}
}

func TestEulerGimbalLock(t *testing.T) {
	e := NewEuler(0.3, math.Pi/2, 0, OrderXYZ)
	got := EulerFromQuat(e.Quat(), OrderXYZ)

	v := Vec3{0.2, 0.4, 0.6}
	if !e.Quat().Rotate(v).ApproxEqual(got.Quat().Rotate(v), 1e-6) {
		t.Errorf("gimbal-locked decomposition changed orientation: %v", got)
	}
}

func TestEulerOrderValid(t *testing.T) {
	for _, o := range allOrders {
		if !o.Valid() {
			t.Errorf("%s should be valid", o)
		}
	}
	if EulerOrder("XXY").Valid() {
		t.Error("XXY should be invalid")
	}
}
