package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Mul(t *testing.T) {
	got := Vec3{2, 3, 4}.Mul(Vec3{0.5, 2, -1})
	want := Vec3{1, 6, -4}
	if got != want {
		t.Errorf("Vec3.Mul() = %v, want %v", got, want)
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		eps  float64
		want bool
	}{
		{"identical", Vec3{1, 2, 3}, Vec3{1, 2, 3}, 0, true},
		{"within eps", Vec3{1, 2, 3}, Vec3{1 + 1e-12, 2, 3 - 1e-12}, 1e-9, true},
		{"outside eps", Vec3{1, 2, 3}, Vec3{1, 2.001, 3}, 1e-9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.ApproxEqual(tt.b, tt.eps); got != tt.want {
				t.Errorf("ApproxEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3String(t *testing.T) {
	if got := (Vec3{0, -1.5, 2}).String(); got != "(0, -1.5, 2)" {
		t.Errorf("Vec3.String() = %q", got)
	}
}
