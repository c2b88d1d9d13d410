package math

import (
	"fmt"
	"math"
)

// EulerOrder names the axis order in which Euler angles are applied.
// "ZYX" means the matrix is Rz * Ry * Rx, so X is applied first.
type EulerOrder string

const (
	OrderXYZ EulerOrder = "XYZ"
	OrderYXZ EulerOrder = "YXZ"
	OrderZXY EulerOrder = "ZXY"
	OrderZYX EulerOrder = "ZYX"
	OrderYZX EulerOrder = "YZX"
	OrderXZY EulerOrder = "XZY"
)

// gimbalLimit is the |sin| above which the middle axis is treated as locked.
const gimbalLimit = 0.9999999

// Valid reports whether o is one of the six supported orders.
func (o EulerOrder) Valid() bool {
	switch o {
	case OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY:
		return true
	}
	return false
}

// Euler is a rotation expressed as three angles (radians) plus the order in
// which they are applied. The zero Order is treated as XYZ.
type Euler struct {
	X, Y, Z float64
	Order   EulerOrder
}

// NewEuler creates an Euler rotation with an explicit order.
func NewEuler(x, y, z float64, order EulerOrder) Euler {
	return Euler{X: x, Y: y, Z: z, Order: order}
}

// EulerFromVec3 reads the angles of a rotation vector in the given order.
func EulerFromVec3(v Vec3, order EulerOrder) Euler {
	return Euler{X: v.X, Y: v.Y, Z: v.Z, Order: order}
}

func (e Euler) order() EulerOrder {
	if e.Order == "" {
		return OrderXYZ
	}
	return e.Order
}

// Vec3 returns the three angles, dropping the order.
func (e Euler) Vec3() Vec3 {
	return Vec3{e.X, e.Y, e.Z}
}

// String returns "(x, y, z order)".
func (e Euler) String() string {
	return fmt.Sprintf("(%g, %g, %g %s)", e.X, e.Y, e.Z, e.order())
}

// Quat converts the Euler rotation to a quaternion.
func (e Euler) Quat() Quat {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)

	switch e.order() {
	case OrderYXZ:
		return Quat{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	case OrderZXY:
		return Quat{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	case OrderZYX:
		return Quat{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	case OrderYZX:
		return Quat{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	case OrderXZY:
		return Quat{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	default: // XYZ
		return Quat{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	}
}

// Reorder returns the same orientation expressed in another axis order.
func (e Euler) Reorder(order EulerOrder) Euler {
	return EulerFromQuat(e.Quat(), order)
}

// EulerFromQuat decomposes a rotation quaternion in the given order.
func EulerFromQuat(q Quat, order EulerOrder) Euler {
	return EulerFromMat4(q.ToMat4(), order)
}

// EulerFromMat4 decomposes the rotation part of an unscaled matrix.
func EulerFromMat4(m Mat4, order EulerOrder) Euler {
	// Row-major names for the column-major storage.
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	e := Euler{Order: order}
	switch order {
	case OrderYXZ:
		e.X = math.Asin(-clamp(m23, -1, 1))
		if math.Abs(m23) < gimbalLimit {
			e.Y = math.Atan2(m13, m33)
			e.Z = math.Atan2(m21, m22)
		} else {
			e.Y = math.Atan2(-m31, m11)
		}
	case OrderZXY:
		e.X = math.Asin(clamp(m32, -1, 1))
		if math.Abs(m32) < gimbalLimit {
			e.Y = math.Atan2(-m31, m33)
			e.Z = math.Atan2(-m12, m22)
		} else {
			e.Z = math.Atan2(m21, m11)
		}
	case OrderZYX:
		e.Y = math.Asin(-clamp(m31, -1, 1))
		if math.Abs(m31) < gimbalLimit {
			e.X = math.Atan2(m32, m33)
			e.Z = math.Atan2(m21, m11)
		} else {
			e.Z = math.Atan2(-m12, m22)
		}
	case OrderYZX:
		e.Z = math.Asin(clamp(m21, -1, 1))
		if math.Abs(m21) < gimbalLimit {
			e.X = math.Atan2(-m23, m22)
			e.Y = math.Atan2(-m31, m11)
		} else {
			e.Y = math.Atan2(m13, m33)
		}
	case OrderXZY:
		e.Z = math.Asin(-clamp(m12, -1, 1))
		if math.Abs(m12) < gimbalLimit {
			e.X = math.Atan2(m32, m22)
			e.Y = math.Atan2(m13, m11)
		} else {
			e.X = math.Atan2(-m23, m33)
		}
	default:
		e.Order = OrderXYZ
		e.Y = math.Asin(clamp(m13, -1, 1))
		if math.Abs(m13) < gimbalLimit {
			e.X = math.Atan2(-m23, m33)
			e.Z = math.Atan2(-m12, m11)
		} else {
			e.X = math.Atan2(m32, m22)
		}
	}
	return e
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
