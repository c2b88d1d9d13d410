// Package model converts box model documents between document space and
// scene space, computes the cross-layout UV unwrap of a cuboid and builds the
// textured box meshes drawn for cubes.
//
// Document space is the persisted convention of the modelling tools (Y and Z
// pointing the other way, cubes addressed by their near corner). Scene space
// is Y-up with cubes addressed by their centre.
package model

import (
	"github.com/Faultbox/boxedit/pkg/math"
)

// UnitsPerTranslation converts initialTranslation (in blocks) to document
// pixels.
const UnitsPerTranslation = 16

// RotationOrder is the axis order of document rotations in scene space.
const RotationOrder = math.OrderZYX

// PivotToScene returns the scene position of a renderer's rotation point.
func PivotToScene(rotationPoint, initialTranslation math.Vec3) math.Vec3 {
	it := initialTranslation.Scale(UnitsPerTranslation)
	return math.Vec3{
		X: rotationPoint.X + it.X,
		Y: -rotationPoint.Y - it.Y,
		Z: -rotationPoint.Z - it.Z,
	}
}

// PivotToDocument inverts PivotToScene.
func PivotToDocument(pivot, initialTranslation math.Vec3) math.Vec3 {
	it := initialTranslation.Scale(UnitsPerTranslation)
	return clean(math.Vec3{
		X: pivot.X - it.X,
		Y: -(pivot.Y + it.Y),
		Z: -(pivot.Z + it.Z),
	})
}

// CubeToScene returns the centre of a cube relative to its pivot, given the
// cube's near corner and dimensions.
func CubeToScene(position, dimensions math.Vec3) math.Vec3 {
	return math.Vec3{
		X: position.X + dimensions.X/2,
		Y: -position.Y - dimensions.Y/2,
		Z: -position.Z - dimensions.Z/2,
	}
}

// CubeToDocument inverts CubeToScene. dimensions must be the document
// dimensions, i.e. with any node scale already applied.
func CubeToDocument(local, dimensions math.Vec3) math.Vec3 {
	return clean(math.Vec3{
		X: local.X - dimensions.X/2,
		Y: -(local.Y + dimensions.Y/2),
		Z: -(local.Z + dimensions.Z/2),
	})
}

// RotationToScene maps document rotation angles to the Euler rotation a
// pivot node carries: Y and Z negated, applied in ZYX order.
func RotationToScene(rotation math.Vec3) math.Euler {
	return math.NewEuler(rotation.X, -rotation.Y, -rotation.Z, RotationOrder)
}

// RotationToDocument inverts RotationToScene. The node rotation may be in
// any order; it is read as XYZ, Y and Z are negated and the result is
// re-expressed in ZYX order.
func RotationToDocument(rotation math.Euler) math.Vec3 {
	xyz := rotation
	if xyz.Order != math.OrderXYZ && xyz.Order != "" {
		xyz = rotation.Reorder(math.OrderXYZ)
	}
	flipped := math.NewEuler(xyz.X, -xyz.Y, -xyz.Z, math.OrderXYZ)
	return clean(flipped.Reorder(RotationOrder).Vec3())
}

// DimensionsToDocument bakes a node scale into base box dimensions.
func DimensionsToDocument(base, scale math.Vec3) math.Vec3 {
	return clean(base.Mul(scale))
}

// clean turns negative zeros into positive zeros so exported JSON does not
// carry "-0".
func clean(v math.Vec3) math.Vec3 {
	if v.X == 0 {
		v.X = 0
	}
	if v.Y == 0 {
		v.Y = 0
	}
	if v.Z == 0 {
		v.Z = 0
	}
	return v
}
