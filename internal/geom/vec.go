// Minimal 3D vector math for the combat simulation.
package geom

import (
	"math"
	"math/rand"
)

const epsilon = 1e-9

// Vec3 is a point or direction in arena space (meters).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalized returns the unit vector and true, or the zero vector and false
// when v is too short to carry a direction.
func (v Vec3) Normalized() (Vec3, bool) {
	l := v.Len()
	if l < epsilon {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// ClampLen limits the vector length to max, preserving direction.
func (v Vec3) ClampLen(max float64) Vec3 {
	if max <= 0 {
		return Vec3{}
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}

// Lerp interpolates linearly between a and b; t is clamped to [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return a.Add(b.Sub(a).Scale(t))
}

// RotateToward spherically rotates unit vector from toward unit vector to by
// at most maxRadians. Inputs shorter than epsilon are returned unchanged.
func RotateToward(from, to Vec3, maxRadians float64) Vec3 {
	f, ok := from.Normalized()
	if !ok {
		return to
	}
	t, ok := to.Normalized()
	if !ok {
		return f
	}
	dot := f.Dot(t)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	angle := math.Acos(dot)
	if angle <= maxRadians {
		return t
	}
	axis, ok := f.Cross(t).Normalized()
	if !ok {
		// Antiparallel: rotate around any perpendicular axis.
		axis, ok = f.Cross(Vec3{Y: 1}).Normalized()
		if !ok {
			axis, _ = f.Cross(Vec3{X: 1}).Normalized()
		}
	}
	return rotateAround(f, axis, maxRadians)
}

// rotateAround rotates v around unit axis by angle (Rodrigues' formula).
func rotateAround(v, axis Vec3, angle float64) Vec3 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	term1 := v.Scale(cos)
	term2 := axis.Cross(v).Scale(sin)
	term3 := axis.Scale(axis.Dot(v) * (1 - cos))
	return term1.Add(term2).Add(term3)
}

// Basis derives right and up vectors for a unit forward vector, so local
// offsets (x=right, y=up, z=forward) can be placed in arena space.
func Basis(forward Vec3) (right, up Vec3) {
	ref := Vec3{Y: 1}
	if math.Abs(forward.Dot(ref)) > 0.99 {
		ref = Vec3{X: 1}
	}
	right, _ = forward.Cross(ref).Normalized()
	up = right.Cross(forward)
	return right, up
}

// LocalToWorld places a local offset (x=right, y=up, z=forward) at origin
// oriented along forward.
func LocalToWorld(origin, forward, offset Vec3) Vec3 {
	right, up := Basis(forward)
	return origin.
		Add(right.Scale(offset.X)).
		Add(up.Scale(offset.Y)).
		Add(forward.Scale(offset.Z))
}

// RandUnit returns a uniformly distributed unit vector.
func RandUnit(r *rand.Rand) Vec3 {
	for {
		v := Vec3{
			X: r.Float64()*2 - 1,
			Y: r.Float64()*2 - 1,
			Z: r.Float64()*2 - 1,
		}
		if l := v.LenSq(); l > epsilon && l <= 1 {
			u, _ := v.Normalized()
			return u
		}
	}
}
