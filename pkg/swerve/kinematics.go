package swerve

import "math"

// Sample is one joystick poll: raw axis values in [-1, 1].
type Sample struct {
	X float64
	Y float64
	Z float64
}

// InDeadzone reports whether every axis of s is strictly inside the
// deadzone. A value equal to the threshold counts as real input.
func InDeadzone(s Sample, zone float64) bool {
	return math.Abs(s.X) < zone && math.Abs(s.Y) < zone && math.Abs(s.Z) < zone
}

// Vector is a 2-D stick or translation vector.
type Vector struct {
	X float64
	Y float64
}

// Magnitude returns the vector length.
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the clockwise angle from straight ahead (the positive Y
// axis) in radians, in [0, 2π). The zero vector has no direction and
// returns 0, never NaN.
func (v Vector) Angle() float64 {
	return ClockwiseRadians(v)
}

// Rotate returns v rotated counter-clockwise by angle radians.
func Rotate(v Vector, angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// FieldVector converts a raw stick vector into a field-relative
// translation vector by undoing the robot heading (radians). With a zero
// heading the stick is taken as-is, so driving degrades to robot-relative.
func FieldVector(stick Vector, heading float64) Vector {
	return Rotate(stick, -heading)
}

// ClockwiseRadians returns the clockwise angle between v and the straight
// ahead reference axis, using the dot product identity
// cosθ = (a·b)/(|a||b|). Arccosine alone cannot tell left from right, so
// the sign of x resolves the quadrant. Returns 0 for the zero vector.
func ClockwiseRadians(v Vector) float64 {
	mag := v.Magnitude()
	if mag == 0 {
		return 0
	}
	// Reference axis is the unit Y vector, so the dot product reduces to y.
	cos := v.Y / mag
	// Rounding can push the ratio a hair outside the acos domain.
	cos = math.Max(-1, math.Min(1, cos))
	theta := math.Acos(cos)
	if v.X < 0 {
		theta = 2*math.Pi - theta
	}
	return theta
}

// ClockwiseRotations converts the stick direction into clockwise steering
// rotation units. scale is the configured rotation-units-per-radian
// conversion; see Config.RotationScale.
func ClockwiseRotations(v Vector, scale float64) float64 {
	return ClockwiseRadians(v) * scale
}

// NearestZeroTarget returns the steering target closest to current among
// the positions physically equivalent to zero: zero plus any whole number
// of quantum units. The remainder of current into the quantum decides
// between the multiple below and above; halfway ties go to the upper
// (clockwise) candidate, since convergence runs clockwise. Travel distance
// is always within half a quantum, against a full quantum in the worst
// case for the absolute zero.
func NearestZeroTarget(current, zero, quantum float64) float64 {
	if quantum <= 0 {
		return zero
	}
	r := math.Mod(current-zero, quantum)
	if r < 0 {
		r += quantum
	}
	if r < quantum/2 {
		return current - r
	}
	return current + (quantum - r)
}
