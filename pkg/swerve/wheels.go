// Package swerve provides abstractions for controlling a four wheel
// swerve drivetrain.
package swerve

// Wheel identifies one steerable, drivable wheel unit.
type Wheel string

// Wheel positions on the drivetrain.
const (
	FrontRight Wheel = "front_right"
	FrontLeft  Wheel = "front_left"
	RearLeft   Wheel = "rear_left"
	RearRight  Wheel = "rear_right"
)

// AllWheels returns every wheel in a fixed order, matching the bus servo
// ID assignment (drive/steer pairs 1-2 through 7-8).
func AllWheels() []Wheel {
	return []Wheel{
		FrontRight,
		FrontLeft,
		RearLeft,
		RearRight,
	}
}

// Short dashboard prefixes per wheel.
var wheelPrefixes = map[Wheel]string{
	FrontRight: "FR",
	FrontLeft:  "FL",
	RearLeft:   "RL",
	RearRight:  "RR",
}
