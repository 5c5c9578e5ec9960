package swerve

import (
	"context"
	"fmt"
	"math"
)

// Dashboard names for the captured zero references and live positions.
func zeroName(w Wheel) string     { return wheelPrefixes[w] + " Swrv Pos0" }
func positionName(w Wheel) string { return wheelPrefixes[w] + " Swrv Pos" }

// TrainConfig wires the four wheel actuators and tuning parameters of a
// Train.
type TrainConfig struct {
	FrontRight Actuator
	FrontLeft  Actuator
	RearLeft   Actuator
	RearRight  Actuator

	// Telemetry receives the dashboard values. Nil discards them.
	Telemetry Telemetry

	// Deadzone is the stick threshold below which input is ignored.
	Deadzone float64
	// RotationScale converts stick radians into steering rotation units.
	RotationScale float64
	// MaxDriveSpeed caps the normalized drive speed broadcast to the
	// wheels. 0 means no cap (full speed).
	MaxDriveSpeed float64
}

// Train coordinates four wheel modules as one drivetrain. Commands are
// broadcast: every tick issues at most one uniform drive speed and one
// uniform steering target across all four wheels.
type Train struct {
	wheels map[Wheel]Actuator
	dash   Telemetry

	deadzone      float64
	rotationScale float64
	maxDriveSpeed float64
}

// NewTrain creates a drivetrain from four wheel actuators. The actuators
// are borrowed, not owned: closing the underlying hardware remains the
// caller's job.
func NewTrain(cfg TrainConfig) (*Train, error) {
	wheels := map[Wheel]Actuator{
		FrontRight: cfg.FrontRight,
		FrontLeft:  cfg.FrontLeft,
		RearLeft:   cfg.RearLeft,
		RearRight:  cfg.RearRight,
	}
	for _, w := range AllWheels() {
		if wheels[w] == nil {
			return nil, fmt.Errorf("missing actuator for wheel %s", w)
		}
	}

	dash := cfg.Telemetry
	if dash == nil {
		dash = NopTelemetry{}
	}
	maxSpeed := cfg.MaxDriveSpeed
	if maxSpeed <= 0 {
		maxSpeed = 1
	}

	return &Train{
		wheels:        wheels,
		dash:          dash,
		deadzone:      cfg.Deadzone,
		rotationScale: cfg.RotationScale,
		maxDriveSpeed: maxSpeed,
	}, nil
}

// Deadzone returns the configured stick threshold.
func (t *Train) Deadzone() float64 {
	return t.deadzone
}

// SetDriveSpeed broadcasts one drive speed to all four wheels.
func (t *Train) SetDriveSpeed(ctx context.Context, speed float64) error {
	for _, w := range AllWheels() {
		if err := t.wheels[w].SetDriveSpeed(ctx, speed); err != nil {
			return fmt.Errorf("%s: set drive speed: %w", w, err)
		}
	}
	return nil
}

// SetSwerveSpeed broadcasts one steering motor speed to all four wheels.
func (t *Train) SetSwerveSpeed(ctx context.Context, speed float64) error {
	for _, w := range AllWheels() {
		if err := t.wheels[w].SetSwerveSpeed(ctx, speed); err != nil {
			return fmt.Errorf("%s: set swerve speed: %w", w, err)
		}
	}
	return nil
}

// SetZeroPosition captures every wheel's current steering encoder value as
// its zero reference. These are the values the wheels return to from
// AssumeZeroPosition. With verbose set, the captured values are published
// to the dashboard, one per wheel.
func (t *Train) SetZeroPosition(ctx context.Context, verbose bool) error {
	for _, w := range AllWheels() {
		if err := t.wheels[w].SetZeroPosition(ctx); err != nil {
			return fmt.Errorf("%s: set zero position: %w", w, err)
		}
	}
	if verbose {
		for _, w := range AllWheels() {
			t.dash.Publish(zeroName(w), t.wheels[w].ZeroPosition())
		}
	}
	return nil
}

// AssumeZeroPosition steers every wheel back to its stored absolute zero
// reference, however far away that is.
func (t *Train) AssumeZeroPosition(ctx context.Context) error {
	for _, w := range AllWheels() {
		if err := t.wheels[w].AssumeZeroPosition(ctx); err != nil {
			return fmt.Errorf("%s: assume zero: %w", w, err)
		}
	}
	return nil
}

// AssumeNearestZeroPosition steers every wheel to its closest physically
// equivalent zero, which never costs more than half a steering quantum of
// travel. AssumeZeroPosition cannot make that optimization and may
// traverse a full quantum to reach the same orientation.
func (t *Train) AssumeNearestZeroPosition(ctx context.Context) error {
	for _, w := range AllWheels() {
		if err := t.wheels[w].AssumeNearestZeroPosition(ctx); err != nil {
			return fmt.Errorf("%s: assume nearest zero: %w", w, err)
		}
	}
	return nil
}

// Positions reads every wheel's steering encoder.
func (t *Train) Positions(ctx context.Context) (map[Wheel]float64, error) {
	positions := make(map[Wheel]float64, len(t.wheels))
	for _, w := range AllWheels() {
		pos, err := t.wheels[w].Position(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: read position: %w", w, err)
		}
		positions[w] = pos
	}
	return positions, nil
}

// ZeroPositions returns every wheel's stored zero reference.
func (t *Train) ZeroPositions() map[Wheel]float64 {
	zeros := make(map[Wheel]float64, len(t.wheels))
	for _, w := range AllWheels() {
		zeros[w] = t.wheels[w].ZeroPosition()
	}
	return zeros
}

// PublishPositions puts the live steering encoder values on the dashboard.
func (t *Train) PublishPositions(ctx context.Context) error {
	positions, err := t.Positions(ctx)
	if err != nil {
		return err
	}
	for _, w := range AllWheels() {
		t.dash.Publish(positionName(w), positions[w])
	}
	return nil
}

// DriveState describes what one Drive tick commanded.
type DriveState struct {
	// Deadzone is set when the stick was inside the deadzone and the tick
	// only held the drivetrain still.
	Deadzone bool
	// Field is the field-relative translation vector.
	Field Vector
	// Rotation is the clockwise steering offset from zero, in rotation
	// units.
	Rotation float64
	// Speed is the normalized drive speed broadcast to the wheels.
	Speed float64
}

// Drive runs one teleoperation tick. A deadzoned stick holds the drive
// speed at 0 and leaves the previous steering target alone. Otherwise the
// stick becomes a field-relative translation vector whose direction steers
// the wheels and whose magnitude sets the drive speed.
func (t *Train) Drive(ctx context.Context, s Sample, heading float64) (DriveState, error) {
	if InDeadzone(s, t.deadzone) {
		return DriveState{Deadzone: true}, t.SetDriveSpeed(ctx, 0)
	}

	field := FieldVector(Vector{X: s.X, Y: s.Y}, heading)
	rotation := ClockwiseRotations(field, t.rotationScale)
	speed := math.Min(field.Magnitude(), 1) * t.maxDriveSpeed

	for _, w := range AllWheels() {
		a := t.wheels[w]
		if err := a.AssumePosition(ctx, a.ZeroPosition()+rotation); err != nil {
			return DriveState{}, fmt.Errorf("%s: steer: %w", w, err)
		}
	}
	if err := t.SetDriveSpeed(ctx, speed); err != nil {
		return DriveState{}, err
	}

	return DriveState{Field: field, Rotation: rotation, Speed: speed}, nil
}
