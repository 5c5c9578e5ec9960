package swerve

import "context"

// Actuator drives and steers a single wheel module. Implementations own
// the motor and encoder hardware; the train only borrows them.
type Actuator interface {
	// SetDriveSpeed sets the drive motor speed, normalized to [-1, 1].
	SetDriveSpeed(ctx context.Context, speed float64) error
	// SetSwerveSpeed sets the steering motor speed, normalized to [-1, 1].
	SetSwerveSpeed(ctx context.Context, speed float64) error
	// Position returns the steering encoder value in rotations.
	Position(ctx context.Context) (float64, error)
	// SetZeroPosition captures the current steering encoder value as the
	// module's zero reference.
	SetZeroPosition(ctx context.Context) error
	// ZeroPosition returns the stored zero reference, 0 if never captured.
	ZeroPosition() float64
	// AssumePosition runs one step of steering toward an absolute encoder
	// target.
	AssumePosition(ctx context.Context, target float64) error
	// AssumeZeroPosition steers toward the stored zero reference.
	AssumeZeroPosition(ctx context.Context) error
	// AssumeNearestZeroPosition steers toward the closest position that is
	// physically equivalent to zero.
	AssumeNearestZeroPosition(ctx context.Context) error
}

// Telemetry publishes named numeric values to a dashboard. Publishing is
// fire and forget; implementations must not block.
type Telemetry interface {
	Publish(name string, value float64)
}

// NopTelemetry discards everything published to it.
type NopTelemetry struct{}

// Publish implements Telemetry.
func (NopTelemetry) Publish(string, float64) {}
