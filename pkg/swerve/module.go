package swerve

import (
	"context"
	"fmt"
	"math"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Steering encoder geometry and position-assumption tuning. The approach
// speed curve was regressed to come in fast from far out, slow near the
// target, and settle linearly inside the last fraction of a rotation.
const (
	countsPerRotation = 4096

	// positionTolerance is the band (in rotations) inside which a steering
	// target counts as reached.
	positionTolerance = 0.02

	approachSigmoidFloor = 3.5
	approachFirstSpeed   = 0.2
	approachCrawlFloor   = 0.05
	approachCrawlSpeed   = 0.05

	// Servo velocity command at full normalized speed.
	velocityScale = 2400
)

// approachSpeed maps remaining steering travel (rotations, any sign) to a
// normalized motor speed:
//
//	s(z) = 1/(1+e^(-|z|+5))   for |z| >= 3.5
//	       0.20               for |z| >= 0.05
//	       0.05               otherwise
func approachSpeed(remaining float64) float64 {
	z := math.Abs(remaining)
	switch {
	case z >= approachSigmoidFloor:
		return 1 / (1 + math.Exp(-z+5))
	case z >= approachCrawlFloor:
		return approachFirstSpeed
	default:
		return approachCrawlSpeed
	}
}

// unwrapDelta interprets a raw 12-bit encoder change as signed travel,
// assuming less than half a rotation of movement between reads.
func unwrapDelta(prev, raw int) int {
	d := raw - prev
	switch {
	case d > countsPerRotation/2:
		d -= countsPerRotation
	case d < -countsPerRotation/2:
		d += countsPerRotation
	}
	return d
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Module is a single swerve wheel unit: a drive servo and a steering servo
// on a shared bus, both run in velocity (wheel) mode. Steering position
// control happens in software against the unwrapped encoder, one step per
// control tick.
type Module struct {
	drive *feetech.Servo
	steer *feetech.Servo

	driveID int
	steerID int

	// quantum is the periodic equivalence unit of the zero position, in
	// encoder rotations per steering revolution.
	quantum float64

	// zero is the steering zero reference, in rotations. 0 until captured.
	zero float64

	primed  bool
	lastRaw int
	counts  int
}

// NewModule creates a wheel module from two servo IDs on bus.
func NewModule(bus *feetech.Bus, driveID, steerID int, quantum float64) *Module {
	return &Module{
		drive:   feetech.NewServo(bus, driveID, nil),
		steer:   feetech.NewServo(bus, steerID, nil),
		driveID: driveID,
		steerID: steerID,
		quantum: quantum,
	}
}

// Init puts both servos in velocity mode and enables torque. Mode changes
// require torque off first.
func (m *Module) Init(ctx context.Context) error {
	for _, s := range []*feetech.Servo{m.drive, m.steer} {
		if err := s.Disable(ctx); err != nil {
			return fmt.Errorf("disable servo: %w", err)
		}
		if err := s.SetOperatingMode(ctx, feetech.ModeVelocity); err != nil {
			return fmt.Errorf("set velocity mode: %w", err)
		}
		if err := s.Enable(ctx); err != nil {
			return fmt.Errorf("enable servo: %w", err)
		}
	}
	return nil
}

// Disable stops both motors and cuts torque.
func (m *Module) Disable(ctx context.Context) error {
	m.drive.SetVelocity(ctx, 0)
	m.steer.SetVelocity(ctx, 0)
	for _, s := range []*feetech.Servo{m.drive, m.steer} {
		if err := s.Disable(ctx); err != nil {
			return fmt.Errorf("disable servo: %w", err)
		}
	}
	return nil
}

// SetDriveSpeed implements Actuator.
func (m *Module) SetDriveSpeed(ctx context.Context, speed float64) error {
	if err := m.drive.SetVelocity(ctx, int(clampUnit(speed)*velocityScale)); err != nil {
		return fmt.Errorf("drive servo %d: %w", m.driveID, err)
	}
	return nil
}

// SetSwerveSpeed implements Actuator.
func (m *Module) SetSwerveSpeed(ctx context.Context, speed float64) error {
	if err := m.steer.SetVelocity(ctx, int(clampUnit(speed)*velocityScale)); err != nil {
		return fmt.Errorf("steer servo %d: %w", m.steerID, err)
	}
	return nil
}

// Position returns the steering encoder value in rotations. The servo
// reports a 12-bit absolute angle; successive reads are unwrapped into a
// continuous multi-turn value seeded from the first read, so positions
// stay comparable against a zero captured in an earlier session.
func (m *Module) Position(ctx context.Context) (float64, error) {
	raw, err := m.steer.Position(ctx)
	if err != nil {
		return 0, fmt.Errorf("steer servo %d: read position: %w", m.steerID, err)
	}
	if !m.primed {
		m.primed = true
		m.lastRaw = raw
		m.counts = raw
		return float64(raw) / countsPerRotation, nil
	}
	m.counts += unwrapDelta(m.lastRaw, raw)
	m.lastRaw = raw
	return float64(m.counts) / countsPerRotation, nil
}

// SetZeroPosition captures the current steering encoder value as the zero
// reference.
func (m *Module) SetZeroPosition(ctx context.Context) error {
	pos, err := m.Position(ctx)
	if err != nil {
		return err
	}
	m.zero = pos
	return nil
}

// ZeroPosition implements Actuator.
func (m *Module) ZeroPosition() float64 {
	return m.zero
}

// restoreZero seeds the zero reference from persisted calibration.
func (m *Module) restoreZero(zero float64) {
	m.zero = zero
}

// AssumePosition runs one step of the software steering loop toward an
// absolute encoder target: it reads the encoder, sets a steering velocity
// from the remaining travel, and stops inside the tolerance band. Call it
// every control tick until the target is reached.
func (m *Module) AssumePosition(ctx context.Context, target float64) error {
	pos, err := m.Position(ctx)
	if err != nil {
		return err
	}
	remaining := target - pos
	if math.Abs(remaining) < positionTolerance {
		return m.SetSwerveSpeed(ctx, 0)
	}
	speed := approachSpeed(remaining)
	if remaining < 0 {
		speed = -speed
	}
	return m.SetSwerveSpeed(ctx, speed)
}

// AssumeZeroPosition implements Actuator.
func (m *Module) AssumeZeroPosition(ctx context.Context) error {
	return m.AssumePosition(ctx, m.zero)
}

// AssumeNearestZeroPosition implements Actuator.
func (m *Module) AssumeNearestZeroPosition(ctx context.Context) error {
	pos, err := m.Position(ctx)
	if err != nil {
		return err
	}
	return m.AssumePosition(ctx, NearestZeroTarget(pos, m.zero, m.quantum))
}

// Drivetrain is a Train wired to real hardware on one serial bus.
type Drivetrain struct {
	*Train

	bus     *feetech.Bus
	modules map[Wheel]*Module
}

// Open connects to the configured serial bus and assembles the drivetrain.
// Persisted zero references from cfg are restored onto the modules.
func Open(cfg *Config, dash Telemetry) (*Drivetrain, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	modules := make(map[Wheel]*Module, len(AllWheels()))
	for _, w := range AllWheels() {
		wc := cfg.Wheels[w]
		m := NewModule(bus, wc.DriveID, wc.SteerID, cfg.SteerQuantum)
		if zero, ok := cfg.Zeros[w]; ok {
			m.restoreZero(zero)
		}
		modules[w] = m
	}

	train, err := NewTrain(TrainConfig{
		FrontRight:    modules[FrontRight],
		FrontLeft:     modules[FrontLeft],
		RearLeft:      modules[RearLeft],
		RearRight:     modules[RearRight],
		Telemetry:     dash,
		Deadzone:      cfg.Deadzone,
		RotationScale: cfg.RotationScale,
		MaxDriveSpeed: cfg.MaxDriveSpeed,
	})
	if err != nil {
		bus.Close()
		return nil, err
	}

	return &Drivetrain{Train: train, bus: bus, modules: modules}, nil
}

// Init enables torque and puts every servo in velocity mode.
func (d *Drivetrain) Init(ctx context.Context) error {
	for _, w := range AllWheels() {
		if err := d.modules[w].Init(ctx); err != nil {
			return fmt.Errorf("%s: %w", w, err)
		}
	}
	return nil
}

// Disable stops every motor and cuts torque.
func (d *Drivetrain) Disable(ctx context.Context) error {
	var firstErr error
	for _, w := range AllWheels() {
		if err := d.modules[w].Disable(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", w, err)
		}
	}
	return firstErr
}

// Close closes the bus connection.
func (d *Drivetrain) Close() error {
	return d.bus.Close()
}
