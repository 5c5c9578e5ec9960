package swerve

import (
	"context"
	"math"
	"testing"
)

// fakeActuator records every command issued to it and serves a scripted
// encoder position.
type fakeActuator struct {
	pos  float64
	zero float64

	driveSpeeds  []float64
	swerveSpeeds []float64
	steerTargets []float64
	nearestCalls int
}

func (f *fakeActuator) SetDriveSpeed(_ context.Context, speed float64) error {
	f.driveSpeeds = append(f.driveSpeeds, speed)
	return nil
}

func (f *fakeActuator) SetSwerveSpeed(_ context.Context, speed float64) error {
	f.swerveSpeeds = append(f.swerveSpeeds, speed)
	return nil
}

func (f *fakeActuator) Position(context.Context) (float64, error) {
	return f.pos, nil
}

func (f *fakeActuator) SetZeroPosition(context.Context) error {
	f.zero = f.pos
	return nil
}

func (f *fakeActuator) ZeroPosition() float64 {
	return f.zero
}

func (f *fakeActuator) AssumePosition(_ context.Context, target float64) error {
	f.steerTargets = append(f.steerTargets, target)
	return nil
}

func (f *fakeActuator) AssumeZeroPosition(ctx context.Context) error {
	return f.AssumePosition(ctx, f.zero)
}

func (f *fakeActuator) AssumeNearestZeroPosition(ctx context.Context) error {
	f.nearestCalls++
	return f.AssumePosition(ctx, NearestZeroTarget(f.pos, f.zero, 5.5))
}

// captureTelemetry records published values in order.
type captureTelemetry struct {
	names  []string
	values map[string]float64
}

func newCaptureTelemetry() *captureTelemetry {
	return &captureTelemetry{values: make(map[string]float64)}
}

func (c *captureTelemetry) Publish(name string, value float64) {
	c.names = append(c.names, name)
	c.values[name] = value
}

func newTestTrain(t *testing.T, dash Telemetry) (*Train, map[Wheel]*fakeActuator) {
	t.Helper()
	fakes := map[Wheel]*fakeActuator{
		FrontRight: {},
		FrontLeft:  {},
		RearLeft:   {},
		RearRight:  {},
	}
	train, err := NewTrain(TrainConfig{
		FrontRight:    fakes[FrontRight],
		FrontLeft:     fakes[FrontLeft],
		RearLeft:      fakes[RearLeft],
		RearRight:     fakes[RearRight],
		Telemetry:     dash,
		Deadzone:      0.05,
		RotationScale: 5.5 / (2 * math.Pi),
		MaxDriveSpeed: 1,
	})
	if err != nil {
		t.Fatalf("NewTrain: %v", err)
	}
	return train, fakes
}

func TestNewTrain_MissingActuator(t *testing.T) {
	_, err := NewTrain(TrainConfig{FrontRight: &fakeActuator{}})
	if err == nil {
		t.Fatal("NewTrain with missing actuators should fail")
	}
}

func TestSetZeroPosition_VerbosePublishesFourValues(t *testing.T) {
	dash := newCaptureTelemetry()
	train, fakes := newTestTrain(t, dash)

	fakes[FrontRight].pos = 1.25
	fakes[FrontLeft].pos = -0.5
	fakes[RearLeft].pos = 3.0
	fakes[RearRight].pos = 0.125

	if err := train.SetZeroPosition(context.Background(), true); err != nil {
		t.Fatalf("SetZeroPosition: %v", err)
	}

	want := []string{"FR Swrv Pos0", "FL Swrv Pos0", "RL Swrv Pos0", "RR Swrv Pos0"}
	if len(dash.names) != len(want) {
		t.Fatalf("published %d values, want %d: %v", len(dash.names), len(want), dash.names)
	}
	for i, name := range want {
		if dash.names[i] != name {
			t.Errorf("publish[%d] = %q, want %q", i, dash.names[i], name)
		}
	}
	if got := dash.values["FR Swrv Pos0"]; got != 1.25 {
		t.Errorf("FR zero = %v, want 1.25", got)
	}
}

func TestSetZeroPosition_QuietPublishesNothing(t *testing.T) {
	dash := newCaptureTelemetry()
	train, _ := newTestTrain(t, dash)

	if err := train.SetZeroPosition(context.Background(), false); err != nil {
		t.Fatalf("SetZeroPosition: %v", err)
	}
	if len(dash.names) != 0 {
		t.Errorf("quiet capture published %v", dash.names)
	}
}

func TestZeroThenAssumeIsIdempotent(t *testing.T) {
	train, fakes := newTestTrain(t, nil)
	ctx := context.Background()

	fakes[FrontRight].pos = 4.2
	fakes[RearLeft].pos = -1.1

	if err := train.SetZeroPosition(ctx, false); err != nil {
		t.Fatalf("SetZeroPosition: %v", err)
	}
	if err := train.AssumeZeroPosition(ctx); err != nil {
		t.Fatalf("AssumeZeroPosition: %v", err)
	}

	for w, f := range fakes {
		if len(f.steerTargets) != 1 {
			t.Fatalf("%s: %d steer targets, want 1", w, len(f.steerTargets))
		}
		if f.steerTargets[0] != f.pos {
			t.Errorf("%s: assumed %v, want just-captured %v", w, f.steerTargets[0], f.pos)
		}
	}
}

func TestAssumeNearestZeroPosition_Broadcasts(t *testing.T) {
	train, fakes := newTestTrain(t, nil)

	fakes[FrontRight].pos = 50
	if err := train.AssumeNearestZeroPosition(context.Background()); err != nil {
		t.Fatalf("AssumeNearestZeroPosition: %v", err)
	}
	for w, f := range fakes {
		if f.nearestCalls != 1 {
			t.Errorf("%s: nearest-zero called %d times, want 1", w, f.nearestCalls)
		}
	}
}

func TestDrive_DeadzoneHoldsStill(t *testing.T) {
	train, fakes := newTestTrain(t, nil)

	state, err := train.Drive(context.Background(), Sample{X: 0.02, Y: 0.02}, 0)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !state.Deadzone {
		t.Error("state.Deadzone = false, want true")
	}
	for w, f := range fakes {
		if len(f.driveSpeeds) != 1 || f.driveSpeeds[0] != 0 {
			t.Errorf("%s: drive speeds %v, want [0]", w, f.driveSpeeds)
		}
		if len(f.steerTargets) != 0 {
			t.Errorf("%s: steering commanded inside deadzone: %v", w, f.steerTargets)
		}
		if len(f.swerveSpeeds) != 0 {
			t.Errorf("%s: swerve speed commanded inside deadzone: %v", w, f.swerveSpeeds)
		}
	}
}

func TestDrive_BroadcastsUniformCommands(t *testing.T) {
	train, fakes := newTestTrain(t, nil)

	// Stick hard right: quarter turn clockwise, full magnitude.
	state, err := train.Drive(context.Background(), Sample{X: 1, Y: 0}, 0)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if state.Deadzone {
		t.Fatal("state.Deadzone = true for full deflection")
	}

	wantRotation := (math.Pi / 2) * (5.5 / (2 * math.Pi))
	if math.Abs(state.Rotation-wantRotation) > 1e-9 {
		t.Errorf("rotation = %v, want %v", state.Rotation, wantRotation)
	}
	if math.Abs(state.Speed-1) > 1e-9 {
		t.Errorf("speed = %v, want 1", state.Speed)
	}

	for w, f := range fakes {
		if len(f.driveSpeeds) != 1 || math.Abs(f.driveSpeeds[0]-state.Speed) > 1e-9 {
			t.Errorf("%s: drive speeds %v, want [%v]", w, f.driveSpeeds, state.Speed)
		}
		if len(f.steerTargets) != 1 {
			t.Fatalf("%s: %d steer targets, want 1", w, len(f.steerTargets))
		}
		if math.Abs(f.steerTargets[0]-wantRotation) > 1e-9 {
			t.Errorf("%s: steer target %v, want %v", w, f.steerTargets[0], wantRotation)
		}
	}
}

func TestDrive_SpeedIsCapped(t *testing.T) {
	train, _ := newTestTrain(t, nil)

	// A diagonal stick exceeds unit magnitude; the broadcast speed must not.
	state, err := train.Drive(context.Background(), Sample{X: 1, Y: 1}, 0)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if state.Speed > 1 {
		t.Errorf("speed = %v, want <= 1", state.Speed)
	}
}

func TestDrive_SteerTargetsOffsetFromZero(t *testing.T) {
	train, fakes := newTestTrain(t, nil)
	ctx := context.Background()

	for _, f := range fakes {
		f.pos = 2.75
	}
	if err := train.SetZeroPosition(ctx, false); err != nil {
		t.Fatalf("SetZeroPosition: %v", err)
	}

	state, err := train.Drive(ctx, Sample{X: 1, Y: 0}, 0)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	for w, f := range fakes {
		want := 2.75 + state.Rotation
		got := f.steerTargets[len(f.steerTargets)-1]
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: steer target %v, want zero+rotation = %v", w, got, want)
		}
	}
}

func TestPublishPositions(t *testing.T) {
	dash := newCaptureTelemetry()
	train, fakes := newTestTrain(t, dash)

	fakes[RearRight].pos = 7.5
	if err := train.PublishPositions(context.Background()); err != nil {
		t.Fatalf("PublishPositions: %v", err)
	}
	if got := dash.values["RR Swrv Pos"]; got != 7.5 {
		t.Errorf("RR position = %v, want 7.5", got)
	}
	if len(dash.names) != 4 {
		t.Errorf("published %d values, want 4", len(dash.names))
	}
}
