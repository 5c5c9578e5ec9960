package swerve

import (
	"math"
	"path/filepath"
	"testing"
)

func TestConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swerve.json")

	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyUSB0"
	cfg.Deadzone = 0.07
	cfg.Zeros = map[Wheel]float64{
		FrontRight: 1.5,
		FrontLeft:  -0.25,
		RearLeft:   3.125,
		RearRight:  0,
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}

	if loaded.Port != cfg.Port {
		t.Errorf("port = %q, want %q", loaded.Port, cfg.Port)
	}
	if loaded.Deadzone != cfg.Deadzone {
		t.Errorf("deadzone = %v, want %v", loaded.Deadzone, cfg.Deadzone)
	}
	for w, zero := range cfg.Zeros {
		if loaded.Zeros[w] != zero {
			t.Errorf("%s zero = %v, want %v", w, loaded.Zeros[w], zero)
		}
	}
	if !loaded.IsCalibrated() {
		t.Error("loaded config should be calibrated")
	}
}

func TestConfig_DefaultsApplied(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Hz != DefaultHz {
		t.Errorf("hz = %d, want %d", cfg.Hz, DefaultHz)
	}
	if cfg.Deadzone != DefaultDeadzone {
		t.Errorf("deadzone = %v, want %v", cfg.Deadzone, DefaultDeadzone)
	}
	if cfg.SteerQuantum != DefaultSteerQuantum {
		t.Errorf("steer quantum = %v, want %v", cfg.SteerQuantum, DefaultSteerQuantum)
	}

	// A full circle of stick travel should map to one steering revolution.
	want := DefaultSteerQuantum / (2 * math.Pi)
	if math.Abs(cfg.RotationScale-want) > 1e-9 {
		t.Errorf("rotation scale = %v, want %v", cfg.RotationScale, want)
	}

	if len(cfg.Wheels) != 4 {
		t.Fatalf("wheels = %d entries, want 4", len(cfg.Wheels))
	}
	if ids := cfg.Wheels[FrontRight]; ids.DriveID != 1 || ids.SteerID != 2 {
		t.Errorf("front right IDs = %+v, want drive 1, steer 2", ids)
	}
	if cfg.IsCalibrated() {
		t.Error("default config should not be calibrated")
	}
}

func TestConfig_PartialFileTakesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swerve.json")

	minimal := &Config{Port: "/dev/ttyACM1"}
	if err := minimal.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	// Saving applies nothing; loading fills in every unset field.
	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.Port != "/dev/ttyACM1" {
		t.Errorf("port = %q", loaded.Port)
	}
	if loaded.Hz != DefaultHz || loaded.SteerQuantum != DefaultSteerQuantum {
		t.Errorf("defaults not applied: hz %d, quantum %v", loaded.Hz, loaded.SteerQuantum)
	}
	if len(loaded.Wheels) != 4 {
		t.Errorf("wheels = %d entries, want 4", len(loaded.Wheels))
	}
}
