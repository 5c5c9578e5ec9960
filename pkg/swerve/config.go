package swerve

import (
	"encoding/json"
	"math"
	"os"
)

// DefaultConfigFile is where the CLI reads and writes its configuration.
const DefaultConfigFile = "swerve.json"

// Defaults applied to unset config fields.
const (
	DefaultHz            = 60
	DefaultDeadzone      = 0.1
	DefaultSteerQuantum  = 5.5
	DefaultMaxDriveSpeed = 0.5
)

// WheelConfig names the bus servo IDs of one wheel module.
type WheelConfig struct {
	DriveID int `json:"drive_id"`
	SteerID int `json:"steer_id"`
}

// Config holds the drivetrain configuration.
type Config struct {
	// Port is the serial port of the servo bus.
	Port string `json:"port"`
	// Hz is the control loop frequency.
	Hz int `json:"hz,omitempty"`
	// Deadzone is the joystick threshold below which input is ignored.
	Deadzone float64 `json:"deadzone,omitempty"`
	// SteerQuantum is the periodic equivalence unit of the steering zero
	// position: encoder rotations per full steering revolution of the
	// wheel. Steering targets a whole quantum apart are physically the
	// same orientation.
	SteerQuantum float64 `json:"steer_quantum,omitempty"`
	// RotationScale converts stick radians into steering rotation units.
	// Left 0, it is derived as SteerQuantum/2π, so a full circle of stick
	// travel is one steering revolution.
	RotationScale float64 `json:"rotation_scale,omitempty"`
	// MaxDriveSpeed caps the normalized drive speed in [0, 1].
	MaxDriveSpeed float64 `json:"max_drive_speed,omitempty"`

	// Wheels maps each wheel to its servo IDs.
	Wheels map[Wheel]WheelConfig `json:"wheels"`
	// Zeros holds the steering zero references captured by calibration,
	// in encoder rotations.
	Zeros map[Wheel]float64 `json:"zeros,omitempty"`
}

// Standard servo ID layout: drive/steer pairs, front right first.
var defaultWheelIDs = map[Wheel]WheelConfig{
	FrontRight: {DriveID: 1, SteerID: 2},
	FrontLeft:  {DriveID: 3, SteerID: 4},
	RearLeft:   {DriveID: 5, SteerID: 6},
	RearRight:  {DriveID: 7, SteerID: 8},
}

// DefaultConfig returns a config with the standard servo ID layout and
// all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Hz <= 0 {
		c.Hz = DefaultHz
	}
	if c.Deadzone <= 0 {
		c.Deadzone = DefaultDeadzone
	}
	if c.SteerQuantum <= 0 {
		c.SteerQuantum = DefaultSteerQuantum
	}
	if c.RotationScale <= 0 {
		c.RotationScale = c.SteerQuantum / (2 * math.Pi)
	}
	if c.MaxDriveSpeed <= 0 {
		c.MaxDriveSpeed = DefaultMaxDriveSpeed
	}
	if len(c.Wheels) == 0 {
		c.Wheels = make(map[Wheel]WheelConfig, len(defaultWheelIDs))
		for w, ids := range defaultWheelIDs {
			c.Wheels[w] = ids
		}
	}
}

// IsCalibrated reports whether a zero reference has been captured for
// every wheel.
func (c *Config) IsCalibrated() bool {
	for _, w := range AllWheels() {
		if _, ok := c.Zeros[w]; !ok {
			return false
		}
	}
	return true
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Unset fields
// take their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
