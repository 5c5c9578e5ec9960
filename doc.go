// Package swerve provides teleoperated control of a four wheel swerve
// drivetrain built on feetech serial bus servos.
//
// Joystick input becomes a field-relative translation vector and a
// clockwise steering target, broadcast uniformly to all four wheel
// modules. Steering zero calibration is captured from the encoders and
// wheels can return to zero by the shortest path, one steering quantum
// at most.
//
// # Installation
//
//	go install github.com/gwillem/swerve/cmd/swerve@latest
//
// # Usage
//
// First, calibrate the drivetrain with the wheels squared:
//
//	swerve calibrate
//
// Then start driving:
//
//	swerve drive
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/swerve: CLI with calibrate and drive commands
//   - cmd/swerve-info: one-shot drivetrain state dump
//   - pkg/swerve: drivetrain control, kinematics, calibration, config
//   - pkg/teleop: teleoperation control loop
//   - pkg/input: gamepad and virtual stick axis sources
//   - pkg/vision: shared number table and Limelight reads
package swerve
