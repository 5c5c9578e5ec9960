// swerve-info dumps the state of a connected drivetrain: servo IDs,
// steering positions, zero references, and where a nearest-zero return
// would send each wheel.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/gwillem/swerve/pkg/swerve"
)

func main() {
	fmt.Println("Swerve Drivetrain Info")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	cfg, err := swerve.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'swerve calibrate' first.")
		os.Exit(1)
	}

	fmt.Printf("Port:           %s\n", cfg.Port)
	fmt.Printf("Deadzone:       %.3f\n", cfg.Deadzone)
	fmt.Printf("Steer quantum:  %.3f rotations\n", cfg.SteerQuantum)
	fmt.Printf("Rotation scale: %.4f rotations/radian\n", cfg.RotationScale)
	fmt.Printf("Max speed:      %.2f\n", cfg.MaxDriveSpeed)
	fmt.Println()

	ctx := context.Background()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bus: %v\n", err)
		os.Exit(1)
	}

	servos, err := bus.Scan(ctx, 1, 8)
	bus.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning bus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Servos on bus:  %d of 8\n", len(servos))
	fmt.Println()

	dt, err := swerve.Open(cfg, swerve.NopTelemetry{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening drivetrain: %v\n", err)
		os.Exit(1)
	}
	defer dt.Close()

	positions, err := dt.Positions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading positions: %v\n", err)
		os.Exit(1)
	}
	zeros := dt.ZeroPositions()

	fmt.Printf("%-12s %6s %6s %10s %10s %12s\n",
		"wheel", "drive", "steer", "position", "zero", "nearest zero")
	for _, w := range swerve.AllWheels() {
		ids := cfg.Wheels[w]
		target := swerve.NearestZeroTarget(positions[w], zeros[w], cfg.SteerQuantum)
		fmt.Printf("%-12s %6d %6d %10.3f %10.3f %12.3f\n",
			w, ids.DriveID, ids.SteerID, positions[w], zeros[w], target)
	}

	if !cfg.IsCalibrated() {
		fmt.Println()
		fmt.Println("⚠ Steering zeros not captured. Run 'swerve calibrate'.")
	}
}
