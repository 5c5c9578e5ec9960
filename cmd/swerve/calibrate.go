package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/swerve/pkg/swerve"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type CalibrateCommand struct {
	Port string `long:"port" description:"Serial port of the servo bus (skips scanning)"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Swerve Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	port := c.Port
	if port == "" {
		port = findBusPort()
	}

	cfg := loadOrDefaultConfig()
	cfg.Port = port

	dt, err := swerve.Open(cfg, swerve.NopTelemetry{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening drivetrain: %v\n", err)
		os.Exit(1)
	}
	defer dt.Close()

	ctx := context.Background()

	// Torque off so the wheels can be squared by hand.
	if err := dt.Disable(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error releasing steering motors: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Square the wheels ━━━"))
	fmt.Println("Point every wheel straight ahead. The current steering")
	fmt.Println("positions become the zero references.")
	fmt.Println()

	ready := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Capture steering zeros?").
				Description("All four wheels must point straight ahead.").
				Value(&ready),
		),
	)
	if err := form.Run(); err != nil || !ready {
		fmt.Println("Calibration aborted.")
		os.Exit(1)
	}

	if err := dt.SetZeroPosition(ctx, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error capturing zeros: %v\n", err)
		os.Exit(1)
	}
	cfg.Zeros = dt.ZeroPositions()

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Calibration complete!"))
	for _, w := range swerve.AllWheels() {
		fmt.Printf("  %-12s zero %8.3f\n", w, cfg.Zeros[w])
	}
	fmt.Printf("Configuration saved to %s\n", swerve.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start driving with: " + headerStyle.Render("swerve drive"))

	return nil
}

func loadOrDefaultConfig() *swerve.Config {
	if swerve.ConfigExists() {
		cfg, err := swerve.LoadConfig()
		if err == nil {
			return cfg
		}
		fmt.Fprintf(os.Stderr, "Ignoring unreadable config: %v\n", err)
	}
	return swerve.DefaultConfig()
}

// findBusPort scans serial ports for a bus answering on all eight
// drivetrain servo IDs and exits when none is found.
func findBusPort() string {
	fmt.Println("Scanning for the drivetrain bus...")
	fmt.Println()

	candidates := findDrivetrains()

	if len(candidates) == 0 {
		fmt.Println("No drivetrain found.")
		fmt.Println("Make sure the robot is connected and powered on.")
		os.Exit(1)
	}
	if len(candidates) == 1 {
		fmt.Printf("  Found drivetrain on %s\n", candidates[0])
		return candidates[0]
	}

	var port string
	options := make([]huh.Option[string], 0, len(candidates))
	for _, p := range candidates {
		options = append(options, huh.NewOption(p, p))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Multiple drivetrain buses found").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		os.Exit(1)
	}
	return port
}

func findDrivetrains() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []string

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: 1_000_000,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		// Eight servos: drive/steer pairs for four wheels.
		servos, err := bus.Scan(ctx, 1, 8)
		cancel()
		bus.Close()

		if err != nil {
			continue
		}
		if isDrivetrain(servos) {
			fmt.Printf("  Found drivetrain on %s\n", port)
			found = append(found, port)
		}
	}

	return found
}

func isDrivetrain(servos []feetech.FoundServo) bool {
	if len(servos) != 8 {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= 8; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}
