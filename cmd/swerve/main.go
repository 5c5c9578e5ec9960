package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Calibrate CalibrateCommand `command:"calibrate" description:"Scan for the drivetrain and capture steering zeros"`
	Drive     DriveCommand     `command:"drive" alias:"teleop" description:"Start teleoperated driving"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Swerve - teleoperation CLI for a four wheel swerve drivetrain"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
