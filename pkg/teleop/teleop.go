// Package teleop runs the fixed-rate teleoperation loop for a swerve
// drivetrain.
package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/swerve/pkg/swerve"
)

// AxisSource supplies joystick axis readings, each in [-1, 1].
type AxisSource interface {
	Axes() (x, y, z float64)
}

// HeadingSource supplies the robot heading in radians, used to make the
// translation vector field-relative.
type HeadingSource interface {
	Heading() float64
}

// FixedHeading is a HeadingSource that always reports the same angle.
// FixedHeading(0) drives robot-relative.
type FixedHeading float64

// Heading implements HeadingSource.
func (f FixedHeading) Heading() float64 { return float64(f) }

// State is one control tick's outcome.
type State struct {
	Sample    swerve.Sample
	Drive     swerve.DriveState
	Positions map[swerve.Wheel]float64
	Timestamp time.Time
	Err       error
}

type command int

const (
	cmdCaptureZero command = iota
	cmdReturnToZero
	cmdReturnToNearestZero
)

// Config holds configuration for the controller.
type Config struct {
	Train   *swerve.Train
	Input   AxisSource
	Heading HeadingSource // nil drives robot-relative
	Hz      int           // 0 means 60
}

// Controller manages the teleoperation control loop: sample the stick,
// run one drivetrain tick, report state.
type Controller struct {
	train   *swerve.Train
	input   AxisSource
	heading HeadingSource
	hz      int

	mu        sync.Mutex
	running   bool
	returning bool // steering back to zero until the stick moves again
	nearest   bool

	cmdCh   chan command
	stateCh chan State
	logCh   chan string
}

// NewController creates a teleoperation controller. The train and input
// source are borrowed for the controller's lifetime.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Train == nil {
		return nil, fmt.Errorf("teleop: nil train")
	}
	if cfg.Input == nil {
		return nil, fmt.Errorf("teleop: nil axis source")
	}
	if cfg.Heading == nil {
		cfg.Heading = FixedHeading(0)
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	return &Controller{
		train:   cfg.Train,
		input:   cfg.Input,
		heading: cfg.Heading,
		hz:      cfg.Hz,
		cmdCh:   make(chan command, 4),
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// CaptureZero asks the loop to record the current wheel orientations as
// the steering zero references on its next tick.
func (c *Controller) CaptureZero() {
	c.send(cmdCaptureZero)
}

// ReturnToZero asks the loop to steer the wheels back to zero while the
// stick stays centered. With nearest set it converges on the closest
// physically equivalent zero instead of the absolute reference.
func (c *Controller) ReturnToZero(nearest bool) {
	if nearest {
		c.send(cmdReturnToNearestZero)
	} else {
		c.send(cmdReturnToZero)
	}
}

func (c *Controller) send(cmd command) {
	select {
	case c.cmdCh <- cmd:
	default:
		// Drop if the loop is behind; the operator can press again.
	}
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start begins the control loop and blocks until ctx is canceled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Teleoperation started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.Step(ctx)
		}
	}
}

// Step runs a single control cycle. Start calls it at the configured
// rate; external runtimes with their own scheduler may call it directly
// instead.
func (c *Controller) Step(ctx context.Context) {
	x, y, z := c.input.Axes()
	s := swerve.Sample{X: x, Y: y, Z: z}
	heading := c.heading.Heading()

	c.drainCommands(ctx)

	// Any real stick input takes over from a pending return-to-zero.
	active := !swerve.InDeadzone(s, c.train.Deadzone())
	if active {
		c.setReturning(false, false)
	}

	var ds swerve.DriveState
	var err error
	if ret, nearest := c.returningState(); ret && !active {
		ds.Deadzone = true
		if err = c.train.SetDriveSpeed(ctx, 0); err == nil {
			if nearest {
				err = c.train.AssumeNearestZeroPosition(ctx)
			} else {
				err = c.train.AssumeZeroPosition(ctx)
			}
		}
	} else {
		ds, err = c.train.Drive(ctx, s, heading)
	}
	if err != nil {
		c.log("Drive error: %v", err)
	}

	positions, perr := c.train.Positions(ctx)
	if perr != nil {
		c.log("Read error: %v", perr)
		if err == nil {
			err = perr
		}
	}

	c.sendState(State{
		Sample:    s,
		Drive:     ds,
		Positions: positions,
		Timestamp: time.Now(),
		Err:       err,
	})
}

func (c *Controller) drainCommands(ctx context.Context) {
	for {
		select {
		case cmd := <-c.cmdCh:
			switch cmd {
			case cmdCaptureZero:
				if err := c.train.SetZeroPosition(ctx, true); err != nil {
					c.log("Capture zero: %v", err)
				} else {
					c.log("Steering zero captured")
				}
			case cmdReturnToZero:
				c.setReturning(true, false)
				c.log("Returning to absolute zero")
			case cmdReturnToNearestZero:
				c.setReturning(true, true)
				c.log("Returning to nearest zero")
			}
		default:
			return
		}
	}
}

func (c *Controller) setReturning(returning, nearest bool) {
	c.mu.Lock()
	c.returning = returning
	c.nearest = nearest
	c.mu.Unlock()
}

func (c *Controller) returningState() (returning, nearest bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.returning, c.nearest
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.train.SetDriveSpeed(ctx, 0); err != nil {
		c.log("Warning: failed to stop drive motors: %v", err)
	}
	if err := c.train.SetSwerveSpeed(ctx, 0); err != nil {
		c.log("Warning: failed to stop steering motors: %v", err)
	}
	c.log("Teleoperation stopped")
}
