// Package input supplies joystick axis readings to the control loop.
package input

import (
	"fmt"
	"sync"

	"github.com/splace/joysticks"
)

// Gamepad reads a HID game controller through the splace/joysticks event
// stream, caching the most recent axis values so the control loop can
// sample them without blocking. The left stick supplies x/y translation;
// the right stick's x axis supplies z.
type Gamepad struct {
	mu      sync.Mutex
	x, y, z float64

	done chan struct{}
}

// OpenGamepad connects to the HID device at index (1-based, as the
// underlying library counts devices).
func OpenGamepad(index int) (*Gamepad, error) {
	device := joysticks.Connect(index)
	if device == nil {
		return nil, fmt.Errorf("no HID gamepad at index %d", index)
	}

	g := &Gamepad{done: make(chan struct{})}
	left := device.OnMove(1)
	right := device.OnMove(2)
	go device.ParcelOutEvents()
	go g.listen(left, right)
	return g, nil
}

func (g *Gamepad) listen(left, right chan joysticks.Event) {
	for {
		select {
		case <-g.done:
			return
		case ev := <-left:
			if c, ok := ev.(joysticks.CoordsEvent); ok {
				g.mu.Lock()
				g.x = float64(c.X)
				// HID y grows downward; forward is positive y here.
				g.y = -float64(c.Y)
				g.mu.Unlock()
			}
		case ev := <-right:
			if c, ok := ev.(joysticks.CoordsEvent); ok {
				g.mu.Lock()
				g.z = float64(c.X)
				g.mu.Unlock()
			}
		}
	}
}

// Axes returns the latest axis values, each in [-1, 1].
func (g *Gamepad) Axes() (x, y, z float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.x, g.y, g.z
}

// Close stops the event listener.
func (g *Gamepad) Close() error {
	close(g.done)
	return nil
}
