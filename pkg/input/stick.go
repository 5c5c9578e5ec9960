package input

import (
	"math"
	"sync"
)

// Stick is a virtual axis source driven by keyboard input or tests.
type Stick struct {
	mu      sync.Mutex
	x, y, z float64
}

// NewStick creates a centered virtual stick.
func NewStick() *Stick {
	return &Stick{}
}

// Set replaces all three axis values, clamped to [-1, 1].
func (s *Stick) Set(x, y, z float64) {
	s.mu.Lock()
	s.x, s.y, s.z = clampAxis(x), clampAxis(y), clampAxis(z)
	s.mu.Unlock()
}

// Nudge adds deltas to the axes, clamped to [-1, 1].
func (s *Stick) Nudge(dx, dy, dz float64) {
	s.mu.Lock()
	s.x = clampAxis(s.x + dx)
	s.y = clampAxis(s.y + dy)
	s.z = clampAxis(s.z + dz)
	s.mu.Unlock()
}

// Center returns all axes to 0.
func (s *Stick) Center() {
	s.Set(0, 0, 0)
}

// Axes returns the current axis values.
func (s *Stick) Axes() (x, y, z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y, s.z
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
