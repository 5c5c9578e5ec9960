package input

import "testing"

func TestStick_NudgeClamps(t *testing.T) {
	s := NewStick()

	s.Nudge(0.6, -0.3, 0)
	x, y, z := s.Axes()
	if x != 0.6 || y != -0.3 || z != 0 {
		t.Errorf("Axes() = (%v, %v, %v), want (0.6, -0.3, 0)", x, y, z)
	}

	s.Nudge(0.6, 0, 0)
	s.Nudge(0.6, 0, 0)
	x, _, _ = s.Axes()
	if x != 1 {
		t.Errorf("x = %v, want clamped to 1", x)
	}

	s.Center()
	x, y, z = s.Axes()
	if x != 0 || y != 0 || z != 0 {
		t.Errorf("Center left axes at (%v, %v, %v)", x, y, z)
	}
}

func TestStick_SetClamps(t *testing.T) {
	s := NewStick()
	s.Set(2, -3, 0.5)
	x, y, z := s.Axes()
	if x != 1 || y != -1 || z != 0.5 {
		t.Errorf("Axes() = (%v, %v, %v), want (1, -1, 0.5)", x, y, z)
	}
}
