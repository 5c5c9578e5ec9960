package swerve

import (
	"math"
	"testing"
)

func TestApproachSpeed_EndBehaviors(t *testing.T) {
	tests := []struct {
		remaining float64
		want      float64
	}{
		{10, 1 / (1 + math.Exp(-10+5))},
		{5, 0.5}, // sigmoid midpoint
		{3.5, 1 / (1 + math.Exp(-3.5+5))},
		{1, approachFirstSpeed},
		{0.05, approachFirstSpeed},
		{0.04, approachCrawlSpeed},
		{0.001, approachCrawlSpeed},
	}

	for _, tt := range tests {
		if got := approachSpeed(tt.remaining); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("approachSpeed(%v) = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestApproachSpeed_SignAgnostic(t *testing.T) {
	for _, z := range []float64{0.03, 0.5, 4, 8} {
		if approachSpeed(z) != approachSpeed(-z) {
			t.Errorf("approachSpeed(%v) != approachSpeed(%v)", z, -z)
		}
	}
}

func TestApproachSpeed_MonotoneFarOut(t *testing.T) {
	// Within the sigmoid region, more remaining travel never means a
	// slower approach.
	prev := approachSpeed(approachSigmoidFloor)
	for z := approachSigmoidFloor + 0.25; z <= 12; z += 0.25 {
		cur := approachSpeed(z)
		if cur < prev {
			t.Fatalf("approachSpeed decreased: s(%v) = %v < %v", z, cur, prev)
		}
		prev = cur
	}
}

func TestUnwrapDelta(t *testing.T) {
	tests := []struct {
		name      string
		prev, raw int
		want      int
	}{
		{"no movement", 1000, 1000, 0},
		{"small forward", 1000, 1100, 100},
		{"small backward", 1100, 1000, -100},
		{"wrap forward past 4095", 4000, 100, 196},
		{"wrap backward past 0", 100, 4000, -196},
		{"half rotation stays direct", 0, 2048, 2048},
	}

	for _, tt := range tests {
		if got := unwrapDelta(tt.prev, tt.raw); got != tt.want {
			t.Errorf("%s: unwrapDelta(%d, %d) = %d, want %d",
				tt.name, tt.prev, tt.raw, got, tt.want)
		}
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
		{-2, -1},
		{-0.25, -0.25},
	}
	for _, tt := range tests {
		if got := clampUnit(tt.in); got != tt.want {
			t.Errorf("clampUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
