// Package vision reads vision target data from a shared number table, the
// way a Limelight smart camera publishes it.
package vision

import "sync"

// NumberSource looks up named numeric values, returning def for keys that
// have never been published.
type NumberSource interface {
	Number(key string, def float64) float64
}

// Table is an in-memory number table. It serves both sides of the shared
// table: the camera (or drivetrain telemetry) publishes into it and
// readers look values up with a default.
type Table struct {
	mu     sync.RWMutex
	values map[string]float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]float64)}
}

// Publish stores value under name. It also satisfies the drivetrain's
// telemetry sink.
func (t *Table) Publish(name string, value float64) {
	t.mu.Lock()
	t.values[name] = value
	t.mu.Unlock()
}

// Number implements NumberSource.
func (t *Table) Number(key string, def float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key]; ok {
		return v
	}
	return def
}

// Snapshot returns a copy of everything published so far.
func (t *Table) Snapshot() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Limelight exposes the camera's target fields from a NumberSource. Every
// read defaults to 0 when the camera has not published the key.
type Limelight struct {
	src NumberSource
}

// NewLimelight creates a Limelight reading from src.
func NewLimelight(src NumberSource) *Limelight {
	return &Limelight{src: src}
}

// HorizontalOffset returns the horizontal offset of the target (tx).
func (l *Limelight) HorizontalOffset() float64 {
	return l.src.Number("tx", 0)
}

// VerticalOffset returns the vertical offset of the target (ty).
func (l *Limelight) VerticalOffset() float64 {
	return l.src.Number("ty", 0)
}

// TargetArea returns the area of the target in sight (ta).
func (l *Limelight) TargetArea() float64 {
	return l.src.Number("ta", 0)
}

// HasTarget returns true if a target is in sight (tv).
func (l *Limelight) HasTarget() bool {
	return l.src.Number("tv", 0) != 0
}
