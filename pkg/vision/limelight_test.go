package vision

import "testing"

func TestTable_DefaultOnMissingKey(t *testing.T) {
	table := NewTable()

	if got := table.Number("tx", 0); got != 0 {
		t.Errorf("missing key = %v, want default 0", got)
	}
	if got := table.Number("tx", -7.5); got != -7.5 {
		t.Errorf("missing key = %v, want default -7.5", got)
	}

	table.Publish("tx", 2.5)
	if got := table.Number("tx", 0); got != 2.5 {
		t.Errorf("published key = %v, want 2.5", got)
	}
}

func TestLimelight_Defaults(t *testing.T) {
	lime := NewLimelight(NewTable())

	if lime.HorizontalOffset() != 0 || lime.VerticalOffset() != 0 || lime.TargetArea() != 0 {
		t.Error("empty table should read all offsets as 0")
	}
	if lime.HasTarget() {
		t.Error("empty table should report no target")
	}
}

func TestLimelight_ReadsTargetFields(t *testing.T) {
	table := NewTable()
	table.Publish("tx", -3.2)
	table.Publish("ty", 1.1)
	table.Publish("ta", 4.7)
	table.Publish("tv", 1)

	lime := NewLimelight(table)
	if got := lime.HorizontalOffset(); got != -3.2 {
		t.Errorf("tx = %v, want -3.2", got)
	}
	if got := lime.VerticalOffset(); got != 1.1 {
		t.Errorf("ty = %v, want 1.1", got)
	}
	if got := lime.TargetArea(); got != 4.7 {
		t.Errorf("ta = %v, want 4.7", got)
	}
	if !lime.HasTarget() {
		t.Error("tv = 1 should report a target")
	}
}

func TestTable_Snapshot(t *testing.T) {
	table := NewTable()
	table.Publish("FR Swrv Pos0", 1.5)
	table.Publish("FL Swrv Pos0", -0.5)

	snap := table.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(snap))
	}
	if snap["FR Swrv Pos0"] != 1.5 {
		t.Errorf("snapshot FR = %v, want 1.5", snap["FR Swrv Pos0"])
	}

	// Snapshot is a copy; mutating it must not touch the table.
	snap["FR Swrv Pos0"] = 99
	if got := table.Number("FR Swrv Pos0", 0); got != 1.5 {
		t.Errorf("table mutated through snapshot: %v", got)
	}
}
